package functional

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nottyhq/notty/lib/env"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/async"
	"github.com/nottyhq/notty/vault/test"
	"github.com/stretchr/testify/assert"
)

func TestPropagateEvent(
	t *testing.T,
) {
	t.Parallel()
	v := test.CreateVault(t)
	defer v.Close()
	u := v.CreateUser(t)

	mutex := sync.Mutex{}
	received := []vault.EventResource{}
	observer := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var e vault.EventResource
			err := json.NewDecoder(r.Body).Decode(&e)
			assert.Nil(t, err)
			assert.Equal(t, "/events", r.URL.Path)

			mutex.Lock()
			received = append(received, e)
			mutex.Unlock()
		}))
	defer observer.Close()

	env.Get(v.Ctx).Config[vault.EnvCfgObserverURL] = observer.URL

	asset := u.CreateAsset(t,
		"Notty Coin", "NOTTY", "https://notty.example/meta.json")

	// No worker runs in tests, execute the queued propagation synchronously.
	async.TestRunOne(v.Ctx)

	mutex.Lock()
	defer mutex.Unlock()
	assert.Equal(t, 1, len(received))
	assert.Equal(t, vault.EvKdAssetCreated, received[0].Kind)
	assert.Equal(t, asset.ID, received[0].Asset)
	assert.Equal(t, u.Address, *received[0].User)
	assert.Equal(t, "NOTTY", *received[0].Symbol)
	assert.Equal(t, vault.Decimals, *received[0].Decimals)
}

func TestPropagateEventWithoutObserver(
	t *testing.T,
) {
	t.Parallel()
	v := test.CreateVault(t)
	defer v.Close()
	u := v.CreateUser(t)

	u.CreateAsset(t,
		"Notty Coin", "NOTTY", "https://notty.example/meta.json")

	// With no observer configured the task is a no-op and must not error.
	async.TestRunOne(v.Ctx)
}
