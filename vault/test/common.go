package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	goji "goji.io"

	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/env"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/recoverer"
	"github.com/nottyhq/notty/lib/requestlogger"
	"github.com/nottyhq/notty/lib/svc"
	"github.com/nottyhq/notty/lib/token"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/app"
	"github.com/nottyhq/notty/vault/async"
	"github.com/nottyhq/notty/vault/lib/authentication"
	"github.com/nottyhq/notty/vault/model"
	"github.com/nottyhq/notty/vault/registry"

	// force initialization of schemas
	_ "github.com/nottyhq/notty/vault/model/schemas"
)

// Registration records one metadata registration received by the test
// registry.
type Registration struct {
	Asset  string
	Name   string
	Symbol string
	URI    string
}

// Registry is an in-memory metadata registry recording registrations. It can
// be instructed to fail the next registration to exercise abort paths.
type Registry struct {
	mutex         sync.Mutex
	Registrations []Registration
	FailNext      bool
}

// Register implements registry.Registry.
func (r *Registry) Register(
	ctx context.Context,
	asset string,
	name string,
	symbol string,
	uri string,
) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.FailNext {
		r.FailNext = false
		return errors.Newf("Registry failure (requested by test)")
	}
	r.Registrations = append(r.Registrations, Registration{
		Asset:  asset,
		Name:   name,
		Symbol: symbol,
		URI:    uri,
	})
	return nil
}

// Vault represents a test vault service backed by an in-memory DB.
type Vault struct {
	Server   *httptest.Server
	Ctx      context.Context
	Registry *Registry
	Owner    string
}

// CreateVault creates a new test vault with an in-memory DB and an in-memory
// metadata registry.
func CreateVault(
	t *testing.T,
) *Vault {
	ctx := context.Background()

	owner := "owner@127.0.0.1"

	vaultEnv := env.Env{
		Environment: env.QA,
		Config: map[env.ConfigKey]string{
			vault.EnvCfgHost:  "127.0.0.1",
			vault.EnvCfgOwner: owner,
		},
	}
	ctx = env.With(ctx, &vaultEnv)

	vaultDB, err := db.NewSqlite3DBInMemory(ctx)
	if err != nil {
		t.Fatalf("test vault setup failed: %+v", err)
	}
	err = db.CreateDBTables(ctx, vaultDB)
	if err != nil {
		t.Fatalf("test vault setup failed: %+v", err)
	}
	ctx = db.WithDB(ctx, vaultDB)

	ctx = async.With(ctx, async.NewAsync(ctx))

	reg := &Registry{}
	ctx = registry.With(ctx, reg)

	mux := goji.NewMux()
	mux.Use(requestlogger.Middleware)
	mux.Use(recoverer.Middleware)
	mux.Use(db.Middleware(db.GetDB(ctx)))
	mux.Use(env.Middleware(env.Get(ctx)))
	mux.Use(registry.Middleware(reg))
	mux.Use(async.Middleware(async.Get(ctx)))
	mux.Use(authentication.Middleware)

	(&app.Controller{}).Bind(mux)

	return &Vault{
		Server:   httptest.NewServer(mux),
		Ctx:      ctx,
		Registry: reg,
		Owner:    owner,
	}
}

// Close closes the test vault.
func (v *Vault) Close() {
	v.Server.Close()
}

// VaultUser represents a user of a test vault.
type VaultUser struct {
	Vault    *Vault
	Username string
	Password string
	Address  string
}

// CreateUser creates a new user on the test vault.
func (v *Vault) CreateUser(
	t *testing.T,
) *VaultUser {
	username := token.RandStr()
	password := token.RandStr()

	ctx := db.Begin(v.Ctx)
	defer db.LoggedRollback(ctx)

	_, err := model.CreateUser(ctx, username, password)
	if err != nil {
		t.Fatalf("test user creation failed: %+v", err)
	}

	db.Commit(ctx)

	return &VaultUser{
		Vault:    v,
		Username: username,
		Password: password,
		Address:  fmt.Sprintf("%s@%s", username, vault.GetHost(v.Ctx)),
	}
}

// CreditFund credits the provided holder with backing value, the way the
// operator tooling provisions users.
func (v *Vault) CreditFund(
	t *testing.T,
	holder string,
	amount uint64,
) {
	ctx := db.Begin(v.Ctx)
	defer db.LoggedRollback(ctx)

	_, err := model.CreditFund(ctx, holder, model.Amount(amount))
	if err != nil {
		t.Fatalf("test fund credit failed: %+v", err)
	}

	db.Commit(ctx)
}

// FundValue returns the current backing value held by the provided holder, 0
// if no fund exists.
func (v *Vault) FundValue(
	t *testing.T,
	holder string,
) uint64 {
	fund, err := model.LoadFundByHolder(v.Ctx, holder)
	if err != nil {
		t.Fatalf("test fund load failed: %+v", err)
	}
	if fund == nil {
		return 0
	}
	return uint64(fund.Value)
}

// BalanceValue returns the current asset units held by the provided holder,
// 0 if no balance exists.
func (v *Vault) BalanceValue(
	t *testing.T,
	asset string,
	holder string,
) uint64 {
	balance, err := model.LoadBalanceByAssetHolder(v.Ctx, asset, holder)
	if err != nil {
		t.Fatalf("test balance load failed: %+v", err)
	}
	if balance == nil {
		return 0
	}
	return uint64(balance.Value)
}

func extractResp(
	t *testing.T,
	r *http.Response,
) (int, svc.Resp) {
	defer r.Body.Close()

	var raw svc.Resp
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		t.Fatalf("test response decoding failed: %+v", err)
	}
	return r.StatusCode, raw
}

// Post performs an authenticated POST request on the test vault.
func (u *VaultUser) Post(
	t *testing.T,
	path string,
	params url.Values,
) (int, svc.Resp) {
	req, err := http.NewRequest("POST",
		u.Vault.Server.URL+path,
		strings.NewReader(params.Encode()))
	if err != nil {
		t.Fatalf("test request failed: %+v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(u.Username, u.Password)

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("test request failed: %+v", err)
	}
	return extractResp(t, r)
}

// Get performs an authenticated GET request on the test vault.
func (u *VaultUser) Get(
	t *testing.T,
	path string,
) (int, svc.Resp) {
	req, err := http.NewRequest("GET", u.Vault.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("test request failed: %+v", err)
	}
	req.SetBasicAuth(u.Username, u.Password)

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("test request failed: %+v", err)
	}
	return extractResp(t, r)
}

// Get performs an unauthenticated GET request on the test vault.
func (v *Vault) Get(
	t *testing.T,
	path string,
) (int, svc.Resp) {
	r, err := http.Get(v.Server.URL + path)
	if err != nil {
		t.Fatalf("test request failed: %+v", err)
	}
	return extractResp(t, r)
}

// CreateAsset creates an asset on the test vault on behalf of the user.
func (u *VaultUser) CreateAsset(
	t *testing.T,
	name string,
	symbol string,
	uri string,
) vault.AssetResource {
	status, raw := u.Post(t, "/assets", url.Values{
		"name":   {name},
		"symbol": {symbol},
		"uri":    {uri},
	})
	if status != 201 {
		t.Fatalf("test asset creation failed: status=%d", status)
	}

	var asset vault.AssetResource
	if err := raw.Extract("asset", &asset); err != nil {
		t.Fatalf("test asset creation failed: %+v", err)
	}
	return asset
}

// CreateAssetWithVault creates an asset along with its vault on the test
// vault on behalf of the user.
func (u *VaultUser) CreateAssetWithVault(
	t *testing.T,
	name string,
	symbol string,
	uri string,
	pricePerToken uint64,
	initialSupply uint64,
	shouldUserBuy bool,
) (vault.AssetResource, vault.VaultResource) {
	status, raw := u.Post(t, "/assets/vault", url.Values{
		"name":            {name},
		"symbol":          {symbol},
		"uri":             {uri},
		"price_per_token": {fmt.Sprintf("%d", pricePerToken)},
		"initial_supply":  {fmt.Sprintf("%d", initialSupply)},
		"should_user_buy": {fmt.Sprintf("%t", shouldUserBuy)},
	})
	if status != 201 {
		t.Fatalf("test asset with vault creation failed: status=%d", status)
	}

	var asset vault.AssetResource
	if err := raw.Extract("asset", &asset); err != nil {
		t.Fatalf("test asset with vault creation failed: %+v", err)
	}
	var vlt vault.VaultResource
	if err := raw.Extract("vault", &vlt); err != nil {
		t.Fatalf("test asset with vault creation failed: %+v", err)
	}
	return asset, vlt
}
