package functional

import (
	"net/url"
	"testing"

	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/authority"
	"github.com/nottyhq/notty/vault/test"
	"github.com/stretchr/testify/assert"
)

func setupCreateAsset(
	t *testing.T,
) (*test.Vault, *test.VaultUser) {
	v := test.CreateVault(t)
	u := v.CreateUser(t)
	return v, u
}

func TestCreateAsset(
	t *testing.T,
) {
	t.Parallel()
	v, u := setupCreateAsset(t)
	defer v.Close()

	status, raw := u.Post(t, "/assets", url.Values{
		"name":   {"Notty Coin"},
		"symbol": {"NOTTY"},
		"uri":    {"https://notty.example/meta.json"},
	})

	assert.Equal(t, 201, status)

	var asset vault.AssetResource
	err := raw.Extract("asset", &asset)
	assert.Nil(t, err)

	assert.Regexp(t, vault.IDRegexp, asset.ID)
	assert.Equal(t, u.Address, asset.Creator)
	assert.Equal(t, "Notty Coin", asset.Name)
	assert.Equal(t, "NOTTY", asset.Symbol)
	assert.Equal(t, "https://notty.example/meta.json", asset.URI)
	assert.Equal(t, vault.Decimals, asset.Decimals)

	// Minting control was handed to the derived mint authority.
	assert.Equal(t,
		authority.Derive(authority.RoleMint, asset.ID),
		asset.MintAuthority)

	// The metadata was published to the registry.
	assert.Equal(t, 1, len(v.Registry.Registrations))
	assert.Equal(t, asset.ID, v.Registry.Registrations[0].Asset)
	assert.Equal(t, "Notty Coin", v.Registry.Registrations[0].Name)
	assert.Equal(t, "NOTTY", v.Registry.Registrations[0].Symbol)

	// The asset is publicly retrievable.
	status, raw = v.Get(t, "/assets/"+asset.ID)
	assert.Equal(t, 200, status)

	var retrieved vault.AssetResource
	err = raw.Extract("asset", &retrieved)
	assert.Nil(t, err)
	assert.Equal(t, asset.ID, retrieved.ID)
}

func TestCreateAssetWithInvalidSymbol(
	t *testing.T,
) {
	t.Parallel()
	v, u := setupCreateAsset(t)
	defer v.Close()

	status, raw := u.Post(t, "/assets", url.Values{
		"name":   {"Notty Coin"},
		"symbol": {"notty"},
		"uri":    {"https://notty.example/meta.json"},
	})

	assert.Equal(t, 400, status)

	var e errors.ConcreteUserError
	err := raw.Extract("error", &e)
	assert.Nil(t, err)
	assert.Equal(t, "symbol_invalid", e.Code)
}

func TestCreateAssetWithDuplicateSymbol(
	t *testing.T,
) {
	t.Parallel()
	v, u := setupCreateAsset(t)
	defer v.Close()

	u.CreateAsset(t, "Notty Coin", "NOTTY", "https://notty.example/meta.json")

	status, raw := u.Post(t, "/assets", url.Values{
		"name":   {"Notty Coin Again"},
		"symbol": {"NOTTY"},
		"uri":    {"https://notty.example/meta2.json"},
	})

	assert.Equal(t, 400, status)

	var e errors.ConcreteUserError
	err := raw.Extract("error", &e)
	assert.Nil(t, err)
	assert.Equal(t, "asset_already_exists", e.Code)
}

func TestCreateAssetRegistryFailureLeavesNoState(
	t *testing.T,
) {
	t.Parallel()
	v, u := setupCreateAsset(t)
	defer v.Close()

	v.Registry.FailNext = true

	status, raw := u.Post(t, "/assets", url.Values{
		"name":   {"Notty Coin"},
		"symbol": {"NOTTY"},
		"uri":    {"https://notty.example/meta.json"},
	})

	assert.Equal(t, 400, status)

	var e errors.ConcreteUserError
	err := raw.Extract("error", &e)
	assert.Nil(t, err)
	assert.Equal(t, "metadata_registration_failed", e.Code)

	// The aborted creation left no asset behind.
	status, raw = v.Get(t, "/assets")
	assert.Equal(t, 200, status)

	var assets []vault.AssetResource
	err = raw.Extract("assets", &assets)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(assets))
}

func TestCreateAssetRequiresAuthentication(
	t *testing.T,
) {
	t.Parallel()
	v, _ := setupCreateAsset(t)
	defer v.Close()

	r, err := postFormUnauthenticated(v, "/assets", url.Values{
		"name":   {"Notty Coin"},
		"symbol": {"NOTTY"},
		"uri":    {"https://notty.example/meta.json"},
	})
	assert.Nil(t, err)
	assert.Equal(t, 400, r.StatusCode)
	r.Body.Close()

	// Public reads skip authentication.
	status, _ := v.Get(t, "/assets")
	assert.Equal(t, 200, status)
}
