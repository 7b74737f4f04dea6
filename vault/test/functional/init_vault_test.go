package functional

import (
	"net/url"
	"testing"

	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/authority"
	"github.com/nottyhq/notty/vault/test"
	"github.com/stretchr/testify/assert"
)

func setupInitVault(
	t *testing.T,
) (*test.Vault, *test.VaultUser, vault.AssetResource) {
	v := test.CreateVault(t)
	u := v.CreateUser(t)
	a := u.CreateAsset(t,
		"Notty Coin", "NOTTY", "https://notty.example/meta.json")
	return v, u, a
}

func TestInitVault(
	t *testing.T,
) {
	t.Parallel()
	v, u, a := setupInitVault(t)
	defer v.Close()

	status, raw := u.Post(t, "/assets/"+a.ID+"/vault", url.Values{
		"price_per_token": {"1000000000"},
		"initial_supply":  {"10000000000"},
	})

	assert.Equal(t, 201, status)

	var vlt vault.VaultResource
	err := raw.Extract("vault", &vlt)
	assert.Nil(t, err)

	assert.Equal(t, a.ID, vlt.Asset)
	assert.Equal(t, uint64(1000000000), vlt.PricePerToken)
	assert.Equal(t,
		authority.Derive(authority.RoleVault, a.ID), vlt.Authority)
	assert.Equal(t,
		authority.Derive(authority.RoleTokenStore, a.ID), vlt.TokenStore)
	assert.Equal(t, authority.ValueStore(), vlt.ValueStore)

	assert.Equal(t, uint64(10000000000),
		v.BalanceValue(t, a.ID, vlt.TokenStore))

	// Reading the vault back returns the stored record unchanged.
	status, raw = v.Get(t, "/assets/"+a.ID+"/vault")
	assert.Equal(t, 200, status)

	var retrieved vault.VaultResource
	err = raw.Extract("vault", &retrieved)
	assert.Nil(t, err)
	assert.Equal(t, vlt.ID, retrieved.ID)
	assert.Equal(t, uint64(1000000000), retrieved.PricePerToken)
	assert.Equal(t, vlt.TokenStore, retrieved.TokenStore)
	assert.Equal(t, vlt.ValueStore, retrieved.ValueStore)
}

func TestInitVaultTwiceFails(
	t *testing.T,
) {
	t.Parallel()
	v, u, a := setupInitVault(t)
	defer v.Close()

	status, _ := u.Post(t, "/assets/"+a.ID+"/vault", url.Values{
		"price_per_token": {"1000000000"},
		"initial_supply":  {"10000000000"},
	})
	assert.Equal(t, 201, status)

	status, raw := u.Post(t, "/assets/"+a.ID+"/vault", url.Values{
		"price_per_token": {"2000000000"},
		"initial_supply":  {"10000000000"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "vault_already_exists")
}

func TestInitVaultUnknownAsset(
	t *testing.T,
) {
	t.Parallel()
	v, u, _ := setupInitVault(t)
	defer v.Close()

	status, raw := u.Post(t, "/assets/asset_unknown/vault", url.Values{
		"price_per_token": {"1000000000"},
		"initial_supply":  {"10000000000"},
	})

	assert.Equal(t, 404, status)
	extractError(t, raw, "asset_not_found")
}

func TestInitVaultInvalidPrice(
	t *testing.T,
) {
	t.Parallel()
	v, u, a := setupInitVault(t)
	defer v.Close()

	status, raw := u.Post(t, "/assets/"+a.ID+"/vault", url.Values{
		"price_per_token": {"-1"},
		"initial_supply":  {"10000000000"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "price_per_token_invalid")
}
