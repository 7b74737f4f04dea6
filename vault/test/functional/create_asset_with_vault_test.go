package functional

import (
	"net/url"
	"testing"

	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/authority"
	"github.com/nottyhq/notty/vault/test"
	"github.com/stretchr/testify/assert"
)

func setupCreateAssetWithVault(
	t *testing.T,
) (*test.Vault, *test.VaultUser) {
	v := test.CreateVault(t)
	u := v.CreateUser(t)
	return v, u
}

func TestCreateAssetWithVault(
	t *testing.T,
) {
	t.Parallel()
	v, u := setupCreateAssetWithVault(t)
	defer v.Close()

	asset, vlt := u.CreateAssetWithVault(t,
		"Notty Coin", "NOTTY", "https://notty.example/meta.json",
		1000000000, 10000000000, false)

	assert.Equal(t, asset.ID, vlt.Asset)
	assert.Equal(t,
		authority.Derive(authority.RoleVault, asset.ID), vlt.Authority)
	assert.Equal(t,
		authority.Derive(authority.RoleTokenStore, asset.ID), vlt.TokenStore)
	assert.Equal(t, authority.ValueStore(), vlt.ValueStore)
	assert.Equal(t, uint64(1000000000), vlt.PricePerToken)

	// The initial supply was minted into the token store.
	assert.Equal(t, uint64(10000000000),
		v.BalanceValue(t, asset.ID, vlt.TokenStore))

	// No initial purchase was performed.
	assert.Equal(t, uint64(0), v.BalanceValue(t, asset.ID, u.Address))
	assert.Equal(t, uint64(0), v.FundValue(t, vlt.ValueStore))
}

func TestCreateAssetWithVaultAndInitialBuy(
	t *testing.T,
) {
	t.Parallel()
	v, u := setupCreateAssetWithVault(t)
	defer v.Close()

	// tokens = 40% of 1_000_000_000_000, value = tokens * 1000 (the initial
	// purchase price is not divided by the unit divisor and carries no fee).
	v.CreditFund(t, u.Address, 500000000000000)

	asset, vlt := u.CreateAssetWithVault(t,
		"Notty Coin", "NOTTY", "https://notty.example/meta.json",
		1000, 1000000000000, true)

	assert.Equal(t, uint64(400000000000),
		v.BalanceValue(t, asset.ID, u.Address))
	assert.Equal(t, uint64(600000000000),
		v.BalanceValue(t, asset.ID, vlt.TokenStore))

	assert.Equal(t, uint64(400000000000000), v.FundValue(t, vlt.ValueStore))
	assert.Equal(t, uint64(100000000000000), v.FundValue(t, u.Address))
}

func TestCreateAssetWithVaultInitialBuyOverflow(
	t *testing.T,
) {
	t.Parallel()
	v, u := setupCreateAssetWithVault(t)
	defer v.Close()

	// 400_000_000_000 * 1_000_000_000 does not fit in 64 bits.
	status, raw := u.Post(t, "/assets/vault", url.Values{
		"name":            {"Notty Coin"},
		"symbol":          {"NOTTY"},
		"uri":             {"https://notty.example/meta.json"},
		"price_per_token": {"1000000000"},
		"initial_supply":  {"1000000000000"},
		"should_user_buy": {"true"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "numerical_overflow")

	// The whole creation was aborted.
	status, raw = v.Get(t, "/assets")
	assert.Equal(t, 200, status)

	var assets []vault.AssetResource
	err := raw.Extract("assets", &assets)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(assets))
}

func TestCreateAssetWithVaultInitialBuyInsufficientFunds(
	t *testing.T,
) {
	t.Parallel()
	v, u := setupCreateAssetWithVault(t)
	defer v.Close()

	// The initial purchase requires 400_000_000_000 * 1000.
	v.CreditFund(t, u.Address, 1000)

	status, raw := u.Post(t, "/assets/vault", url.Values{
		"name":            {"Notty Coin"},
		"symbol":          {"NOTTY"},
		"uri":             {"https://notty.example/meta.json"},
		"price_per_token": {"1000"},
		"initial_supply":  {"1000000000000"},
		"should_user_buy": {"true"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "insufficient_funds")

	// The user's fund was left untouched.
	assert.Equal(t, uint64(1000), v.FundValue(t, u.Address))
}
