package functional

import (
	"net/url"
	"testing"

	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/test"
	"github.com/stretchr/testify/assert"
)

func setupBuyAsset(
	t *testing.T,
) (*test.Vault, *test.VaultUser, *test.VaultUser,
	vault.AssetResource, vault.VaultResource) {
	v := test.CreateVault(t)
	creator := v.CreateUser(t)
	buyer := v.CreateUser(t)

	asset, vlt := creator.CreateAssetWithVault(t,
		"Notty Coin", "NOTTY", "https://notty.example/meta.json",
		1000000000, 10000000000, false)

	return v, creator, buyer, asset, vlt
}

func TestBuyAsset(
	t *testing.T,
) {
	t.Parallel()
	v, creator, buyer, asset, vlt := setupBuyAsset(t)
	defer v.Close()

	v.CreditFund(t, buyer.Address, 3000000000)

	status, raw := buyer.Post(t, "/assets/"+asset.ID+"/buy", url.Values{
		"amount": {"2000000000"},
	})

	assert.Equal(t, 200, status)

	var trade vault.EventResource
	err := raw.Extract("trade", &trade)
	assert.Nil(t, err)

	assert.Equal(t, vault.EvKdTrade, trade.Kind)
	assert.Equal(t, asset.ID, trade.Asset)
	assert.Equal(t, buyer.Address, *trade.User)
	assert.Equal(t, vault.TrDrBuy, *trade.Direction)
	assert.Equal(t, uint64(2000000000), *trade.ValueAmount)
	assert.Equal(t, uint64(2000000000), *trade.TokenAmount)

	// total_cost = 2_000_000_000, fee = 40_000_000, split 20/20, net to the
	// value store = 1_960_000_000.
	assert.Equal(t, uint64(1000000000), v.FundValue(t, buyer.Address))
	assert.Equal(t, uint64(1960000000), v.FundValue(t, vlt.ValueStore))
	assert.Equal(t, uint64(20000000), v.FundValue(t, v.Owner))
	assert.Equal(t, uint64(20000000), v.FundValue(t, creator.Address))

	assert.Equal(t, uint64(2000000000),
		v.BalanceValue(t, asset.ID, buyer.Address))
	assert.Equal(t, uint64(8000000000),
		v.BalanceValue(t, asset.ID, vlt.TokenStore))

	// The trade shows up in the asset's trade list.
	status, raw = v.Get(t, "/assets/"+asset.ID+"/trades")
	assert.Equal(t, 200, status)

	var trades []vault.EventResource
	err = raw.Extract("trades", &trades)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(trades))
	assert.Equal(t, trade.ID, trades[0].ID)
}

func TestBuyAssetInsufficientFunds(
	t *testing.T,
) {
	t.Parallel()
	v, _, buyer, asset, vlt := setupBuyAsset(t)
	defer v.Close()

	v.CreditFund(t, buyer.Address, 1000000000)

	status, raw := buyer.Post(t, "/assets/"+asset.ID+"/buy", url.Values{
		"amount": {"2000000000"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "insufficient_funds")

	// The aborted settlement left every holding untouched.
	assert.Equal(t, uint64(1000000000), v.FundValue(t, buyer.Address))
	assert.Equal(t, uint64(0),
		v.BalanceValue(t, asset.ID, buyer.Address))
	assert.Equal(t, uint64(10000000000),
		v.BalanceValue(t, asset.ID, vlt.TokenStore))
}

func TestBuyAssetVaultInsufficientTokens(
	t *testing.T,
) {
	t.Parallel()
	v, _, buyer, asset, vlt := setupBuyAsset(t)
	defer v.Close()

	v.CreditFund(t, buyer.Address, 30000000000)

	status, raw := buyer.Post(t, "/assets/"+asset.ID+"/buy", url.Values{
		"amount": {"20000000000"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "vault_insufficient_tokens")

	// The value legs executed before the token leg were rolled back.
	assert.Equal(t, uint64(30000000000), v.FundValue(t, buyer.Address))
	assert.Equal(t, uint64(0), v.FundValue(t, vlt.ValueStore))
}

func TestBuyAssetNumericalOverflow(
	t *testing.T,
) {
	t.Parallel()
	v, _, buyer, asset, _ := setupBuyAsset(t)
	defer v.Close()

	status, raw := buyer.Post(t, "/assets/"+asset.ID+"/buy", url.Values{
		"amount": {"18446744073709551615"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "numerical_overflow")
}

func TestBuyAssetWithoutVault(
	t *testing.T,
) {
	t.Parallel()
	v := test.CreateVault(t)
	defer v.Close()
	u := v.CreateUser(t)

	asset := u.CreateAsset(t,
		"Notty Coin", "NOTTY", "https://notty.example/meta.json")

	status, raw := u.Post(t, "/assets/"+asset.ID+"/buy", url.Values{
		"amount": {"1000000000"},
	})

	assert.Equal(t, 404, status)
	extractError(t, raw, "vault_not_found")
}
