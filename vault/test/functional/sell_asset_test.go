package functional

import (
	"net/url"
	"testing"

	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/test"
	"github.com/stretchr/testify/assert"
)

func setupSellAsset(
	t *testing.T,
) (*test.Vault, *test.VaultUser, *test.VaultUser,
	vault.AssetResource, vault.VaultResource) {
	v := test.CreateVault(t)
	creator := v.CreateUser(t)
	seller := v.CreateUser(t)

	asset, vlt := creator.CreateAssetWithVault(t,
		"Notty Coin", "NOTTY", "https://notty.example/meta.json",
		1000000000, 10000000000, false)

	v.CreditFund(t, seller.Address, 5000000000)
	status, _ := seller.Post(t, "/assets/"+asset.ID+"/buy", url.Values{
		"amount": {"2000000000"},
	})
	assert.Equal(t, 200, status)

	return v, creator, seller, asset, vlt
}

func TestSellAsset(
	t *testing.T,
) {
	t.Parallel()
	v, creator, seller, asset, vlt := setupSellAsset(t)
	defer v.Close()

	// After the buy the value store holds the net of the purchase
	// (1_960_000_000), short of the 2_000_000_000 gross refund. Top it up
	// the way the operator would provision it.
	v.CreditFund(t, vlt.ValueStore, 1000000000)

	status, raw := seller.Post(t, "/assets/"+asset.ID+"/sell", url.Values{
		"amount": {"2000000000"},
	})

	assert.Equal(t, 200, status)

	var trade vault.EventResource
	err := raw.Extract("trade", &trade)
	assert.Nil(t, err)

	assert.Equal(t, vault.EvKdTrade, trade.Kind)
	assert.Equal(t, seller.Address, *trade.User)
	assert.Equal(t, vault.TrDrSell, *trade.Direction)
	assert.Equal(t, uint64(2000000000), *trade.ValueAmount)
	assert.Equal(t, uint64(2000000000), *trade.TokenAmount)

	// The tokens went back to the store and the seller got the net refund
	// (1_960_000_000); both fee recipients accrued a second 20_000_000 on
	// top of the buy's fees.
	assert.Equal(t, uint64(0),
		v.BalanceValue(t, asset.ID, seller.Address))
	assert.Equal(t, uint64(10000000000),
		v.BalanceValue(t, asset.ID, vlt.TokenStore))

	assert.Equal(t, uint64(4960000000), v.FundValue(t, seller.Address))
	assert.Equal(t, uint64(960000000), v.FundValue(t, vlt.ValueStore))
	assert.Equal(t, uint64(40000000), v.FundValue(t, v.Owner))
	assert.Equal(t, uint64(40000000), v.FundValue(t, creator.Address))

	// Both trades are listed, most recent first.
	status, raw = v.Get(t, "/assets/"+asset.ID+"/trades")
	assert.Equal(t, 200, status)

	var trades []vault.EventResource
	err = raw.Extract("trades", &trades)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(trades))
	assert.Equal(t, vault.TrDrSell, *trades[0].Direction)
	assert.Equal(t, vault.TrDrBuy, *trades[1].Direction)
}

func TestSellAssetVaultInsufficientFunds(
	t *testing.T,
) {
	t.Parallel()
	v, _, seller, asset, vlt := setupSellAsset(t)
	defer v.Close()

	// The value store only holds the net of the buy (1_960_000_000), below
	// the 2_000_000_000 gross refund required by the sale.
	status, raw := seller.Post(t, "/assets/"+asset.ID+"/sell", url.Values{
		"amount": {"2000000000"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "vault_insufficient_funds")

	// The aborted settlement left every holding untouched.
	assert.Equal(t, uint64(2000000000),
		v.BalanceValue(t, asset.ID, seller.Address))
	assert.Equal(t, uint64(1960000000), v.FundValue(t, vlt.ValueStore))
}

func TestSellAssetInsufficientTokens(
	t *testing.T,
) {
	t.Parallel()
	v, _, _, asset, vlt := setupSellAsset(t)
	defer v.Close()

	v.CreditFund(t, vlt.ValueStore, 10000000000)

	// A user holding no units of the asset cannot sell.
	other := v.CreateUser(t)
	status, raw := other.Post(t, "/assets/"+asset.ID+"/sell", url.Values{
		"amount": {"1000000000"},
	})

	assert.Equal(t, 400, status)
	extractError(t, raw, "insufficient_funds")
}
