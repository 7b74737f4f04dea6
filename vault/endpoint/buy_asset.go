package endpoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/format"
	"github.com/nottyhq/notty/lib/ptr"
	"github.com/nottyhq/notty/lib/svc"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/async"
	"github.com/nottyhq/notty/vault/async/task"
	"github.com/nottyhq/notty/vault/lib/authentication"
	"github.com/nottyhq/notty/vault/model"
)

const (
	// EndPtBuyAsset purchases asset units from the vault at its fixed price.
	EndPtBuyAsset EndPtName = "BuyAsset"
)

func init() {
	registrar[EndPtBuyAsset] = NewBuyAsset
}

// BuyAsset controls the purchase of asset units from a vault.
type BuyAsset struct {
	Buyer  string
	Asset  string
	Amount uint64
}

// NewBuyAsset constructs and initializes the endpoint.
func NewBuyAsset(
	r *http.Request,
) (Endpoint, error) {
	return &BuyAsset{}, nil
}

// Validate validates the input parameters.
func (e *BuyAsset) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.Buyer = fmt.Sprintf("%s@%s",
		authentication.Get(ctx).User.Username, vault.GetHost(ctx))

	asset, err := validateAsset(r)
	if err != nil {
		return errors.Trace(err)
	}
	e.Asset = asset

	amount, err := validateUint64(r, "amount")
	if err != nil {
		return errors.Trace(err)
	}
	e.Amount = amount

	return nil
}

// Execute executes the endpoint. The four settlement legs (net value to the
// value store, the two fee legs, tokens out of the token store) run in one
// transaction: a failing leg leaves no effect behind.
func (e *BuyAsset) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	asset, vlt, err := loadAssetAndVault(ctx, e.Asset)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	total, ok := vault.TradeValue(uint64(vlt.PricePerToken), e.Amount)
	if !ok {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			400, "numerical_overflow",
			"The trade sizing overflows the representable value range "+
				"(price_per_token: %d, amount: %d).",
			uint64(vlt.PricePerToken), e.Amount,
		))
	}
	fee, creatorFee, ownerFee := vault.SplitFee(total)
	net := total - fee

	fund, err := model.LoadFundByHolder(ctx, e.Buyer)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	available := uint64(0)
	if fund != nil {
		available = uint64(fund.Value)
	}
	if available < total {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			400, "insufficient_funds",
			"Your available value (%d) is below the total cost of the "+
				"purchase (%d).",
			available, total,
		))
	}

	err = model.TransferValue(ctx,
		e.Buyer, vlt.ValueStore, model.Amount(net), e.Buyer)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	err = model.TransferValue(ctx,
		e.Buyer, vault.GetOwner(ctx), model.Amount(ownerFee), e.Buyer)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	err = model.TransferValue(ctx,
		e.Buyer, asset.Creator, model.Amount(creatorFee), e.Buyer)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	err = model.TransferAsset(ctx, asset.Token,
		vlt.TokenStore, e.Buyer, model.Amount(e.Amount), vlt.Authority)
	if err != nil {
		switch errors.Cause(err).(type) {
		case model.ErrInsufficientBalance:
			return nil, nil, errors.Trace(errors.NewUserErrorf(err,
				400, "vault_insufficient_tokens",
				"The vault's token store does not hold the requested "+
					"amount: %d.",
				e.Amount,
			))
		default:
			return nil, nil, errors.Trace(err) // 500
		}
	}

	direction := vault.TrDrBuy
	valueAmount := model.Amount(total)
	tokenAmount := model.Amount(e.Amount)
	event, err := model.CreateEvent(ctx, model.Event{
		Kind:        vault.EvKdTrade,
		Asset:       asset.Token,
		User:        ptr.Str(e.Buyer),
		Direction:   &direction,
		ValueAmount: &valueAmount,
		TokenAmount: &tokenAmount,
	})
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	db.Commit(ctx)

	err = async.Queue(ctx, task.NewPropagateEvent(ctx, event.Token))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"trade": format.JSONPtr(model.NewEventResource(ctx, event)),
	}, nil
}

// loadAssetAndVault loads the asset designated by the path parameter along
// with its vault, erroring if either does not exist.
func loadAssetAndVault(
	ctx context.Context,
	token string,
) (*model.Asset, *model.Vault, error) {
	asset, err := model.LoadAssetByToken(ctx, token)
	if err != nil {
		return nil, nil, errors.Trace(err)
	} else if asset == nil {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			404, "asset_not_found",
			"The asset you are trying to operate on does not exist: %s.",
			token,
		))
	}

	vlt, err := model.LoadVaultByAsset(ctx, asset.Token)
	if err != nil {
		return nil, nil, errors.Trace(err)
	} else if vlt == nil {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			404, "vault_not_found",
			"No vault exists for asset: %s.",
			token,
		))
	}

	return asset, vlt, nil
}
