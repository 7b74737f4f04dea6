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
	// EndPtSellAsset sells asset units back to the vault at its fixed price.
	EndPtSellAsset EndPtName = "SellAsset"
)

func init() {
	registrar[EndPtSellAsset] = NewSellAsset
}

// SellAsset controls the sale of asset units back to a vault.
type SellAsset struct {
	Seller string
	Asset  string
	Amount uint64
}

// NewSellAsset constructs and initializes the endpoint.
func NewSellAsset(
	r *http.Request,
) (Endpoint, error) {
	return &SellAsset{}, nil
}

// Validate validates the input parameters.
func (e *SellAsset) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.Seller = fmt.Sprintf("%s@%s",
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

// Execute executes the endpoint. The refund comes out of the shared value
// store gross of fees: the net goes to the seller and the two fee legs leave
// the store as well, all in one transaction.
func (e *SellAsset) Execute(
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

	fund, err := model.LoadFundByHolder(ctx, vlt.ValueStore)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	available := uint64(0)
	if fund != nil {
		available = uint64(fund.Value)
	}
	if available < total {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			400, "vault_insufficient_funds",
			"The vault's value store (%d) cannot cover the total refund "+
				"of the sale (%d).",
			available, total,
		))
	}

	err = model.TransferAsset(ctx, asset.Token,
		e.Seller, vlt.TokenStore, model.Amount(e.Amount), e.Seller)
	if err != nil {
		switch errors.Cause(err).(type) {
		case model.ErrInsufficientBalance:
			return nil, nil, errors.Trace(errors.NewUserErrorf(err,
				400, "insufficient_funds",
				"Your balance of the asset is below the amount you are "+
					"trying to sell: %d.",
				e.Amount,
			))
		default:
			return nil, nil, errors.Trace(err) // 500
		}
	}
	err = model.TransferValue(ctx,
		vlt.ValueStore, e.Seller, model.Amount(net), vlt.ValueStore)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	err = model.TransferValue(ctx,
		vlt.ValueStore, vault.GetOwner(ctx), model.Amount(ownerFee),
		vlt.ValueStore)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	err = model.TransferValue(ctx,
		vlt.ValueStore, asset.Creator, model.Amount(creatorFee),
		vlt.ValueStore)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	direction := vault.TrDrSell
	valueAmount := model.Amount(total)
	tokenAmount := model.Amount(e.Amount)
	event, err := model.CreateEvent(ctx, model.Event{
		Kind:        vault.EvKdTrade,
		Asset:       asset.Token,
		User:        ptr.Str(e.Seller),
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
