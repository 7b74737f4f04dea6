package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

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
	// EndPtCreateAssetWithVault creates a new asset along with its vault,
	// minting the initial supply and optionally performing the creator's
	// initial purchase.
	EndPtCreateAssetWithVault EndPtName = "CreateAssetWithVault"
)

func init() {
	registrar[EndPtCreateAssetWithVault] = NewCreateAssetWithVault
}

// CreateAssetWithVault controls the combined creation of an asset and its
// vault.
type CreateAssetWithVault struct {
	Creator       string
	Name          string
	Symbol        string
	URI           string
	PricePerToken uint64
	InitialSupply uint64
	ShouldUserBuy bool
}

// NewCreateAssetWithVault constructs and initializes the endpoint.
func NewCreateAssetWithVault(
	r *http.Request,
) (Endpoint, error) {
	return &CreateAssetWithVault{}, nil
}

// Validate validates the input parameters.
func (e *CreateAssetWithVault) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.Creator = fmt.Sprintf("%s@%s",
		authentication.Get(ctx).User.Username, vault.GetHost(ctx))

	name, symbol, uri, err := validateMetadata(r)
	if err != nil {
		return errors.Trace(err)
	}
	e.Name = name
	e.Symbol = symbol
	e.URI = uri

	price, err := validateUint64(r, "price_per_token")
	if err != nil {
		return errors.Trace(err)
	}
	e.PricePerToken = price

	supply, err := validateUint64(r, "initial_supply")
	if err != nil {
		return errors.Trace(err)
	}
	e.InitialSupply = supply

	shouldUserBuy, err := strconv.ParseBool(r.PostFormValue("should_user_buy"))
	if err != nil {
		return errors.Trace(errors.NewUserErrorf(err,
			400, "should_user_buy_invalid",
			"The should_user_buy value provided is invalid: %s. Expected "+
				"`true` or `false`.",
			r.PostFormValue("should_user_buy"),
		))
	}
	e.ShouldUserBuy = shouldUserBuy

	return nil
}

// Execute executes the endpoint.
func (e *CreateAssetWithVault) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	asset, err := createAsset(ctx, e.Creator, e.Name, e.Symbol, e.URI)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	vlt, err := initVault(ctx, asset,
		model.Amount(e.PricePerToken), model.Amount(e.InitialSupply))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	if e.ShouldUserBuy {
		tokens, value, ok := vault.InitialBuyAmounts(
			e.InitialSupply, e.PricePerToken)
		if !ok {
			return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
				400, "numerical_overflow",
				"The initial purchase sizing overflows the representable "+
					"value range (initial_supply: %d, price_per_token: %d).",
				e.InitialSupply, e.PricePerToken,
			))
		}

		if tokens > 0 {
			fund, err := model.LoadFundByHolder(ctx, e.Creator)
			if err != nil {
				return nil, nil, errors.Trace(err)
			}
			available := uint64(0)
			if fund != nil {
				available = uint64(fund.Value)
			}
			if available < value {
				return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
					400, "insufficient_funds",
					"Your available value (%d) is below the initial "+
						"purchase price (%d).",
					available, value,
				))
			}

			err = model.TransferValue(ctx,
				e.Creator, vlt.ValueStore, model.Amount(value), e.Creator)
			if err != nil {
				return nil, nil, errors.Trace(err)
			}
			err = model.TransferAsset(ctx, asset.Token,
				vlt.TokenStore, e.Creator, model.Amount(tokens),
				vlt.Authority)
			if err != nil {
				return nil, nil, errors.Trace(err)
			}
		}
	}

	decimals := vault.Decimals
	supply := model.Amount(e.InitialSupply)
	price := model.Amount(e.PricePerToken)
	event, err := model.CreateEvent(ctx, model.Event{
		Kind:          vault.EvKdAssetVaultCreated,
		Asset:         asset.Token,
		User:          ptr.Str(e.Creator),
		Name:          ptr.Str(e.Name),
		Symbol:        ptr.Str(e.Symbol),
		URI:           ptr.Str(e.URI),
		Decimals:      &decimals,
		InitialSupply: &supply,
		PricePerToken: &price,
	})
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	db.Commit(ctx)

	err = async.Queue(ctx, task.NewPropagateEvent(ctx, event.Token))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	return ptr.Int(http.StatusCreated), &svc.Resp{
		"asset": format.JSONPtr(model.NewAssetResource(ctx, asset)),
		"vault": format.JSONPtr(model.NewVaultResource(ctx, vlt)),
	}, nil
}
