package endpoint

import (
	"context"
	"net/http"

	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/format"
	"github.com/nottyhq/notty/lib/ptr"
	"github.com/nottyhq/notty/lib/svc"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/model"
)

const (
	// EndPtListAssetTrades lists the trades settled against an asset's vault,
	// most recent first.
	EndPtListAssetTrades EndPtName = "ListAssetTrades"
)

func init() {
	registrar[EndPtListAssetTrades] = NewListAssetTrades
}

// ListAssetTrades lists the trade events of an asset.
type ListAssetTrades struct {
	Asset string
}

// NewListAssetTrades constructs and initializes the endpoint.
func NewListAssetTrades(
	r *http.Request,
) (Endpoint, error) {
	return &ListAssetTrades{}, nil
}

// Validate validates the input parameters.
func (e *ListAssetTrades) Validate(
	r *http.Request,
) error {
	asset, err := validateAsset(r)
	if err != nil {
		return errors.Trace(err)
	}
	e.Asset = asset

	return nil
}

// Execute executes the endpoint.
func (e *ListAssetTrades) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	asset, err := model.LoadAssetByToken(ctx, e.Asset)
	if err != nil {
		return nil, nil, errors.Trace(err)
	} else if asset == nil {
		return nil, nil, errors.Trace(errors.NewUserErrorf(nil,
			404, "asset_not_found",
			"The asset you are trying to retrieve does not exist: %s.",
			e.Asset,
		))
	}

	events, err := model.LoadTradeEventsByAsset(ctx, asset.Token)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	db.Commit(ctx)

	resources := []vault.EventResource{}
	for _, ev := range events {
		resources = append(resources, model.NewEventResource(ctx, ev))
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"trades": format.JSONPtr(resources),
	}, nil
}
