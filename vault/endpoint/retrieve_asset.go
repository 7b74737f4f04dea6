package endpoint

import (
	"context"
	"net/http"

	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/format"
	"github.com/nottyhq/notty/lib/ptr"
	"github.com/nottyhq/notty/lib/svc"
	"github.com/nottyhq/notty/vault/model"
)

const (
	// EndPtRetrieveAsset retrieves an asset.
	EndPtRetrieveAsset EndPtName = "RetrieveAsset"
)

func init() {
	registrar[EndPtRetrieveAsset] = NewRetrieveAsset
}

// RetrieveAsset retrieves an asset by id.
type RetrieveAsset struct {
	Asset string
}

// NewRetrieveAsset constructs and initializes the endpoint.
func NewRetrieveAsset(
	r *http.Request,
) (Endpoint, error) {
	return &RetrieveAsset{}, nil
}

// Validate validates the input parameters.
func (e *RetrieveAsset) Validate(
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
func (e *RetrieveAsset) Execute(
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

	db.Commit(ctx)

	return ptr.Int(http.StatusOK), &svc.Resp{
		"asset": format.JSONPtr(model.NewAssetResource(ctx, asset)),
	}, nil
}
