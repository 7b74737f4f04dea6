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
	// EndPtListAssets lists all assets, most recent first.
	EndPtListAssets EndPtName = "ListAssets"
)

func init() {
	registrar[EndPtListAssets] = NewListAssets
}

// ListAssets lists the assets issued through the vault.
type ListAssets struct {
}

// NewListAssets constructs and initializes the endpoint.
func NewListAssets(
	r *http.Request,
) (Endpoint, error) {
	return &ListAssets{}, nil
}

// Validate validates the input parameters.
func (e *ListAssets) Validate(
	r *http.Request,
) error {
	return nil
}

// Execute executes the endpoint.
func (e *ListAssets) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	assets, err := model.LoadAssetList(ctx)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	db.Commit(ctx)

	resources := []vault.AssetResource{}
	for _, a := range assets {
		resources = append(resources, model.NewAssetResource(ctx, a))
	}

	return ptr.Int(http.StatusOK), &svc.Resp{
		"assets": format.JSONPtr(resources),
	}, nil
}
