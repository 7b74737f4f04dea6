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
	// EndPtRetrieveVault retrieves the vault of an asset.
	EndPtRetrieveVault EndPtName = "RetrieveVault"
)

func init() {
	registrar[EndPtRetrieveVault] = NewRetrieveVault
}

// RetrieveVault retrieves the vault bound to an asset, along with its token
// store balance.
type RetrieveVault struct {
	Asset string
}

// NewRetrieveVault constructs and initializes the endpoint.
func NewRetrieveVault(
	r *http.Request,
) (Endpoint, error) {
	return &RetrieveVault{}, nil
}

// Validate validates the input parameters.
func (e *RetrieveVault) Validate(
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
func (e *RetrieveVault) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	_, vlt, err := loadAssetAndVault(ctx, e.Asset)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	balance, err := model.LoadBalanceByAssetHolder(ctx,
		vlt.Asset, vlt.TokenStore)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	db.Commit(ctx)

	resp := svc.Resp{
		"vault": format.JSONPtr(model.NewVaultResource(ctx, vlt)),
	}
	if balance != nil {
		resp["token_store_balance"] = format.JSONPtr(
			model.NewBalanceResource(ctx, balance))
	}

	return ptr.Int(http.StatusOK), &resp, nil
}
