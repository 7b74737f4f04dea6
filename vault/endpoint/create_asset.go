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
	"github.com/nottyhq/notty/vault/authority"
	"github.com/nottyhq/notty/vault/lib/authentication"
	"github.com/nottyhq/notty/vault/model"
	"github.com/nottyhq/notty/vault/registry"
)

const (
	// EndPtCreateAsset creates a new asset.
	EndPtCreateAsset EndPtName = "CreateAsset"
)

func init() {
	registrar[EndPtCreateAsset] = NewCreateAsset
}

// CreateAsset controls the creation of new assets.
type CreateAsset struct {
	Creator string
	Name    string
	Symbol  string
	URI     string
}

// NewCreateAsset constructs and initializes the endpoint.
func NewCreateAsset(
	r *http.Request,
) (Endpoint, error) {
	return &CreateAsset{}, nil
}

// Validate validates the input parameters.
func (e *CreateAsset) Validate(
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

	return nil
}

// Execute executes the endpoint.
func (e *CreateAsset) Execute(
	ctx context.Context,
) (*int, *svc.Resp, error) {
	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	asset, err := createAsset(ctx, e.Creator, e.Name, e.Symbol, e.URI)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	decimals := vault.Decimals
	event, err := model.CreateEvent(ctx, model.Event{
		Kind:     vault.EvKdAssetCreated,
		Asset:    asset.Token,
		User:     ptr.Str(e.Creator),
		Name:     ptr.Str(e.Name),
		Symbol:   ptr.Str(e.Symbol),
		URI:      ptr.Str(e.URI),
		Decimals: &decimals,
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
	}, nil
}

// validateMetadata validates the name, symbol and uri parameters shared by
// the asset creation endpoints.
func validateMetadata(
	r *http.Request,
) (string, string, string, error) {
	name := r.PostFormValue("name")
	if len(name) == 0 || len(name) > model.AssetNameMaxLength {
		return "", "", "", errors.Trace(errors.NewUserErrorf(nil,
			400, "name_invalid",
			"The asset name provided is invalid: %s. Asset names must be "+
				"between 1 and %d characters long.",
			name, model.AssetNameMaxLength,
		))
	}

	symbol := r.PostFormValue("symbol")
	if !model.AssetSymbolRegexp.MatchString(symbol) {
		return "", "", "", errors.Trace(errors.NewUserErrorf(nil,
			400, "symbol_invalid",
			"The asset symbol provided is invalid: %s. Asset symbols can "+
				"use alphanumeric uppercased and `-` characters only.",
			symbol,
		))
	}

	uri := r.PostFormValue("uri")
	if len(uri) == 0 || len(uri) > model.AssetURIMaxLength {
		return "", "", "", errors.Trace(errors.NewUserErrorf(nil,
			400, "uri_invalid",
			"The asset metadata URI provided is invalid: %s. URIs must be "+
				"between 1 and %d characters long.",
			uri, model.AssetURIMaxLength,
		))
	}

	return name, symbol, uri, nil
}

// createAsset stores a new asset, publishes its descriptive metadata to the
// external registry and irreversibly hands minting control to the derived
// mint authority. Runs inside the caller's transaction so a registry failure
// leaves no local state behind.
func createAsset(
	ctx context.Context,
	creator string,
	name string,
	symbol string,
	uri string,
) (*model.Asset, error) {
	asset, err := model.CreateAsset(ctx, creator, name, symbol, uri)
	if err != nil {
		switch err := errors.Cause(err).(type) {
		case model.ErrUniqueConstraintViolation:
			return nil, errors.Trace(errors.NewUserErrorf(err,
				400, "asset_already_exists",
				"You already created an asset with the same symbol: %s.",
				symbol,
			))
		default:
			return nil, errors.Trace(err) // 500
		}
	}

	err = registry.Get(ctx).Register(ctx, asset.Token, name, symbol, uri)
	if err != nil {
		return nil, errors.Trace(errors.NewUserErrorf(err,
			400, "metadata_registration_failed",
			"The metadata registry refused the registration of the asset "+
				"metadata (name: %s, symbol: %s).", name, symbol,
		))
	}

	asset.MintAuthority = authority.Derive(authority.RoleMint, asset.Token)
	if err := asset.Save(ctx); err != nil {
		return nil, errors.Trace(err)
	}

	return asset, nil
}
