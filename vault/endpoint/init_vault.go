package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"goji.io/pat"

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
)

const (
	// EndPtInitVault initializes the vault of an existing asset.
	EndPtInitVault EndPtName = "InitVault"
)

func init() {
	registrar[EndPtInitVault] = NewInitVault
}

// InitVault controls the creation of a vault for an existing asset, minting
// its initial supply into the token store.
type InitVault struct {
	User          string
	Asset         string
	PricePerToken uint64
	InitialSupply uint64
}

// NewInitVault constructs and initializes the endpoint.
func NewInitVault(
	r *http.Request,
) (Endpoint, error) {
	return &InitVault{}, nil
}

// Validate validates the input parameters.
func (e *InitVault) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	e.User = fmt.Sprintf("%s@%s",
		authentication.Get(ctx).User.Username, vault.GetHost(ctx))

	asset, err := validateAsset(r)
	if err != nil {
		return errors.Trace(err)
	}
	e.Asset = asset

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

	return nil
}

// Execute executes the endpoint.
func (e *InitVault) Execute(
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
			"The asset you are trying to operate on does not exist: %s.",
			e.Asset,
		))
	}

	vlt, err := initVault(ctx, asset,
		model.Amount(e.PricePerToken), model.Amount(e.InitialSupply))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	supply := model.Amount(e.InitialSupply)
	price := model.Amount(e.PricePerToken)
	event, err := model.CreateEvent(ctx, model.Event{
		Kind:          vault.EvKdVaultInitialized,
		Asset:         asset.Token,
		User:          ptr.Str(e.User),
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
		"vault": format.JSONPtr(model.NewVaultResource(ctx, vlt)),
	}, nil
}

// validateAsset validates the asset id path parameter.
func validateAsset(
	r *http.Request,
) (string, error) {
	asset := pat.Param(r, "asset")
	if !vault.IDRegexp.MatchString(asset) {
		return "", errors.Trace(errors.NewUserErrorf(nil,
			400, "id_invalid",
			"The asset id provided is invalid: %s.",
			asset,
		))
	}
	return asset, nil
}

// validateUint64 validates an unsigned amount parameter.
func validateUint64(
	r *http.Request,
	field string,
) (uint64, error) {
	value, err := strconv.ParseUint(r.PostFormValue(field), 10, 64)
	if err != nil {
		return 0, errors.Trace(errors.NewUserErrorf(err,
			400, field+"_invalid",
			"The %s provided is invalid: %s. Amounts must be integers "+
				"between 0 and 2^64-1.",
			field, r.PostFormValue(field),
		))
	}
	return value, nil
}

// initVault stores the vault record bound to the asset and mints the initial
// supply into its token store, signed by the derived mint authority. Runs
// inside the caller's transaction.
func initVault(
	ctx context.Context,
	asset *model.Asset,
	pricePerToken model.Amount,
	initialSupply model.Amount,
) (*model.Vault, error) {
	vlt, err := model.CreateVault(ctx, asset.Token, pricePerToken)
	if err != nil {
		switch err := errors.Cause(err).(type) {
		case model.ErrUniqueConstraintViolation:
			return nil, errors.Trace(errors.NewUserErrorf(err,
				400, "vault_already_exists",
				"A vault already exists for asset: %s.",
				asset.Token,
			))
		default:
			return nil, errors.Trace(err) // 500
		}
	}

	if initialSupply > 0 {
		err = model.MintAsset(ctx, asset,
			vlt.TokenStore, initialSupply,
			authority.Derive(authority.RoleMint, asset.Token))
		if err != nil {
			return nil, errors.Trace(err)
		}
	}

	return vlt, nil
}
