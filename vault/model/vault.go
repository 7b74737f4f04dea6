package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/token"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/authority"
)

// Vault represents the fixed-price exchange bound to one asset. Exactly one
// vault can exist per asset (unique constraint); the price is immutable
// after creation, there is no update path.
type Vault struct {
	Token   string
	Created time.Time

	Asset         string // Asset token.
	Authority     string // Derived authority over the token store.
	TokenStore    string `db:"token_store"` // Token custody store identity.
	ValueStore    string `db:"value_store"` // Value custody store identity.
	PricePerToken Amount `db:"price_per_token"`
}

// NewVaultResource generates a new resource.
func NewVaultResource(
	ctx context.Context,
	vlt *Vault,
) vault.VaultResource {
	return vault.VaultResource{
		ID:            vlt.Token,
		Created:       vlt.Created.UnixNano() / (1000 * 1000),
		Asset:         vlt.Asset,
		Authority:     vlt.Authority,
		TokenStore:    vlt.TokenStore,
		ValueStore:    vlt.ValueStore,
		PricePerToken: uint64(vlt.PricePerToken),
	}
}

// CreateVault creates and stores a new Vault object for the provided asset,
// with its references derived from the asset identity. The token store
// holding is created empty; the shared value store holding is created if
// this is the first vault of the deployment.
func CreateVault(
	ctx context.Context,
	asset string,
	pricePerToken Amount,
) (*Vault, error) {
	vlt := Vault{
		Token:   token.New("vault"),
		Created: time.Now().UTC(),

		Asset:         asset,
		Authority:     authority.Derive(authority.RoleVault, asset),
		TokenStore:    authority.Derive(authority.RoleTokenStore, asset),
		ValueStore:    authority.ValueStore(),
		PricePerToken: pricePerToken,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO vaults
  (token, created, asset, authority, token_store, value_store,
   price_per_token)
VALUES
  (:token, :created, :asset, :authority, :token_store, :value_store,
   :price_per_token)
`, vlt); err != nil {
		switch err := err.(type) {
		case *pq.Error:
			if err.Code.Name() == "unique_violation" {
				return nil, errors.Trace(ErrUniqueConstraintViolation{err})
			}
		case sqlite3.Error:
			if err.ExtendedCode == sqlite3.ErrConstraintUnique {
				return nil, errors.Trace(ErrUniqueConstraintViolation{err})
			}
		}
		return nil, errors.Trace(err)
	}

	if _, err := LoadOrCreateBalanceByAssetHolder(ctx,
		asset, vlt.TokenStore); err != nil {
		return nil, errors.Trace(err)
	}
	if _, err := LoadOrCreateFundByHolder(ctx, vlt.ValueStore); err != nil {
		return nil, errors.Trace(err)
	}

	return &vlt, nil
}

// LoadVaultByAsset attempts to load the vault bound to the given asset.
func LoadVaultByAsset(
	ctx context.Context,
	asset string,
) (*Vault, error) {
	vlt := Vault{
		Asset: asset,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM vaults
WHERE asset = :asset
`, vlt); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&vlt); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &vlt, nil
}
