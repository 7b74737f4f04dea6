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
)

// Balance represents a holding of asset units for a given holder. Balances
// are mutated only by the transfer and mint primitives.
type Balance struct {
	Token   string
	Created time.Time

	Asset  string // Asset token.
	Holder string // Holder identity (user address or derived identity).
	Value  Amount
}

// NewBalanceResource generates a new resource.
func NewBalanceResource(
	ctx context.Context,
	balance *Balance,
) vault.BalanceResource {
	return vault.BalanceResource{
		ID:      balance.Token,
		Created: balance.Created.UnixNano() / (1000 * 1000),
		Asset:   balance.Asset,
		Holder:  balance.Holder,
		Value:   uint64(balance.Value),
	}
}

// CreateBalance creates and stores a new Balance object. Only one balance
// can exist for an asset, holder pair.
func CreateBalance(
	ctx context.Context,
	asset string,
	holder string,
	value Amount,
) (*Balance, error) {
	balance := Balance{
		Token:   token.New("balance"),
		Created: time.Now().UTC(),

		Asset:  asset,
		Holder: holder,
		Value:  value,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO balances
  (token, created, asset, holder, value)
VALUES
  (:token, :created, :asset, :holder, :value)
`, balance); err != nil {
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

	return &balance, nil
}

// Save updates the object database representation with the in-memory
// values.
func (b *Balance) Save(
	ctx context.Context,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
UPDATE balances
SET value = :value
WHERE token = :token
`, b)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// LoadBalanceByAssetHolder attempts to load a balance for the given asset
// token and holder identity.
func LoadBalanceByAssetHolder(
	ctx context.Context,
	asset string,
	holder string,
) (*Balance, error) {
	balance := Balance{
		Asset:  asset,
		Holder: holder,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM balances
WHERE asset = :asset
  AND holder = :holder
`, balance); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&balance); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &balance, nil
}

// LoadOrCreateBalanceByAssetHolder loads an existing balance for the
// specified asset and holder or creates one (with a 0 value) if it does not
// exist.
func LoadOrCreateBalanceByAssetHolder(
	ctx context.Context,
	asset string,
	holder string,
) (*Balance, error) {
	balance, err := LoadBalanceByAssetHolder(ctx, asset, holder)
	if err != nil {
		return nil, errors.Trace(err)
	} else if balance == nil {
		balance, err = CreateBalance(ctx, asset, holder, Amount(0))
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	return balance, nil
}
