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
)

// Fund represents a holding of backing value for a given holder (user
// address, platform owner or the shared value store). Funds are mutated only
// by the value transfer primitive and operator credits.
type Fund struct {
	Token   string
	Created time.Time

	Holder string
	Value  Amount
}

// CreateFund creates and stores a new Fund object. Only one fund can exist
// per holder.
func CreateFund(
	ctx context.Context,
	holder string,
	value Amount,
) (*Fund, error) {
	fund := Fund{
		Token:   token.New("fund"),
		Created: time.Now().UTC(),

		Holder: holder,
		Value:  value,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO funds
  (token, created, holder, value)
VALUES
  (:token, :created, :holder, :value)
`, fund); err != nil {
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

	return &fund, nil
}

// Save updates the object database representation with the in-memory
// values.
func (f *Fund) Save(
	ctx context.Context,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
UPDATE funds
SET value = :value
WHERE token = :token
`, f)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// LoadFundByHolder attempts to load the fund for the given holder identity.
func LoadFundByHolder(
	ctx context.Context,
	holder string,
) (*Fund, error) {
	fund := Fund{
		Holder: holder,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM funds
WHERE holder = :holder
`, fund); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&fund); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &fund, nil
}

// LoadOrCreateFundByHolder loads an existing fund for the specified holder
// or creates one (with a 0 value) if it does not exist.
func LoadOrCreateFundByHolder(
	ctx context.Context,
	holder string,
) (*Fund, error) {
	fund, err := LoadFundByHolder(ctx, holder)
	if err != nil {
		return nil, errors.Trace(err)
	} else if fund == nil {
		fund, err = CreateFund(ctx, holder, Amount(0))
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	return fund, nil
}
