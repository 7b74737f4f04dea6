package model

import (
	"context"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/lib/token"
)

// AssetSymbolRegexp is used to validate asset symbols at creation.
var AssetSymbolRegexp = regexp.MustCompile("^[A-Z0-9\\-]{1,16}$")

// AssetNameMaxLength is the maximal length of an asset name.
const AssetNameMaxLength = 64

// AssetURIMaxLength is the maximal length of an asset metadata URI.
const AssetURIMaxLength = 256

// Asset represents an asset issued through the vault. Its token is the asset
// identity every derivation and store is keyed by. The descriptive metadata
// is owned by the external registry; the copy stored here is what was
// published at creation. Decimals are fixed at creation and immutable.
type Asset struct {
	Token   string
	Created time.Time

	Creator  string // Creator user address.
	Name     string
	Symbol   string
	URI      string `db:"uri"`
	Decimals uint8

	// MintAuthority is the identity allowed to mint units of the asset.
	// Set to the creator's address at insertion and irreversibly handed to
	// the derived mint authority as part of creation.
	MintAuthority string `db:"mint_authority"`
}

// NewAssetResource generates a new resource.
func NewAssetResource(
	ctx context.Context,
	asset *Asset,
) vault.AssetResource {
	return vault.AssetResource{
		ID:            asset.Token,
		Created:       asset.Created.UnixNano() / (1000 * 1000),
		Creator:       asset.Creator,
		Name:          asset.Name,
		Symbol:        asset.Symbol,
		URI:           asset.URI,
		Decimals:      asset.Decimals,
		MintAuthority: asset.MintAuthority,
	}
}

// CreateAsset creates and stores a new Asset object, with minting control
// still held by the creator.
func CreateAsset(
	ctx context.Context,
	creator string,
	name string,
	symbol string,
	uri string,
) (*Asset, error) {
	asset := Asset{
		Token:   token.New("asset"),
		Created: time.Now().UTC(),

		Creator:  creator,
		Name:     name,
		Symbol:   symbol,
		URI:      uri,
		Decimals: vault.Decimals,

		MintAuthority: creator,
	}

	ext := db.Ext(ctx)
	if _, err := sqlx.NamedExec(ext, `
INSERT INTO assets
  (token, created, creator, name, symbol, uri, decimals, mint_authority)
VALUES
  (:token, :created, :creator, :name, :symbol, :uri, :decimals,
   :mint_authority)
`, asset); err != nil {
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

	return &asset, nil
}

// Save updates the object database representation with the in-memory
// values.
func (a *Asset) Save(
	ctx context.Context,
) error {
	ext := db.Ext(ctx)
	_, err := sqlx.NamedExec(ext, `
UPDATE assets
SET mint_authority = :mint_authority
WHERE token = :token
`, a)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}

// LoadAssetByToken attempts to load the asset with the given token.
func LoadAssetByToken(
	ctx context.Context,
	tok string,
) (*Asset, error) {
	asset := Asset{
		Token: tok,
	}

	ext := db.Ext(ctx)
	if rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM assets
WHERE token = :token
`, asset); err != nil {
		return nil, errors.Trace(err)
	} else if !rows.Next() {
		return nil, nil
	} else if err := rows.StructScan(&asset); err != nil {
		defer rows.Close()
		return nil, errors.Trace(err)
	} else if err := rows.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	return &asset, nil
}

// LoadAssetList loads all assets, most recent first.
func LoadAssetList(
	ctx context.Context,
) ([]*Asset, error) {
	ext := db.Ext(ctx)
	rows, err := sqlx.NamedQuery(ext, `
SELECT *
FROM assets
ORDER BY created DESC
`, map[string]interface{}{})
	if err != nil {
		return nil, errors.Trace(err)
	}

	assets := []*Asset{}

	defer rows.Close()
	for rows.Next() {
		a := Asset{}
		if err := rows.StructScan(&a); err != nil {
			return nil, errors.Trace(err)
		}
		assets = append(assets, &a)
	}

	return assets, nil
}
