package vault

import (
	"database/sql/driver"

	"github.com/nottyhq/notty/lib/errors"
)

// EvKind is the kind of an emitted event.
type EvKind string

const (
	// EvKdAssetCreated is emitted when an asset is created.
	EvKdAssetCreated EvKind = "asset_created"
	// EvKdAssetVaultCreated is emitted when an asset is created along with
	// its vault.
	EvKdAssetVaultCreated EvKind = "asset_vault_created"
	// EvKdVaultInitialized is emitted when a vault is initialized for an
	// existing asset.
	EvKdVaultInitialized EvKind = "vault_initialized"
	// EvKdTrade is emitted once per settled buy or sell.
	EvKdTrade EvKind = "trade"
)

// Value implements driver.Valuer.
func (k EvKind) Value() (value driver.Value, err error) {
	return string(k), nil
}

// Scan implements sql.Scanner.
func (k *EvKind) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		*k = EvKind(src)
	case string:
		*k = EvKind(src)
	default:
		return errors.Newf(
			"Incompatible type for EvKind with value: %q", src)
	}

	return nil
}

// TrDirection is the direction of a trade.
type TrDirection string

const (
	// TrDrBuy is a purchase of asset units from the vault.
	TrDrBuy TrDirection = "buy"
	// TrDrSell is a sale of asset units back to the vault.
	TrDrSell TrDirection = "sell"
)

// Value implements driver.Valuer.
func (d TrDirection) Value() (value driver.Value, err error) {
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *TrDirection) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		*d = TrDirection(src)
	case string:
		*d = TrDirection(src)
	default:
		return errors.Newf(
			"Incompatible type for TrDirection with value: %q", src)
	}

	return nil
}

// TkName is the name of an async task.
type TkName string
