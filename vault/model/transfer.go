package model

import (
	"context"
	"math"

	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/vault/authority"
)

// The transfer primitives below are the only paths that mutate balances and
// funds. They run inside the caller's transaction: a failing leg aborts the
// whole settlement when the caller rolls back. Authorization mirrors the
// derived-authority recognition of the execution layer: the signer must be
// the debited holder itself, or the derived authority assigned to control
// the debited store.

func debitBalance(
	ctx context.Context,
	balance *Balance,
	amount Amount,
) error {
	if balance.Value < amount {
		return errors.Trace(ErrInsufficientBalance{
			Holder:    balance.Holder,
			Available: uint64(balance.Value),
			Required:  uint64(amount),
		})
	}
	balance.Value -= amount
	return errors.Trace(balance.Save(ctx))
}

func creditBalance(
	ctx context.Context,
	balance *Balance,
	amount Amount,
) error {
	if uint64(balance.Value) > math.MaxUint64-uint64(amount) {
		return errors.Trace(ErrBalanceOverflow{balance.Holder})
	}
	balance.Value += amount
	return errors.Trace(balance.Save(ctx))
}

// MintAsset mints amount units of the asset into the holder's balance. The
// signer must be the asset's current mint authority.
func MintAsset(
	ctx context.Context,
	asset *Asset,
	to string,
	amount Amount,
	signer string,
) error {
	if signer != asset.MintAuthority {
		return errors.Trace(ErrUnauthorizedSigner{
			Signer:   signer,
			Resource: asset.Token,
		})
	}

	balance, err := LoadOrCreateBalanceByAssetHolder(ctx, asset.Token, to)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(creditBalance(ctx, balance, amount))
}

// TransferAsset moves amount units of the asset from one holder to another.
// The signer must be the debited holder, or the asset's derived vault
// authority when the debited holder is the asset's token store.
func TransferAsset(
	ctx context.Context,
	asset string,
	from string,
	to string,
	amount Amount,
	signer string,
) error {
	authorized := signer == from
	if !authorized &&
		from == authority.Derive(authority.RoleTokenStore, asset) &&
		signer == authority.Derive(authority.RoleVault, asset) {
		authorized = true
	}
	if !authorized {
		return errors.Trace(ErrUnauthorizedSigner{
			Signer:   signer,
			Resource: from,
		})
	}
	if amount == 0 {
		return nil
	}

	src, err := LoadBalanceByAssetHolder(ctx, asset, from)
	if err != nil {
		return errors.Trace(err)
	} else if src == nil {
		return errors.Trace(ErrInsufficientBalance{
			Holder:    from,
			Available: 0,
			Required:  uint64(amount),
		})
	}
	if src.Value < amount {
		return errors.Trace(ErrInsufficientBalance{
			Holder:    src.Holder,
			Available: uint64(src.Value),
			Required:  uint64(amount),
		})
	}
	// Self-transfers are a no-op once the debit is known to be covered.
	if from == to {
		return nil
	}
	dst, err := LoadOrCreateBalanceByAssetHolder(ctx, asset, to)
	if err != nil {
		return errors.Trace(err)
	}

	if err := debitBalance(ctx, src, amount); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(creditBalance(ctx, dst, amount))
}

// TransferValue moves amount of backing value from one holder to another.
// The signer must be the debited holder; the shared value store is its own
// authority, derived from its fixed seed.
func TransferValue(
	ctx context.Context,
	from string,
	to string,
	amount Amount,
	signer string,
) error {
	if signer != from {
		return errors.Trace(ErrUnauthorizedSigner{
			Signer:   signer,
			Resource: from,
		})
	}
	if amount == 0 {
		return nil
	}

	src, err := LoadFundByHolder(ctx, from)
	if err != nil {
		return errors.Trace(err)
	} else if src == nil {
		return errors.Trace(ErrInsufficientBalance{
			Holder:    from,
			Available: 0,
			Required:  uint64(amount),
		})
	}
	if src.Value < amount {
		return errors.Trace(ErrInsufficientBalance{
			Holder:    src.Holder,
			Available: uint64(src.Value),
			Required:  uint64(amount),
		})
	}
	// Self-transfers are a no-op once the debit is known to be covered.
	if from == to {
		return nil
	}
	dst, err := LoadOrCreateFundByHolder(ctx, to)
	if err != nil {
		return errors.Trace(err)
	}

	src.Value -= amount
	if err := src.Save(ctx); err != nil {
		return errors.Trace(err)
	}

	if uint64(dst.Value) > math.MaxUint64-uint64(amount) {
		return errors.Trace(ErrBalanceOverflow{dst.Holder})
	}
	dst.Value += amount
	return errors.Trace(dst.Save(ctx))
}

// CreditFund credits amount of backing value to the holder, creating the
// fund if needed. Used by operator tooling to provision users (value enters
// the deployment out-of-band).
func CreditFund(
	ctx context.Context,
	holder string,
	amount Amount,
) (*Fund, error) {
	fund, err := LoadOrCreateFundByHolder(ctx, holder)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if uint64(fund.Value) > math.MaxUint64-uint64(amount) {
		return nil, errors.Trace(ErrBalanceOverflow{fund.Holder})
	}
	fund.Value += amount
	if err := fund.Save(ctx); err != nil {
		return nil, errors.Trace(err)
	}
	return fund, nil
}
