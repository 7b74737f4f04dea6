package vault

import (
	"math/bits"
	"regexp"
)

const (
	// Version is the current protocol version.
	Version string = "0.1.0"

	// Decimals is the fixed decimal precision of every asset issued by the
	// vault. Immutable after asset creation.
	Decimals uint8 = 9

	// UnitDivisor is 10^Decimals, the number of base units per whole token.
	UnitDivisor uint64 = 1000000000

	// FeeBasisPoints is the protocol fee applied to trades, in basis points
	// (200 = 2.00%). The fee is split between the platform owner and the
	// asset creator.
	FeeBasisPoints uint64 = 200

	// InitialBuyBasisPoints is the share of the initial supply purchased by
	// the creating user when asset creation requests an initial buy (4000 =
	// 40.00%).
	InitialBuyBasisPoints uint64 = 4000
)

// IDRegexp is used to validate object ids (tokens).
var IDRegexp = regexp.MustCompile(
	"^[a-z]+_[a-z0-9]+$")

// AddressRegexp is used to validate user addresses (`username@host`).
var AddressRegexp = regexp.MustCompile(
	"^[a-zA-Z0-9\\-_.]{1,256}@[a-zA-Z0-9\\-_.:]{1,256}$")

// TradeValue returns floor(pricePerToken*amount/UnitDivisor), the value
// amount exchanged for `amount` base units at `pricePerToken`. It returns
// false if the intermediate product overflows an unsigned 64-bit integer.
func TradeValue(
	pricePerToken uint64,
	amount uint64,
) (uint64, bool) {
	hi, lo := bits.Mul64(pricePerToken, amount)
	if hi != 0 {
		return 0, false
	}
	return lo / UnitDivisor, true
}

// SplitFee computes the protocol fee on a total value amount and its split:
// fee = floor(total*FeeBasisPoints/10000), creatorFee = floor(fee/2),
// ownerFee = fee-creatorFee. The repeated truncation is part of the
// settlement contract (ownerFee-creatorFee is 0 or 1).
func SplitFee(
	total uint64,
) (fee uint64, creatorFee uint64, ownerFee uint64) {
	hi, lo := bits.Mul64(total, FeeBasisPoints)
	fee, _ = bits.Div64(hi, lo, 10000)
	creatorFee = fee / 2
	ownerFee = fee - creatorFee
	return fee, creatorFee, ownerFee
}

// InitialBuyAmounts computes the token and value amounts of the initial
// purchase performed at asset-with-vault creation: tokens =
// floor(initialSupply*InitialBuyBasisPoints/10000) and value =
// tokens*pricePerToken (not divided by UnitDivisor, and fee-less). It
// returns false if the value product overflows an unsigned 64-bit integer.
func InitialBuyAmounts(
	initialSupply uint64,
	pricePerToken uint64,
) (tokens uint64, value uint64, ok bool) {
	hi, lo := bits.Mul64(initialSupply, InitialBuyBasisPoints)
	tokens, _ = bits.Div64(hi, lo, 10000)

	hi, lo = bits.Mul64(tokens, pricePerToken)
	if hi != 0 {
		return 0, 0, false
	}
	return tokens, lo, true
}
