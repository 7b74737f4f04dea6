package vault

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTradeValue(
	t *testing.T,
) {
	// 2 whole tokens at 1 value unit per token.
	value, ok := TradeValue(1000000000, 2000000000)
	assert.True(t, ok)
	assert.Equal(t, uint64(2000000000), value)

	// Truncation toward zero.
	value, ok = TradeValue(1, 1999999999)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), value)

	value, ok = TradeValue(0, 2000000000)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), value)

	// The product, not the quotient, is what must fit in 64 bits.
	_, ok = TradeValue(1000000000, math.MaxUint64)
	assert.False(t, ok)
	_, ok = TradeValue(math.MaxUint64, 2)
	assert.False(t, ok)

	value, ok = TradeValue(math.MaxUint64, 1)
	assert.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64/UnitDivisor), value)
}

func TestSplitFee(
	t *testing.T,
) {
	fee, creatorFee, ownerFee := SplitFee(2000000000)
	assert.Equal(t, uint64(40000000), fee)
	assert.Equal(t, uint64(20000000), creatorFee)
	assert.Equal(t, uint64(20000000), ownerFee)

	// Odd fee: the owner gets the extra unit.
	fee, creatorFee, ownerFee = SplitFee(50)
	assert.Equal(t, uint64(1), fee)
	assert.Equal(t, uint64(0), creatorFee)
	assert.Equal(t, uint64(1), ownerFee)

	// Below the fee threshold the trade is fee-less.
	fee, creatorFee, ownerFee = SplitFee(49)
	assert.Equal(t, uint64(0), fee)
	assert.Equal(t, uint64(0), creatorFee)
	assert.Equal(t, uint64(0), ownerFee)

	// The 128-bit intermediate keeps large totals exact.
	fee, creatorFee, ownerFee = SplitFee(math.MaxUint64)
	assert.Equal(t, uint64(368934881474191032), fee)
	assert.Equal(t, fee, creatorFee+ownerFee)
}

func TestSplitFeeInvariants(
	t *testing.T,
) {
	totals := []uint64{
		0, 1, 49, 50, 51, 99, 100, 10000, 10001,
		2000000000, 1960000000, math.MaxUint64 / 2, math.MaxUint64,
	}
	for _, total := range totals {
		fee, creatorFee, ownerFee := SplitFee(total)

		assert.Equal(t, fee, creatorFee+ownerFee)
		assert.True(t, ownerFee-creatorFee <= 1)
		assert.True(t, fee <= total)
	}
}

func TestInitialBuyAmounts(
	t *testing.T,
) {
	// 40% of the supply, value not divided by the unit divisor.
	tokens, value, ok := InitialBuyAmounts(1000000000000, 1000)
	assert.True(t, ok)
	assert.Equal(t, uint64(400000000000), tokens)
	assert.Equal(t, uint64(400000000000000), value)

	// 400_000_000_000 * 1_000_000_000 exceeds 64 bits.
	_, _, ok = InitialBuyAmounts(1000000000000, 1000000000)
	assert.False(t, ok)

	tokens, value, ok = InitialBuyAmounts(0, 1000000000)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), tokens)
	assert.Equal(t, uint64(0), value)
}
