package pricing

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in whole Rupiah. The currency has no minor unit in this domain.
type Money = int64

const (
	roundingBlock = 1000
	roundingStep  = 500
)

// MaxAmount is the largest base, cost or nominal adjustment accepted by Validate.
// Cascades over amounts in range stay far below the int64 limits.
const MaxAmount Money = 1_000_000_000_000_000

// MaxPercent bounds percentage adjustments accepted by Validate, in either sign.
const MaxPercent = 1000

// ErrAmountOutOfRange is returned when inputs would leave the supported money range.
var ErrAmountOutOfRange = errors.New("pricing: amount out of range")

// RoundToPricingConvention moves amount up to the next multiple of 500 following the
// shop convention: x000 and x500 stay, 1..499 go to x500, 501..999 go to the next x000.
// Negative amounts are returned untouched so a loss keeps its real size. In the last
// block below math.MaxInt64 the result stays at x500 instead of wrapping.
func RoundToPricingConvention(amount Money) Money {
	if amount < 0 {
		return amount
	}
	r := amount % roundingBlock
	switch {
	case r == 0 || r == roundingStep:
		return amount
	case r < roundingStep:
		return amount - r + roundingStep
	case amount-r > math.MaxInt64-roundingBlock:
		return amount - r + roundingStep
	default:
		return amount - r + roundingBlock
	}
}

func toDecimal(m Money) decimal.Decimal {
	return decimal.NewFromInt(m)
}

var (
	maxMoneyDecimal = decimal.NewFromInt(math.MaxInt64)
	minMoneyDecimal = decimal.NewFromInt(math.MinInt64)
)

// fromDecimal rounds half away from zero to whole Rupiah, saturating at the int64 limits.
func fromDecimal(d decimal.Decimal) Money {
	d = d.Round(0)
	switch {
	case d.GreaterThan(maxMoneyDecimal):
		return math.MaxInt64
	case d.LessThan(minMoneyDecimal):
		return math.MinInt64
	}
	return d.IntPart()
}

// PercentOf returns pct percent of amount in whole Rupiah.
func PercentOf(amount Money, pct decimal.Decimal) Money {
	return fromDecimal(toDecimal(amount).Mul(pct).Div(hundred))
}

// Scale multiplies amount by ratio and rounds to whole Rupiah.
func Scale(amount Money, ratio decimal.Decimal) Money {
	return fromDecimal(toDecimal(amount).Mul(ratio))
}

var hundred = decimal.NewFromInt(100)

func addMoney(a, b Money) (Money, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		if b > 0 {
			return math.MaxInt64, false
		}
		return math.MinInt64, false
	}
	return c, true
}

func subMoney(a, b Money) (Money, bool) {
	if b == math.MinInt64 {
		if a >= 0 {
			return math.MaxInt64, false
		}
		return a - b, true
	}
	return addMoney(a, -b)
}

func mulMoney(a, b Money) (Money, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		if (a > 0) == (b > 0) {
			return math.MaxInt64, false
		}
		return math.MinInt64, false
	}
	return c, true
}

// satAdd and satSub clamp at the int64 limits instead of wrapping.
func satAdd(a, b Money) Money {
	c, _ := addMoney(a, b)
	return c
}

func satSub(a, b Money) Money {
	c, _ := subMoney(a, b)
	return c
}
