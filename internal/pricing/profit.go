package pricing

import "github.com/shopspring/decimal"

// Band is the profitability classification shown to the operator.
type Band string

const (
	BandSafe      Band = "safe"
	BandGood      Band = "good"
	BandReview    Band = "review"
	BandLoss      Band = "loss"
	BandUndefined Band = "undefined"
)

// Label returns the Indonesian display label used on the dashboard.
func (b Band) Label() string {
	switch b {
	case BandSafe:
		return "Aman"
	case BandGood:
		return "Bagus"
	case BandReview:
		return "Perlu Review"
	case BandLoss:
		return "Rugi"
	default:
		return "Tidak Terdefinisi"
	}
}

// Classify maps a profit percentage to a band. First match wins.
func Classify(pct float64) Band {
	switch {
	case pct >= 100:
		return BandSafe
	case pct >= 50:
		return BandGood
	case pct > 0:
		return BandReview
	default:
		return BandLoss
	}
}

// Profit is the margin of a final price against its cost of goods.
type Profit struct {
	Amount     Money   `json:"amount"`
	Percentage float64 `json:"percentage"`
	Band       Band    `json:"band"`
	Label      string  `json:"label"`
}

// Profitability compares final against cost. A cost of zero or less has no
// meaningful percentage, so the band is Undefined and the percentage 0.
func Profitability(final, cost Money) Profit {
	p := Profit{Amount: satSub(final, cost)}
	if cost <= 0 {
		p.Band = BandUndefined
		p.Label = p.Band.Label()
		return p
	}
	p.Percentage = toDecimal(p.Amount).Div(toDecimal(cost)).Mul(hundred).InexactFloat64()
	p.Band = Classify(p.Percentage)
	p.Label = p.Band.Label()
	return p
}

// CostFallback estimates cost of goods from a base price when master data has none.
func CostFallback(base Money, ratio decimal.Decimal) Money {
	return Scale(base, ratio)
}

// DefaultCostRatio is the share of the base price assumed as cost when unknown.
var DefaultCostRatio = decimal.RequireFromString("0.6")
