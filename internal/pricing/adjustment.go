package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AdjustmentKind tells whether an adjustment is relative or absolute.
type AdjustmentKind string

const (
	// KindPercentage interprets the value as a percentage of the running amount.
	KindPercentage AdjustmentKind = "percentage"
	// KindNominal interprets the value as an absolute Rupiah amount.
	KindNominal AdjustmentKind = "nominal"
)

// ErrUnknownAdjustmentKind is returned when parsing an unsupported adjustment kind.
var ErrUnknownAdjustmentKind = errors.New("pricing: unknown adjustment kind")

// Adjustment is either a percentage or a nominal amount. Any sign is accepted.
type Adjustment struct {
	Kind  AdjustmentKind  `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Percent builds a percentage adjustment.
func Percent(value float64) Adjustment {
	return Adjustment{Kind: KindPercentage, Value: decimal.NewFromFloat(value)}
}

// Nominal builds an absolute adjustment in whole Rupiah.
func Nominal(value Money) Adjustment {
	return Adjustment{Kind: KindNominal, Value: decimal.NewFromInt(value)}
}

// ParseAdjustment builds an adjustment from its wire representation.
func ParseAdjustment(kind string, value decimal.Decimal) (Adjustment, error) {
	switch AdjustmentKind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindPercentage, "percent", "%":
		return Adjustment{Kind: KindPercentage, Value: value}, nil
	case KindNominal, "fixed", "":
		return Adjustment{Kind: KindNominal, Value: value}, nil
	default:
		return Adjustment{}, fmt.Errorf("%w: %q", ErrUnknownAdjustmentKind, kind)
	}
}

// IsPercentage reports whether the adjustment is relative.
func (a Adjustment) IsPercentage() bool {
	return a.Kind == KindPercentage
}

// Amount resolves the adjustment against base.
func (a Adjustment) Amount(base Money) Money {
	if a.IsPercentage() {
		return PercentOf(base, a.Value)
	}
	return fromDecimal(a.Value)
}

// Markup is one of the predefined uplift percentages.
type Markup string

const (
	MarkupNormal  Markup = "normal"
	MarkupTwoHalf Markup = "2.5"
	MarkupFive    Markup = "5"
	MarkupTen     Markup = "10"
)

// ErrUnknownMarkup is returned for markups outside the predefined set.
var ErrUnknownMarkup = errors.New("pricing: unknown markup")

// ParseMarkup accepts "normal", "0", "2.5", "5" and "10", with or without a trailing %.
func ParseMarkup(raw string) (Markup, error) {
	value := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "%")
	switch value {
	case "", "normal", "0":
		return MarkupNormal, nil
	case "2.5", "2,5":
		return MarkupTwoHalf, nil
	case "5":
		return MarkupFive, nil
	case "10":
		return MarkupTen, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMarkup, raw)
	}
}

// Percent returns the uplift as a percentage.
func (m Markup) Percent() decimal.Decimal {
	switch m {
	case MarkupTwoHalf:
		return decimal.RequireFromString("2.5")
	case MarkupFive:
		return decimal.NewFromInt(5)
	case MarkupTen:
		return decimal.NewFromInt(10)
	default:
		return decimal.Zero
	}
}

// IsNormal reports whether the markup leaves the base price untouched.
func (m Markup) IsNormal() bool {
	return m == "" || m == MarkupNormal
}
