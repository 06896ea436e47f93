package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-roti/internal/common"
	"github.com/noah-isme/backend-roti/internal/pricing"
)

// Kind names a calculator. Each kind has its own history ledger per session.
type Kind string

const (
	KindDiscount Kind = "discount"
	KindBundling Kind = "bundling"
	KindHPP      Kind = "hpp"
)

// ParseKind reports whether raw names a calculator that keeps history.
func ParseKind(raw string) (Kind, bool) {
	switch k := Kind(raw); k {
	case KindDiscount, KindBundling, KindHPP:
		return k, true
	default:
		return "", false
	}
}

// AdjustmentInput is the wire form of a percentage or nominal adjustment.
type AdjustmentInput struct {
	Kind  string          `json:"kind" validate:"omitempty,oneof=percentage percent nominal fixed"`
	Value decimal.Decimal `json:"value"`
}

func (a AdjustmentInput) toAdjustment() (pricing.Adjustment, error) {
	adj, err := pricing.ParseAdjustment(a.Kind, a.Value)
	if err != nil {
		return pricing.Adjustment{}, common.BadRequest(err.Error(), err)
	}
	return adj, nil
}

// FeeInput is a channel fee that can be switched off.
type FeeInput struct {
	Enabled bool            `json:"enabled"`
	Kind    string          `json:"kind" validate:"omitempty,oneof=percentage percent nominal fixed"`
	Value   decimal.Decimal `json:"value"`
}

func (f *FeeInput) toAdjustment() (*pricing.Adjustment, error) {
	if f == nil || !f.Enabled {
		return nil, nil
	}
	adj, err := AdjustmentInput{Kind: f.Kind, Value: f.Value}.toAdjustment()
	if err != nil {
		return nil, err
	}
	return &adj, nil
}

// DiscountRequest prices a quantity of one product.
type DiscountRequest struct {
	ProductID  string          `json:"productId" validate:"required"`
	Quantity   int64           `json:"quantity" validate:"gt=0,lte=1000000"`
	Discount   AdjustmentInput `json:"discount"`
	ChannelFee *FeeInput       `json:"channelFee"`
	Rounding   bool            `json:"rounding"`
}

// BundleLine is one product of a bundle.
type BundleLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0,lte=1000000"`
}

// BundlingRequest prices several products sold together.
type BundlingRequest struct {
	Lines      []BundleLine    `json:"lines" validate:"required,min=1,max=100,dive"`
	Discount   AdjustmentInput `json:"discount"`
	ChannelFee *FeeInput       `json:"channelFee"`
	Rounding   bool            `json:"rounding"`
}

// RecipeLine is one ingredient of a recipe. Quantity may be fractional.
type RecipeLine struct {
	Name     string          `json:"name" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost int64           `json:"unitCost" validate:"gte=0,lte=1000000000000000"`
}

// HPPRequest prices a product with markup and measures it against its cost of goods.
//
// The unit cost is taken from HPP when given, otherwise from the recipe divided by
// its yield, otherwise from the catalog. OverheadPerUnit is added on top.
type HPPRequest struct {
	ProductID       string          `json:"productId" validate:"required_without=SellingPrice"`
	SellingPrice    *int64          `json:"sellingPrice" validate:"omitempty,gte=0,lte=1000000000000000"`
	HPP             *int64          `json:"hpp" validate:"omitempty,gte=0,lte=1000000000000000"`
	Recipe          []RecipeLine    `json:"recipe" validate:"omitempty,dive"`
	Yield           int64           `json:"yield" validate:"gte=0"`
	OverheadPerUnit int64           `json:"overheadPerUnit" validate:"gte=0,lte=1000000000000000"`
	Quantity        int64           `json:"quantity" validate:"gte=0,lte=1000000"`
	Markup          string          `json:"markup"`
	Discount        AdjustmentInput `json:"discount"`
	ChannelFee      *FeeInput       `json:"channelFee"`
	Rounding        bool            `json:"rounding"`
}

// Result is the outcome of a priced calculation.
type Result struct {
	SessionID    string            `json:"sessionId"`
	Calculator   Kind              `json:"calculator"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
	Profit       pricing.Profit    `json:"profit"`
	Cost         pricing.Money     `json:"cost"`
	CostFallback bool              `json:"costFallback"`
	Entry        pricing.Entry     `json:"entry"`
}

// OverheadItem is one monthly overhead cost such as rent or electricity.
type OverheadItem struct {
	Name   string `json:"name" validate:"required"`
	Amount int64  `json:"amount" validate:"gte=0,lte=1000000000000000"`
}

// OverheadRequest spreads monthly overhead over monthly production.
type OverheadRequest struct {
	Items        []OverheadItem `json:"items" validate:"required,min=1,max=100,dive"`
	MonthlyUnits int64          `json:"monthlyUnits" validate:"gt=0"`
}

// OverheadShare is one item's contribution to the per-unit overhead.
type OverheadShare struct {
	Name    string        `json:"name"`
	Amount  pricing.Money `json:"amount"`
	PerUnit pricing.Money `json:"perUnit"`
	Share   float64       `json:"share"`
}

// OverheadResult is the outcome of the overhead calculator.
type OverheadResult struct {
	Total        pricing.Money   `json:"total"`
	MonthlyUnits int64           `json:"monthlyUnits"`
	PerUnit      pricing.Money   `json:"perUnit"`
	Items        []OverheadShare `json:"items"`
}

// ROIRequest evaluates an investment against its monthly returns.
type ROIRequest struct {
	Investment     int64 `json:"investment" validate:"gte=0,lte=1000000000000000"`
	MonthlyRevenue int64 `json:"monthlyRevenue" validate:"gte=0,lte=1000000000000000"`
	MonthlyCosts   int64 `json:"monthlyCosts" validate:"gte=0,lte=1000000000000000"`
	Months         int64 `json:"months" validate:"gte=0,lte=600"`
}

// ROIResult is the outcome of the ROI calculator. PaybackMonths is nil when the
// monthly result never pays the investment back.
type ROIResult struct {
	Investment    pricing.Money `json:"investment"`
	Months        int64         `json:"months"`
	MonthlyNet    pricing.Money `json:"monthlyNet"`
	TotalNet      pricing.Money `json:"totalNet"`
	ROIPercent    float64       `json:"roiPercent"`
	PaybackMonths *int64        `json:"paybackMonths"`
}
