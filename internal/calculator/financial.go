package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-roti/internal/common"
	"github.com/noah-isme/backend-roti/internal/obs"
	"github.com/noah-isme/backend-roti/internal/pricing"
)

const defaultROIMonths = 12

// Overhead validates req and spreads the monthly overhead over production.
func (s *Service) Overhead(req OverheadRequest) (OverheadResult, error) {
	if err := common.ValidateStruct(req); err != nil {
		return OverheadResult{}, err
	}
	obs.ObserveCalculation("overhead", "")
	return Overhead(req.Items, req.MonthlyUnits), nil
}

// ROI validates req and evaluates the investment.
func (s *Service) ROI(req ROIRequest) (ROIResult, error) {
	if err := common.ValidateStruct(req); err != nil {
		return ROIResult{}, err
	}
	obs.ObserveCalculation("roi", "")
	return ROI(req), nil
}

// Overhead totals the items and returns the per-unit overhead rounded up to whole
// Rupiah. units must be positive.
func Overhead(items []OverheadItem, units int64) OverheadResult {
	res := OverheadResult{MonthlyUnits: units, Items: make([]OverheadShare, 0, len(items))}
	for _, it := range items {
		res.Total += it.Amount
	}
	res.PerUnit = ceilDiv(res.Total, units)
	for _, it := range items {
		share := OverheadShare{Name: it.Name, Amount: it.Amount, PerUnit: ceilDiv(it.Amount, units)}
		if res.Total > 0 {
			share.Share = decimal.NewFromInt(it.Amount).
				Div(decimal.NewFromInt(res.Total)).
				Mul(decimal.NewFromInt(100)).
				Round(2).
				InexactFloat64()
		}
		res.Items = append(res.Items, share)
	}
	return res
}

// ROI computes net profit over the horizon, return on investment and payback time.
func ROI(req ROIRequest) ROIResult {
	months := req.Months
	if months <= 0 {
		months = defaultROIMonths
	}
	res := ROIResult{
		Investment: req.Investment,
		Months:     months,
		MonthlyNet: req.MonthlyRevenue - req.MonthlyCosts,
	}
	res.TotalNet = res.MonthlyNet * months
	if req.Investment > 0 {
		res.ROIPercent = decimal.NewFromInt(res.TotalNet - req.Investment).
			Div(decimal.NewFromInt(req.Investment)).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			InexactFloat64()
	}
	if res.MonthlyNet > 0 {
		payback := ceilDiv(req.Investment, res.MonthlyNet)
		res.PaybackMonths = &payback
	}
	return res
}

func ceilDiv(total, units pricing.Money) pricing.Money {
	if units <= 0 {
		return 0
	}
	if total <= 0 {
		return total / units
	}
	return (total + units - 1) / units
}
