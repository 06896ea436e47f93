package calculator

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-roti/internal/catalog"
	"github.com/noah-isme/backend-roti/internal/common"
	"github.com/noah-isme/backend-roti/internal/pricing"
)

const testSession = "0b8f4a55-3f3c-4c1e-a0a2-9d1f6c7b2e10"

var fixedNow = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cost := pricing.Money(8000)
	store := catalog.NewMemoryStore(append(catalog.DefaultProducts(), catalog.Product{
		ID: "roti-keju", Name: "Roti Keju", Category: "roti", BasePrice: 20000, CostOfGoods: &cost, Active: true,
	})...)
	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{Store: store})
	require.NoError(t, err)
	return &Service{
		Catalog:  catalogSvc,
		Sessions: NewSessions(time.Hour),
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return fixedNow },
	}
}

func pct(v float64) AdjustmentInput {
	return AdjustmentInput{Kind: "percentage", Value: decimal.NewFromFloat(v)}
}

func nominal(v int64) AdjustmentInput {
	return AdjustmentInput{Kind: "nominal", Value: decimal.NewFromInt(v)}
}

func requireAppError(t *testing.T, err error, code string, status int) *common.AppError {
	t.Helper()
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
	require.Equal(t, status, appErr.HTTPStatus)
	return appErr
}

func TestDiscountWithoutChannelFee(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Discount(context.Background(), testSession, DiscountRequest{
		ProductID: "roti-keju",
		Quantity:  1,
		Discount:  pct(10),
		Rounding:  true,
	})
	require.NoError(t, err)
	require.Equal(t, pricing.Money(2000), res.Breakdown.DiscountAmount)
	require.Equal(t, pricing.Money(18000), res.Breakdown.AfterDiscount)
	require.Equal(t, pricing.Money(0), res.Breakdown.FeeAmount)
	require.Equal(t, pricing.Money(18000), res.Breakdown.Final)
	require.Equal(t, testSession, res.SessionID)
	require.False(t, res.CostFallback)
}

func TestDiscountWithChannelFeeAndProfit(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Discount(context.Background(), testSession, DiscountRequest{
		ProductID:  "roti-keju",
		Quantity:   1,
		Discount:   pct(10),
		ChannelFee: &FeeInput{Enabled: true, Kind: "percentage", Value: decimal.NewFromInt(15)},
		Rounding:   true,
	})
	require.NoError(t, err)
	require.Equal(t, pricing.Money(18000), res.Breakdown.AfterDiscount)
	require.Equal(t, pricing.Money(2700), res.Breakdown.FeeAmount)
	require.Equal(t, pricing.Money(15300), res.Breakdown.BeforeRounding)
	require.Equal(t, pricing.Money(15500), res.Breakdown.Final)

	require.Equal(t, pricing.Money(8000), res.Cost)
	require.Equal(t, pricing.Money(7500), res.Profit.Amount)
	require.InDelta(t, 93.75, res.Profit.Percentage, 1e-9)
	require.Equal(t, pricing.BandGood, res.Profit.Band)
}

func TestDiscountDisabledFeeIsIgnored(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Discount(context.Background(), testSession, DiscountRequest{
		ProductID:  "roti-keju",
		Quantity:   2,
		Discount:   nominal(1000),
		ChannelFee: &FeeInput{Enabled: false, Kind: "percentage", Value: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)
	require.Equal(t, pricing.Money(40000), res.Breakdown.Base)
	require.Equal(t, pricing.Money(39000), res.Breakdown.Final)
	require.Equal(t, pricing.Money(16000), res.Cost)
	require.False(t, res.Breakdown.Rounded)
}

func TestDiscountUnknownProduct(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Discount(context.Background(), testSession, DiscountRequest{ProductID: "kue-lapis", Quantity: 1})
	appErr := requireAppError(t, err, "PRODUCT_NOT_FOUND", http.StatusNotFound)
	require.Equal(t, map[string]any{"productId": "kue-lapis"}, appErr.Details)
	require.Empty(t, svc.History(testSession, KindDiscount))
}

func TestDiscountValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Discount(context.Background(), testSession, DiscountRequest{ProductID: "roti-keju"})
	appErr := requireAppError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	require.Contains(t, appErr.Details, "quantity")

	_, err = svc.Discount(context.Background(), testSession, DiscountRequest{
		ProductID: "roti-keju",
		Quantity:  1,
		Discount:  AdjustmentInput{Kind: "bogus"},
	})
	requireAppError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
}

func TestDiscountLargerThanPriceSurfacesLoss(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Discount(context.Background(), testSession, DiscountRequest{
		ProductID: "roti-keju",
		Quantity:  1,
		Discount:  nominal(25000),
		Rounding:  true,
	})
	require.NoError(t, err)
	require.Equal(t, pricing.Money(-5000), res.Breakdown.Final)
	require.Equal(t, pricing.BandLoss, res.Profit.Band)
}

func TestBundlingSumsLinesAndFallsBackOnCost(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Bundling(context.Background(), testSession, BundlingRequest{
		Lines: []BundleLine{
			{ProductID: "roti-tawar", Quantity: 2},
			{ProductID: "pizza-mini", Quantity: 1},
		},
		Discount: nominal(3000),
		Rounding: true,
	})
	require.NoError(t, err)
	require.Equal(t, pricing.Money(48000), res.Breakdown.Base)
	require.Equal(t, pricing.Money(45000), res.Breakdown.Final)
	require.Equal(t, pricing.Money(25200), res.Cost)
	require.True(t, res.CostFallback)
	require.Equal(t, pricing.Money(19800), res.Profit.Amount)
	require.Equal(t, pricing.BandGood, res.Profit.Band)
	require.Len(t, res.Entry.Inputs.Lines, 2)
}

func TestBundlingRequiresLines(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Bundling(context.Background(), testSession, BundlingRequest{})
	requireAppError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
}

func TestHPPWithExplicitPricesAndMarkup(t *testing.T) {
	svc := newTestService(t)
	selling := int64(10000)
	hpp := int64(8000)

	res, err := svc.HPP(context.Background(), testSession, HPPRequest{
		SellingPrice: &selling,
		HPP:          &hpp,
		Markup:       "10%",
		ChannelFee:   &FeeInput{Enabled: true, Kind: "nominal", Value: decimal.NewFromInt(500)},
		Rounding:     true,
	})
	require.NoError(t, err)
	require.Equal(t, pricing.Money(1000), res.Breakdown.MarkupAmount)
	require.Equal(t, pricing.Money(11000), res.Breakdown.MarkedUp)
	require.Equal(t, pricing.Money(10500), res.Breakdown.Final)
	require.Equal(t, pricing.Money(2500), res.Profit.Amount)
	require.Equal(t, pricing.BandReview, res.Profit.Band)
}

func TestHPPFromRecipeAndOverhead(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.HPP(context.Background(), testSession, HPPRequest{
		ProductID: "donat-gula",
		Recipe: []RecipeLine{
			{Name: "tepung", Quantity: decimal.RequireFromString("0.5"), UnitCost: 12000},
			{Name: "telur", Quantity: decimal.NewFromInt(4), UnitCost: 2000},
		},
		Yield:           10,
		OverheadPerUnit: 100,
		Quantity:        2,
	})
	require.NoError(t, err)
	require.Equal(t, pricing.Money(10000), res.Breakdown.Base)
	require.Equal(t, pricing.Money(0), res.Breakdown.MarkupAmount)
	require.Equal(t, pricing.Money(3000), res.Cost)
	require.Equal(t, pricing.BandSafe, res.Profit.Band)
	require.False(t, res.CostFallback)
}

func TestHPPUsesCatalogCostFallback(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.HPP(context.Background(), testSession, HPPRequest{ProductID: "brownies-panggang", Markup: "5"})
	require.NoError(t, err)
	require.True(t, res.CostFallback)
	require.Equal(t, pricing.Money(33000), res.Cost)
	require.Equal(t, pricing.Money(57750), res.Breakdown.Final)
}

func TestHPPRejectsUnknownMarkup(t *testing.T) {
	svc := newTestService(t)
	selling := int64(10000)

	_, err := svc.HPP(context.Background(), testSession, HPPRequest{SellingPrice: &selling, Markup: "7"})
	requireAppError(t, err, "BAD_REQUEST", http.StatusBadRequest)

	_, err = svc.HPP(context.Background(), testSession, HPPRequest{})
	requireAppError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
}

func TestHistoryIsBoundedPerCalculatorAndSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		_, err := svc.Discount(ctx, testSession, DiscountRequest{ProductID: "roti-keju", Quantity: int64(i)})
		require.NoError(t, err)
	}

	history := svc.History(testSession, KindDiscount)
	require.Len(t, history, pricing.HistoryLimit)
	require.Equal(t, int64(12), history[0].Inputs.Lines[0].Quantity)
	require.Equal(t, int64(3), history[len(history)-1].Inputs.Lines[0].Quantity)
	for _, e := range history {
		require.Equal(t, e.Breakdown, e.Replay())
		require.Equal(t, fixedNow, e.CreatedAt)
	}

	require.Empty(t, svc.History(testSession, KindBundling))
	require.Empty(t, svc.History("6c1f2e8b-1a2b-4c3d-8e9f-0a1b2c3d4e5f", KindDiscount))
}

func TestRecipeCostRoundsUp(t *testing.T) {
	recipe := []RecipeLine{{Name: "gula", Quantity: decimal.RequireFromString("0.333"), UnitCost: 1000}}
	require.Equal(t, pricing.Money(167), RecipeCost(recipe, 2))
	require.Equal(t, pricing.Money(333), RecipeCost(recipe, 0))
	require.Equal(t, pricing.Money(0), RecipeCost(nil, 4))
}

func TestUnconfiguredService(t *testing.T) {
	var svc *Service
	_, err := svc.Discount(context.Background(), testSession, DiscountRequest{ProductID: "x", Quantity: 1})
	require.Error(t, err)
	require.Empty(t, svc.History(testSession, KindDiscount))
}

func TestDiscountRejectsOversizedQuantity(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Discount(context.Background(), testSession, DiscountRequest{
		ProductID: "roti-keju",
		Quantity:  math.MaxInt64 / 1000,
	})
	appErr := requireAppError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	require.Contains(t, appErr.Details, "quantity")
	require.Empty(t, svc.History(testSession, KindDiscount))
}

func TestCalculationsRejectAmountsOutOfRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	selling := int64(pricing.MaxAmount)

	_, err := svc.HPP(ctx, testSession, HPPRequest{SellingPrice: &selling, Quantity: 2})
	appErr := requireAppError(t, err, "BAD_REQUEST", http.StatusBadRequest)
	require.ErrorIs(t, appErr, pricing.ErrAmountOutOfRange)

	_, err = svc.Discount(ctx, testSession, DiscountRequest{
		ProductID: "roti-keju",
		Quantity:  1,
		Discount:  AdjustmentInput{Kind: "nominal", Value: decimal.RequireFromString("1e30")},
	})
	requireAppError(t, err, "BAD_REQUEST", http.StatusBadRequest)

	_, err = svc.HPP(ctx, testSession, HPPRequest{
		SellingPrice: &selling,
		Recipe:       []RecipeLine{{Name: "tepung", Quantity: decimal.RequireFromString("1e30"), UnitCost: 12000}},
	})
	requireAppError(t, err, "BAD_REQUEST", http.StatusBadRequest)

	require.Empty(t, svc.History(testSession, KindHPP))
	require.Empty(t, svc.History(testSession, KindDiscount))
}

func TestRecipeCostIsCapped(t *testing.T) {
	huge := []RecipeLine{{Name: "mentega", Quantity: decimal.RequireFromString("1e30"), UnitCost: 50000}}
	require.Equal(t, pricing.MaxAmount+1, RecipeCost(huge, 1))

	huge[0].Quantity = huge[0].Quantity.Neg()
	require.Equal(t, -pricing.MaxAmount-1, RecipeCost(huge, 1))
}
