package calculator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/backend-roti/internal/catalog"
	"github.com/noah-isme/backend-roti/internal/common"
	"github.com/noah-isme/backend-roti/internal/obs"
	"github.com/noah-isme/backend-roti/internal/pricing"
)

// ProductLookup resolves a product id into prices.
type ProductLookup interface {
	Lookup(ctx context.Context, id string) (catalog.Resolved, error)
}

// Service runs the calculators and records priced calculations in the caller's session.
type Service struct {
	Catalog  ProductLookup
	Sessions *Sessions
	Logger   zerolog.Logger
	Now      func() time.Time
}

var tracer trace.Tracer = otel.Tracer("calculator")

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ready() error {
	if s == nil || s.Catalog == nil || s.Sessions == nil {
		return errors.New("calculator service not configured")
	}
	return nil
}

// Discount prices a quantity of one product after discount and channel fee.
func (s *Service) Discount(ctx context.Context, sessionID string, req DiscountRequest) (Result, error) {
	ctx, span := tracer.Start(ctx, "calculator.discount")
	defer span.End()
	if err := s.ready(); err != nil {
		return Result{}, err
	}
	if err := common.ValidateStruct(req); err != nil {
		return Result{}, err
	}
	discount, fee, err := adjustments(req.Discount, req.ChannelFee)
	if err != nil {
		return Result{}, err
	}
	product, err := s.Catalog.Lookup(ctx, req.ProductID)
	if err != nil {
		return Result{}, fail(span, err)
	}
	in := pricing.Inputs{
		Lines:    []pricing.Line{lineFor(product, req.Quantity)},
		Discount: discount,
		Fee:      fee,
		Rounding: req.Rounding,
	}
	return s.record(span, sessionID, KindDiscount, in, product.CostFallback)
}

// Bundling prices several products sold together as one bundle.
func (s *Service) Bundling(ctx context.Context, sessionID string, req BundlingRequest) (Result, error) {
	ctx, span := tracer.Start(ctx, "calculator.bundling")
	defer span.End()
	if err := s.ready(); err != nil {
		return Result{}, err
	}
	if err := common.ValidateStruct(req); err != nil {
		return Result{}, err
	}
	discount, fee, err := adjustments(req.Discount, req.ChannelFee)
	if err != nil {
		return Result{}, err
	}
	in := pricing.Inputs{Discount: discount, Fee: fee, Rounding: req.Rounding}
	fallback := false
	for _, line := range req.Lines {
		product, err := s.Catalog.Lookup(ctx, line.ProductID)
		if err != nil {
			return Result{}, fail(span, err)
		}
		fallback = fallback || product.CostFallback
		in.Lines = append(in.Lines, lineFor(product, line.Quantity))
	}
	span.SetAttributes(attribute.Int("bundle.lines", len(in.Lines)))
	return s.record(span, sessionID, KindBundling, in, fallback)
}

// HPP applies markup, discount and fee to the selling price (explicit or the catalog
// base price) and measures the result against the cost of goods, which comes from an
// explicit HPP, a recipe or the catalog.
func (s *Service) HPP(ctx context.Context, sessionID string, req HPPRequest) (Result, error) {
	ctx, span := tracer.Start(ctx, "calculator.hpp")
	defer span.End()
	if err := s.ready(); err != nil {
		return Result{}, err
	}
	if err := common.ValidateStruct(req); err != nil {
		return Result{}, err
	}
	markup, err := pricing.ParseMarkup(req.Markup)
	if err != nil {
		return Result{}, common.BadRequest(err.Error(), err)
	}
	discount, fee, err := adjustments(req.Discount, req.ChannelFee)
	if err != nil {
		return Result{}, err
	}

	line := pricing.Line{ProductID: req.ProductID, Quantity: req.Quantity}
	if line.Quantity == 0 {
		line.Quantity = 1
	}
	fallback := false
	var product *catalog.Resolved
	if req.ProductID != "" {
		resolved, err := s.Catalog.Lookup(ctx, req.ProductID)
		if err != nil {
			return Result{}, fail(span, err)
		}
		product = &resolved
		line.Name = resolved.Name
	}

	switch {
	case req.SellingPrice != nil:
		line.UnitPrice = *req.SellingPrice
	case product != nil:
		line.UnitPrice = product.BasePrice
	}

	switch {
	case req.HPP != nil:
		line.UnitCost = *req.HPP
	case len(req.Recipe) > 0:
		line.UnitCost = RecipeCost(req.Recipe, req.Yield)
	case product != nil:
		line.UnitCost = product.Cost
		fallback = product.CostFallback
	}
	line.UnitCost += req.OverheadPerUnit

	in := pricing.Inputs{
		Lines:    []pricing.Line{line},
		Markup:   markup,
		Discount: discount,
		Fee:      fee,
		Rounding: req.Rounding,
	}
	return s.record(span, sessionID, KindHPP, in, fallback)
}

// History returns the session's entries for kind, most recent first.
func (s *Service) History(sessionID string, kind Kind) []pricing.Entry {
	if s == nil || s.Sessions == nil {
		return []pricing.Entry{}
	}
	return s.Sessions.History(sessionID, kind)
}

func (s *Service) record(span trace.Span, sessionID string, kind Kind, in pricing.Inputs, fallback bool) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, fail(span, common.BadRequest("amounts are outside the supported range", err))
	}
	entry := pricing.NewEntry(string(kind), in, s.now())
	s.Sessions.Ledger(sessionID, kind).Push(entry)

	obs.ObserveCalculation(string(kind), string(entry.Profit.Band))
	span.SetAttributes(
		attribute.String("calculator.kind", string(kind)),
		attribute.Int64("pricing.final", entry.Breakdown.Final),
		attribute.String("pricing.band", string(entry.Profit.Band)),
	)
	s.Logger.Debug().
		Str("calculator", string(kind)).
		Str("session_id", sessionID).
		Int64("final_price", entry.Breakdown.Final).
		Int64("profit", entry.Profit.Amount).
		Str("band", string(entry.Profit.Band)).
		Msg("calculation recorded")

	return Result{
		SessionID:    sessionID,
		Calculator:   kind,
		Breakdown:    entry.Breakdown,
		Profit:       entry.Profit,
		Cost:         in.Cost(),
		CostFallback: fallback,
		Entry:        entry,
	}, nil
}

func adjustments(discount AdjustmentInput, fee *FeeInput) (pricing.Adjustment, *pricing.Adjustment, error) {
	d, err := discount.toAdjustment()
	if err != nil {
		return pricing.Adjustment{}, nil, err
	}
	f, err := fee.toAdjustment()
	if err != nil {
		return pricing.Adjustment{}, nil, err
	}
	return d, f, nil
}

func lineFor(p catalog.Resolved, qty int64) pricing.Line {
	return pricing.Line{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  qty,
		UnitPrice: p.BasePrice,
		UnitCost:  p.Cost,
	}
}

// RecipeCost sums ingredient costs and spreads them over yield units, rounding the
// per-unit cost up to whole Rupiah. Costs beyond pricing.MaxAmount in either sign are
// capped just past it so validation rejects them instead of wrapping.
func RecipeCost(recipe []RecipeLine, yield int64) pricing.Money {
	total := decimal.Zero
	for _, r := range recipe {
		total = total.Add(r.Quantity.Mul(decimal.NewFromInt(r.UnitCost)))
	}
	if yield <= 0 {
		yield = 1
	}
	perUnit := total.Div(decimal.NewFromInt(yield)).Ceil()
	switch {
	case perUnit.GreaterThan(recipeCostCap):
		return pricing.MaxAmount + 1
	case perUnit.LessThan(recipeCostCap.Neg()):
		return -pricing.MaxAmount - 1
	}
	return perUnit.IntPart()
}

var recipeCostCap = decimal.NewFromInt(pricing.MaxAmount)

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	if !common.IsAppError(err) {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("calculator: %w", err)
	}
	return err
}
