package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-roti/internal/common"
	"github.com/noah-isme/backend-roti/internal/pricing"
)

// Service resolves products for the calculators.
type Service struct {
	store     Store
	costRatio decimal.Decimal
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store     Store
	CostRatio decimal.Decimal
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	ratio := cfg.CostRatio
	if !ratio.IsPositive() {
		ratio = pricing.DefaultCostRatio
	}
	return &Service{store: cfg.Store, costRatio: ratio}, nil
}

// List returns every product with its cost resolved.
func (s *Service) List(ctx context.Context) ([]Resolved, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]Resolved, 0, len(products))
	for _, p := range products {
		out = append(out, Resolve(p, s.costRatio))
	}
	return out, nil
}

// Lookup returns a single active product with its cost resolved. Inactive products
// are reported as not found so they can no longer be priced.
func (s *Service) Lookup(ctx context.Context, id string) (Resolved, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Resolved{}, common.NewAppError("BAD_REQUEST", "product id is required", http.StatusBadRequest, nil)
	}
	p, err := s.store.Get(ctx, id)
	if err == nil && !p.Active {
		err = ErrNotFound
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			appErr := common.NewAppError("PRODUCT_NOT_FOUND", "product not found", http.StatusNotFound, err)
			appErr.Details = map[string]any{"productId": id}
			return Resolved{}, appErr
		}
		return Resolved{}, fmt.Errorf("lookup product %s: %w", id, err)
	}
	return Resolve(p, s.costRatio), nil
}
