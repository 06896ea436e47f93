package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-roti/internal/pricing"
)

// ErrNotFound is returned when a product id is unknown to the store.
var ErrNotFound = errors.New("catalog: product not found")

// Product is the master data the calculators price against.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	BasePrice   pricing.Money  `json:"basePrice"`
	CostOfGoods *pricing.Money `json:"costOfGoods,omitempty"`
	Active      bool           `json:"active"`
}

// Store reads and writes products.
type Store interface {
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Upsert(ctx context.Context, p Product) error
}

// Resolved is a product with its cost of goods filled in.
type Resolved struct {
	Product
	Cost         pricing.Money `json:"cost"`
	CostFallback bool          `json:"costFallback"`
}

// Resolve fills in cost of goods, estimating it from the base price with ratio when
// the product has none.
func Resolve(p Product, ratio decimal.Decimal) Resolved {
	if p.CostOfGoods != nil {
		return Resolved{Product: p, Cost: *p.CostOfGoods}
	}
	return Resolved{Product: p, Cost: pricing.CostFallback(p.BasePrice, ratio), CostFallback: true}
}

func costPtr(v pricing.Money) *pricing.Money {
	return &v
}

// DefaultProducts is the starter assortment used by the memory store and the seeder.
func DefaultProducts() []Product {
	return []Product{
		{ID: "roti-tawar", Name: "Roti Tawar", Category: "roti", BasePrice: 18000, CostOfGoods: costPtr(9000), Active: true},
		{ID: "roti-sobek-coklat", Name: "Roti Sobek Coklat", Category: "roti", BasePrice: 22000, CostOfGoods: costPtr(11500), Active: true},
		{ID: "donat-gula", Name: "Donat Gula", Category: "donat", BasePrice: 5000, CostOfGoods: costPtr(2000), Active: true},
		{ID: "donat-coklat", Name: "Donat Coklat", Category: "donat", BasePrice: 6500, CostOfGoods: costPtr(2800), Active: true},
		{ID: "bolu-pandan", Name: "Bolu Pandan", Category: "kue", BasePrice: 45000, CostOfGoods: costPtr(21000), Active: true},
		{ID: "brownies-panggang", Name: "Brownies Panggang", Category: "kue", BasePrice: 55000, Active: true},
		{ID: "croissant-mentega", Name: "Croissant Mentega", Category: "pastry", BasePrice: 15000, CostOfGoods: costPtr(8000), Active: true},
		{ID: "pizza-mini", Name: "Pizza Mini", Category: "pastry", BasePrice: 12000, Active: true},
	}
}
