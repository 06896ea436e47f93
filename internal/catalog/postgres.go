package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool used by PostgresStore.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore reads products from the products table.
type PostgresStore struct {
	DB DB
}

const (
	selectProductColumns = `SELECT id, name, category, base_price, cost_of_goods, active FROM products`
	getProductSQL        = selectProductColumns + ` WHERE id = $1`
	listProductsSQL      = selectProductColumns + ` WHERE active ORDER BY name`
	upsertProductSQL     = `INSERT INTO products (id, name, category, base_price, cost_of_goods, active)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	category = EXCLUDED.category,
	base_price = EXCLUDED.base_price,
	cost_of_goods = EXCLUDED.cost_of_goods,
	active = EXCLUDED.active,
	updated_at = now()`
)

// Get returns a product by id, active or not.
func (s PostgresStore) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(s.DB.QueryRow(ctx, getProductSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// List returns active products ordered by name.
func (s PostgresStore) List(ctx context.Context) ([]Product, error) {
	rows, err := s.DB.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Upsert inserts or updates a product row.
func (s PostgresStore) Upsert(ctx context.Context, p Product) error {
	if _, err := s.DB.Exec(ctx, upsertProductSQL, p.ID, p.Name, p.Category, p.BasePrice, p.CostOfGoods, p.Active); err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.BasePrice, &p.CostOfGoods, &p.Active); err != nil {
		return Product{}, err
	}
	return p, nil
}
