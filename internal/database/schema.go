package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ddl is the catalogue schema. Attribute maps and category schema documents
// live in JSONB columns; their shape is enforced by the application's schema
// registry, not by the database.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS vendors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		website TEXT,
		partner_portal_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		attribute_schema JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL,
		vendor_id TEXT NOT NULL REFERENCES vendors(id),
		category_id TEXT NOT NULL REFERENCES categories(id),
		name TEXT NOT NULL,
		product_family TEXT,
		list_price NUMERIC(12,2),
		cost_price NUMERIC(12,2),
		currency TEXT NOT NULL DEFAULT 'USD',
		lifecycle_status TEXT NOT NULL DEFAULT 'active',
		warranty_years INTEGER,
		attributes JSONB NOT NULL DEFAULT '{}',
		datasheet_url TEXT,
		image_url TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_vendor ON products(vendor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku)`,
}

// EnsureSchema creates the catalogue tables when they do not exist yet. Used
// by the seed command and by integration tests.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
