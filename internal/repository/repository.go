package repository

import (
	"context"

	"product-intel/internal/model"
	"product-intel/internal/query"
)

// ProductRepository defines the storage contract for products. A single
// product read always returns a consistent attribute map; the predicate in
// Query is evaluated against such consistent snapshots.
type ProductRepository interface {
	// Query applies a compiled filter to the product collection and returns
	// one deterministically ordered page plus the total match count.
	Query(ctx context.Context, f *query.CompiledFilter) ([]model.Product, int, error)

	// GetByID retrieves a single product, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves the products whose ids are in the list. Missing ids
	// are simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetBySKU retrieves a product by vendor SKU, or nil when none matches.
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update replaces a product's mutable fields. Returns false when the
	// product does not exist.
	Update(ctx context.Context, p *model.Product) (bool, error)

	// Delete hard-deletes a product. Returns false when it did not exist.
	Delete(ctx context.Context, id string) (bool, error)
}

// VendorRepository defines the storage contract for vendors.
type VendorRepository interface {
	GetAll(ctx context.Context) ([]model.Vendor, error)
	GetByID(ctx context.Context, id string) (*model.Vendor, error)

	// Upsert inserts the vendor or updates it in place; used by the seed
	// loader and by extraction's vendor auto-create.
	Upsert(ctx context.Context, v *model.Vendor) error

	Delete(ctx context.Context, id string) (bool, error)
}

// CategoryRepository defines the storage contract for categories and their
// attribute schema documents.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Upsert(ctx context.Context, c *model.Category) error
}
