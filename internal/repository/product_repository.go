package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"product-intel/internal/model"
	"product-intel/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// productRepository implements ProductRepository using PostgreSQL. Fixed
// field constraints are pushed into SQL; attribute and search predicates run
// in process over the narrowed rows, and the query engine provides the
// deterministic sort and page bounds.
type productRepository struct {
	pool   *pgxpool.Pool
	engine *query.Engine
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, engine *query.Engine, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		engine: engine,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `
	id, sku, vendor_id, category_id, name, product_family,
	list_price::text, cost_price::text, currency, lifecycle_status,
	warranty_years, attributes, datasheet_url, image_url, notes,
	created_at, updated_at
`

// Query narrows the collection in SQL by category, vendor, lifecycle and
// price bounds, then evaluates the full compiled predicate over the scanned
// rows before sorting and paginating.
func (r *productRepository) Query(ctx context.Context, f *query.CompiledFilter) ([]model.Product, int, error) {
	where, args := fixedConstraints(f.Spec)

	sql := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	candidates, err := scanProducts(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan product rows")
		return nil, 0, err
	}

	page, total := r.engine.Apply(candidates, f)

	r.logger.Debug().
		Int("candidates", len(candidates)).
		Int("matched", total).
		Int("returned", len(page)).
		Msg("product query executed")

	return page, total, nil
}

// fixedConstraints builds the SQL WHERE fragments for the constraints the
// database can evaluate directly.
func fixedConstraints(spec query.FilterSpec) ([]string, []any) {
	var where []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if spec.CategoryID != "" {
		add("category_id = $%d", spec.CategoryID)
	}
	if len(spec.VendorIDs) > 0 {
		add("vendor_id = ANY($%d)", spec.VendorIDs)
	}
	if spec.LifecycleStatus != "" {
		add("lifecycle_status = $%d", spec.LifecycleStatus)
	}
	if spec.MinPrice != nil {
		add("list_price >= $%d", spec.MinPrice.String())
	}
	if spec.MaxPrice != nil {
		add("list_price <= $%d", spec.MaxPrice.String())
	}

	return where, args
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	sql := "SELECT " + productColumns + " FROM products WHERE id = $1"

	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		r.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, nil
	}
	return &products[0], nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	sql := "SELECT " + productColumns + " FROM products WHERE id = ANY($1)"

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetBySKU retrieves a product by vendor SKU.
func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	sql := "SELECT " + productColumns + " FROM products WHERE sku = $1"

	rows, err := r.pool.Query(ctx, sql, sku)
	if err != nil {
		r.logger.Error().Err(err).Str("sku", sku).Msg("failed to query product by SKU")
		return nil, fmt.Errorf("failed to query product by SKU: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	attrs, err := marshalAttributes(p.Attributes)
	if err != nil {
		return err
	}

	sql := `
		INSERT INTO products (
			id, sku, vendor_id, category_id, name, product_family,
			list_price, cost_price, currency, lifecycle_status,
			warranty_years, attributes, datasheet_url, image_url, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = r.pool.Exec(ctx, sql,
		p.ID, p.SKU, p.VendorID, p.CategoryID, p.Name, p.ProductFamily,
		priceArg(p.ListPrice), priceArg(p.CostPrice), p.Currency, p.LifecycleStatus,
		p.WarrantyYears, attrs, p.DatasheetURL, p.ImageURL, p.Notes,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Update replaces a product's mutable fields.
func (r *productRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	attrs, err := marshalAttributes(p.Attributes)
	if err != nil {
		return false, err
	}

	sql := `
		UPDATE products SET
			sku = $2, vendor_id = $3, category_id = $4, name = $5,
			product_family = $6, list_price = $7, cost_price = $8,
			currency = $9, lifecycle_status = $10, warranty_years = $11,
			attributes = $12, datasheet_url = $13, image_url = $14,
			notes = $15, updated_at = $16
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, sql,
		p.ID, p.SKU, p.VendorID, p.CategoryID, p.Name,
		p.ProductFamily, priceArg(p.ListPrice), priceArg(p.CostPrice),
		p.Currency, p.LifecycleStatus, p.WarrantyYears,
		attrs, p.DatasheetURL, p.ImageURL, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete hard-deletes a product.
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var (
			p         model.Product
			listPrice *string
			costPrice *string
			attrs     []byte
		)
		err := rows.Scan(
			&p.ID, &p.SKU, &p.VendorID, &p.CategoryID, &p.Name, &p.ProductFamily,
			&listPrice, &costPrice, &p.Currency, &p.LifecycleStatus,
			&p.WarrantyYears, &attrs, &p.DatasheetURL, &p.ImageURL, &p.Notes,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		if p.ListPrice, err = parsePrice(listPrice); err != nil {
			return nil, err
		}
		if p.CostPrice, err = parsePrice(costPrice); err != nil {
			return nil, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
				return nil, fmt.Errorf("failed to decode attributes for product %s: %w", p.ID, err)
			}
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func parsePrice(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", *s, err)
	}
	return &d, nil
}

func priceArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func marshalAttributes(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attributes: %w", err)
	}
	return b, nil
}
