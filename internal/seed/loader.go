package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"product-intel/internal/model"
	"product-intel/internal/repository"
	"product-intel/internal/schema"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Loader applies a seed document to storage. Loading is idempotent: vendors
// and categories upsert by id, products by id when given and by SKU
// otherwise, so re-running the loader converges instead of duplicating.
// Product attributes pass through the same schema validation as API writes.
type Loader struct {
	vendors    repository.VendorRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	logger     zerolog.Logger
}

// NewLoader creates a seed loader over the three repositories.
func NewLoader(
	vendors repository.VendorRepository,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	logger zerolog.Logger,
) *Loader {
	return &Loader{
		vendors:    vendors,
		categories: categories,
		products:   products,
		logger:     logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load fetches, parses and applies a seed document.
func (l *Loader) Load(ctx context.Context, source Source) error {
	data, err := source.Fetch(ctx)
	if err != nil {
		return err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse seed document: %w", err)
	}

	now := time.Now().UTC()

	for _, v := range doc.Vendors {
		vendor := model.Vendor{
			ID:               v.ID,
			Name:             v.Name,
			Website:          v.Website,
			PartnerPortalURL: v.PartnerPortalURL,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := l.vendors.Upsert(ctx, &vendor); err != nil {
			return fmt.Errorf("failed to seed vendor %s: %w", v.ID, err)
		}
	}

	seededCategories := make([]model.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		category := model.Category{
			ID:              c.ID,
			Name:            c.Name,
			Description:     c.Description,
			AttributeSchema: c.AttributeSchema,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := l.categories.Upsert(ctx, &category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.ID, err)
		}
		seededCategories = append(seededCategories, category)
	}

	// Validate product attributes against the schemas this same document
	// declares; a seed file is not allowed to smuggle unvalidated values in.
	registry, err := schema.NewRegistry(seededCategories, l.logger)
	if err != nil {
		return err
	}
	validator := schema.NewValidator(registry, l.logger)

	for _, p := range doc.Products {
		attrs, err := validator.Validate(p.CategoryID, p.Attributes)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}

		product := model.Product{
			ID:              p.ID,
			SKU:             p.SKU,
			VendorID:        p.VendorID,
			CategoryID:      p.CategoryID,
			Name:            p.Name,
			ProductFamily:   p.ProductFamily,
			ListPrice:       p.ListPrice,
			CostPrice:       p.CostPrice,
			Currency:        p.Currency,
			LifecycleStatus: p.LifecycleStatus,
			WarrantyYears:   p.WarrantyYears,
			Attributes:      attrs,
			DatasheetURL:    p.DatasheetURL,
			ImageURL:        p.ImageURL,
			Notes:           p.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if product.Currency == "" {
			product.Currency = "USD"
		}
		if product.LifecycleStatus == "" {
			product.LifecycleStatus = model.LifecycleActive
		}

		if err := l.upsertProduct(ctx, &product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.SKU, err)
		}
	}

	l.logger.Info().
		Int("vendors", len(doc.Vendors)).
		Int("categories", len(doc.Categories)).
		Int("products", len(doc.Products)).
		Msg("seed document applied")

	return nil
}

// upsertProduct updates an existing product matched by id (or SKU when the
// seed record has no id) and creates it otherwise.
func (l *Loader) upsertProduct(ctx context.Context, p *model.Product) error {
	var existing *model.Product
	var err error

	if p.ID != "" {
		existing, err = l.products.GetByID(ctx, p.ID)
	} else {
		existing, err = l.products.GetBySKU(ctx, p.SKU)
	}
	if err != nil {
		return err
	}

	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		_, err = l.products.Update(ctx, p)
		return err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return l.products.Create(ctx, p)
}
