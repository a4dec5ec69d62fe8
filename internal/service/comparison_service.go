package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"product-intel/internal/compare"
	"product-intel/internal/config"
	"product-intel/internal/model"
	"product-intel/internal/render"
	"product-intel/internal/repository"
	"product-intel/internal/schema"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// timestampLayout is embedded in artifact filenames so expiry can be decided
// from the name alone, without a metadata store.
const timestampLayout = "20060102150405"

// comparisonService implements ComparisonService. Rendered documents live on
// local disk under the configured output directory; the generation timestamp
// in the filename drives expiry.
type comparisonService struct {
	products   repository.ProductRepository
	vendors    repository.VendorRepository
	categories repository.CategoryRepository
	registry   *schema.Registry
	renderer   render.Renderer
	outputDir  string
	expiry     time.Duration
	logger     zerolog.Logger
}

// NewComparisonService creates a new comparison service.
func NewComparisonService(
	products repository.ProductRepository,
	vendors repository.VendorRepository,
	categories repository.CategoryRepository,
	registry *schema.Registry,
	renderer render.Renderer,
	cfg config.PDFConfig,
	logger zerolog.Logger,
) ComparisonService {
	return &comparisonService{
		products:   products,
		vendors:    vendors,
		categories: categories,
		registry:   registry,
		renderer:   renderer,
		outputDir:  cfg.OutputDir,
		expiry:     time.Duration(cfg.ExpiryHours) * time.Hour,
		logger:     logger.With().Str("service", "comparison").Logger(),
	}
}

// Build validates the request and assembles the comparison table without
// rendering it.
func (s *comparisonService) Build(ctx context.Context, req compare.Request) (*compare.Table, error) {
	if err := compare.ValidateRequest(req); err != nil {
		return nil, err
	}

	products, err := s.resolveProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	categoryID := products[0].CategoryID
	cs, err := s.registry.SchemaFor(categoryID)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.NewNotFoundError("category", categoryID)
	}

	vendors, err := s.vendors.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	vendorNames := make(map[string]string, len(vendors))
	for _, v := range vendors {
		vendorNames[v.ID] = v.Name
	}

	return compare.NewBuilder(cs, *category, vendorNames).Build(products, req), nil
}

// Create builds the table, renders it and stores the document under a name
// the lookup path can resolve and expire.
func (s *comparisonService) Create(ctx context.Context, req compare.Request) (*ComparisonResponse, error) {
	table, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	document, err := s.renderer.Render(table)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	comparisonID := uuid.NewString()
	generatedAt := time.Now().UTC()
	filename := fmt.Sprintf("%s_%s.pdf", comparisonID, generatedAt.Format(timestampLayout))
	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, document, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store comparison document: %w", err)
	}

	s.logger.Info().
		Str("comparison_id", comparisonID).
		Int("products", table.ProductCount).
		Str("category_id", table.CategoryID).
		Msg("comparison document created")

	return &ComparisonResponse{
		ComparisonID:     comparisonID,
		PDFURL:           "/api/comparisons/" + comparisonID + "/pdf",
		ExpiresAt:        generatedAt.Add(s.expiry),
		ProductsCompared: table.ProductCount,
	}, nil
}

// PDFPath locates the stored document for a comparison id. An expired
// document is deleted on access and reported as expired rather than missing.
func (s *comparisonService) PDFPath(comparisonID string) (string, bool, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, model.NewNotFoundError("comparison", comparisonID)
		}
		return "", false, fmt.Errorf("failed to read comparison directory: %w", err)
	}

	prefix := comparisonID + "_"
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		path := filepath.Join(s.outputDir, name)
		if s.isExpired(name, time.Now().UTC()) {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				s.logger.Warn().Err(err).Str("file", name).Msg("failed to remove expired comparison")
			}
			return "", true, nil
		}
		return path, false, nil
	}
	return "", false, model.NewNotFoundError("comparison", comparisonID)
}

// CleanupExpired removes every stored document past its expiry and returns
// the number deleted.
func (s *comparisonService) CleanupExpired() int {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Msg("failed to read comparison directory")
		}
		return 0
	}

	now := time.Now().UTC()
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".pdf") {
			continue
		}
		if !s.isExpired(name, now) {
			continue
		}
		if err := os.Remove(filepath.Join(s.outputDir, name)); err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("failed to remove expired comparison")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("expired comparison documents cleaned up")
	}
	return removed
}

// isExpired reads the generation timestamp out of an artifact filename. Files
// whose names do not parse count as expired so malformed leftovers get swept.
func (s *comparisonService) isExpired(filename string, now time.Time) bool {
	base := strings.TrimSuffix(filename, ".pdf")
	_, stamp, ok := strings.Cut(base, "_")
	if !ok {
		return true
	}
	generatedAt, err := time.Parse(timestampLayout, stamp)
	if err != nil {
		return true
	}
	return now.After(generatedAt.Add(s.expiry))
}

// resolveProducts loads the requested products, reports every missing id at
// once, enforces the single-category rule and restores request order.
func (s *comparisonService) resolveProducts(ctx context.Context, ids []string) ([]model.Product, error) {
	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[string]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, model.NewProductsNotFoundError(missing)
	}

	ordered := make([]model.Product, 0, len(ids))
	categorySet := make(map[string]struct{})
	var categories []string
	for _, id := range ids {
		p := byID[id]
		ordered = append(ordered, p)
		if _, seen := categorySet[p.CategoryID]; !seen {
			categorySet[p.CategoryID] = struct{}{}
			categories = append(categories, p.CategoryID)
		}
	}
	if len(categories) > 1 {
		return nil, model.NewMixedCategoryError(categories)
	}

	return ordered, nil
}
