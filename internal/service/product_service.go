package service

import (
	"context"
	"fmt"
	"time"

	"product-intel/internal/model"
	"product-intel/internal/query"
	"product-intel/internal/repository"
	"product-intel/internal/schema"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService. Every write passes through the
// schema validator; a product never reaches storage with attribute values
// its category does not declare.
type productService struct {
	products   repository.ProductRepository
	vendors    repository.VendorRepository
	categories repository.CategoryRepository
	registry   *schema.Registry
	validator  *schema.Validator
	logger     zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	vendors repository.VendorRepository,
	categories repository.CategoryRepository,
	registry *schema.Registry,
	validator *schema.Validator,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		products:   products,
		vendors:    vendors,
		categories: categories,
		registry:   registry,
		validator:  validator,
		logger:     logger.With().Str("service", "product").Logger(),
	}
}

// Query compiles the filter spec and returns one page of matching products.
func (s *productService) Query(ctx context.Context, spec query.FilterSpec) (*model.ProductListResponse, error) {
	compiled, err := query.Compile(s.registry, spec)
	if err != nil {
		return nil, err
	}

	items, total, err := s.products.Query(ctx, compiled)
	if err != nil {
		s.logger.Error().Err(err).Msg("product query failed")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	vendorNames, categoryNames, err := s.referenceNames(ctx)
	if err != nil {
		return nil, err
	}

	resp := &model.ProductListResponse{
		Items:  make([]model.ProductResponse, 0, len(items)),
		Total:  total,
		Offset: compiled.Spec.Offset,
		Limit:  compiled.Spec.Limit,
	}
	for _, p := range items {
		resp.Items = append(resp.Items, enrich(p, vendorNames, categoryNames))
	}

	s.logger.Debug().
		Int("returned", len(resp.Items)).
		Int("total", total).
		Msg("products queried")

	return resp, nil
}

// Get retrieves a single product enriched with vendor and category names.
func (s *productService) Get(ctx context.Context, id string) (*model.ProductResponse, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p == nil {
		return nil, model.NewNotFoundError("product", id)
	}

	vendorNames, categoryNames, err := s.referenceNames(ctx)
	if err != nil {
		return nil, err
	}
	resp := enrich(*p, vendorNames, categoryNames)
	return &resp, nil
}

// Create validates and persists a new product.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.ProductResponse, error) {
	p, err := s.buildProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", p.ID).
		Str("sku", p.SKU).
		Str("category_id", p.CategoryID).
		Msg("product created")

	return s.Get(ctx, p.ID)
}

// Update re-validates and replaces an existing product. The update timestamp
// advances on every mutation; creation time is preserved.
func (s *productService) Update(ctx context.Context, id string, req *model.ProductRequest) (*model.ProductResponse, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, model.NewNotFoundError("product", id)
	}

	p, err := s.buildProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	ok, err := s.products.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewNotFoundError("product", id)
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	return s.Get(ctx, id)
}

// Delete hard-deletes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	ok, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewNotFoundError("product", id)
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// buildProduct validates the request's fixed fields and attribute map and
// assembles the product. Field problems are collected so the caller sees the
// complete list, and nothing is written unless the list is empty.
func (s *productService) buildProduct(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	var fieldErrs []model.FieldError

	require := func(key, value string) {
		if value == "" {
			fieldErrs = append(fieldErrs, model.FieldError{
				Key: key, Code: model.FieldRequired, Message: "is required",
			})
		}
	}
	require("sku", req.SKU)
	require("name", req.Name)
	require("vendorId", req.VendorID)
	require("categoryId", req.CategoryID)

	lifecycle := req.LifecycleStatus
	if lifecycle == "" {
		lifecycle = model.LifecycleActive
	}
	if !model.ValidLifecycleStatus(lifecycle) {
		fieldErrs = append(fieldErrs, model.FieldError{
			Key: "lifecycleStatus", Code: model.FieldInvalidValue,
			Message: fmt.Sprintf("unknown lifecycle status %q", lifecycle),
		})
	}

	if req.ListPrice != nil && req.ListPrice.IsNegative() {
		fieldErrs = append(fieldErrs, model.FieldError{
			Key: "listPrice", Code: model.FieldOutOfRange, Message: "cannot be negative",
		})
	}
	if req.CostPrice != nil && req.CostPrice.IsNegative() {
		fieldErrs = append(fieldErrs, model.FieldError{
			Key: "costPrice", Code: model.FieldOutOfRange, Message: "cannot be negative",
		})
	}
	if req.WarrantyYears != nil && *req.WarrantyYears < 0 {
		fieldErrs = append(fieldErrs, model.FieldError{
			Key: "warrantyYears", Code: model.FieldOutOfRange, Message: "cannot be negative",
		})
	}

	if len(fieldErrs) > 0 {
		return nil, model.NewValidationError(fieldErrs)
	}

	if req.VendorID != "" {
		vendor, err := s.vendors.GetByID(ctx, req.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, model.NewNotFoundError("vendor", req.VendorID)
		}
	}

	// SchemaFor inside Validate also rejects unknown categories.
	attrs, err := s.validator.Validate(req.CategoryID, req.Attributes)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	return &model.Product{
		SKU:             req.SKU,
		VendorID:        req.VendorID,
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		ProductFamily:   req.ProductFamily,
		ListPrice:       req.ListPrice,
		CostPrice:       req.CostPrice,
		Currency:        currency,
		LifecycleStatus: lifecycle,
		WarrantyYears:   req.WarrantyYears,
		Attributes:      attrs,
		DatasheetURL:    req.DatasheetURL,
		ImageURL:        req.ImageURL,
		Notes:           req.Notes,
	}, nil
}

func (s *productService) referenceNames(ctx context.Context) (map[string]string, map[string]string, error) {
	vendors, err := s.vendors.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	vendorNames := make(map[string]string, len(vendors))
	for _, v := range vendors {
		vendorNames[v.ID] = v.Name
	}

	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load categories: %w", err)
	}
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	return vendorNames, categoryNames, nil
}

func enrich(p model.Product, vendorNames, categoryNames map[string]string) model.ProductResponse {
	resp := model.ProductResponse{Product: p}
	resp.VendorName = vendorNames[p.VendorID]
	resp.CategoryName = categoryNames[p.CategoryID]
	return resp
}
