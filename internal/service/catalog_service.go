package service

import (
	"context"
	"fmt"
	"time"

	"product-intel/internal/model"
	"product-intel/internal/repository"
	"product-intel/internal/schema"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// catalogService implements CatalogService over the vendor and category
// repositories plus the startup schema registry.
type catalogService struct {
	vendors    repository.VendorRepository
	categories repository.CategoryRepository
	registry   *schema.Registry
	logger     zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	vendors repository.VendorRepository,
	categories repository.CategoryRepository,
	registry *schema.Registry,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		vendors:    vendors,
		categories: categories,
		registry:   registry,
		logger:     logger.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) Vendors(ctx context.Context) ([]model.Vendor, error) {
	vendors, err := s.vendors.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

func (s *catalogService) Vendor(ctx context.Context, id string) (*model.Vendor, error) {
	v, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if v == nil {
		return nil, model.NewNotFoundError("vendor", id)
	}
	return v, nil
}

// SaveVendor creates the vendor when the request carries no id, otherwise
// updates the existing record in place.
func (s *catalogService) SaveVendor(ctx context.Context, req *model.VendorRequest) (*model.Vendor, error) {
	if req.Name == "" {
		return nil, model.NewValidationError([]model.FieldError{
			{Key: "name", Code: model.FieldRequired, Message: "is required"},
		})
	}

	now := time.Now().UTC()
	v := &model.Vendor{
		ID:               req.ID,
		Name:             req.Name,
		Website:          req.Website,
		PartnerPortalURL: req.PartnerPortalURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	} else {
		existing, err := s.vendors.GetByID(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get vendor: %w", err)
		}
		if existing != nil {
			v.CreatedAt = existing.CreatedAt
		}
	}

	if err := s.vendors.Upsert(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info().Str("vendor_id", v.ID).Str("name", v.Name).Msg("vendor saved")
	return v, nil
}

func (s *catalogService) DeleteVendor(ctx context.Context, id string) error {
	ok, err := s.vendors.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewNotFoundError("vendor", id)
	}
	s.logger.Info().Str("vendor_id", id).Msg("vendor deleted")
	return nil
}

func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) Category(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if c == nil {
		return nil, model.NewNotFoundError("category", id)
	}
	return c, nil
}

// FilterableAttributes exposes the category's schema in the shape clients use
// to build filters: keys in declaration order, with enum values when the
// schema constrains them.
func (s *catalogService) FilterableAttributes(ctx context.Context, categoryID string) (*model.FilterableAttributesResponse, error) {
	cs, err := s.registry.SchemaFor(categoryID)
	if err != nil {
		return nil, err
	}

	c, err := s.Category(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	resp := &model.FilterableAttributesResponse{
		CategoryID:   categoryID,
		CategoryName: c.Name,
		Attributes:   make([]model.FilterableAttribute, 0, cs.Len()),
	}
	for _, attr := range cs.Attributes() {
		resp.Attributes = append(resp.Attributes, model.FilterableAttribute{
			Key:         attr.Key,
			Label:       attr.Label,
			Type:        string(attr.Type),
			Description: attr.Description,
			Unit:        attr.Unit,
			Values:      attr.Enum,
		})
	}
	return resp, nil
}
