package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"product-intel/internal/extract"
	"product-intel/internal/model"
	"product-intel/internal/repository"
	"product-intel/internal/schema"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// extractionService implements ExtractionService. It never persists the
// candidate product itself; a human reviews the response and submits it
// through the normal product write path.
type extractionService struct {
	vendors   repository.VendorRepository
	registry  *schema.Registry
	extractor extract.Extractor
	logger    zerolog.Logger
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(
	vendors repository.VendorRepository,
	registry *schema.Registry,
	extractor extract.Extractor,
	logger zerolog.Logger,
) ExtractionService {
	return &extractionService{
		vendors:   vendors,
		registry:  registry,
		extractor: extractor,
		logger:    logger.With().Str("service", "extraction").Logger(),
	}
}

// ExtractDatasheet runs the external extractor against a datasheet, screens
// the extracted attributes through the category schema and aggregates field
// confidences into one score. Invalid or unknown extracted attributes become
// warnings and are dropped from the candidate rather than failing the whole
// extraction.
func (s *extractionService) ExtractDatasheet(ctx context.Context, categoryID, vendorID string, document []byte) (*ExtractionResponse, error) {
	cs, err := s.registry.SchemaFor(categoryID)
	if err != nil {
		return nil, err
	}
	if len(document) == 0 {
		return nil, model.NewValidationError([]model.FieldError{
			{Key: "file", Code: model.FieldRequired, Message: "datasheet document is required"},
		})
	}

	vendorID, vendorCreated, err := s.resolveVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(ctx, cs, document)
	if err != nil {
		return nil, err
	}

	warnings := append([]string(nil), result.Warnings...)
	attrs := make(map[string]any)
	fields := make(map[string]extract.Field, len(result.Attributes))

	for key, field := range result.Attributes {
		attr, declared := cs.Lookup(key)
		if !declared {
			warnings = append(warnings, fmt.Sprintf("extractor returned undeclared attribute %q, dropped", key))
			continue
		}
		fields[key] = field
		if !field.Populated() {
			continue
		}
		canonical, ferr := schema.CoerceValue(attr, field.Value)
		if ferr != nil {
			warnings = append(warnings, fmt.Sprintf("attribute %q: %s, dropped", key, ferr.Message))
			field.Value = nil
			fields[key] = field
			continue
		}
		attrs[key] = canonical
	}

	score, populated := extract.Score(fields)
	status := extract.Status(score, populated)

	candidate := &model.ProductRequest{
		SKU:        strings.TrimSpace(result.SKU),
		Name:       strings.TrimSpace(result.Name),
		VendorID:   vendorID,
		CategoryID: categoryID,
		Attributes: attrs,
	}
	if family := strings.TrimSpace(result.ProductFamily); family != "" {
		candidate.ProductFamily = &family
	}

	resp := &ExtractionResponse{
		ExtractionID:    uuid.NewString(),
		Status:          status,
		ConfidenceScore: score,
		Candidate:       candidate,
		Fields:          fields,
		Warnings:        warnings,
		VendorCreated:   vendorCreated,
	}

	s.logger.Info().
		Str("extraction_id", resp.ExtractionID).
		Str("category_id", categoryID).
		Str("status", status).
		Float64("confidence", score).
		Int("populated_fields", populated).
		Int("warnings", len(warnings)).
		Msg("datasheet extracted")

	return resp, nil
}

// resolveVendor accepts either an existing vendor id or a vendor name. An
// unknown name auto-creates the vendor so a datasheet from a new manufacturer
// does not bounce.
func (s *extractionService) resolveVendor(ctx context.Context, vendorID string) (string, bool, error) {
	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		return "", false, model.NewValidationError([]model.FieldError{
			{Key: "vendorId", Code: model.FieldRequired, Message: "is required"},
		})
	}

	existing, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return "", false, fmt.Errorf("failed to get vendor: %w", err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	all, err := s.vendors.GetAll(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to load vendors: %w", err)
	}
	for _, v := range all {
		if strings.EqualFold(v.Name, vendorID) {
			return v.ID, false, nil
		}
	}

	if _, parseErr := uuid.Parse(vendorID); parseErr == nil {
		// an id that parses but resolves to nothing is a stale reference,
		// not a new vendor name
		return "", false, model.NewNotFoundError("vendor", vendorID)
	}

	now := time.Now().UTC()
	v := &model.Vendor{
		ID:        uuid.NewString(),
		Name:      vendorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.vendors.Upsert(ctx, v); err != nil {
		return "", false, err
	}
	s.logger.Info().Str("vendor_id", v.ID).Str("name", v.Name).Msg("vendor auto-created for extraction")
	return v.ID, true, nil
}
