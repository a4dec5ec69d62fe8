package model

import (
	"fmt"
	"strings"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeBadFilter             = "BAD_FILTER"
	ErrCodeInvalidComparisonSize = "INVALID_COMPARISON_SIZE"
	ErrCodeDuplicateProducts     = "DUPLICATE_PRODUCT_IDS"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeMixedCategory         = "MIXED_CATEGORY"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeUnknownAttribute      = "UNKNOWN_ATTRIBUTE"
	ErrCodeDuplicateSKU          = "DUPLICATE_SKU"
	ErrCodeExtractionFailed      = "EXTRACTION_FAILED"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// DomainError is a structured business-rule failure. Details carries enough
// context (missing ids, categories found, field errors) for the caller to
// self-correct.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error without details.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// FieldError is a single attribute-level validation failure. One write can
// produce many of these; they are collected, never short-circuited.
type FieldError struct {
	Key     string   `json:"key"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Allowed []string `json:"allowed,omitempty"`
}

// Field-level error codes used inside a ValidationError.
const (
	FieldUnknownAttribute = "unknown_attribute"
	FieldTypeMismatch     = "type_mismatch"
	FieldInvalidEnumValue = "invalid_enum_value"
	FieldOutOfRange       = "out_of_range"
	FieldRequired         = "required"
	FieldInvalidValue     = "invalid_value"
)

// NewValidationError wraps a collected list of field errors. The write that
// produced them must not be applied, even partially.
func NewValidationError(fields []FieldError) *DomainError {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Key, f.Message))
	}
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: "validation failed: " + strings.Join(msgs, "; "),
		Details: map[string]any{"fields": fields},
	}
}

// NewBadFilterError reports a malformed filter specification, rejected before
// any query executes.
func NewBadFilterError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeBadFilter,
		Message: "bad filter: " + reason,
	}
}

// NewInvalidComparisonSizeError reports a comparison request outside the
// allowed 2..10 product range.
func NewInvalidComparisonSizeError(count, min, max int) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidComparisonSize,
		Message: fmt.Sprintf("comparison requires between %d and %d products, got %d", min, max, count),
		Details: map[string]any{"count": count, "min": min, "max": max},
	}
}

// NewProductsNotFoundError lists every requested product id that did not
// resolve, not just the first.
func NewProductsNotFoundError(ids []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeProductNotFound,
		Message: "products not found: " + strings.Join(ids, ", "),
		Details: map[string]any{"missingIds": ids},
	}
}

// NewMixedCategoryError names all distinct categories found in a comparison
// request that must be single-category.
func NewMixedCategoryError(categories []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMixedCategory,
		Message: "all products must share one category, found: " + strings.Join(categories, ", "),
		Details: map[string]any{"categories": categories},
	}
}

// NewNotFoundError reports a missing entity in a context that demands
// existence (as opposed to the permissive non-match policy used while
// filtering).
func NewNotFoundError(kind, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %q not found", kind, id),
		Details: map[string]any{"kind": kind, "id": id},
	}
}

// NewUnknownAttributeError reports a schema lookup for a key the category
// does not declare.
func NewUnknownAttributeError(categoryID, key string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownAttribute,
		Message: fmt.Sprintf("attribute %q is not declared for category %q", key, categoryID),
		Details: map[string]any{"categoryId": categoryID, "key": key},
	}
}

// NewExtractionFailedError reports an opaque upstream extractor failure.
// Extraction is not retried by this service.
func NewExtractionFailedError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeExtractionFailed,
		Message: "extraction failed: " + reason,
	}
}

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
