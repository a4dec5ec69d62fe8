package extract

import (
	"context"

	"product-intel/internal/schema"
)

// Confidence labels an extractor assigns to individual fields.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Field is one extracted attribute value with the extractor's certainty and
// an optional note about where in the document it was found. A nil Value
// means the datasheet was silent on the field.
type Field struct {
	Value      any        `json:"value"`
	Confidence Confidence `json:"confidence"`
	SourceNote string     `json:"sourceNote,omitempty"`
}

// Populated reports whether the extractor actually found a value.
func (f Field) Populated() bool {
	return f.Value != nil
}

// Result is the raw output of one extraction call, before schema validation
// and confidence aggregation.
type Result struct {
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	ProductFamily string           `json:"productFamily"`
	Attributes    map[string]Field `json:"attributes"`
	Warnings      []string         `json:"warnings"`
}

// Extractor is the external datasheet-extraction collaborator. Failures
// surface as a single EXTRACTION_FAILED error; this service never retries.
type Extractor interface {
	Extract(ctx context.Context, s *schema.AttributeSchema, document []byte) (*Result, error)
}
