package compare

import (
	"time"

	"product-intel/internal/model"
)

// Comparison set bounds. A side-by-side document is only meaningful for a
// small number of products.
const (
	MinProducts = 2
	MaxProducts = 10
)

// NotSpecified marks a cell whose product has no stored value for the row's
// attribute. It is deliberately distinct from "false" or "0" so absence
// stays visible in the rendered document.
const NotSpecified = "Not specified"

// Request is the client's comparison request: an ordered product id list
// plus rendering options.
type Request struct {
	ProductIDs     []string `json:"productIds"`
	IncludePricing bool     `json:"includePricing"`
	Attributes     []string `json:"attributes,omitempty"`
	Title          string   `json:"title,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// ValidateRequest checks the size bounds and duplicate rule of a comparison
// request. Resolution of the ids happens later against storage.
func ValidateRequest(req Request) error {
	n := len(req.ProductIDs)
	if n < MinProducts || n > MaxProducts {
		return model.NewInvalidComparisonSizeError(n, MinProducts, MaxProducts)
	}
	seen := make(map[string]struct{}, n)
	for _, id := range req.ProductIDs {
		if _, dup := seen[id]; dup {
			return model.NewDomainError(model.ErrCodeDuplicateProducts,
				"duplicate product id in comparison request: "+id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Row is one labelled row of the comparison table with one cell per product.
type Row struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

// Table is the ordered description of a comparison document. It is the sole
// interface handed to document rendering; page layout is the renderer's
// problem.
type Table struct {
	Title         string    `json:"title"`
	CategoryID    string    `json:"categoryId"`
	CategoryName  string    `json:"categoryName"`
	Header        []string  `json:"header"`
	FixedRows     []Row     `json:"fixedRows"`
	AttributeRows []Row     `json:"attributeRows"`
	ProductCount  int       `json:"productCount"`
	VendorCount   int       `json:"vendorCount"`
	Notes         string    `json:"notes,omitempty"`
	GeneratedAt   time.Time `json:"generatedAt"`
}
