package service

import (
	"context"
	"time"

	"product-intel/internal/compare"
	"product-intel/internal/extract"
	"product-intel/internal/model"
	"product-intel/internal/query"
)

// ProductService defines operations for product management and querying.
type ProductService interface {
	// Query compiles the filter spec and returns one page of matching
	// products with the total match count.
	Query(ctx context.Context, spec query.FilterSpec) (*model.ProductListResponse, error)

	// Get retrieves a single product enriched with vendor and category names.
	Get(ctx context.Context, id string) (*model.ProductResponse, error)

	// Create validates and persists a new product.
	Create(ctx context.Context, req *model.ProductRequest) (*model.ProductResponse, error)

	// Update re-validates and replaces an existing product.
	Update(ctx context.Context, id string, req *model.ProductRequest) (*model.ProductResponse, error)

	// Delete hard-deletes a product.
	Delete(ctx context.Context, id string) error
}

// CatalogService defines read operations over vendors and categories.
type CatalogService interface {
	Vendors(ctx context.Context) ([]model.Vendor, error)
	Vendor(ctx context.Context, id string) (*model.Vendor, error)
	SaveVendor(ctx context.Context, req *model.VendorRequest) (*model.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error

	Categories(ctx context.Context) ([]model.Category, error)
	Category(ctx context.Context, id string) (*model.Category, error)

	// FilterableAttributes lists the attribute keys, types and allowed
	// values clients can filter a category on.
	FilterableAttributes(ctx context.Context, categoryID string) (*model.FilterableAttributesResponse, error)
}

// ComparisonResponse points the client at the rendered comparison document.
type ComparisonResponse struct {
	ComparisonID     string    `json:"comparisonId"`
	PDFURL           string    `json:"pdfUrl"`
	ExpiresAt        time.Time `json:"expiresAt"`
	ProductsCompared int       `json:"productsCompared"`
}

// ComparisonService validates comparison requests, builds the table and
// manages the rendered artifact's lifetime.
type ComparisonService interface {
	// Create validates the request, builds the comparison table and renders
	// it to a stored PDF.
	Create(ctx context.Context, req compare.Request) (*ComparisonResponse, error)

	// Build runs validation and table assembly without rendering; the
	// table is what document rendering consumes.
	Build(ctx context.Context, req compare.Request) (*compare.Table, error)

	// PDFPath locates a previously rendered comparison. The second return
	// reports that the document existed but has expired.
	PDFPath(comparisonID string) (string, bool, error)

	// CleanupExpired removes expired comparison documents and returns how
	// many were deleted.
	CleanupExpired() int
}

// ExtractionResponse is the outcome of one datasheet extraction.
type ExtractionResponse struct {
	ExtractionID    string                   `json:"extractionId"`
	Status          string                   `json:"status"`
	ConfidenceScore float64                  `json:"confidenceScore"`
	Candidate       *model.ProductRequest    `json:"candidate"`
	Fields          map[string]extract.Field `json:"fields"`
	Warnings        []string                 `json:"warnings"`
	VendorCreated   bool                     `json:"vendorCreated"`
}

// ExtractionService turns datasheet documents into validated candidate
// products via the external extraction collaborator.
type ExtractionService interface {
	ExtractDatasheet(ctx context.Context, categoryID, vendorID string, document []byte) (*ExtractionResponse, error)
}
