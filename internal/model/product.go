package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle status values for a product.
const (
	LifecycleActive    = "active"
	LifecycleEndOfSale = "end_of_sale"
	LifecycleEndOfLife = "end_of_life"
)

// ValidLifecycleStatus reports whether s is a recognised lifecycle status.
func ValidLifecycleStatus(s string) bool {
	switch s {
	case LifecycleActive, LifecycleEndOfSale, LifecycleEndOfLife:
		return true
	}
	return false
}

// Product represents a single catalogue item from one vendor in one category.
// Attributes holds the category-specific specification values, keyed by the
// attribute keys declared in the category schema. A missing key means
// "unspecified", which is distinct from a stored false or zero.
type Product struct {
	ID              string           `json:"id" db:"id"`
	SKU             string           `json:"sku" db:"sku"`
	VendorID        string           `json:"vendorId" db:"vendor_id"`
	CategoryID      string           `json:"categoryId" db:"category_id"`
	Name            string           `json:"name" db:"name"`
	ProductFamily   *string          `json:"productFamily,omitempty" db:"product_family"`
	ListPrice       *decimal.Decimal `json:"listPrice,omitempty" db:"list_price"`
	CostPrice       *decimal.Decimal `json:"costPrice,omitempty" db:"cost_price"`
	Currency        string           `json:"currency" db:"currency"`
	LifecycleStatus string           `json:"lifecycleStatus" db:"lifecycle_status"`
	WarrantyYears   *int             `json:"warrantyYears,omitempty" db:"warranty_years"`
	Attributes      map[string]any   `json:"attributes,omitempty" db:"attributes"`
	DatasheetURL    *string          `json:"datasheetUrl,omitempty" db:"datasheet_url"`
	ImageURL        *string          `json:"imageUrl,omitempty" db:"image_url"`
	Notes           *string          `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
}

// Attribute returns the stored attribute value and whether it is present.
func (p *Product) Attribute(key string) (any, bool) {
	if p.Attributes == nil {
		return nil, false
	}
	v, ok := p.Attributes[key]
	return v, ok
}

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	SKU             string           `json:"sku"`
	VendorID        string           `json:"vendorId"`
	CategoryID      string           `json:"categoryId"`
	Name            string           `json:"name"`
	ProductFamily   *string          `json:"productFamily,omitempty"`
	ListPrice       *decimal.Decimal `json:"listPrice,omitempty"`
	CostPrice       *decimal.Decimal `json:"costPrice,omitempty"`
	Currency        string           `json:"currency,omitempty"`
	LifecycleStatus string           `json:"lifecycleStatus,omitempty"`
	WarrantyYears   *int             `json:"warrantyYears,omitempty"`
	Attributes      map[string]any   `json:"attributes,omitempty"`
	DatasheetURL    *string          `json:"datasheetUrl,omitempty"`
	ImageURL        *string          `json:"imageUrl,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// ProductResponse is a product enriched with vendor and category names for
// API output.
type ProductResponse struct {
	Product
	VendorName   string `json:"vendorName,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// ProductListResponse is a paginated product query result.
type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int               `json:"total"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
}
