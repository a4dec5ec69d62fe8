package seed

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Document is the JSON seed file shape: the full vendor, category and
// product catalogue in one document.
type Document struct {
	Vendors    []VendorSeed   `json:"vendors"`
	Categories []CategorySeed `json:"categories"`
	Products   []ProductSeed  `json:"products"`
}

// VendorSeed is one vendor record in the seed document.
type VendorSeed struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Website          *string `json:"website,omitempty"`
	PartnerPortalURL *string `json:"partner_portal_url,omitempty"`
}

// CategorySeed is one category record with its attribute schema document.
type CategorySeed struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	AttributeSchema json.RawMessage `json:"attribute_schema,omitempty"`
}

// ProductSeed is one product record in the seed document.
type ProductSeed struct {
	ID              string           `json:"id,omitempty"`
	SKU             string           `json:"sku"`
	VendorID        string           `json:"vendor_id"`
	CategoryID      string           `json:"category_id"`
	Name            string           `json:"name"`
	ProductFamily   *string          `json:"product_family,omitempty"`
	ListPrice       *decimal.Decimal `json:"list_price,omitempty"`
	CostPrice       *decimal.Decimal `json:"cost_price,omitempty"`
	Currency        string           `json:"currency,omitempty"`
	LifecycleStatus string           `json:"lifecycle_status,omitempty"`
	WarrantyYears   *int             `json:"warranty_years,omitempty"`
	Attributes      map[string]any   `json:"attributes,omitempty"`
	DatasheetURL    *string          `json:"datasheet_url,omitempty"`
	ImageURL        *string          `json:"image_url,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// Source fetches the raw seed document bytes from wherever they live.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}
