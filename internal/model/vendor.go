package model

import "time"

// Vendor represents an equipment manufacturer referenced by products.
type Vendor struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Website          *string   `json:"website,omitempty" db:"website"`
	PartnerPortalURL *string   `json:"partnerPortalUrl,omitempty" db:"partner_portal_url"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// VendorRequest is the payload for creating or updating a vendor.
type VendorRequest struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Website          *string `json:"website,omitempty"`
	PartnerPortalURL *string `json:"partnerPortalUrl,omitempty"`
}
