package model

import (
	"encoding/json"
	"time"
)

// Category represents a product family grouping that owns an attribute
// schema. The schema is stored as raw JSON and parsed once at startup by the
// schema registry; it is treated as immutable while products reference it.
type Category struct {
	ID              string          `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     *string         `json:"description,omitempty" db:"description"`
	AttributeSchema json.RawMessage `json:"attributeSchema,omitempty" db:"attribute_schema"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// FilterableAttribute describes one attribute of a category schema in the
// shape the API exposes to filter-building clients.
type FilterableAttribute struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Values      []string `json:"values,omitempty"`
}

// FilterableAttributesResponse lists the attributes a category supports
// filtering on.
type FilterableAttributesResponse struct {
	CategoryID   string                `json:"categoryId"`
	CategoryName string                `json:"categoryName"`
	Attributes   []FilterableAttribute `json:"attributes"`
}
