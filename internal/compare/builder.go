package compare

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"product-intel/internal/model"
	"product-intel/internal/schema"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Builder assembles the row set of a comparison table from same-category
// products and their category schema. It assumes the caller has already
// validated the comparison set (size, existence, single category).
type Builder struct {
	schema      *schema.AttributeSchema
	category    model.Category
	vendorNames map[string]string
}

// NewBuilder creates a builder for one category.
func NewBuilder(s *schema.AttributeSchema, category model.Category, vendorNames map[string]string) *Builder {
	return &Builder{schema: s, category: category, vendorNames: vendorNames}
}

// Build produces the ordered table description. Products render in the given
// order; attribute rows follow schema declaration order, restricted to the
// requested subset when one is supplied. A requested key the schema does not
// declare is skipped rather than erroring.
func (b *Builder) Build(products []model.Product, req Request) *Table {
	t := &Table{
		Title:        req.Title,
		CategoryID:   b.category.ID,
		CategoryName: b.category.Name,
		Notes:        req.Notes,
		ProductCount: len(products),
		VendorCount:  distinctVendors(products),
		GeneratedAt:  time.Now().UTC(),
	}
	if t.Title == "" {
		t.Title = b.category.Name + " Comparison"
	}

	for _, p := range products {
		t.Header = append(t.Header, p.Name)
	}

	t.FixedRows = b.fixedRows(products, req.IncludePricing)
	t.AttributeRows = b.attributeRows(products, req.Attributes)
	return t
}

func (b *Builder) fixedRows(products []model.Product, includePricing bool) []Row {
	vendor := Row{Label: "Vendor"}
	sku := Row{Label: "SKU"}
	price := Row{Label: "List Price"}

	for _, p := range products {
		name, ok := b.vendorNames[p.VendorID]
		if !ok {
			name = p.VendorID
		}
		vendor.Cells = append(vendor.Cells, name)
		sku.Cells = append(sku.Cells, p.SKU)
		if includePricing {
			price.Cells = append(price.Cells, formatPrice(p.ListPrice, p.Currency))
		}
	}

	rows := []Row{vendor, sku}
	if includePricing {
		rows = append(rows, price)
	}
	return rows
}

func (b *Builder) attributeRows(products []model.Product, requested []string) []Row {
	attrs := b.schema.Attributes()
	if len(requested) > 0 {
		subset := make(map[string]struct{}, len(requested))
		for _, key := range requested {
			subset[key] = struct{}{}
		}
		kept := attrs[:0]
		for _, a := range attrs {
			if _, ok := subset[a.Key]; ok {
				kept = append(kept, a)
			}
		}
		attrs = kept
	}

	rows := make([]Row, 0, len(attrs))
	for _, attr := range attrs {
		row := Row{Label: attrLabel(attr)}
		for _, p := range products {
			value, present := p.Attribute(attr.Key)
			if !present {
				row.Cells = append(row.Cells, NotSpecified)
				continue
			}
			row.Cells = append(row.Cells, FormatValue(attr, value))
		}
		rows = append(rows, row)
	}
	return rows
}

func attrLabel(attr schema.Attribute) string {
	if attr.Unit != "" {
		return fmt.Sprintf("%s (%s)", attr.Label, attr.Unit)
	}
	return attr.Label
}

// FormatValue renders one attribute value as the human string the document
// shows. Booleans become Yes/No, arrays comma-join, price-like numbers get a
// currency prefix, free-form objects flatten to "key: value" pairs.
func FormatValue(attr schema.Attribute, value any) string {
	canonical, ferr := schema.CoerceValue(attr, value)
	if ferr != nil {
		// stored values predate validation or came from a looser source;
		// fall back to a plain rendering
		return cast.ToString(value)
	}

	switch attr.Type {
	case schema.TypeBoolean:
		if canonical.(bool) {
			return "Yes"
		}
		return "No"
	case schema.TypeInteger:
		n := canonical.(int64)
		if priceLike(attr.Key) {
			return formatPrice(decimalPtr(decimal.NewFromInt(n)), "USD")
		}
		return strconv.FormatInt(n, 10)
	case schema.TypeNumber:
		f := canonical.(float64)
		if priceLike(attr.Key) {
			return formatPrice(decimalPtr(decimal.NewFromFloat(f)), "USD")
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case schema.TypeArray:
		elems := canonical.([]any)
		parts := make([]string, 0, len(elems))
		elemAttr := schema.Attribute{Key: attr.Key, Type: attr.Elem}
		for _, e := range elems {
			parts = append(parts, FormatValue(elemAttr, e))
		}
		return strings.Join(parts, ", ")
	case schema.TypeObject:
		m := canonical.(map[string]any)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, cast.ToString(m[k])))
		}
		return strings.Join(parts, "; ")
	default:
		return canonical.(string)
	}
}

func formatPrice(d *decimal.Decimal, currency string) string {
	if d == nil {
		return NotSpecified
	}
	symbol := "$"
	if currency != "" && currency != "USD" {
		symbol = currency + " "
	}
	return symbol + d.StringFixed(2)
}

func priceLike(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "price") || strings.Contains(k, "cost")
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func distinctVendors(products []model.Product) int {
	vendors := make(map[string]struct{}, len(products))
	for _, p := range products {
		vendors[p.VendorID] = struct{}{}
	}
	return len(vendors)
}
