package query

import (
	"strings"

	"product-intel/internal/model"
	"product-intel/internal/schema"

	"github.com/shopspring/decimal"
)

// FilterSpec is the client-supplied filter specification: fixed-field
// constraints plus a map of attribute key to a scalar or set of acceptable
// values.
type FilterSpec struct {
	CategoryID       string           `json:"categoryId,omitempty"`
	VendorIDs        []string         `json:"vendorIds,omitempty"`
	LifecycleStatus  string           `json:"lifecycleStatus,omitempty"`
	MinPrice         *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice         *decimal.Decimal `json:"maxPrice,omitempty"`
	Search           string           `json:"search,omitempty"`
	AttributeFilters map[string]any   `json:"attributeFilters,omitempty"`
	SortBy           string           `json:"sortBy,omitempty"`
	SortOrder        string           `json:"sortOrder,omitempty"`
	Offset           int              `json:"offset,omitempty"`
	Limit            int              `json:"limit,omitempty"`
}

// Predicate is a boolean test over a product.
type Predicate func(p *model.Product) bool

// CompiledFilter is an executable form of a FilterSpec. All predicates are
// combined with logical AND; the free-text search ORs across name, SKU and
// product family before joining the conjunction.
type CompiledFilter struct {
	Spec  FilterSpec
	preds []Predicate
}

// Match evaluates the full conjunction against one product.
func (f *CompiledFilter) Match(p *model.Product) bool {
	for _, pred := range f.preds {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Compile validates a FilterSpec and turns it into an executable predicate.
// Structural problems (unknown sort key, bad lifecycle value, non-scalar
// attribute constraints) are rejected with a BAD_FILTER error. An attribute
// key no category declares is not an error: products whose category lacks
// the key simply never match.
func Compile(registry *schema.Registry, spec FilterSpec) (*CompiledFilter, error) {
	if err := normalizeSpec(&spec); err != nil {
		return nil, err
	}

	f := &CompiledFilter{Spec: spec}

	if spec.CategoryID != "" {
		categoryID := spec.CategoryID
		f.preds = append(f.preds, func(p *model.Product) bool {
			return p.CategoryID == categoryID
		})
	}

	if len(spec.VendorIDs) > 0 {
		vendors := make(map[string]struct{}, len(spec.VendorIDs))
		for _, v := range spec.VendorIDs {
			vendors[v] = struct{}{}
		}
		f.preds = append(f.preds, func(p *model.Product) bool {
			_, ok := vendors[p.VendorID]
			return ok
		})
	}

	if spec.LifecycleStatus != "" {
		status := spec.LifecycleStatus
		f.preds = append(f.preds, func(p *model.Product) bool {
			return p.LifecycleStatus == status
		})
	}

	// Price bounds are inclusive; a product without a list price never
	// matches a price constraint.
	if spec.MinPrice != nil {
		min := *spec.MinPrice
		f.preds = append(f.preds, func(p *model.Product) bool {
			return p.ListPrice != nil && p.ListPrice.GreaterThanOrEqual(min)
		})
	}
	if spec.MaxPrice != nil {
		max := *spec.MaxPrice
		f.preds = append(f.preds, func(p *model.Product) bool {
			return p.ListPrice != nil && p.ListPrice.LessThanOrEqual(max)
		})
	}

	if spec.Search != "" {
		f.preds = append(f.preds, searchPredicate(spec.Search))
	}

	for key, constraint := range spec.AttributeFilters {
		values, err := constraintValues(key, constraint)
		if err != nil {
			return nil, err
		}
		f.preds = append(f.preds, attributePredicate(registry, key, values))
	}

	return f, nil
}

func normalizeSpec(spec *FilterSpec) error {
	if spec.SortBy == "" {
		spec.SortBy = SortByName
	}
	if !validSortKey(spec.SortBy) {
		return model.NewBadFilterError("unknown sort key " + spec.SortBy)
	}

	switch strings.ToLower(spec.SortOrder) {
	case "", SortAsc:
		spec.SortOrder = SortAsc
	case SortDesc:
		spec.SortOrder = SortDesc
	default:
		return model.NewBadFilterError("sort order must be asc or desc, got " + spec.SortOrder)
	}

	if spec.LifecycleStatus != "" && !model.ValidLifecycleStatus(spec.LifecycleStatus) {
		return model.NewBadFilterError("unknown lifecycle status " + spec.LifecycleStatus)
	}

	return nil
}

// constraintValues normalizes a scalar-or-set constraint into a set of
// scalar values. A scalar behaves as a one-element set.
func constraintValues(key string, constraint any) ([]any, error) {
	switch c := constraint.(type) {
	case []any:
		if len(c) == 0 {
			return nil, model.NewBadFilterError("attribute filter " + key + " has an empty value set")
		}
		for _, v := range c {
			if !scalarConstraint(v) {
				return nil, model.NewBadFilterError("attribute filter " + key + " must contain scalar values")
			}
		}
		return c, nil
	case nil:
		return nil, model.NewBadFilterError("attribute filter " + key + " has a null value")
	default:
		if !scalarConstraint(c) {
			return nil, model.NewBadFilterError("attribute filter " + key + " must be a scalar or a set of scalars")
		}
		return []any{c}, nil
	}
}

func scalarConstraint(v any) bool {
	switch v.(type) {
	case string, bool, float64, int, int64:
		return true
	}
	return false
}

// attributePredicate matches a product against one attribute constraint.
// Matching semantics:
//   - the product's own category schema decides the attribute type; a
//     category that does not declare the key never matches
//   - an absent stored value never matches (absence is not a wildcard)
//   - scalar stored value: match if the coerced stored value equals any
//     acceptable value
//   - array stored value: match on non-empty intersection with the
//     acceptable set
func attributePredicate(registry *schema.Registry, key string, values []any) Predicate {
	return func(p *model.Product) bool {
		s, err := registry.SchemaFor(p.CategoryID)
		if err != nil {
			return false
		}
		attr, ok := s.Lookup(key)
		if !ok {
			return false
		}
		raw, ok := p.Attribute(key)
		if !ok {
			return false
		}
		stored, ferr := schema.CoerceValue(attr, raw)
		if ferr != nil {
			return false
		}

		// Constraint values are coerced to the same canonical scalar type
		// as the stored value so equality compares like with like.
		scalarAttr := attr
		if attr.Type == schema.TypeArray {
			scalarAttr = schema.Attribute{Key: attr.Key, Type: attr.Elem, Enum: attr.Enum}
		}

		accepted := make(map[any]struct{}, len(values))
		for _, v := range values {
			coerced, ferr := schema.CoerceValue(scalarAttr, v)
			if ferr != nil {
				continue
			}
			accepted[coerced] = struct{}{}
		}
		if len(accepted) == 0 {
			return false
		}

		if elems, isArray := stored.([]any); isArray {
			for _, e := range elems {
				if _, hit := accepted[e]; hit {
					return true
				}
			}
			return false
		}

		_, hit := accepted[stored]
		return hit
	}
}

func searchPredicate(term string) Predicate {
	needle := strings.ToLower(term)
	return func(p *model.Product) bool {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return true
		}
		if strings.Contains(strings.ToLower(p.SKU), needle) {
			return true
		}
		if p.ProductFamily != nil && strings.Contains(strings.ToLower(*p.ProductFamily), needle) {
			return true
		}
		return false
	}
}
