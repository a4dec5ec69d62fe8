package query

import (
	"encoding/json"
	"errors"
	"testing"

	"product-intel/internal/model"
	"product-intel/internal/schema"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apSchema = `{
	"properties": {
		"wifi_standard": {"type": "string", "enum": ["wifi5", "wifi6", "wifi6e", "wifi7"]},
		"max_throughput_mbps": {"type": "integer"},
		"poe_support": {"type": "boolean"},
		"bands": {"type": "array", "items": {"type": "string", "enum": ["2.4GHz", "5GHz", "6GHz"]}}
	}
}`

const switchSchema = `{
	"properties": {
		"port_count": {"type": "integer"},
		"poe_budget_watts": {"type": "number"}
	}
}`

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	registry, err := schema.NewRegistry([]model.Category{
		{ID: "wireless_ap", AttributeSchema: json.RawMessage(apSchema)},
		{ID: "switch", AttributeSchema: json.RawMessage(switchSchema)},
	}, zerolog.Nop())
	require.NoError(t, err)
	return registry
}

func ap(id, name string, attrs map[string]any) model.Product {
	return model.Product{ID: id, SKU: "SKU-" + id, Name: name, CategoryID: "wireless_ap", Attributes: attrs}
}

func TestCompile_RejectsMalformedSpecs(t *testing.T) {
	registry := testRegistry(t)

	tests := []struct {
		name string
		spec FilterSpec
	}{
		{name: "unknown sort key", spec: FilterSpec{SortBy: "price"}},
		{name: "bad sort order", spec: FilterSpec{SortOrder: "sideways"}},
		{name: "unknown lifecycle status", spec: FilterSpec{LifecycleStatus: "retired"}},
		{name: "empty attribute value set", spec: FilterSpec{AttributeFilters: map[string]any{"wifi_standard": []any{}}}},
		{name: "null attribute constraint", spec: FilterSpec{AttributeFilters: map[string]any{"wifi_standard": nil}}},
		{name: "object attribute constraint", spec: FilterSpec{AttributeFilters: map[string]any{"wifi_standard": map[string]any{"a": 1}}}},
		{name: "nested set in value set", spec: FilterSpec{AttributeFilters: map[string]any{"wifi_standard": []any{[]any{"wifi6"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(registry, tt.spec)
			require.Error(t, err)
			var de *model.DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, model.ErrCodeBadFilter, de.Code)
		})
	}
}

func TestCompile_NormalizesDefaults(t *testing.T) {
	registry := testRegistry(t)

	f, err := Compile(registry, FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, SortByName, f.Spec.SortBy)
	assert.Equal(t, SortAsc, f.Spec.SortOrder)
}

func TestCompiledFilter_AttributeMatching(t *testing.T) {
	registry := testRegistry(t)

	cases := []struct {
		name    string
		filters map[string]any
		product model.Product
		want    bool
	}{
		{
			name:    "scalar constraint matches equal stored value",
			filters: map[string]any{"wifi_standard": "wifi6e"},
			product: ap("p1", "AP One", map[string]any{"wifi_standard": "wifi6e"}),
			want:    true,
		},
		{
			name:    "scalar constraint behaves as one-element set",
			filters: map[string]any{"wifi_standard": "wifi6e"},
			product: ap("p1", "AP One", map[string]any{"wifi_standard": "wifi6"}),
			want:    false,
		},
		{
			name:    "set constraint matches membership",
			filters: map[string]any{"wifi_standard": []any{"wifi6", "wifi6e"}},
			product: ap("p1", "AP One", map[string]any{"wifi_standard": "wifi6"}),
			want:    true,
		},
		{
			name:    "absent stored value never matches",
			filters: map[string]any{"wifi_standard": "wifi6"},
			product: ap("p1", "AP One", map[string]any{"poe_support": true}),
			want:    false,
		},
		{
			name:    "nil attribute map never matches",
			filters: map[string]any{"wifi_standard": "wifi6"},
			product: ap("p1", "AP One", nil),
			want:    false,
		},
		{
			name:    "array stored value matches on intersection",
			filters: map[string]any{"bands": []any{"6GHz"}},
			product: ap("p1", "AP One", map[string]any{"bands": []any{"2.4GHz", "5GHz", "6GHz"}}),
			want:    true,
		},
		{
			name:    "array stored value with empty intersection does not match",
			filters: map[string]any{"bands": []any{"6GHz"}},
			product: ap("p1", "AP One", map[string]any{"bands": []any{"2.4GHz", "5GHz"}}),
			want:    false,
		},
		{
			name:    "integer constraint matches across numeric representations",
			filters: map[string]any{"max_throughput_mbps": float64(2400)},
			product: ap("p1", "AP One", map[string]any{"max_throughput_mbps": int64(2400)}),
			want:    true,
		},
		{
			name:    "string integer constraint coerces before comparing",
			filters: map[string]any{"max_throughput_mbps": "2400"},
			product: ap("p1", "AP One", map[string]any{"max_throughput_mbps": float64(2400)}),
			want:    true,
		},
		{
			name:    "boolean constraint",
			filters: map[string]any{"poe_support": true},
			product: ap("p1", "AP One", map[string]any{"poe_support": true}),
			want:    true,
		},
		{
			name:    "key undeclared for the product's category never matches",
			filters: map[string]any{"wifi_standard": "wifi6"},
			product: model.Product{ID: "s1", CategoryID: "switch", Attributes: map[string]any{"port_count": int64(24)}},
			want:    false,
		},
		{
			name:    "unknown category never matches",
			filters: map[string]any{"wifi_standard": "wifi6"},
			product: model.Product{ID: "x1", CategoryID: "firewall", Attributes: map[string]any{"wifi_standard": "wifi6"}},
			want:    false,
		},
		{
			name:    "uncoercible constraint values are dropped from the accepted set",
			filters: map[string]any{"max_throughput_mbps": []any{"fast", float64(2400)}},
			product: ap("p1", "AP One", map[string]any{"max_throughput_mbps": int64(2400)}),
			want:    true,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(registry, FilterSpec{AttributeFilters: tt.filters})
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(&tt.product))
		})
	}
}

// A filter key no category declares is not an error; it just never matches.
// Browsing stays permissive across categories.
func TestCompile_UndeclaredKeyIsNotAnError(t *testing.T) {
	registry := testRegistry(t)

	f, err := Compile(registry, FilterSpec{AttributeFilters: map[string]any{"made_up_key": "x"}})
	require.NoError(t, err)

	p := ap("p1", "AP One", map[string]any{"wifi_standard": "wifi6"})
	assert.False(t, f.Match(&p))
}

func TestCompiledFilter_FixedFields(t *testing.T) {
	registry := testRegistry(t)
	price := func(s string) *decimal.Decimal {
		d, err := decimal.NewFromString(s)
		require.NoError(t, err)
		return &d
	}

	base := model.Product{
		ID: "p1", SKU: "AP-650", VendorID: "v1", CategoryID: "wireless_ap",
		Name: "CloudEdge AP650", LifecycleStatus: model.LifecycleActive,
		ListPrice: price("899.00"),
	}

	tests := []struct {
		name string
		spec FilterSpec
		want bool
	}{
		{name: "category match", spec: FilterSpec{CategoryID: "wireless_ap"}, want: true},
		{name: "category mismatch", spec: FilterSpec{CategoryID: "switch"}, want: false},
		{name: "vendor set match", spec: FilterSpec{VendorIDs: []string{"v1", "v2"}}, want: true},
		{name: "vendor set mismatch", spec: FilterSpec{VendorIDs: []string{"v2"}}, want: false},
		{name: "lifecycle match", spec: FilterSpec{LifecycleStatus: model.LifecycleActive}, want: true},
		{name: "min price inclusive", spec: FilterSpec{MinPrice: price("899.00")}, want: true},
		{name: "max price inclusive", spec: FilterSpec{MaxPrice: price("899.00")}, want: true},
		{name: "min price excludes", spec: FilterSpec{MinPrice: price("899.01")}, want: false},
		{name: "max price excludes", spec: FilterSpec{MaxPrice: price("898.99")}, want: false},
		{name: "search matches name", spec: FilterSpec{Search: "cloudedge"}, want: true},
		{name: "search matches sku", spec: FilterSpec{Search: "ap-650"}, want: true},
		{name: "search misses", spec: FilterSpec{Search: "firewall"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(registry, tt.spec)
			require.NoError(t, err)
			p := base
			assert.Equal(t, tt.want, f.Match(&p))
		})
	}
}

func TestCompiledFilter_UnpricedProductNeverMatchesPriceBounds(t *testing.T) {
	registry := testRegistry(t)
	min := decimal.NewFromInt(0)

	f, err := Compile(registry, FilterSpec{MinPrice: &min})
	require.NoError(t, err)

	p := ap("p1", "AP One", nil)
	assert.False(t, f.Match(&p))
}

func TestCompiledFilter_SearchMatchesProductFamily(t *testing.T) {
	registry := testRegistry(t)

	f, err := Compile(registry, FilterSpec{Search: "catalyst"})
	require.NoError(t, err)

	family := "Catalyst"
	p := ap("p1", "AP One", nil)
	p.ProductFamily = &family
	assert.True(t, f.Match(&p))
}

func TestCompiledFilter_ConstraintsAreANDed(t *testing.T) {
	registry := testRegistry(t)

	f, err := Compile(registry, FilterSpec{
		CategoryID: "wireless_ap",
		AttributeFilters: map[string]any{
			"wifi_standard": "wifi6e",
			"poe_support":   true,
		},
	})
	require.NoError(t, err)

	both := ap("p1", "AP One", map[string]any{"wifi_standard": "wifi6e", "poe_support": true})
	oneOnly := ap("p2", "AP Two", map[string]any{"wifi_standard": "wifi6e", "poe_support": false})

	assert.True(t, f.Match(&both))
	assert.False(t, f.Match(&oneOnly))
}
