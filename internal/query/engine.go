package query

import (
	"sort"
	"strings"

	"product-intel/internal/model"

	"github.com/rs/zerolog"
)

// Sort keys accepted by the query engine.
const (
	SortByName      = "name"
	SortByListPrice = "list_price"
	SortBySKU       = "sku"
	SortByUpdatedAt = "updated_at"
	SortByCreatedAt = "created_at"

	SortAsc  = "asc"
	SortDesc = "desc"
)

func validSortKey(key string) bool {
	switch key {
	case SortByName, SortByListPrice, SortBySKU, SortByUpdatedAt, SortByCreatedAt:
		return true
	}
	return false
}

// Engine applies a compiled filter to a product collection and produces a
// deterministically ordered, bounded page. Ties are always broken by product
// id ascending so pagination is stable across requests.
type Engine struct {
	defaultLimit int
	maxLimit     int
	logger       zerolog.Logger
}

// NewEngine creates a query engine with the given page size bounds.
func NewEngine(defaultLimit, maxLimit int, logger zerolog.Logger) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Engine{
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger.With().Str("component", "query-engine").Logger(),
	}
}

// Apply filters, sorts and paginates the collection. The returned total is
// the number of matching products before pagination.
func (e *Engine) Apply(products []model.Product, f *CompiledFilter) ([]model.Product, int) {
	matched := make([]model.Product, 0, len(products))
	for i := range products {
		if f.Match(&products[i]) {
			matched = append(matched, products[i])
		}
	}

	SortProducts(matched, f.Spec.SortBy, f.Spec.SortOrder)

	offset, limit := e.ClampPage(f.Spec.Offset, f.Spec.Limit)
	total := len(matched)

	if offset >= total {
		// beyond the last page: empty result, not an error
		return []model.Product{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	e.logger.Debug().
		Int("total", total).
		Int("offset", offset).
		Int("limit", limit).
		Msg("query applied")

	return matched[offset:end], total
}

// ClampPage normalizes pagination bounds. Oversized limits are silently
// capped at the configured maximum rather than rejected.
func (e *Engine) ClampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if limit > e.maxLimit {
		limit = e.maxLimit
	}
	return offset, limit
}

// MaxLimit returns the configured page size cap.
func (e *Engine) MaxLimit() int {
	return e.maxLimit
}

// SortProducts orders products in place by the given sort key and direction,
// breaking ties by product id ascending regardless of direction.
func SortProducts(products []model.Product, sortBy, sortOrder string) {
	desc := sortOrder == SortDesc
	sort.SliceStable(products, func(i, j int) bool {
		a, b := &products[i], &products[j]
		c := compareBy(a, b, sortBy)
		if c == 0 {
			return a.ID < b.ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareBy(a, b *model.Product, sortBy string) int {
	switch sortBy {
	case SortByListPrice:
		return comparePrice(a, b)
	case SortBySKU:
		return strings.Compare(a.SKU, b.SKU)
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		if c == 0 {
			c = strings.Compare(a.Name, b.Name)
		}
		return c
	}
}

// comparePrice orders products without a list price after all priced ones so
// they cluster at the end of an ascending sort.
func comparePrice(a, b *model.Product) int {
	switch {
	case a.ListPrice == nil && b.ListPrice == nil:
		return 0
	case a.ListPrice == nil:
		return 1
	case b.ListPrice == nil:
		return -1
	default:
		return a.ListPrice.Cmp(*b.ListPrice)
	}
}
