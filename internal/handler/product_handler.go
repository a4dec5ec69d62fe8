package handler

import (
	"net/http"
	"strconv"
	"strings"

	"product-intel/internal/model"
	"product-intel/internal/query"
	"product-intel/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// attrParamPrefix marks query parameters that carry attribute filters, e.g.
// ?attr.wifi_standard=wifi6&attr.poe_support=true. Repeating the parameter
// builds a value set.
const attrParamPrefix = "attr."

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products. The full filter vocabulary is available as
// query parameters; attribute filters use the attr. prefix.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	spec, err := specFromQuery(r)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.Query(r.Context(), *spec)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Query handles POST /api/products/query with a JSON filter specification.
// It exists alongside List for filters too rich for query strings, typed
// attribute value sets in particular.
func (h *ProductHandler) Query(w http.ResponseWriter, r *http.Request) {
	var spec query.FilterSpec
	if err := decodeJSON(r, &spec); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.Query(r.Context(), spec)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, model.NewNotFoundError("product", id), h.logger)
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// specFromQuery assembles a filter specification from URL query parameters.
// Attribute values arrive as strings; the filter compiler coerces them
// against the schema at evaluation time.
func specFromQuery(r *http.Request) (*query.FilterSpec, error) {
	q := r.URL.Query()
	spec := &query.FilterSpec{
		CategoryID:      q.Get("categoryId"),
		LifecycleStatus: q.Get("lifecycleStatus"),
		Search:          q.Get("search"),
		SortBy:          q.Get("sortBy"),
		SortOrder:       q.Get("sortOrder"),
	}

	if vendors, ok := q["vendorId"]; ok {
		spec.VendorIDs = vendors
	}

	var err error
	if spec.MinPrice, err = priceParam(q.Get("minPrice"), "minPrice"); err != nil {
		return nil, err
	}
	if spec.MaxPrice, err = priceParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return nil, err
	}
	if spec.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		return nil, err
	}
	if spec.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return nil, err
	}

	for param, values := range q {
		if !strings.HasPrefix(param, attrParamPrefix) || len(values) == 0 {
			continue
		}
		key := param[len(attrParamPrefix):]
		if key == "" {
			return nil, model.NewBadFilterError("attribute filter parameter is missing a key")
		}
		if spec.AttributeFilters == nil {
			spec.AttributeFilters = make(map[string]any)
		}
		if len(values) == 1 {
			spec.AttributeFilters[key] = values[0]
		} else {
			set := make([]any, len(values))
			for i, v := range values {
				set[i] = v
			}
			spec.AttributeFilters[key] = set
		}
	}

	return spec, nil
}

func priceParam(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, model.NewBadFilterError("invalid " + name + " value " + raw)
	}
	return &d, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewBadFilterError("invalid " + name + " value " + raw)
	}
	return n, nil
}
