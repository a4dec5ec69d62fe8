package handler

import (
	"net/http"

	"product-intel/internal/model"
	"product-intel/internal/service"

	"github.com/rs/zerolog"
)

// CatalogHandler handles vendor and category HTTP requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListVendors handles GET /api/vendors.
func (h *CatalogHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.service.Vendors(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

// GetVendor handles GET /api/vendors/{id}.
func (h *CatalogHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.service.Vendor(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

// SaveVendor handles POST /api/vendors. A request carrying an existing id
// updates that vendor in place.
func (h *CatalogHandler) SaveVendor(w http.ResponseWriter, r *http.Request) {
	var req model.VendorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	vendor, err := h.service.SaveVendor(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

// DeleteVendor handles DELETE /api/vendors/{id}.
func (h *CatalogHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVendor(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCategory handles GET /api/categories/{id}.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.Category(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// FilterableAttributes handles GET /api/categories/{id}/attributes.
func (h *CatalogHandler) FilterableAttributes(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FilterableAttributes(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
