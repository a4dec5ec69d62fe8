package handler

import (
	"net/http"

	"product-intel/internal/compare"
	"product-intel/internal/service"

	"github.com/rs/zerolog"
)

// CompareHandler handles product comparison HTTP requests.
type CompareHandler struct {
	service service.ComparisonService
	logger  zerolog.Logger
}

// NewCompareHandler creates a new comparison handler.
func NewCompareHandler(service service.ComparisonService, logger zerolog.Logger) *CompareHandler {
	return &CompareHandler{
		service: service,
		logger:  logger.With().Str("handler", "compare").Logger(),
	}
}

// Create handles POST /api/comparisons: validates the product set, renders
// the document and returns where to fetch it.
func (h *CompareHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req compare.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Preview handles POST /api/comparisons/preview: the assembled table as JSON,
// without rendering or storing a document.
func (h *CompareHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req compare.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	table, err := h.service.Build(r.Context(), req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// GetPDF handles GET /api/comparisons/{id}/pdf and streams the stored
// document. An expired document yields 410 so clients know to regenerate
// rather than retry.
func (h *CompareHandler) GetPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path, expired, err := h.service.PDFPath(id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if expired {
		writeJSON(w, http.StatusGone, map[string]string{
			"error":   "EXPIRED",
			"message": "comparison document has expired, create a new comparison",
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="comparison_`+id+`.pdf"`)
	http.ServeFile(w, r, path)
}
