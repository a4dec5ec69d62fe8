package handler

import (
	"io"
	"net/http"

	"product-intel/internal/model"
	"product-intel/internal/service"

	"github.com/rs/zerolog"
)

// maxDatasheetBytes bounds uploaded datasheet size. Vendor datasheets run a
// few megabytes; anything past this is not a datasheet.
const maxDatasheetBytes = 25 << 20

// ExtractHandler handles datasheet extraction HTTP requests.
type ExtractHandler struct {
	service service.ExtractionService
	logger  zerolog.Logger
}

// NewExtractHandler creates a new extraction handler.
func NewExtractHandler(service service.ExtractionService, logger zerolog.Logger) *ExtractHandler {
	return &ExtractHandler{
		service: service,
		logger:  logger.With().Str("handler", "extract").Logger(),
	}
}

// Extract handles POST /api/extractions. The request is multipart form data
// with a "file" part holding the datasheet PDF plus categoryId and vendorId
// fields.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDatasheetBytes)
	if err := r.ParseMultipartForm(maxDatasheetBytes); err != nil {
		writeError(w, model.NewValidationError([]model.FieldError{
			{Key: "file", Code: model.FieldInvalidValue, Message: "expected multipart form data with a file part"},
		}), h.logger)
		return
	}

	categoryID := r.FormValue("categoryId")
	vendorID := r.FormValue("vendorId")

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, model.NewValidationError([]model.FieldError{
			{Key: "file", Code: model.FieldRequired, Message: "datasheet file is required"},
		}), h.logger)
		return
	}
	defer file.Close()

	document, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.ExtractDatasheet(r.Context(), categoryID, vendorID, document)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
