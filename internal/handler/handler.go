package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"product-intel/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps an error to an HTTP status and a structured error body.
// Domain errors carry their own code and details; anything else is an opaque
// internal error.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if errors.As(err, &de) {
		status := statusFor(de.Code)
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("code", de.Code).Msg("handler error")
		} else {
			logger.Debug().Str("code", de.Code).Str("message", de.Message).Msg("request rejected")
		}
		writeJSON(w, status, model.ErrorResponse{
			Error:   de.Code,
			Message: de.Message,
			Details: de.Details,
		})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	})
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeValidation,
		model.ErrCodeBadFilter,
		model.ErrCodeInvalidJSON,
		model.ErrCodeInvalidComparisonSize,
		model.ErrCodeDuplicateProducts,
		model.ErrCodeMixedCategory,
		model.ErrCodeUnknownAttribute:
		return http.StatusBadRequest
	case model.ErrCodeNotFound, model.ErrCodeProductNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateSKU:
		return http.StatusConflict
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeExtractionFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields so
// typos surface instead of silently dropping.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid JSON body: "+err.Error())
	}
	return nil
}
