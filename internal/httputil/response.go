// Package httputil contains JSON response helpers shared by handlers and
// middleware.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/moodlist/moodlist/internal/errors"
)

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// ErrorResponse is the standard error response format. The "detail" field
// name matches what the frontend reads from failed responses.
type ErrorResponse struct {
	Detail string              `json:"detail"`
	Code   apperrors.ErrorCode `json:"code"`
}

// WriteError renders err with the status code its taxonomy maps to.
// Errors outside the taxonomy become opaque 500s.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		log.Error().Err(err).Msg("unclassified error")
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	WriteJSON(w, appErr.HTTPStatus(), ErrorResponse{
		Detail: appErr.Message,
		Code:   appErr.Code,
	})
}
