package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
	apperrors "github.com/medoraclinic/medora-site/backend/pkg/errors"
)

// PublicCacheControl lets browsers and the CDN keep public reads for a day
const PublicCacheControl = "public, max-age=86400"

// envelope is the {success, message, ...payload} body every endpoint returns
type envelope map[string]interface{}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func respondWithSuccess(w http.ResponseWriter, payload envelope) {
	payload["success"] = true
	respondWithJSON(w, http.StatusOK, payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, envelope{
		"success": false,
		"message": message,
	})
}

// respondWithAppError maps an AppError type to its status code. Anything else
// is a 500. Server errors carry the failure message plus its cause under
// "error", and are logged with the request id.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		respondWithServerError(w, r, err, err.Error(), err)
		return
	}

	status := statusFor(appErr.Type)
	if status >= http.StatusInternalServerError {
		respondWithServerError(w, r, err, appErr.Message, appErr.Err)
		return
	}
	respondWithError(w, status, appErr.Message)
}

func respondWithServerError(w http.ResponseWriter, r *http.Request, err error, message string, cause error) {
	observability.LoggerFromContext(r.Context()).Error().
		Err(err).
		Str("path", r.URL.Path).
		Msg("request failed")

	if message == "" {
		message = "Internal server error"
	}
	body := envelope{
		"success": false,
		"message": message,
	}
	if cause != nil {
		body["error"] = cause.Error()
	}
	respondWithJSON(w, http.StatusInternalServerError, body)
}

func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationError("Invalid JSON body")
	}
	return nil
}
