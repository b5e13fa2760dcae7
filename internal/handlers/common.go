package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"microblog-backend/internal/apperrors"

	"github.com/rs/zerolog/log"
)

// MessageResponse is the body for message-only and domain-error responses
type MessageResponse struct {
	Message string `json:"message"`
}

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondMessage writes a {"message": ...} body
func respondMessage(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, MessageResponse{Message: message})
}

// respondError is the single boundary mapping domain error kinds to status
// codes. Anything uncategorized becomes a 500 with the message passed
// through.
func respondError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		respondMessage(w, statusFor(appErr.Kind), appErr.Message)
		return
	}

	log.Error().Err(err).Msg("Unhandled error")
	respondJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "Internal Server Error",
		"message": err.Error(),
	})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUnauthorized, apperrors.KindInvalidCredentials:
		return http.StatusUnauthorized
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnprocessableEntity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
