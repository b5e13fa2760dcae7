package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"microblog-backend/internal/apperrors"
	"microblog-backend/internal/models"
	"microblog-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware creates a middleware that authenticates the bearer token
// and stores the resolved identity in the request context.
func AuthMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "Authentication token missing")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondUnauthorized(w, "Authentication token missing")
				return
			}

			user, err := userService.ResolveIdentity(r.Context(), parts[1])
			if err != nil {
				var appErr *apperrors.Error
				if errors.As(err, &appErr) {
					respondUnauthorized(w, appErr.Message)
					return
				}
				// Store failures are not the client's fault.
				log.Error().Err(err).Msg("failed to resolve identity")
				respondInternal(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a context carrying the authenticated user
func WithUser(ctx context.Context, user *models.PublicUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from the context
func UserFromContext(ctx context.Context) (*models.PublicUser, bool) {
	user, ok := ctx.Value(userKey).(*models.PublicUser)
	return user, ok
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func respondInternal(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "Internal Server Error",
		"message": err.Error(),
	})
}
