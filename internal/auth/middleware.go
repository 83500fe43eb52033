package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/devcheck/devcheck-be/internal/models"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserLookup resolves the account behind a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

type contextKey string

const userKey = contextKey("user")

// Middleware rejects requests without a valid access token and stores the
// authenticated user in the request context. The token is read from the
// Authorization header first and the "token" cookie second.
func Middleware(issuer *TokenIssuer, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				unauthorized(w, "authentication credentials were not provided")
				return
			}

			claims, err := issuer.Validate(tokenStr, AccessToken)
			if err != nil {
				log.Debug().Err(err).Msg("rejected access token")
				unauthorized(w, "invalid auth token")
				return
			}

			// The account may have been deleted since the token was issued.
			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, services.ErrNotFound) {
					log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load token user")
				}
				unauthorized(w, "invalid auth token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
