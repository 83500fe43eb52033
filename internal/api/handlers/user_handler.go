package handlers

import (
	"net/http"
	"time"

	"github.com/devcheck/devcheck-be/internal/auth"
	"github.com/devcheck/devcheck-be/internal/monitoring"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles registration, token issuance and the caller's profile.
type UserHandler struct {
	service      services.UserServiceProvider
	tokens       *auth.TokenIssuer
	accessTTL    time.Duration
	secureCookie bool
}

// NewUserHandler creates a new UserHandler. The access token is also set as
// an HttpOnly cookie; secureCookie should be true outside development.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenIssuer, accessTTL time.Duration, secureCookie bool) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, accessTTL: accessTTL, secureCookie: secureCookie}
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in serializers.RegisterInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, nil, "Failed to read registration payload")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), in)
	if err != nil {
		writeError(w, err, withID("username", in.Username.Value), "Failed to register user")
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	writeJSON(w, http.StatusCreated, user)
}

// Token exchanges username and password for an access/refresh token pair.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	var in serializers.Credentials
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, nil, "Failed to read credentials")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, err, nil, "Invalid credentials payload")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), in.Username.Value, in.Password.Value)
	if err != nil {
		monitoring.RecordAuthAttempt("login", false)
		log.Warn().Err(err).Str("username", in.Username.Value).Msg("Failed authentication attempt")
		writeError(w, err, withID("username", in.Username.Value), "Failed to authenticate user")
		return
	}

	pair, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, err, withID("user_id", user.ID), "Failed to generate JWT")
		return
	}
	monitoring.RecordAuthAttempt("login", true)

	h.setCookie(w, pair.Access)
	writeJSON(w, http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new access token.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in serializers.RefreshInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, nil, "Failed to read refresh payload")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, err, nil, "Invalid refresh payload")
		return
	}

	access, claims, err := h.tokens.Refresh(in.Refresh.Value)
	if err == nil {
		// Tokens of deleted accounts are not renewed.
		_, err = h.service.GetUserByID(r.Context(), claims.UserID)
	}
	if err != nil {
		monitoring.RecordAuthAttempt("refresh", false)
		log.Debug().Err(err).Msg("Rejected refresh token")
		writeMessage(w, http.StatusUnauthorized, "token is invalid or expired")
		return
	}
	monitoring.RecordAuthAttempt("refresh", true)

	h.setCookie(w, access)
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (h *UserHandler) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.accessTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// GetMe returns the authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe handles PUT and PATCH of the authenticated user's profile.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in serializers.ProfileInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("user_id", user.ID), "Failed to read profile payload")
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, in, partialFor(r))
	if err != nil {
		writeError(w, err, withID("user_id", user.ID), "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
