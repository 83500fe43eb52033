package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devcheck/devcheck-be/internal/auth"
	"github.com/devcheck/devcheck-be/internal/models"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps service and serializer errors onto HTTP statuses. Anything
// unrecognised is logged with ctx and reported as a generic 500.
func writeError(w http.ResponseWriter, err error, ctx func(*zerolog.Event) *zerolog.Event, msg string) {
	var (
		verr     *serializers.ValidationError
		conflict *services.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: verr.Fields})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{
			Error:  "conflict",
			Fields: map[string]string{conflict.Field: conflict.Reason},
		})
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "no active account found with the given credentials")
	default:
		event := log.Error().Err(err)
		if ctx != nil {
			event = ctx(event)
		}
		event.Msg(msg)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// withID adds an id field to a log event.
func withID(key, id string) func(*zerolog.Event) *zerolog.Event {
	return func(e *zerolog.Event) *zerolog.Event {
		return e.Str(key, id)
	}
}

// currentUser returns the authenticated user. Routes using it sit behind
// auth.Middleware, so a miss is a wiring bug.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("Could not retrieve user from context")
		writeMessage(w, http.StatusUnauthorized, "authentication credentials were not provided")
	}
	return user, ok
}

// partialFor reports whether the request is a partial update.
func partialFor(r *http.Request) bool {
	return r.Method == http.MethodPatch
}
