package handlers

import (
	"net/http"

	"github.com/devcheck/devcheck-be/internal/monitoring"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/rs/zerolog/log"
)

// IssueHandler accepts problem reports from signed-in users.
type IssueHandler struct {
	service services.IssueServiceProvider
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(service services.IssueServiceProvider) *IssueHandler {
	return &IssueHandler{service: service}
}

// Create records an issue submitted by the caller.
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in serializers.IssueInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("user_id", user.ID), "Failed to read issue payload")
		return
	}

	issue, err := h.service.CreateIssue(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, err, withID("user_id", user.ID), "Failed to create issue")
		return
	}
	monitoring.RecordWrite("issue", "create")
	log.Info().Str("issue_id", issue.ID).Str("user_id", user.ID).Msg("Issue submitted")
	writeJSON(w, http.StatusCreated, issue)
}

// Hello is an open greeting used as a liveness probe.
func Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from the DevCheck backend!"})
}
