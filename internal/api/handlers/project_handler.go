package handlers

import (
	"net/http"
	"strings"

	"github.com/devcheck/devcheck-be/internal/monitoring"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/go-chi/chi/v5"
)

// ProjectHandler handles HTTP requests related to projects.
type ProjectHandler struct {
	service services.ProjectServiceProvider
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service services.ProjectServiceProvider) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// GetAll lists the caller's projects.
func (h *ProjectHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	projects, err := h.service.ListProjects(r.Context(), user.ID)
	if err != nil {
		writeError(w, err, withID("user_id", user.ID), "Failed to retrieve projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Create handles the request to create a new project owned by the caller.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in serializers.ProjectInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("user_id", user.ID), "Failed to read project payload")
		return
	}

	project, err := h.service.CreateProject(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, err, withID("user_id", user.ID), "Failed to create project")
		return
	}
	monitoring.RecordWrite("project", "create")
	writeJSON(w, http.StatusCreated, project)
}

// Get returns the flat representation of a project.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "projectID")

	project, err := h.service.GetProject(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err, withID("project_id", id), "Failed to get project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Detail returns the nested project tree. Unless the request comes from the
// dashboard (?dashboard=true), the visit bumps the project's updated_at.
func (h *ProjectHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "projectID")
	touch := !strings.EqualFold(r.URL.Query().Get("dashboard"), "true")

	detail, err := h.service.GetProjectDetail(r.Context(), user.ID, id, touch)
	if err != nil {
		writeError(w, err, withID("project_id", id), "Failed to get project detail")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Update handles PUT and PATCH on the project detail endpoint.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "projectID")

	var in serializers.ProjectInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("project_id", id), "Failed to read project payload")
		return
	}

	project, err := h.service.UpdateProject(r.Context(), user.ID, id, in, partialFor(r))
	if err != nil {
		writeError(w, err, withID("project_id", id), "Failed to update project")
		return
	}
	monitoring.RecordWrite("project", "update")
	writeJSON(w, http.StatusOK, project)
}

// Delete removes a project and everything beneath it.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "projectID")

	if err := h.service.DeleteProject(r.Context(), user.ID, id); err != nil {
		writeError(w, err, withID("project_id", id), "Failed to delete project")
		return
	}
	monitoring.RecordWrite("project", "delete")
	w.WriteHeader(http.StatusNoContent)
}
