package handlers

import (
	"net/http"

	"github.com/devcheck/devcheck-be/internal/monitoring"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/go-chi/chi/v5"
)

// PageHandler handles HTTP requests related to pages of a project.
type PageHandler struct {
	service services.PageServiceProvider
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(service services.PageServiceProvider) *PageHandler {
	return &PageHandler{service: service}
}

// GetAll lists the pages of the project in the path.
func (h *PageHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "projectID")

	pages, err := h.service.ListPages(r.Context(), user.ID, projectID)
	if err != nil {
		writeError(w, err, withID("project_id", projectID), "Failed to retrieve pages")
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

// Create adds a page to the project in the path.
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "projectID")

	var in serializers.PageInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("project_id", projectID), "Failed to read page payload")
		return
	}

	page, err := h.service.CreatePage(r.Context(), user.ID, projectID, in)
	if err != nil {
		writeError(w, err, withID("project_id", projectID), "Failed to create page")
		return
	}
	monitoring.RecordWrite("page", "create")
	writeJSON(w, http.StatusCreated, page)
}

// Get handles the request to get a single page by its ID.
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "pageID")

	page, err := h.service.GetPage(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err, withID("page_id", id), "Failed to get page")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Update handles PUT and PATCH of a page.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "pageID")

	var in serializers.PageInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("page_id", id), "Failed to read page payload")
		return
	}

	page, err := h.service.UpdatePage(r.Context(), user.ID, id, in, partialFor(r))
	if err != nil {
		writeError(w, err, withID("page_id", id), "Failed to update page")
		return
	}
	monitoring.RecordWrite("page", "update")
	writeJSON(w, http.StatusOK, page)
}

// Delete removes a page with its sections and tasks.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "pageID")

	if err := h.service.DeletePage(r.Context(), user.ID, id); err != nil {
		writeError(w, err, withID("page_id", id), "Failed to delete page")
		return
	}
	monitoring.RecordWrite("page", "delete")
	w.WriteHeader(http.StatusNoContent)
}
