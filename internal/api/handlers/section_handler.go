package handlers

import (
	"net/http"

	"github.com/devcheck/devcheck-be/internal/monitoring"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/go-chi/chi/v5"
)

// SectionHandler handles HTTP requests related to checklist sections.
type SectionHandler struct {
	service services.SectionServiceProvider
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(service services.SectionServiceProvider) *SectionHandler {
	return &SectionHandler{service: service}
}

func (h *SectionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	pageID := chi.URLParam(r, "pageID")

	sections, err := h.service.ListSections(r.Context(), user.ID, pageID)
	if err != nil {
		writeError(w, err, withID("page_id", pageID), "Failed to retrieve sections")
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

// Create adds a section to the page in the path. A page holds at most one
// section per title.
func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	pageID := chi.URLParam(r, "pageID")

	var in serializers.SectionInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("page_id", pageID), "Failed to read section payload")
		return
	}

	section, err := h.service.CreateSection(r.Context(), user.ID, pageID, in)
	if err != nil {
		writeError(w, err, withID("page_id", pageID), "Failed to create section")
		return
	}
	monitoring.RecordWrite("section", "create")
	writeJSON(w, http.StatusCreated, section)
}

func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "sectionID")

	section, err := h.service.GetSection(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err, withID("section_id", id), "Failed to get section")
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "sectionID")

	var in serializers.SectionInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("section_id", id), "Failed to read section payload")
		return
	}

	section, err := h.service.UpdateSection(r.Context(), user.ID, id, in, partialFor(r))
	if err != nil {
		writeError(w, err, withID("section_id", id), "Failed to update section")
		return
	}
	monitoring.RecordWrite("section", "update")
	writeJSON(w, http.StatusOK, section)
}

func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "sectionID")

	if err := h.service.DeleteSection(r.Context(), user.ID, id); err != nil {
		writeError(w, err, withID("section_id", id), "Failed to delete section")
		return
	}
	monitoring.RecordWrite("section", "delete")
	w.WriteHeader(http.StatusNoContent)
}
