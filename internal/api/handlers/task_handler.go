package handlers

import (
	"net/http"

	"github.com/devcheck/devcheck-be/internal/monitoring"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/go-chi/chi/v5"
)

// TaskHandler handles HTTP requests related to tasks.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetAll lists the tasks of the section in the path.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")

	tasks, err := h.service.ListTasks(r.Context(), user.ID, sectionID)
	if err != nil {
		writeError(w, err, withID("section_id", sectionID), "Failed to retrieve tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Create adds a task to the section in the path. A section in the body is
// rejected as read-only.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")

	var in serializers.TaskInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("section_id", sectionID), "Failed to read task payload")
		return
	}

	task, err := h.service.CreateTask(r.Context(), user.ID, sectionID, in)
	if err != nil {
		writeError(w, err, withID("section_id", sectionID), "Failed to create task")
		return
	}
	monitoring.RecordWrite("task", "create")
	writeJSON(w, http.StatusCreated, task)
}

// Get handles the request to get a single task by its ID.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "taskID")

	task, err := h.service.GetTask(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err, withID("task_id", id), "Failed to get task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update handles PUT and PATCH of a task; ticking a task off is a PATCH of
// completed.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "taskID")

	var in serializers.TaskInput
	if err := serializers.Decode(r.Body, &in); err != nil {
		writeError(w, err, withID("task_id", id), "Failed to read task payload")
		return
	}

	task, err := h.service.UpdateTask(r.Context(), user.ID, id, in, partialFor(r))
	if err != nil {
		writeError(w, err, withID("task_id", id), "Failed to update task")
		return
	}
	monitoring.RecordWrite("task", "update")
	writeJSON(w, http.StatusOK, task)
}

// Delete handles the permanent deletion of a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "taskID")

	if err := h.service.DeleteTask(r.Context(), user.ID, id); err != nil {
		writeError(w, err, withID("task_id", id), "Failed to delete task")
		return
	}
	monitoring.RecordWrite("task", "delete")
	w.WriteHeader(http.StatusNoContent)
}
