package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/models"
)

// TaskHandler implements the task tracker endpoints.
type TaskHandler struct {
	Tasks   TaskStore
	NowFunc func() time.Time
}

type createTaskRequest struct {
	ID     *int64            `json:"id" validate:"required,gte=1"`
	Task   string            `json:"task" validate:"required,max=500"`
	Status models.TaskStatus `json:"status"`
}

type updateTaskRequest struct {
	Task   *string            `json:"task" validate:"omitempty,max=500"`
	Status *models.TaskStatus `json:"status"`
}

// List handles GET /api/v1/task/all-tasks.
func (h TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.List(r.Context())
	if err != nil {
		writeError(r.Context(), w, err, "")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respondOK(r.Context(), w, http.StatusOK, tasks, "tasks fetched")
}

// Get handles GET /api/v1/task/task-by-id/{id}.
func (h TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.Tasks.FindByID(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err, "task not found")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, task, "task fetched")
}

// Create handles POST /api/v1/task/create-task. A taken id is rejected with 400.
func (h TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Task = strings.TrimSpace(req.Task)
	if req.Status == "" {
		req.Status = models.TaskStatusToDo
	}

	errs := validateStruct(req)
	if !req.Status.Valid() {
		errs = append(errs, statusFieldError())
	}
	if len(errs) > 0 {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid task", errs...)
		return
	}

	now := h.now()
	task := models.Task{
		ID:        *req.ID,
		Task:      req.Task,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Tasks.Create(ctx, task); err != nil {
		writeError(ctx, w, err, "")
		return
	}
	respondOK(ctx, w, http.StatusCreated, task, "task created")
}

// Update handles PATCH /api/v1/task/update-task/{id}.
func (h TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Task != nil {
		trimmed := strings.TrimSpace(*req.Task)
		if trimmed == "" {
			respondFailure(ctx, w, http.StatusBadRequest, "invalid task", fieldError{Field: "task", Message: "task must not be empty"})
			return
		}
		req.Task = &trimmed
	}

	errs := validateStruct(req)
	if req.Status != nil && !req.Status.Valid() {
		errs = append(errs, statusFieldError())
	}
	if len(errs) > 0 {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid task", errs...)
		return
	}

	task, err := h.Tasks.Update(ctx, id, models.TaskPatch{Task: req.Task, Status: req.Status, UpdatedAt: h.now()})
	if err != nil {
		writeError(ctx, w, err, "task not found")
		return
	}
	respondOK(ctx, w, http.StatusOK, task, "task updated")
}

// Delete handles DELETE /api/v1/task/delete-task/{id} and returns the removed task.
func (h TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.Tasks.Delete(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err, "task not found")
		return
	}
	respondOK(r.Context(), w, http.StatusOK, task, "task deleted")
}

func (h TaskHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondFailure(r.Context(), w, http.StatusBadRequest, "invalid task id", fieldError{Field: "id", Message: "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func statusFieldError() fieldError {
	return fieldError{Field: "status", Message: "status must be one of: To Do, In Progress, Completed"}
}
