package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/RicardoValus/tasks-project/internal/services"
	"github.com/RicardoValus/tasks-project/internal/store"
	"github.com/RicardoValus/tasks-project/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const (
	maxTitleLen       = 150
	maxDescriptionLen = 65535
)

// TaskHandler provides HTTP handlers for tasks. Every operation acts on the
// authenticated caller's rows only.
type TaskHandler struct {
	taskService *services.TaskService
	log         *logrus.Logger
}

// NewTaskHandler constructs a handler with the provided service.
func NewTaskHandler(taskService *services.TaskService, log *logrus.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, log: log}
}

// TaskRouter registers task routes on the given router. All routes require
// an authenticated identity.
func TaskRouter(r chi.Router, handler *TaskHandler, authMiddleware func(http.Handler) http.Handler) {
	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Use(RequireUser)

	r.Get("/", handler.ListTasks)
	r.Post("/", handler.CreateTask)
	r.Route("/{taskID}", func(r chi.Router) {
		r.Get("/", handler.GetTask)
		r.Put("/", handler.UpdateTask)
		r.Patch("/", handler.UpdateTask)
		r.Delete("/", handler.DeleteTask)
	})
}

// TaskListResponse is the paginated list response payload.
type TaskListResponse struct {
	Items    []types.Task `json:"items"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int          `json:"total"`
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := identityFromContext(r.Context()).UserID()
	items, total, err := h.taskService.List(r.Context(), userID, page)
	if err != nil {
		h.log.WithError(err).Error("failed to list tasks")
		writeProblem(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	writeJSON(w, http.StatusOK, TaskListResponse{
		Items:    items,
		Page:     page,
		PageSize: services.PageSize,
		Total:    total,
	})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := identityFromContext(r.Context()).UserID()
	task, err := h.taskService.Get(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "task not found")
			return
		}
		h.log.WithError(err).Error("failed to fetch task")
		writeProblem(w, http.StatusInternalServerError, "failed to fetch task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	fields, messages, err := parseTaskPayload(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(messages) > 0 {
		writeValidationProblem(w, messages)
		return
	}

	userID := identityFromContext(r.Context()).UserID()
	created, err := h.taskService.Create(r.Context(), userID, fields)
	if err != nil {
		h.log.WithError(err).Error("failed to create task")
		writeProblem(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}

	fields, messages, err := parseTaskPayload(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(messages) > 0 {
		writeValidationProblem(w, messages)
		return
	}

	fields.ID = id
	userID := identityFromContext(r.Context()).UserID()
	updated, err := h.taskService.Update(r.Context(), userID, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "task not found")
			return
		}
		h.log.WithError(err).Error("failed to update task")
		writeProblem(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := identityFromContext(r.Context()).UserID()
	if err := h.taskService.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "task not found")
			return
		}
		h.log.WithError(err).Error("failed to delete task")
		writeProblem(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskUpsertRequest carries the writable task fields. user_id and created_at
// are absent on purpose: anything the client sends for them is dropped during
// decoding and replaced by server-derived values downstream.
type taskUpsertRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// parseTaskPayload decodes and validates the body. A non-nil messages map
// means validation failed; err means the body was not decodable at all.
func parseTaskPayload(r *http.Request) (types.Task, map[string][]string, error) {
	var req taskUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return types.Task{}, nil, errors.New("invalid request body")
	}

	messages := make(map[string][]string)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		messages["title"] = append(messages["title"], "title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		messages["title"] = append(messages["title"], "title must be at most 150 characters")
	}

	var description *string
	if trimmed := strings.TrimSpace(req.Description); trimmed != "" {
		if utf8.RuneCountInString(trimmed) > maxDescriptionLen {
			messages["description"] = append(messages["description"], "description must be at most 65535 characters")
		}
		description = &trimmed
	}

	status := types.TaskStatus(strings.TrimSpace(req.Status))
	if status == "" {
		messages["status"] = append(messages["status"], "status is required")
	} else if !status.Valid() {
		messages["status"] = append(messages["status"], "status must be one of pending, in_progress, done")
	}

	if len(messages) > 0 {
		return types.Task{}, messages, nil
	}

	return types.Task{
		Title:       title,
		Description: description,
		Status:      status,
	}, nil, nil
}
