package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/service"
	"github.com/taskward/taskward/pkg/httpx"
)

type TasksHandler struct {
	Tasks *service.TaskService
}

type createTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"dueDate"`
	ProjectID      string     `json:"projectId"`
	AssigneeUserID *string    `json:"assigneeUserId"`
}

type updateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	DueDate        *time.Time `json:"dueDate"`
	AssigneeUserID *string    `json:"assigneeUserId"`
}

func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Title == "" || req.ProjectID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "title and projectId are required")
		return
	}
	if req.Status != "" && !domain.Status(req.Status).Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unknown status")
		return
	}
	if req.Priority != "" && !domain.Priority(req.Priority).Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unknown priority")
		return
	}

	task, err := h.Tasks.Create(r.Context(), service.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         domain.Status(req.Status),
		Priority:       domain.Priority(req.Priority),
		DueDate:        req.DueDate,
		ProjectID:      req.ProjectID,
		AssigneeUserID: req.AssigneeUserID,
	}, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	tasks, err := h.Tasks.FindAll(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTaskResponses(tasks))
}

func (h *TasksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	task, err := h.Tasks.FindOne(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	in := service.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		AssigneeUserID: req.AssigneeUserID,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !status.Valid() {
			httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unknown status")
			return
		}
		in.Status = &status
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		if !priority.Valid() {
			httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unknown priority")
			return
		}
		in.Priority = &priority
	}

	task, err := h.Tasks.Update(r.Context(), r.PathValue("id"), in, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	if err := h.Tasks.Remove(r.Context(), r.PathValue("id"), p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
