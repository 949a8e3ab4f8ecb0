package http

import (
	"encoding/json"
	"net/http"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/service"
	"github.com/taskward/taskward/pkg/httpx"
)

type ProjectsHandler struct {
	Projects *service.ProjectService
	Tasks    *service.TaskService
}

// createProjectRequest carries no owner field. Ownership always comes from
// the authenticated principal.
type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type updateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Title == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}
	if req.Status != "" && !domain.Status(req.Status).Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unknown status")
		return
	}

	project, err := h.Projects.Create(r.Context(), service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Status(req.Status),
	}, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	projects, err := h.Projects.FindAll(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponses(projects))
}

func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	project, err := h.Projects.FindOne(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	in := service.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !status.Valid() {
			httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unknown status")
			return
		}
		in.Status = &status
	}

	project, err := h.Projects.Update(r.Context(), r.PathValue("id"), in, p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	if err := h.Projects.Remove(r.Context(), r.PathValue("id"), p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListTasks lists tasks within one project, authorized through the
// project owner.
func (h *ProjectsHandler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing bearer token")
		return
	}

	tasks, err := h.Tasks.FindByProject(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTaskResponses(tasks))
}
