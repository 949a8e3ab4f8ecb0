package http

import (
	"encoding/json"
	"net/http"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/service"
	"github.com/taskward/taskward/pkg/httpx"
)

// UsersHandler exposes the admin-only user CRUD. The RequireAdmin middleware
// gates every route here, so the handlers themselves carry no role checks.
type UsersHandler struct {
	Users *service.UserService
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Fullname *string `json:"fullname"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.FindAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.FindOne(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}
	if req.Role != "" && !domain.Role(req.Role).Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unknown role")
		return
	}

	user, err := h.Users.Create(r.Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Fullname: req.Fullname,
		Role:     domain.Role(req.Role),
		IsActive: req.IsActive,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	in := service.UpdateUserInput{
		Email:    req.Email,
		Fullname: req.Fullname,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.Valid() {
			httpx.WriteError(w, http.StatusBadRequest, "bad_request", "unknown role")
			return
		}
		in.Role = &role
	}

	user, err := h.Users.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
