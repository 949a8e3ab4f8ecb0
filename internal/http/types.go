package http

import (
	"time"

	"github.com/taskward/taskward/internal/domain"
)

// Wire representations. The password hash has no field here at all, so it
// cannot leak by serialization accident.

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Fullname  string    `json:"fullname"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProjectResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	OwnerUserID string        `json:"ownerUserId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Owner       *UserResponse `json:"owner,omitempty"`
}

type TaskResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	DueDate        *time.Time       `json:"dueDate,omitempty"`
	ProjectID      string           `json:"projectId"`
	AssigneeUserID *string          `json:"assigneeUserId,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Project        *ProjectResponse `json:"project,omitempty"`
	Assignee       *UserResponse    `json:"assignee,omitempty"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Fullname:  u.Fullname,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toProjectResponse(p domain.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		OwnerUserID: p.OwnerUserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Owner != nil {
		owner := toUserResponse(*p.Owner)
		resp.Owner = &owner
	}
	return resp
}

func toProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

func toTaskResponse(t domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		DueDate:        t.DueDate,
		ProjectID:      t.ProjectID,
		AssigneeUserID: t.AssigneeUserID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.Project != nil {
		project := toProjectResponse(*t.Project)
		resp.Project = &project
	}
	if t.Assignee != nil {
		assignee := toUserResponse(*t.Assignee)
		resp.Assignee = &assignee
	}
	return resp
}

func toTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}
