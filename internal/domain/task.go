package domain

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task has no owner field of its own. Its effective owner is the owner of
// the project it belongs to, resolved transitively at authorization time.
type Task struct {
	ID             string
	Title          string
	Description    string
	Status         Status
	Priority       Priority
	DueDate        *time.Time
	ProjectID      string  // FK to projects, required
	AssigneeUserID *string // FK to users, optional
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Relations populated on admin-facing reads. Nil otherwise.
	Project  *Project
	Assignee *User
}
