package domain

import "time"

// Status is shared by projects and tasks.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

type Project struct {
	ID          string
	Title       string
	Description string
	Status      Status
	OwnerUserID string // FK to users; exactly one owner, set at creation
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner is populated on admin-facing reads to support cross-user
	// auditing views. Nil otherwise.
	Owner *User
}
