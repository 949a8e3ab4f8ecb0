package store

import (
	"context"
	"errors"

	"github.com/taskward/taskward/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Projects() Projects
	Tasks() Tasks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists on an email uniqueness violation.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id. Soft-deleted users are still
	// returned; callers check DeletedAt/IsActive.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by normalized email. Used during login,
	// so the returned record includes the password hash.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users that are not soft-deleted.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateUser persists mutable profile fields and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// SoftDeleteUser marks the user removed (deleted_at set, is_active=0).
	SoftDeleteUser(ctx context.Context, id string) error

	// DeleteAllUsers hard-deletes every user row. Seed-only.
	DeleteAllUsers(ctx context.Context) error
}

type Projects interface {
	CreateProject(ctx context.Context, p domain.Project) error

	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// GetProjectByIDWithOwner also populates the Owner relation.
	GetProjectByIDWithOwner(ctx context.Context, id string) (domain.Project, error)

	// ListProjects returns every project with the Owner relation populated.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// ListProjectsByOwner returns projects whose owner_user_id matches.
	ListProjectsByOwner(ctx context.Context, ownerUserID string) ([]domain.Project, error)

	// ListProjectIDsByOwner returns just the ids of projects the user owns.
	ListProjectIDsByOwner(ctx context.Context, ownerUserID string) ([]string, error)

	UpdateProject(ctx context.Context, p domain.Project) error

	// DeleteProject removes the row. Dependent tasks go with it via the
	// schema-level ON DELETE CASCADE.
	DeleteProject(ctx context.Context, id string) error

	// DeleteAllProjects hard-deletes every project row. Seed-only.
	DeleteAllProjects(ctx context.Context) error
}

type Tasks interface {
	CreateTask(ctx context.Context, t domain.Task) error

	GetTaskByID(ctx context.Context, id string) (domain.Task, error)

	// ListTasks returns every task with Project and Assignee relations
	// populated.
	ListTasks(ctx context.Context) ([]domain.Task, error)

	// ListTasksByProjectIDs returns tasks whose project_id is in ids, with
	// Project and Assignee relations populated.
	ListTasksByProjectIDs(ctx context.Context, ids []string) ([]domain.Task, error)

	// ListTasksByProject returns all tasks under a single project.
	ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error)

	UpdateTask(ctx context.Context, t domain.Task) error

	DeleteTask(ctx context.Context, id string) error

	// DeleteAllTasks hard-deletes every task row. Seed-only.
	DeleteAllTasks(ctx context.Context) error
}
