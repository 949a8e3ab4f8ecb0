package service

import (
	"context"
	"errors"
	"time"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/pkg/idx"
)

// TaskService applies the ownership rule to task CRUD. A task has no owner of
// its own; every decision resolves transitively through the parent project.
type TaskService struct {
	Store store.Store
}

type CreateTaskInput struct {
	Title          string
	Description    string
	Status         domain.Status
	Priority       domain.Priority
	DueDate        *time.Time
	ProjectID      string
	AssigneeUserID *string
}

// UpdateTaskInput carries a partial patch; nil fields are left untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *domain.Status
	Priority       *domain.Priority
	DueDate        *time.Time
	AssigneeUserID *string
}

// Create resolves the referenced project first: a missing project is
// ErrNotFound, someone else's project is ErrForbidden, and in both cases no
// row is written.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, p domain.Principal) (domain.Task, error) {
	project, err := s.resolveProject(ctx, in.ProjectID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := authorizeOwner(p, project.OwnerUserID); err != nil {
		return domain.Task{}, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	task := domain.Task{
		ID:             idx.New(),
		Title:          in.Title,
		Description:    in.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        in.DueDate,
		ProjectID:      project.ID,
		AssigneeUserID: in.AssigneeUserID,
	}

	if err := s.Store.Tasks().CreateTask(ctx, task); err != nil {
		return domain.Task{}, mapStoreErr(err)
	}

	created, err := s.Store.Tasks().GetTaskByID(ctx, task.ID)
	if err != nil {
		return domain.Task{}, mapStoreErr(err)
	}
	return created, nil
}

// FindAll returns every task (project and assignee relations populated) for
// an admin. For an ordinary principal it first enumerates the project ids the
// principal owns; when that set is empty it returns an empty list without
// touching the tasks table at all.
func (s *TaskService) FindAll(ctx context.Context, p domain.Principal) ([]domain.Task, error) {
	if p.IsAdmin() {
		tasks, err := s.Store.Tasks().ListTasks(ctx)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		return sanitizeTasks(tasks), nil
	}

	ownedIDs, err := s.Store.Projects().ListProjectIDsByOwner(ctx, p.ID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if len(ownedIDs) == 0 {
		return []domain.Task{}, nil
	}

	tasks, err := s.Store.Tasks().ListTasksByProjectIDs(ctx, ownedIDs)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sanitizeTasks(tasks), nil
}

// FindOne resolves the task, then its project (a dangling project reference
// is ErrNotFound, never an allow), then authorizes against the project owner.
func (s *TaskService) FindOne(ctx context.Context, id string, p domain.Principal) (domain.Task, error) {
	task, _, err := s.resolveTask(ctx, id, p)
	return task, err
}

// Update authorizes through the parent project before applying the patch.
func (s *TaskService) Update(ctx context.Context, id string, in UpdateTaskInput, p domain.Principal) (domain.Task, error) {
	task, _, err := s.resolveTask(ctx, id, p)
	if err != nil {
		return domain.Task{}, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.AssigneeUserID != nil {
		task.AssigneeUserID = in.AssigneeUserID
	}

	if err := s.Store.Tasks().UpdateTask(ctx, task); err != nil {
		return domain.Task{}, mapStoreErr(err)
	}

	updated, err := s.Store.Tasks().GetTaskByID(ctx, id)
	if err != nil {
		return domain.Task{}, mapStoreErr(err)
	}
	return updated, nil
}

// Remove authorizes through the parent project before deleting.
func (s *TaskService) Remove(ctx context.Context, id string, p domain.Principal) error {
	_, _, err := s.resolveTask(ctx, id, p)
	if err != nil {
		return err
	}
	return mapStoreErr(s.Store.Tasks().DeleteTask(ctx, id))
}

// FindByProject resolves and authorizes the project, then lists its tasks.
func (s *TaskService) FindByProject(ctx context.Context, projectID string, p domain.Principal) ([]domain.Task, error) {
	project, err := s.resolveProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(p, project.OwnerUserID); err != nil {
		return nil, err
	}

	tasks, err := s.Store.Tasks().ListTasksByProject(ctx, project.ID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (s *TaskService) resolveProject(ctx context.Context, id string) (domain.Project, error) {
	project, err := s.Store.Projects().GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrNotFound
		}
		return domain.Project{}, mapStoreErr(err)
	}
	return project, nil
}

// resolveTask loads the task and its project and runs the transitive
// ownership check.
func (s *TaskService) resolveTask(ctx context.Context, id string, p domain.Principal) (domain.Task, domain.Project, error) {
	task, err := s.Store.Tasks().GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, domain.Project{}, ErrNotFound
		}
		return domain.Task{}, domain.Project{}, mapStoreErr(err)
	}

	project, err := s.resolveProject(ctx, task.ProjectID)
	if err != nil {
		return domain.Task{}, domain.Project{}, err
	}

	if err := authorizeOwner(p, project.OwnerUserID); err != nil {
		return domain.Task{}, domain.Project{}, err
	}

	return task, project, nil
}

func sanitizeTasks(tasks []domain.Task) []domain.Task {
	for i := range tasks {
		if tasks[i].Assignee != nil {
			assignee := tasks[i].Assignee.Sanitized()
			tasks[i].Assignee = &assignee
		}
		if tasks[i].Project != nil && tasks[i].Project.Owner != nil {
			owner := tasks[i].Project.Owner.Sanitized()
			tasks[i].Project.Owner = &owner
		}
	}
	return tasks
}
