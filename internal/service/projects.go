package service

import (
	"context"
	"errors"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/pkg/idx"
)

// ProjectService applies the ownership rule to project CRUD.
type ProjectService struct {
	Store store.Store
}

type CreateProjectInput struct {
	Title       string
	Description string
	Status      domain.Status
}

// UpdateProjectInput carries a partial patch; nil fields are left untouched.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Status      *domain.Status
}

// Create inserts a project owned by the acting principal. The owner is always
// the principal's id; the input deliberately has no owner field, so a caller
// cannot spoof ownership.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput, p domain.Principal) (domain.Project, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}

	project := domain.Project{
		ID:          idx.New(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		OwnerUserID: p.ID,
	}

	if err := s.Store.Projects().CreateProject(ctx, project); err != nil {
		return domain.Project{}, mapStoreErr(err)
	}

	created, err := s.Store.Projects().GetProjectByID(ctx, project.ID)
	if err != nil {
		return domain.Project{}, mapStoreErr(err)
	}
	return created, nil
}

// FindAll returns every project for an admin (owner relation populated for
// cross-user auditing), and exactly the principal's own projects otherwise.
func (s *ProjectService) FindAll(ctx context.Context, p domain.Principal) ([]domain.Project, error) {
	if p.IsAdmin() {
		projects, err := s.Store.Projects().ListProjects(ctx)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		return sanitizeProjects(projects), nil
	}

	projects, err := s.Store.Projects().ListProjectsByOwner(ctx, p.ID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return projects, nil
}

// FindOne resolves the project then authorizes: absent is ErrNotFound, a
// failed ownership check is ErrForbidden. Admins get the owner relation
// populated.
func (s *ProjectService) FindOne(ctx context.Context, id string, p domain.Principal) (domain.Project, error) {
	var (
		project domain.Project
		err     error
	)
	if p.IsAdmin() {
		project, err = s.Store.Projects().GetProjectByIDWithOwner(ctx, id)
	} else {
		project, err = s.Store.Projects().GetProjectByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrNotFound
		}
		return domain.Project{}, mapStoreErr(err)
	}

	if err := authorizeOwner(p, project.OwnerUserID); err != nil {
		return domain.Project{}, err
	}

	if project.Owner != nil {
		owner := project.Owner.Sanitized()
		project.Owner = &owner
	}
	return project, nil
}

// Update authorizes before any mutation is applied, then merges the patch
// into the stored record and persists it.
func (s *ProjectService) Update(ctx context.Context, id string, in UpdateProjectInput, p domain.Principal) (domain.Project, error) {
	project, err := s.Store.Projects().GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrNotFound
		}
		return domain.Project{}, mapStoreErr(err)
	}

	if err := authorizeOwner(p, project.OwnerUserID); err != nil {
		return domain.Project{}, err
	}

	if in.Title != nil {
		project.Title = *in.Title
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.Status != nil {
		project.Status = *in.Status
	}

	if err := s.Store.Projects().UpdateProject(ctx, project); err != nil {
		return domain.Project{}, mapStoreErr(err)
	}

	updated, err := s.Store.Projects().GetProjectByID(ctx, id)
	if err != nil {
		return domain.Project{}, mapStoreErr(err)
	}
	return updated, nil
}

// Remove authorizes then deletes the row. Dependent tasks are removed by the
// storage-layer cascade, not enumerated here.
func (s *ProjectService) Remove(ctx context.Context, id string, p domain.Principal) error {
	project, err := s.Store.Projects().GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return mapStoreErr(err)
	}

	if err := authorizeOwner(p, project.OwnerUserID); err != nil {
		return err
	}

	return mapStoreErr(s.Store.Projects().DeleteProject(ctx, id))
}

func sanitizeProjects(projects []domain.Project) []domain.Project {
	for i := range projects {
		if projects[i].Owner != nil {
			owner := projects[i].Owner.Sanitized()
			projects[i].Owner = &owner
		}
	}
	return projects
}
