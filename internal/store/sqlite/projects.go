package sqlite

import (
	"context"
	"time"

	"github.com/taskward/taskward/internal/domain"
)

type projectsRepo struct {
	db dbtx
}

const projectColumns = `p.id, p.title, p.description, p.status, p.owner_user_id, p.created_at, p.updated_at`

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, description, status, owner_user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, string(p.Status), p.OwnerUserID, now, now,
	)
	return mapErr(err)
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)
	return scanProject(row)
}

func (r *projectsRepo) GetProjectByIDWithOwner(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`, u.id, u.email, u.fullname, u.role, u.is_active
		FROM projects p
		JOIN users u ON u.id = p.owner_user_id
		WHERE p.id = ?`, id)
	return scanProjectWithOwner(row)
}

func (r *projectsRepo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+`, u.id, u.email, u.fullname, u.role, u.is_active
		FROM projects p
		JOIN users u ON u.id = p.owner_user_id
		ORDER BY p.created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProjectWithOwner(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectsRepo) ListProjectsByOwner(ctx context.Context, ownerUserID string) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects p WHERE p.owner_user_id = ? ORDER BY p.created_at`,
		ownerUserID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectsRepo) ListProjectIDsByOwner(ctx context.Context, ownerUserID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM projects WHERE owner_user_id = ?`, ownerUserID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapErr(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *projectsRepo) UpdateProject(ctx context.Context, p domain.Project) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Description, string(p.Status), time.Now().UTC(), p.ID,
	)
	return mapErr(err)
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return mapErr(err)
}

func (r *projectsRepo) DeleteAllProjects(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects`)
	return mapErr(err)
}

func scanProject(s scanner) (domain.Project, error) {
	var (
		p      domain.Project
		status string
	)
	err := s.Scan(&p.ID, &p.Title, &p.Description, &status, &p.OwnerUserID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Project{}, mapErr(err)
	}
	p.Status = domain.Status(status)
	return p, nil
}

func scanProjectWithOwner(s scanner) (domain.Project, error) {
	var (
		p      domain.Project
		status string
		owner  domain.User
		role   string
	)
	err := s.Scan(&p.ID, &p.Title, &p.Description, &status, &p.OwnerUserID,
		&p.CreatedAt, &p.UpdatedAt,
		&owner.ID, &owner.Email, &owner.Fullname, &role, &owner.IsActive)
	if err != nil {
		return domain.Project{}, mapErr(err)
	}
	p.Status = domain.Status(status)
	owner.Role = domain.Role(role)
	p.Owner = &owner
	return p, nil
}
