package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/taskward/taskward/internal/domain"
)

type tasksRepo struct {
	db dbtx
}

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.due_date, t.project_id, t.assignee_user_id, t.created_at, t.updated_at`

// taskRelationColumns joins the parent project and the optional assignee.
// The assignee join is LEFT so unassigned tasks still come back.
const taskRelationQuery = `
	SELECT ` + taskColumns + `,
	       p.id, p.title, p.description, p.status, p.owner_user_id, p.created_at, p.updated_at,
	       u.id, u.email, u.fullname, u.role, u.is_active
	FROM tasks t
	JOIN projects p ON p.id = t.project_id
	LEFT JOIN users u ON u.id = t.assignee_user_id`

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, due_date, project_id, assignee_user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status), string(t.Priority),
		mapOptionalTime(t.DueDate), t.ProjectID, mapOptionalString(t.AssigneeUserID), now, now,
	)
	return mapErr(err)
}

func (r *tasksRepo) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id)
	return scanTask(row)
}

func (r *tasksRepo) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, taskRelationQuery+` ORDER BY t.created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectTasksWithRelations(rows)
}

func (r *tasksRepo) ListTasksByProjectIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		taskRelationQuery+` WHERE t.project_id IN (`+placeholders+`) ORDER BY t.created_at`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectTasksWithRelations(rows)
}

func (r *tasksRepo) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.project_id = ? ORDER BY t.created_at`, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, assignee_user_id = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, string(t.Status), string(t.Priority),
		mapOptionalTime(t.DueDate), mapOptionalString(t.AssigneeUserID), time.Now().UTC(), t.ID,
	)
	return mapErr(err)
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return mapErr(err)
}

func (r *tasksRepo) DeleteAllTasks(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks`)
	return mapErr(err)
}

func scanTask(s scanner) (domain.Task, error) {
	var (
		t        domain.Task
		status   string
		priority string
		due      sql.NullTime
		assignee sql.NullString
	)
	err := s.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &due,
		&t.ProjectID, &assignee, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, mapErr(err)
	}
	t.Status = domain.Status(status)
	t.Priority = domain.Priority(priority)
	t.DueDate = mapNullTime(due)
	t.AssigneeUserID = mapNullString(assignee)
	return t, nil
}

func collectTasksWithRelations(rows *sql.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		var (
			t            domain.Task
			status       string
			priority     string
			due          sql.NullTime
			assigneeID   sql.NullString
			proj         domain.Project
			projStatus   string
			aID, aEmail  sql.NullString
			aName, aRole sql.NullString
			aActive      sql.NullBool
		)
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &due,
			&t.ProjectID, &assigneeID, &t.CreatedAt, &t.UpdatedAt,
			&proj.ID, &proj.Title, &proj.Description, &projStatus, &proj.OwnerUserID,
			&proj.CreatedAt, &proj.UpdatedAt,
			&aID, &aEmail, &aName, &aRole, &aActive)
		if err != nil {
			return nil, mapErr(err)
		}

		t.Status = domain.Status(status)
		t.Priority = domain.Priority(priority)
		t.DueDate = mapNullTime(due)
		t.AssigneeUserID = mapNullString(assigneeID)
		proj.Status = domain.Status(projStatus)
		t.Project = &proj

		if aID.Valid {
			t.Assignee = &domain.User{
				ID:       aID.String,
				Email:    aEmail.String,
				Fullname: aName.String,
				Role:     domain.Role(aRole.String),
				IsActive: aActive.Bool,
			}
		}

		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
