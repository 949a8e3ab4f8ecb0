package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/taskward/taskward/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, password_hash, fullname, role, is_active, created_at, updated_at, deleted_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, fullname, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Fullname, string(u.Role), u.IsActive, now, now,
	)
	return mapErr(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, email)
	return scanUser(row)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, fullname = ?, role = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		u.Email, u.Fullname, string(u.Role), u.IsActive, time.Now().UTC(), u.ID,
	)
	return mapErr(err)
}

func (r *usersRepo) SoftDeleteUser(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET is_active = 0, deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, now, id,
	)
	return mapErr(err)
}

func (r *usersRepo) DeleteAllUsers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return mapErr(err)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u       domain.User
		role    string
		deleted sql.NullTime
	)
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Fullname, &role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &deleted)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	u.Role = domain.Role(role)
	u.DeletedAt = mapNullTime(deleted)
	return u, nil
}
