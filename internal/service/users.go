package service

import (
	"context"
	"errors"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/pkg/cryptox"
	"github.com/taskward/taskward/pkg/idx"
)

// UserService is the admin-facing user CRUD. Access control for these
// operations happens at the route level (admin only); the service itself
// just manages records.
type UserService struct {
	Store      store.Store
	BcryptCost int
}

type CreateUserInput struct {
	Email    string
	Password string
	Fullname string
	Role     domain.Role
	IsActive *bool
}

// UpdateUserInput carries a partial patch; nil fields are left untouched.
type UpdateUserInput struct {
	Email    *string
	Fullname *string
	Role     *domain.Role
	IsActive *bool
}

func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

func (s *UserService) FindOne(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, mapStoreErr(err)
	}
	if user.DeletedAt != nil {
		return domain.User{}, ErrNotFound
	}
	return user.Sanitized(), nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	hash, err := cryptox.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	user := domain.User{
		ID:           idx.New(),
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		Fullname:     in.Fullname,
		Role:         role,
		IsActive:     active,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return created.Sanitized(), nil
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, mapStoreErr(err)
	}
	if user.DeletedAt != nil {
		return domain.User{}, ErrNotFound
	}

	if in.Email != nil {
		user.Email = NormalizeEmail(*in.Email)
	}
	if in.Fullname != nil {
		user.Fullname = *in.Fullname
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	updated, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return updated.Sanitized(), nil
}

// Remove soft-deletes: the row stays, marked inactive with a deletion
// timestamp, so outstanding tokens for the account stop validating.
func (s *UserService) Remove(ctx context.Context, id string) error {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return mapStoreErr(err)
	}
	if user.DeletedAt != nil {
		return ErrNotFound
	}
	return mapStoreErr(s.Store.Users().SoftDeleteUser(ctx, id))
}
