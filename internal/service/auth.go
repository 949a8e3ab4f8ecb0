package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/pkg/cryptox"
	"github.com/taskward/taskward/pkg/idx"
	"github.com/taskward/taskward/pkg/jwtx"
	"github.com/taskward/taskward/pkg/slogx"
)

// AuthService owns credential management and token issuance/validation.
type AuthService struct {
	Store      store.Store
	Tokens     *jwtx.Codec
	BcryptCost int
}

type RegisterInput struct {
	Email    string
	Password string
	Fullname string
}

type LoginResult struct {
	User  domain.User
	Token string
}

// NormalizeEmail trims whitespace and lowercases. Registration and login both
// go through this; the stored form is the canonical one.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account with the ordinary role. A duplicate
// email surfaces as ErrConflict; any other persistence failure as ErrInternal
// with the underlying message preserved. The returned record never carries
// the password hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	user := domain.User{
		ID:           idx.New(),
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		Fullname:     in.Fullname,
		Role:         domain.RoleUser,
		IsActive:     true,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Info("registration rejected, email taken", slog.String("email", user.Email))
			return domain.User{}, ErrConflict
		}
		return domain.User{}, mapStoreErr(err)
	}

	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return created.Sanitized(), nil
}

// Login verifies credentials and mints a token. A missing account is
// ErrNotFound; a wrong password or an inactive account is ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrNotFound
		}
		return LoginResult{}, mapStoreErr(err)
	}

	if !user.IsActive {
		l.Info("login rejected, inactive account", slog.String("user_id", user.ID))
		return LoginResult{}, ErrUnauthorized
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			l.Info("login rejected, bad password", slog.String("user_id", user.ID))
			return LoginResult{}, ErrUnauthorized
		}
		return LoginResult{}, mapStoreErr(err)
	}

	token, err := s.Tokens.Issue(user.ID, time.Now().UTC())
	if err != nil {
		return LoginResult{}, mapStoreErr(err)
	}

	return LoginResult{User: user.Sanitized(), Token: token}, nil
}

// Authenticate validates a bearer token and resolves it back to a live user,
// so deactivation and soft deletion take effect on the next request. Every
// failure mode collapses to ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, ErrUnauthorized
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		return domain.Principal{}, ErrUnauthorized
	}
	if user.DeletedAt != nil || !user.IsActive {
		return domain.Principal{}, ErrUnauthorized
	}

	return user.Principal(), nil
}

// Check re-reads the principal's user record and returns it with a fresh
// token. Repeated calls with the same valid token yield the same id and role
// until the token expires or the account is deactivated.
func (s *AuthService) Check(ctx context.Context, p domain.Principal) (LoginResult, error) {
	user, err := s.Store.Users().GetUserByID(ctx, p.ID)
	if err != nil {
		return LoginResult{}, mapStoreErr(err)
	}

	token, err := s.Tokens.Issue(user.ID, time.Now().UTC())
	if err != nil {
		return LoginResult{}, mapStoreErr(err)
	}

	return LoginResult{User: user.Sanitized(), Token: token}, nil
}
