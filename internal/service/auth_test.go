package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/pkg/jwtx"
)

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)

	user, err := auth.Register(ctx, RegisterInput{
		Email:    "test@example.com",
		Password: "Secret123!",
		Fullname: "Test User",
	})
	require.NoError(t, err)
	require.Equal(t, "test@example.com", user.Email)
	require.Equal(t, domain.RoleUser, user.Role)
	require.True(t, user.IsActive)
	require.Empty(t, user.PasswordHash, "hash must never leave the service")

	res, err := auth.Login(ctx, "test@example.com", "Secret123!")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, user.ID, res.User.ID)
	require.Empty(t, res.User.PasswordHash)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)

	user := registerUser(t, auth, "  A@B.com  ", "Secret123!", "A B")
	require.Equal(t, "a@b.com", user.Email)

	// Login with a differently-cased, padded form of the same address.
	res, err := auth.Login(ctx, "  a@B.COM ", "Secret123!")
	require.NoError(t, err)
	require.Equal(t, user.ID, res.User.ID)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)

	registerUser(t, auth, "dup@example.com", "Secret123!", "First")

	_, err := auth.Register(ctx, RegisterInput{
		Email:    " DUP@example.com",
		Password: "Other456!",
		Fullname: "Second",
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestLoginFailureModes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)
	user := registerUser(t, auth, "me@example.com", "Right123!", "Me")

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := auth.Login(ctx, "nobody@example.com", "whatever")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := auth.Login(ctx, "me@example.com", "Wrong123!")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("inactive account is unauthorized even with the right password", func(t *testing.T) {
		stored, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		stored.IsActive = false
		require.NoError(t, st.Users().UpdateUser(ctx, stored))

		_, err = auth.Login(ctx, "me@example.com", "Right123!")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestAuthenticateResolvesLiveUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)
	user := registerUser(t, auth, "live@example.com", "Secret123!", "Live")

	res, err := auth.Login(ctx, "live@example.com", "Secret123!")
	require.NoError(t, err)

	p, err := auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, p.ID)
	require.Equal(t, domain.RoleUser, p.Role)

	// Same token, same answer, until something changes.
	again, err := auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, p, again)

	t.Run("deactivation revokes immediately", func(t *testing.T) {
		stored, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		stored.IsActive = false
		require.NoError(t, st.Users().UpdateUser(ctx, stored))

		_, err = auth.Authenticate(ctx, res.Token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)
	registerUser(t, auth, "valid@example.com", "Secret123!", "Valid")

	t.Run("garbage token", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := jwtx.NewCodec([]byte("other-secret"), "taskward-test", time.Hour)
		require.NoError(t, err)
		token, err := other.Issue("some-user", time.Now())
		require.NoError(t, err)

		_, err = auth.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.Tokens.Issue("some-user", time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		_, err = auth.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token for a user that no longer exists", func(t *testing.T) {
		token, err := auth.Tokens.Issue("01HZZZZZZZZZZZZZZZZZZZZZZZ", time.Now())
		require.NoError(t, err)

		_, err = auth.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token for a soft-deleted user", func(t *testing.T) {
		auth2 := newAuthService(t, st)
		user := registerUser(t, auth2, "gone@example.com", "Secret123!", "Gone")
		res, err := auth2.Login(ctx, "gone@example.com", "Secret123!")
		require.NoError(t, err)

		require.NoError(t, st.Users().SoftDeleteUser(ctx, user.ID))

		_, err = auth2.Authenticate(ctx, res.Token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestCheckReturnsUserAndFreshToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)
	user := registerUser(t, auth, "check@example.com", "Secret123!", "Check")

	p := principalFor(t, st, user.ID)

	res, err := auth.Check(ctx, p)
	require.NoError(t, err)
	require.Equal(t, user.ID, res.User.ID)
	require.Empty(t, res.User.PasswordHash)
	require.NotEmpty(t, res.Token)

	claims, err := auth.Tokens.Verify(res.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
}
