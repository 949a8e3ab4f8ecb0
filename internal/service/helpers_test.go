package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/internal/store/sqlite"
	"github.com/taskward/taskward/pkg/jwtx"
)

// testBcryptCost keeps hashing fast in tests. bcrypt's minimum is 4.
const testBcryptCost = 4

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()

	codec, err := jwtx.NewCodec([]byte("test-secret"), "taskward-test", time.Hour)
	require.NoError(t, err)
	return codec
}

func newAuthService(t *testing.T, st store.Store) *AuthService {
	t.Helper()

	return &AuthService{
		Store:      st,
		Tokens:     newTestCodec(t),
		BcryptCost: testBcryptCost,
	}
}

// registerUser registers and returns the created account.
func registerUser(t *testing.T, auth *AuthService, email, password, fullname string) domain.User {
	t.Helper()

	user, err := auth.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: password,
		Fullname: fullname,
	})
	require.NoError(t, err)
	return user
}

// promoteToAdmin flips the role directly in storage; registration never
// produces admins.
func promoteToAdmin(t *testing.T, st store.Store, userID string) {
	t.Helper()

	ctx := context.Background()
	user, err := st.Users().GetUserByID(ctx, userID)
	require.NoError(t, err)
	user.Role = domain.RoleAdmin
	require.NoError(t, st.Users().UpdateUser(ctx, user))
}

func principalFor(t *testing.T, st store.Store, userID string) domain.Principal {
	t.Helper()

	user, err := st.Users().GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	return user.Principal()
}

func createProject(t *testing.T, svc *ProjectService, p domain.Principal, title string) domain.Project {
	t.Helper()

	project, err := svc.Create(context.Background(), CreateProjectInput{Title: title}, p)
	require.NoError(t, err)
	return project
}
