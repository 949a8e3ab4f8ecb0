package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskward/taskward/internal/domain"
	"github.com/taskward/taskward/internal/service"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/internal/store/sqlite"
	"github.com/taskward/taskward/pkg/jwtx"
)

const testBcryptCost = 4

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec([]byte("test-secret"), "taskward-test", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter("test", st, logger)
	router.AuthService = &service.AuthService{Store: st, Tokens: codec, BcryptCost: testBcryptCost}
	router.UserService = &service.UserService{Store: st, BcryptCost: testBcryptCost}
	router.ProjectService = &service.ProjectService{Store: st}
	router.TaskService = &service.TaskService{Store: st}
	router.SeedService = &service.SeedService{Store: st, BcryptCost: testBcryptCost}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, st
}

// doJSON issues a request with an optional bearer token and decodes the JSON
// response body into a generic map.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints returning a JSON array.
func doJSONList(t *testing.T, srv *httptest.Server, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded []map[string]any
	if resp.StatusCode < 300 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func loginAs(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()

	code, body := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, code)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func registerAccount(t *testing.T, srv *httptest.Server, email, password string) {
	t.Helper()

	code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": password, "fullname": "Test User",
	})
	require.Equal(t, http.StatusCreated, code)
}

func promoteToAdmin(t *testing.T, st store.Store, email string) {
	t.Helper()

	ctx := context.Background()
	user, err := st.Users().GetUserByEmail(ctx, email)
	require.NoError(t, err)
	user.Role = domain.RoleAdmin
	require.NoError(t, st.Users().UpdateUser(ctx, user))
}

func TestAuthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("register", func(t *testing.T) {
		code, body := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email": "alice@example.com", "password": "Pass123!", "fullname": "Alice",
		})
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, "alice@example.com", body["email"])
		require.Equal(t, "user", body["role"])
		require.NotContains(t, body, "password")
		require.NotContains(t, body, "passwordHash")
	})

	t.Run("register duplicate email conflicts", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email": " ALICE@example.com ", "password": "Other123!",
		})
		require.Equal(t, http.StatusConflict, code)
	})

	t.Run("register without credentials is a bad request", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email": "bob@example.com",
		})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("login", func(t *testing.T) {
		code, body := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "Pass123!",
		})
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, body["token"])
		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		require.NotContains(t, user, "password")
	})

	t.Run("login wrong password is unauthorized", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("login unknown email is not found", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "Pass123!",
		})
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("check", func(t *testing.T) {
		token := loginAs(t, srv, "alice@example.com", "Pass123!")

		code, body := doJSON(t, srv, http.MethodGet, "/api/v1/auth/check", token, nil)
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, body["token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "alice@example.com", user["email"])
	})

	t.Run("check without token is unauthorized", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodGet, "/api/v1/auth/check", "", nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("check with garbage token is unauthorized", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodGet, "/api/v1/auth/check", "not-a-token", nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("logout", func(t *testing.T) {
		token := loginAs(t, srv, "alice@example.com", "Pass123!")

		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, code)

		// Tokens are stateless: the token still validates after logout.
		code, _ = doJSON(t, srv, http.MethodGet, "/api/v1/auth/check", token, nil)
		require.Equal(t, http.StatusOK, code)
	})
}

func TestProjectAndTaskEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	registerAccount(t, srv, "owner@example.com", "Pass123!")
	registerAccount(t, srv, "other@example.com", "Pass123!")
	ownerToken := loginAs(t, srv, "owner@example.com", "Pass123!")
	otherToken := loginAs(t, srv, "other@example.com", "Pass123!")

	code, project := doJSON(t, srv, http.MethodPost, "/api/v1/projects", ownerToken, map[string]string{
		"title": "Website", "description": "Marketing site",
	})
	require.Equal(t, http.StatusCreated, code)
	projectID, ok := project["id"].(string)
	require.True(t, ok)
	require.Equal(t, "pending", project["status"])

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodGet, "/api/v1/projects", "", nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("stranger cannot read the project", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodGet, "/api/v1/projects/"+projectID, otherToken, nil)
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("stranger listing sees nothing", func(t *testing.T) {
		code, list := doJSONList(t, srv, http.MethodGet, "/api/v1/projects", otherToken)
		require.Equal(t, http.StatusOK, code)
		require.Empty(t, list)
	})

	t.Run("owner updates the project", func(t *testing.T) {
		code, body := doJSON(t, srv, http.MethodPatch, "/api/v1/projects/"+projectID, ownerToken, map[string]string{
			"status": "in-progress",
		})
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "in-progress", body["status"])
	})

	t.Run("unknown status is a bad request", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodPatch, "/api/v1/projects/"+projectID, ownerToken, map[string]string{
			"status": "paused",
		})
		require.Equal(t, http.StatusBadRequest, code)
	})

	var taskID string
	t.Run("owner creates a task", func(t *testing.T) {
		code, body := doJSON(t, srv, http.MethodPost, "/api/v1/tasks", ownerToken, map[string]string{
			"title": "Draft copy", "projectId": projectID, "priority": "high",
		})
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, "high", body["priority"])
		require.Equal(t, "pending", body["status"])
		taskID, ok = body["id"].(string)
		require.True(t, ok)
	})

	t.Run("stranger cannot create a task in the project", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/tasks", otherToken, map[string]string{
			"title": "Sneaky", "projectId": projectID,
		})
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("task in a missing project is not found", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/tasks", ownerToken, map[string]string{
			"title": "Orphan", "projectId": "01HZZZZZZZZZZZZZZZZZZZZZZZ",
		})
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("project task listing", func(t *testing.T) {
		code, list := doJSONList(t, srv, http.MethodGet, "/api/v1/projects/"+projectID+"/tasks", ownerToken)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, list, 1)
		require.Equal(t, taskID, list[0]["id"])
	})

	t.Run("stranger cannot reach the task", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+taskID, otherToken, nil)
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("deleting the project removes its tasks", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodDelete, "/api/v1/projects/"+projectID, ownerToken, nil)
		require.Equal(t, http.StatusNoContent, code)

		code, _ = doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+taskID, ownerToken, nil)
		require.Equal(t, http.StatusNotFound, code)
	})
}

func TestAdminEndpoints(t *testing.T) {
	srv, st := newTestServer(t)

	registerAccount(t, srv, "root@example.com", "Admin123!")
	registerAccount(t, srv, "plain@example.com", "Pass123!")
	promoteToAdmin(t, st, "root@example.com")

	adminToken := loginAs(t, srv, "root@example.com", "Admin123!")
	plainToken := loginAs(t, srv, "plain@example.com", "Pass123!")

	t.Run("ordinary user cannot list accounts", func(t *testing.T) {
		code, _ := doJSONList(t, srv, http.MethodGet, "/api/v1/users", plainToken)
		require.Equal(t, http.StatusForbidden, code)
	})

	t.Run("admin lists accounts", func(t *testing.T) {
		code, list := doJSONList(t, srv, http.MethodGet, "/api/v1/users", adminToken)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, list, 2)
	})

	t.Run("admin creates an account", func(t *testing.T) {
		code, body := doJSON(t, srv, http.MethodPost, "/api/v1/users", adminToken, map[string]string{
			"email": "new@example.com", "password": "Pass123!", "role": "admin",
		})
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, "admin", body["role"])
	})

	t.Run("admin rejects unknown role", func(t *testing.T) {
		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/users", adminToken, map[string]string{
			"email": "bad@example.com", "password": "Pass123!", "role": "superuser",
		})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("soft deleted account stops authenticating", func(t *testing.T) {
		var plainID string
		_, list := doJSONList(t, srv, http.MethodGet, "/api/v1/users", adminToken)
		for _, u := range list {
			if u["email"] == "plain@example.com" {
				plainID = u["id"].(string)
			}
		}
		require.NotEmpty(t, plainID)

		code, _ := doJSON(t, srv, http.MethodDelete, "/api/v1/users/"+plainID, adminToken, nil)
		require.Equal(t, http.StatusNoContent, code)

		code, _ = doJSON(t, srv, http.MethodGet, "/api/v1/auth/check", plainToken, nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})

	// Seeding wipes every table, so it runs last with a fresh ordinary
	// account for the forbidden check.
	t.Run("seed is admin only", func(t *testing.T) {
		registerAccount(t, srv, "bystander@example.com", "Pass123!")
		bystanderToken := loginAs(t, srv, "bystander@example.com", "Pass123!")

		code, _ := doJSON(t, srv, http.MethodPost, "/api/v1/seed", bystanderToken, nil)
		require.Equal(t, http.StatusForbidden, code)

		code, body := doJSON(t, srv, http.MethodPost, "/api/v1/seed", adminToken, nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, float64(4), body["users"])
		require.Equal(t, float64(4), body["projects"])
		require.Equal(t, float64(8), body["tasks"])
	})

	t.Run("health endpoints", func(t *testing.T) {
		code, body := doJSON(t, srv, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "ok", body["status"])

		code, body = doJSON(t, srv, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "ok", body["status"])
	})
}
