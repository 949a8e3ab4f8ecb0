package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskward/taskward/internal/service"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/pkg/httpx"
	"github.com/taskward/taskward/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	UserService    *service.UserService
	ProjectService *service.ProjectService
	TaskService    *service.TaskService
	SeedService    *service.SeedService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerProjects()
	r.registerTasks()
	r.registerSeed()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.AuthService}

	r.Mux.Handle("POST /api/v1/auth/register", http.HandlerFunc(h.Register))
	r.Mux.Handle("POST /api/v1/auth/login", http.HandlerFunc(h.Login))

	// Logout and check both need a live token.
	r.Mux.Handle("POST /api/v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.Logout),
			AuthnMiddleware(r.AuthService),
		),
	)
	r.Mux.Handle("GET /api/v1/auth/check",
		httpx.Chain(http.HandlerFunc(h.Check),
			AuthnMiddleware(r.AuthService),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UserService}

	admin := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			AuthnMiddleware(r.AuthService),
			RequireAdmin(),
		)
	}

	r.Mux.Handle("GET /api/v1/users", admin(h.HandleList))
	r.Mux.Handle("POST /api/v1/users", admin(h.HandleCreate))
	r.Mux.Handle("GET /api/v1/users/{id}", admin(h.HandleGet))
	r.Mux.Handle("PATCH /api/v1/users/{id}", admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/users/{id}", admin(h.HandleDelete))
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{Projects: r.ProjectService, Tasks: r.TaskService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			AuthnMiddleware(r.AuthService),
		)
	}

	r.Mux.Handle("GET /api/v1/projects", secured(h.HandleList))
	r.Mux.Handle("POST /api/v1/projects", secured(h.HandleCreate))
	r.Mux.Handle("GET /api/v1/projects/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /api/v1/projects/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/projects/{id}", secured(h.HandleDelete))
	r.Mux.Handle("GET /api/v1/projects/{id}/tasks", secured(h.HandleListTasks))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{Tasks: r.TaskService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			AuthnMiddleware(r.AuthService),
		)
	}

	r.Mux.Handle("GET /api/v1/tasks", secured(h.HandleList))
	r.Mux.Handle("POST /api/v1/tasks", secured(h.HandleCreate))
	r.Mux.Handle("GET /api/v1/tasks/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /api/v1/tasks/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/tasks/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSeed() {
	h := &SeedHandler{Seed: r.SeedService}

	r.Mux.Handle("POST /api/v1/seed",
		httpx.Chain(http.HandlerFunc(h.HandleRun),
			AuthnMiddleware(r.AuthService),
			RequireAdmin(),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
