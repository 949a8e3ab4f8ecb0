package http

import (
	"errors"
	"net/http"

	"github.com/taskward/taskward/internal/service"
	"github.com/taskward/taskward/pkg/httpx"
	"github.com/taskward/taskward/pkg/slogx"
)

// writeServiceError maps the domain error taxonomy onto HTTP statuses. Each
// sentinel gets its own status so clients can tell the failure modes apart.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", "resource already exists")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
	default:
		// Details go to the log, not the wire.
		slogx.FromContext(r.Context()).Error("internal error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
