package http

import (
	"net/http"

	"github.com/taskward/taskward/internal/service"
	"github.com/taskward/taskward/pkg/httpx"
)

// SeedHandler resets the database to the demo fixture. Admin only; the route
// is gated by RequireAdmin.
type SeedHandler struct {
	Seed *service.SeedService
}

func (h *SeedHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.Seed.Run(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}
