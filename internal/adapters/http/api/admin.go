// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// AdminDependencies defines the interface for admin operations.
type AdminDependencies interface {
	ClearDatabase(ctx context.Context) error
}

// AdminHandler handles administrative requests.
type AdminHandler struct {
	deps AdminDependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

type flushResponse struct {
	Status string `json:"status"`
}

// HandleFlush handles POST /admin/flush requests. The wipe is global and
// irreversible; intended for test and reset flows only.
func (h *AdminHandler) HandleFlush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.ClearDatabase(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flushResponse{Status: "flushed"})
}
