// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/okian/podium/internal/loader"
)

// LoadDependencies defines the interface for ingest operations.
type LoadDependencies interface {
	LoadUsers(ctx context.Context, r io.Reader) (loader.Stats, error)
	LoadScores(ctx context.Context, r io.Reader) (loader.Stats, error)
}

// LoadHandler handles bulk-load requests. The request body is the raw
// file content of the respective format.
type LoadHandler struct {
	deps LoadDependencies
}

// NewLoadHandler creates a new load handler.
func NewLoadHandler(deps LoadDependencies) *LoadHandler {
	return &LoadHandler{deps: deps}
}

// loadResponse mirrors loader.Stats for API consumers.
type loadResponse struct {
	BatchID string `json:"batch_id"`
	Loaded  int    `json:"loaded"`
	Skipped int    `json:"skipped"`
}

// HandleLoadUsers handles POST /load/users requests.
func (h *LoadHandler) HandleLoadUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	stats, err := h.deps.LoadUsers(r.Context(), r.Body)
	writeLoadResult(w, stats, err)
}

// HandleLoadScores handles POST /load/scores requests.
func (h *LoadHandler) HandleLoadScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	stats, err := h.deps.LoadScores(r.Context(), r.Body)
	writeLoadResult(w, stats, err)
}

func writeLoadResult(w http.ResponseWriter, stats loader.Stats, err error) {
	if err != nil {
		if errors.Is(err, loader.ErrRead) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loadResponse{
		BatchID: stats.BatchID,
		Loaded:  stats.Loaded,
		Skipped: stats.Skipped,
	})
}
