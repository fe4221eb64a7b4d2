// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/podium/internal/query"
)

// LeaderboardDependencies defines the interface for ranked retrieval.
type LeaderboardDependencies interface {
	TopPlayers(ctx context.Context, leaderboard string, limit int) ([]query.TopPlayer, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleTopPlayers handles GET /leaderboards/{id}/top?limit=N requests.
func (h *LeaderboardHandler) HandleTopPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/leaderboards/")
	leaderboard, rest, _ := strings.Cut(path, "/")
	if leaderboard == "" || rest != "top" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("%w: invalid limit", ErrBadRequest))
			return
		}
		limit = n
	}

	players, err := h.deps.TopPlayers(r.Context(), leaderboard, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if players == nil {
		players = []query.TopPlayer{}
	}
	writeJSON(w, http.StatusOK, players)
}
