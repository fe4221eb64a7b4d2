// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/podium/internal/adapters/repository"
	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/loader"
	"github.com/okian/podium/internal/query"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Load operations stream raw file content into the store.
	LoadUsers(ctx context.Context, r io.Reader) (loader.Stats, error)
	LoadScores(ctx context.Context, r io.Reader) (loader.Stats, error)

	// Read operations expose user and leaderboard data.
	UserData(ctx context.Context, userID string) (map[string]string, error)
	UserCoordinates(ctx context.Context, userID string) (query.Coordinates, error)
	UsersByEvenID(ctx context.Context) ([]string, []string, error)
	FemaleUsersInRegion(ctx context.Context, countries []string, minLat, maxLat float64) ([]map[string]string, error)
	TopPlayers(ctx context.Context, leaderboard string, limit int) ([]query.TopPlayer, error)

	// Admin operations.
	ClearDatabase(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	usersHandler       *UsersHandler
	queriesHandler     *QueriesHandler
	leaderboardHandler *LeaderboardHandler
	loadHandler        *LoadHandler
	adminHandler       *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		usersHandler:       NewUsersHandler(deps),
		queriesHandler:     NewQueriesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		loadHandler:        NewLoadHandler(deps),
		adminHandler:       NewAdminHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleGetUser, "users"))
	mux.HandleFunc("/queries/even-users", MetricsMiddleware(s.queriesHandler.HandleEvenUsers, "even_users"))
	mux.HandleFunc("/queries/region", MetricsMiddleware(s.queriesHandler.HandleRegion, "region"))
	mux.HandleFunc("/leaderboards/", MetricsMiddleware(s.leaderboardHandler.HandleTopPlayers, "leaderboard_top"))
	mux.HandleFunc("/load/users", MetricsMiddleware(s.loadHandler.HandleLoadUsers, "load_users"))
	mux.HandleFunc("/load/scores", MetricsMiddleware(s.loadHandler.HandleLoadScores, "load_scores"))
	mux.HandleFunc("/admin/flush", MetricsMiddleware(s.adminHandler.HandleFlush, "admin_flush"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates service errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
