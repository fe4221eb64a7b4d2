// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// QueryDependencies defines the interface for scan-based queries.
type QueryDependencies interface {
	UsersByEvenID(ctx context.Context) ([]string, []string, error)
	FemaleUsersInRegion(ctx context.Context, countries []string, minLat, maxLat float64) ([]map[string]string, error)
}

// QueriesHandler handles scan-based query requests.
type QueriesHandler struct {
	deps QueryDependencies
}

// NewQueriesHandler creates a new queries handler.
func NewQueriesHandler(deps QueryDependencies) *QueriesHandler {
	return &QueriesHandler{deps: deps}
}

// evenUsersResponse pairs keys with last names, index-aligned.
type evenUsersResponse struct {
	Keys      []string `json:"keys"`
	LastNames []string `json:"last_names"`
}

// HandleEvenUsers handles GET /queries/even-users requests.
func (h *QueriesHandler) HandleEvenUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	keys, lastNames, err := h.deps.UsersByEvenID(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	if lastNames == nil {
		lastNames = []string{}
	}
	writeJSON(w, http.StatusOK, evenUsersResponse{Keys: keys, LastNames: lastNames})
}

// HandleRegion handles GET /queries/region requests. Query parameters:
// country (repeatable), min_lat, max_lat.
func (h *QueriesHandler) HandleRegion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	countries := q["country"]
	if len(countries) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: at least one country is required", ErrBadRequest))
		return
	}
	minLat, err := strconv.ParseFloat(q.Get("min_lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: invalid min_lat", ErrBadRequest))
		return
	}
	maxLat, err := strconv.ParseFloat(q.Get("max_lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: invalid max_lat", ErrBadRequest))
		return
	}
	if minLat > maxLat {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: min_lat exceeds max_lat", ErrBadRequest))
		return
	}

	matches, err := h.deps.FemaleUsersInRegion(r.Context(), countries, minLat, maxLat)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if matches == nil {
		matches = []map[string]string{}
	}
	writeJSON(w, http.StatusOK, matches)
}
