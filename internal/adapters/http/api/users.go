// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/podium/internal/query"
)

// UserDependencies defines the interface for user lookups.
type UserDependencies interface {
	UserData(ctx context.Context, userID string) (map[string]string, error)
	UserCoordinates(ctx context.Context, userID string) (query.Coordinates, error)
}

// UsersHandler handles user record requests.
type UsersHandler struct {
	deps UserDependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// HandleGetUser handles GET /users/{user_id} and
// GET /users/{user_id}/coordinates requests.
func (h *UsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/users/")
	userID, rest, _ := strings.Cut(path, "/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch rest {
	case "":
		attrs, err := h.deps.UserData(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, attrs)
	case "coordinates":
		coords, err := h.deps.UserCoordinates(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, coords)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	}
}
