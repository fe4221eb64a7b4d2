// Package query implements the read side: point lookups, predicate-filtered
// scans and ranked top-N retrieval against the store.
package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// All user records live under this key pattern.
const userKeyPattern = "user:*"

// Attribute names the canned queries rely on.
const (
	attrLastName  = "last_name"
	attrGender    = "gender"
	attrCountry   = "country"
	attrLatitude  = "latitude"
	attrLongitude = "longitude"
	attrEmail     = "email"
)

const defaultTopLimit = 10

// Coordinates is a user's stored position.
type Coordinates struct {
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
}

// TopPlayer is one ranked leaderboard entry. Email is empty and HasEmail
// false when the member has no stored email; callers must tolerate these
// holes.
type TopPlayer struct {
	Member   string `json:"member"`
	Email    string `json:"email,omitempty"`
	HasEmail bool   `json:"has_email"`
}

// Engine runs read queries over the shared store session.
type Engine struct {
	store    repository.Store
	log      logger.Logger
	topLimit int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithTopLimit sets the default limit for top-player queries.
func WithTopLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.topLimit = limit
		}
	}
}

// New constructs an Engine reading through store.
func New(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		log:      logger.Get().Named("query"),
		topLimit: defaultTopLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UserData returns the full attribute mapping for a user.
// Returns repository.ErrNotFound when the record is absent or empty.
func (e *Engine) UserData(ctx context.Context, userID string) (map[string]string, error) {
	defer observe("user_data", time.Now())
	attrs, err := e.store.GetUserAttrs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return attrs, nil
}

// UserCoordinates returns the stored longitude and latitude for a user.
// Returns repository.ErrNotFound when either attribute is missing or empty,
// including for partial records.
func (e *Engine) UserCoordinates(ctx context.Context, userID string) (Coordinates, error) {
	defer observe("user_coordinates", time.Now())

	longitude, err := e.store.GetUserAttr(ctx, userID, attrLongitude)
	if err != nil {
		return Coordinates{}, err
	}
	latitude, err := e.store.GetUserAttr(ctx, userID, attrLatitude)
	if err != nil {
		return Coordinates{}, err
	}
	if longitude == "" || latitude == "" {
		return Coordinates{}, fmt.Errorf("%w: %s coordinates", repository.ErrNotFound, userID)
	}
	return Coordinates{Longitude: longitude, Latitude: latitude}, nil
}

// UsersByEvenID scans all user keys, keeps those with an even numeric
// suffix and returns the keys alongside each user's last name. The two
// slices are index-aligned; a missing last name yields an empty string.
// Ordering follows the underlying scan and is not guaranteed sorted.
func (e *Engine) UsersByEvenID(ctx context.Context) ([]string, []string, error) {
	defer observe("even_users", time.Now())

	allKeys, err := e.store.ScanKeys(ctx, userKeyPattern)
	if err != nil {
		return nil, nil, err
	}

	var keys, lastNames []string
	for _, key := range allKeys {
		id, ok := numericSuffix(key)
		if !ok {
			e.log.Debug(ctx, "skipping key without numeric suffix", logger.String("key", key))
			continue
		}
		if id%2 != 0 {
			continue
		}

		lastName, err := e.store.GetUserAttr(ctx, key, attrLastName)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, err
		}
		keys = append(keys, key)
		lastNames = append(lastNames, lastName)
	}
	return keys, lastNames, nil
}

// FemaleUsersInRegion scans every user record and keeps those with
// gender "female", a country in countries and a latitude within
// [minLat, maxLat] inclusive. Records without a parseable latitude are
// excluded. This is a full-table scan with client-side filtering.
func (e *Engine) FemaleUsersInRegion(ctx context.Context, countries []string, minLat, maxLat float64) ([]map[string]string, error) {
	defer observe("region", time.Now())

	wanted := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		wanted[c] = struct{}{}
	}

	keys, err := e.store.ScanKeys(ctx, userKeyPattern)
	if err != nil {
		return nil, err
	}

	var matches []map[string]string
	for _, key := range keys {
		attrs, err := e.store.GetUserAttrs(ctx, key)
		if errors.Is(err, repository.ErrNotFound) {
			// Key vanished mid-scan; no snapshot isolation.
			continue
		}
		if err != nil {
			return nil, err
		}

		if attrs[attrGender] != "female" {
			continue
		}
		if _, ok := wanted[attrs[attrCountry]]; !ok {
			continue
		}
		lat, err := strconv.ParseFloat(attrs[attrLatitude], 64)
		if err != nil {
			continue
		}
		if lat < minLat || lat > maxLat {
			continue
		}
		matches = append(matches, attrs)
	}
	return matches, nil
}

// TopPlayers returns the top limit members of a leaderboard by descending
// score, each with its stored email when one exists. A non-positive limit
// falls back to the engine default.
func (e *Engine) TopPlayers(ctx context.Context, leaderboard string, limit int) ([]TopPlayer, error) {
	defer observe("top_players", time.Now())

	if limit <= 0 {
		limit = e.topLimit
	}
	members, err := e.store.TopMembers(ctx, leaderboard, int64(limit))
	if err != nil {
		return nil, err
	}

	players := make([]TopPlayer, 0, len(members))
	for _, member := range members {
		email, err := e.store.GetUserAttr(ctx, member, attrEmail)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			players = append(players, TopPlayer{Member: member})
		case err != nil:
			return nil, err
		default:
			players = append(players, TopPlayer{Member: member, Email: email, HasEmail: true})
		}
	}
	return players, nil
}

// ClearDatabase irreversibly removes all keys in the current logical
// database. Intended for test and reset flows only.
func (e *Engine) ClearDatabase(ctx context.Context) error {
	defer observe("clear", time.Now())
	if err := e.store.FlushDB(ctx); err != nil {
		return err
	}
	e.log.Info(ctx, "database cleared")
	return nil
}

// numericSuffix extracts the integer after the last colon of key.
func numericSuffix(key string) (int64, bool) {
	idx := strings.LastIndexByte(key, ':')
	if idx < 0 || idx == len(key)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(key[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// observe records query latency under the given name.
func observe(name string, start time.Time) {
	metrics.RecordQueryLatency(name, float64(time.Since(start).Microseconds())/1000.0)
}
