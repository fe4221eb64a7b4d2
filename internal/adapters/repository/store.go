// Package repository defines the store access interface and errors.
package repository

import "context"

// Store provides read/write access to the backing key-value store.
//
// Implementations hold a single long-lived session. The interface mirrors
// the store primitives the service relies on: hash maps for user records,
// sorted sets for leaderboards, pattern scans and a full flush.
type Store interface {
	// Ping verifies the session is alive.
	Ping(ctx context.Context) error

	// SetUserAttrs replaces the full attribute mapping stored under id.
	SetUserAttrs(ctx context.Context, id string, attrs map[string]string) error

	// GetUserAttrs returns the full attribute mapping for id.
	// Returns ErrNotFound when the key is absent or has no fields.
	GetUserAttrs(ctx context.Context, id string) (map[string]string, error)

	// GetUserAttr returns a single attribute value for id.
	// Returns ErrNotFound when the key or the field is absent.
	GetUserAttr(ctx context.Context, id, field string) (string, error)

	// SetScore sets the score for member in the named leaderboard,
	// overwriting any previous score.
	SetScore(ctx context.Context, leaderboard, member string, score int64) error

	// TopMembers returns up to n members of the leaderboard ordered by
	// score descending.
	TopMembers(ctx context.Context, leaderboard string, n int64) ([]string, error)

	// ScanKeys enumerates all keys matching pattern. Enumeration order is
	// store-defined and offers no snapshot guarantee.
	ScanKeys(ctx context.Context, pattern string) ([]string, error)

	// FlushDB removes every key in the current logical database.
	FlushDB(ctx context.Context) error

	// Close releases the session.
	Close() error
}
