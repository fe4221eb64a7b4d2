package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/podium/pkg/metrics"
)

// Default COUNT hint for key scans.
const defaultScanCount = 100

// RedisStore implements Store against a Redis server. It holds one shared
// client, reused across all calls; concurrent use without external
// synchronization is unsupported.
type RedisStore struct {
	rdb       *redis.Client
	addr      string
	username  string
	password  string
	db        int
	scanCount int
}

// Dial builds a session and verifies it with a liveness probe. A single
// attempt is made; on any failure the returned error wraps ErrConnect and
// the store is unusable.
func Dial(ctx context.Context, opts ...Option) (*RedisStore, error) {
	s := &RedisStore{
		addr:      "localhost:6379",
		scanCount: defaultScanCount,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rdb == nil {
		s.rdb = redis.NewClient(&redis.Options{
			Addr:     s.addr,
			Username: s.username,
			Password: s.password,
			DB:       s.db,
		})
	}

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		metrics.RecordStoreError("ping")
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return s, nil
}

// Ping verifies the session is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		metrics.RecordStoreError("ping")
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// SetUserAttrs replaces the full attribute mapping stored under id. The old
// mapping is dropped first so attributes removed upstream do not linger.
func (s *RedisStore) SetUserAttrs(ctx context.Context, id string, attrs map[string]string) error {
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, id)
	if len(attrs) > 0 {
		pipe.HSet(ctx, id, attrs)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordStoreError("hset")
		return fmt.Errorf("set attrs for %s: %w", id, err)
	}
	return nil
}

// GetUserAttrs returns the full attribute mapping for id.
func (s *RedisStore) GetUserAttrs(ctx context.Context, id string) (map[string]string, error) {
	attrs, err := s.rdb.HGetAll(ctx, id).Result()
	if err != nil {
		metrics.RecordStoreError("hgetall")
		return nil, fmt.Errorf("get attrs for %s: %w", id, err)
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return attrs, nil
}

// GetUserAttr returns a single attribute value for id.
func (s *RedisStore) GetUserAttr(ctx context.Context, id, field string) (string, error) {
	val, err := s.rdb.HGet(ctx, id, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, id, field)
	}
	if err != nil {
		metrics.RecordStoreError("hget")
		return "", fmt.Errorf("get attr %s for %s: %w", field, id, err)
	}
	return val, nil
}

// SetScore sets the score for member in the named leaderboard sorted set.
// Later writes for the same member overwrite the previous score.
func (s *RedisStore) SetScore(ctx context.Context, leaderboard, member string, score int64) error {
	err := s.rdb.ZAdd(ctx, leaderboard, redis.Z{Score: float64(score), Member: member}).Err()
	if err != nil {
		metrics.RecordStoreError("zadd")
		return fmt.Errorf("set score for %s in %s: %w", member, leaderboard, err)
	}
	return nil
}

// TopMembers returns up to n members ordered by score descending.
func (s *RedisStore) TopMembers(ctx context.Context, leaderboard string, n int64) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := s.rdb.ZRevRange(ctx, leaderboard, 0, n-1).Result()
	if err != nil {
		metrics.RecordStoreError("zrevrange")
		return nil, fmt.Errorf("top members of %s: %w", leaderboard, err)
	}
	return members, nil
}

// ScanKeys enumerates all keys matching pattern with a cursor scan. Keys
// added or removed mid-scan may or may not appear.
func (s *RedisStore) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.rdb.Scan(ctx, cursor, pattern, int64(s.scanCount)).Result()
		if err != nil {
			metrics.RecordStoreError("scan")
			return nil, fmt.Errorf("scan %s: %w", pattern, err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return keys, nil
}

// FlushDB irreversibly removes all keys in the current logical database.
func (s *RedisStore) FlushDB(ctx context.Context) error {
	if err := s.rdb.FlushDB(ctx).Err(); err != nil {
		metrics.RecordStoreError("flushdb")
		return fmt.Errorf("flush database: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *RedisStore) Close() error {
	if err := s.rdb.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
