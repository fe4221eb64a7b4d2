// Package repository defines the store access interface and errors.
package repository

import "github.com/redis/go-redis/v9"

// Option applies a configuration option to the RedisStore.
type Option func(*RedisStore)

// WithAddr sets the host:port address of the store.
func WithAddr(addr string) Option {
	return func(s *RedisStore) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithCredentials sets the username and password for the session.
func WithCredentials(username, password string) Option {
	return func(s *RedisStore) {
		s.username = username
		s.password = password
	}
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return func(s *RedisStore) {
		if db >= 0 {
			s.db = db
		}
	}
}

// WithScanCount sets the COUNT hint used for key scans.
func WithScanCount(count int) Option {
	return func(s *RedisStore) {
		if count > 0 {
			s.scanCount = count
		}
	}
}

// WithClient injects an existing client, bypassing the dial options.
// Used by tests to point the store at an in-process server.
func WithClient(client *redis.Client) Option {
	return func(s *RedisStore) {
		if client != nil {
			s.rdb = client
		}
	}
}
