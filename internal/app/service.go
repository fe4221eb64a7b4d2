// Package app provides the core service that wires the store session,
// loader and query engine behind one lifecycle.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/loader"
	"github.com/okian/podium/internal/query"
	"github.com/okian/podium/pkg/logger"
)

// Service owns the single store session and exposes the load, query and
// admin operations. Calls are synchronous; each blocks until the store
// round-trip completes.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	loader  *loader.Loader
	queries *query.Engine

	// Configuration
	storeAddr string
	username  string
	password  string
	db        int
	scanCount int
	topLimit  int

	// State
	started bool

	// Logging
	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStoreAddr sets the host:port of the backing store.
func WithStoreAddr(addr string) Option {
	return func(s *Service) {
		if addr != "" {
			s.storeAddr = addr
		}
	}
}

// WithCredentials sets the store username and password.
func WithCredentials(username, password string) Option {
	return func(s *Service) {
		s.username = username
		s.password = password
	}
}

// WithDB selects the logical store database.
func WithDB(db int) Option {
	return func(s *Service) {
		if db >= 0 {
			s.db = db
		}
	}
}

// WithScanCount sets the COUNT hint for key scans.
func WithScanCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.scanCount = count
		}
	}
}

// WithTopLimit sets the default limit for top-player queries.
func WithTopLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.topLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore injects an already-dialed store, bypassing Start's dial.
// Used by tests to point the service at an in-process server.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeAddr: "localhost:6379",
		scanCount: 100,
		topLimit:  10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start dials and verifies the store session, then builds the loader and
// query engine around it. A dial failure leaves the service stopped and
// every subsequent operation failing fast with ErrNotStarted.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	if s.store == nil {
		store, err := repository.Dial(ctx,
			repository.WithAddr(s.storeAddr),
			repository.WithCredentials(s.username, s.password),
			repository.WithDB(s.db),
			repository.WithScanCount(s.scanCount),
		)
		if err != nil {
			s.log.Error(ctx, "store dial failed",
				logger.String("addr", s.storeAddr),
				logger.Error(err),
			)
			return err
		}
		s.store = store
	}

	s.loader = loader.New(s.store, loader.WithLogger(s.log.Named("loader")))
	s.queries = query.New(s.store,
		query.WithLogger(s.log.Named("query")),
		query.WithTopLimit(s.topLimit),
	)

	s.started = true
	s.log.Info(ctx, "service started", logger.String("store", s.storeAddr))
	return nil
}

// Stop releases the store session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.Error(context.Background(), "store close failed", logger.Error(err))
	}
	s.started = false
	s.log.Info(context.Background(), "service stopped")
}

// ready reports whether operations may proceed.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Ping verifies the store session is alive.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.store.Ping(ctx)
}

// LoadUsers streams attribute-record lines from r into the store.
func (s *Service) LoadUsers(ctx context.Context, r io.Reader) (loader.Stats, error) {
	if err := s.ready(); err != nil {
		return loader.Stats{}, err
	}
	return s.loader.LoadUsers(ctx, r)
}

// LoadUsersFile loads attribute records from a file.
func (s *Service) LoadUsersFile(ctx context.Context, path string) (loader.Stats, error) {
	if err := s.ready(); err != nil {
		return loader.Stats{}, err
	}
	return s.loader.LoadUsersFile(ctx, path)
}

// LoadScores streams CSV score rows from r into the store.
func (s *Service) LoadScores(ctx context.Context, r io.Reader) (loader.Stats, error) {
	if err := s.ready(); err != nil {
		return loader.Stats{}, err
	}
	return s.loader.LoadScores(ctx, r)
}

// LoadScoresFile loads score rows from a file.
func (s *Service) LoadScoresFile(ctx context.Context, path string) (loader.Stats, error) {
	if err := s.ready(); err != nil {
		return loader.Stats{}, err
	}
	return s.loader.LoadScoresFile(ctx, path)
}

// UserData returns the full attribute mapping for a user.
func (s *Service) UserData(ctx context.Context, userID string) (map[string]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.queries.UserData(ctx, userID)
}

// UserCoordinates returns the stored longitude and latitude for a user.
func (s *Service) UserCoordinates(ctx context.Context, userID string) (query.Coordinates, error) {
	if err := s.ready(); err != nil {
		return query.Coordinates{}, err
	}
	return s.queries.UserCoordinates(ctx, userID)
}

// UsersByEvenID returns even-id user keys alongside their last names.
func (s *Service) UsersByEvenID(ctx context.Context) ([]string, []string, error) {
	if err := s.ready(); err != nil {
		return nil, nil, err
	}
	return s.queries.UsersByEvenID(ctx)
}

// FemaleUsersInRegion returns female users in the given countries whose
// latitude falls within [minLat, maxLat].
func (s *Service) FemaleUsersInRegion(ctx context.Context, countries []string, minLat, maxLat float64) ([]map[string]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.queries.FemaleUsersInRegion(ctx, countries, minLat, maxLat)
}

// TopPlayers returns the top ranked members of a leaderboard with emails.
func (s *Service) TopPlayers(ctx context.Context, leaderboard string, limit int) ([]query.TopPlayer, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.queries.TopPlayers(ctx, leaderboard, limit)
}

// ClearDatabase wipes the current logical database.
func (s *Service) ClearDatabase(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.queries.ClearDatabase(ctx)
}
