// Package loader streams parsed records into the store, one write per
// record. Malformed lines and per-record write failures are logged and
// skipped; only I/O errors abort a load.
package loader

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/parse"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Skip reasons reported to metrics.
const (
	reasonBadLine    = "bad_line"
	reasonBadRow     = "bad_row"
	reasonBadScore   = "bad_score"
	reasonWriteError = "write_error"
)

// Stats summarizes one load run.
type Stats struct {
	// BatchID correlates log entries of a single run.
	BatchID string
	// Loaded counts records written to the store.
	Loaded int
	// Skipped counts lines or rows dropped without aborting the run.
	Skipped int
}

// Loader writes parsed records to the store sequentially over one session.
type Loader struct {
	store repository.Store
	log   logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New constructs a Loader writing through store.
func New(store repository.Store, opts ...Option) *Loader {
	l := &Loader{
		store: store,
		log:   logger.Get().Named("loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadUsers reads attribute-record lines from r and writes each valid
// record to the store, replacing the full mapping for its key. Invalid
// lines and failed writes are skipped with a warning. Only a read error
// aborts the run; whatever was written before stays visible.
func (l *Loader) LoadUsers(ctx context.Context, r io.Reader) (Stats, error) {
	stats := Stats{BatchID: uuid.New().String()}
	start := time.Now()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rec, err := parse.UserLine(scanner.Text())
		if err != nil {
			stats.Skipped++
			metrics.RecordLineSkipped(reasonBadLine)
			l.log.Warn(ctx, "skipping invalid line",
				logger.String("batch", stats.BatchID),
				logger.Int("line", lineNo),
				logger.Error(err),
			)
			continue
		}

		if err := l.store.SetUserAttrs(ctx, rec.ID, rec.Attrs); err != nil {
			stats.Skipped++
			metrics.RecordLineSkipped(reasonWriteError)
			l.log.Warn(ctx, "skipping record after write failure",
				logger.String("batch", stats.BatchID),
				logger.String("id", rec.ID),
				logger.Error(err),
			)
			continue
		}
		stats.Loaded++
		metrics.RecordUserLoaded()
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrRead, err)
	}

	metrics.RecordLoadDuration(float64(time.Since(start).Milliseconds()))
	l.log.Info(ctx, "user load finished",
		logger.String("batch", stats.BatchID),
		logger.Int("loaded", stats.Loaded),
		logger.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// LoadUsersFile opens path and delegates to LoadUsers. A missing or
// unreadable file fails the whole operation.
func (l *Loader) LoadUsersFile(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()
	return l.LoadUsers(ctx, f)
}

// LoadScores reads CSV score rows from r and writes each valid entry to
// its leaderboard sorted set. The header row is skipped unconditionally.
// Short rows, non-integer scores and failed writes are skipped with a
// warning; repeated loads overwrite per member.
func (l *Loader) LoadScores(ctx context.Context, r io.Reader) (Stats, error) {
	stats := Stats{BatchID: uuid.New().String()}
	start := time.Now()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	// Header row is documentation only.
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		return stats, fmt.Errorf("%w: %w", ErrRead, err)
	}

	rowNo := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			rowNo++
			stats.Skipped++
			metrics.RecordLineSkipped(reasonBadRow)
			l.log.Warn(ctx, "skipping malformed row",
				logger.String("batch", stats.BatchID),
				logger.Int("row", rowNo),
				logger.Error(err),
			)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("%w: %w", ErrRead, err)
		}
		rowNo++

		row, err := parse.Score(fields)
		if err != nil {
			stats.Skipped++
			metrics.RecordLineSkipped(reasonBadScore)
			l.log.Warn(ctx, "skipping invalid row",
				logger.String("batch", stats.BatchID),
				logger.Int("row", rowNo),
				logger.Error(err),
			)
			continue
		}

		if err := l.store.SetScore(ctx, row.Leaderboard, row.UserID, row.Score); err != nil {
			stats.Skipped++
			metrics.RecordLineSkipped(reasonWriteError)
			l.log.Warn(ctx, "skipping entry after write failure",
				logger.String("batch", stats.BatchID),
				logger.String("leaderboard", row.Leaderboard),
				logger.String("member", row.UserID),
				logger.Error(err),
			)
			continue
		}
		stats.Loaded++
		metrics.RecordScoreLoaded()
	}

	metrics.RecordLoadDuration(float64(time.Since(start).Milliseconds()))
	l.log.Info(ctx, "score load finished",
		logger.String("batch", stats.BatchID),
		logger.Int("loaded", stats.Loaded),
		logger.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// LoadScoresFile opens path and delegates to LoadScores.
func (l *Loader) LoadScoresFile(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()
	return l.LoadScores(ctx, f)
}
