// Package parse converts the two raw ingest formats into structured records.
//
// Attribute records arrive one per line as space-separated quoted tokens:
//
//	"user:1" "first_name" "Ann" "country" "US"
//
// The first token is the record key, the rest alternate key/value. Score
// records arrive as CSV rows of (leaderboard, user, score).
package parse

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// A user line needs at least an id plus one key/value pair.
const minUserFields = 3

// Score rows carry leaderboard, user and score in the first three columns.
const minScoreFields = 3

// UserRecord is one parsed attribute record.
type UserRecord struct {
	// ID is the record key, e.g. "user:42".
	ID string

	// Attrs maps attribute name to value. Keys are unique; insertion
	// order is irrelevant.
	Attrs map[string]string
}

// ScoreRow is one parsed leaderboard score entry.
type ScoreRow struct {
	Leaderboard string
	UserID      string
	Score       int64
}

// UserLine parses a single attribute-record line.
//
// The line is read as a space-delimited CSV dialect with quoted fields,
// which matches the external record shape while handling values that
// contain spaces. Lines with fewer than three fields are rejected. When
// the trailing key has no value it is dropped, not an error.
func UserLine(line string) (UserRecord, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return UserRecord{}, fmt.Errorf("%w: empty line", ErrShortLine)
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	fields, err := r.Read()
	if err != nil {
		return UserRecord{}, fmt.Errorf("%w: %w", ErrBadQuoting, err)
	}
	if len(fields) < minUserFields {
		return UserRecord{}, fmt.Errorf("%w: got %d fields", ErrShortLine, len(fields))
	}
	if fields[0] == "" {
		return UserRecord{}, fmt.Errorf("%w", ErrEmptyID)
	}

	rec := UserRecord{
		ID:    fields[0],
		Attrs: make(map[string]string, (len(fields)-1)/2),
	}
	// Alternating key/value pairs; an unpaired trailing key is dropped.
	for i := 1; i+1 < len(fields); i += 2 {
		rec.Attrs[fields[i]] = fields[i+1]
	}
	return rec, nil
}

// Score parses one CSV score row already split into fields.
func Score(fields []string) (ScoreRow, error) {
	if len(fields) < minScoreFields {
		return ScoreRow{}, fmt.Errorf("%w: got %d fields", ErrShortRow, len(fields))
	}

	score, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return ScoreRow{}, fmt.Errorf("%w: %q", ErrBadScore, fields[2])
	}

	return ScoreRow{
		Leaderboard: fields[0],
		UserID:      fields[1],
		Score:       score,
	}, nil
}
