// Package seeddata generates fixture files in the two ingest formats:
// attribute-record lines and score CSVs. Used by cmd/seed-data and as a
// source of realistic test input.
package seeddata

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"
)

// Bounds for generated coordinates.
const (
	latitudeRange  = 180.0 // -90..90
	longitudeRange = 360.0 // -180..180
)

const randomFloatDivisor = 1000000

// Value pools for generated attributes.
var (
	firstNames = []string{"Ann", "Bo", "Carla", "Dmitri", "Elif", "Femi", "Greta", "Hiro"}
	lastNames  = []string{"Iri", "Lee", "Oda", "Park", "Quinn", "Ruiz", "Sato", "Tran"}
	genders    = []string{"female", "male"}
	countries  = []string{"US", "CA", "FR", "DE", "JP", "BR", "NG", "IN"}
)

// randomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick(pool []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	return pool[n.Int64()]
}

// UserLine renders the attribute-record line for user number i.
func UserLine(i int) string {
	lat := randomFloat()*latitudeRange - latitudeRange/2
	lon := randomFloat()*longitudeRange - longitudeRange/2
	email := fmt.Sprintf("%s@example.com", uuid.New().String()[:8])

	return fmt.Sprintf(
		`"user:%d" "first_name" "%s" "last_name" "%s" "gender" "%s" "country" "%s" "latitude" "%.4f" "longitude" "%.4f" "email" "%s"`,
		i, pick(firstNames), pick(lastNames), pick(genders), pick(countries), lat, lon, email,
	)
}

// WriteUsers emits count attribute-record lines to w, ids user:1..user:count.
func WriteUsers(w io.Writer, count int) error {
	for i := 1; i <= count; i++ {
		if _, err := fmt.Fprintln(w, UserLine(i)); err != nil {
			return fmt.Errorf("write user line %d: %w", i, err)
		}
	}
	return nil
}

// WriteScores emits a header plus count score rows to w, spreading members
// across the given number of leaderboards. Scores fall in [0, maxScore).
func WriteScores(w io.Writer, count, leaderboards, userCount, maxScore int) error {
	if leaderboards < 1 {
		leaderboards = 1
	}
	if userCount < 1 {
		userCount = 1
	}
	if _, err := fmt.Fprintln(w, "leaderboard,user,score"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < count; i++ {
		lb := int(randomFloat() * float64(leaderboards))
		if lb >= leaderboards {
			lb = leaderboards - 1
		}
		user := 1 + int(randomFloat()*float64(userCount))
		if user > userCount {
			user = userCount
		}
		score := int(randomFloat() * float64(maxScore))
		if _, err := fmt.Fprintf(w, "leaderboard:%d,user:%d,%d\n", lb+1, user, score); err != nil {
			return fmt.Errorf("write score row %d: %w", i, err)
		}
	}
	return nil
}
