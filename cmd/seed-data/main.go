// Command seed-data writes fixture files in the two ingest formats.
package main

import (
	"context"
	"os"

	"github.com/spf13/pflag"

	"github.com/okian/podium/internal/seeddata"
	"github.com/okian/podium/pkg/logger"
)

func main() {
	usersPath := pflag.String("users", "users.txt", "output path for attribute records")
	scoresPath := pflag.String("scores", "userscores.csv", "output path for score rows")
	userCount := pflag.Int("user-count", 1000, "number of user records to generate")
	scoreCount := pflag.Int("score-count", 5000, "number of score rows to generate")
	leaderboards := pflag.Int("leaderboards", 3, "number of leaderboards to spread scores over")
	maxScore := pflag.Int("max-score", 10000, "exclusive upper bound for generated scores")
	pflag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()
	ctx := context.Background()

	if err := writeFile(*usersPath, func(f *os.File) error {
		return seeddata.WriteUsers(f, *userCount)
	}); err != nil {
		log.Error(ctx, "writing users failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "wrote user records",
		logger.String("path", *usersPath),
		logger.Int("count", *userCount),
	)

	if err := writeFile(*scoresPath, func(f *os.File) error {
		return seeddata.WriteScores(f, *scoreCount, *leaderboards, *userCount, *maxScore)
	}); err != nil {
		log.Error(ctx, "writing scores failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "wrote score rows",
		logger.String("path", *scoresPath),
		logger.Int("count", *scoreCount),
	)
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
