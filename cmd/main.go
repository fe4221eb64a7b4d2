package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/okian/podium/internal/adapters/http/api"
	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	usersFile := pflag.String("users", "", "attribute-record file to load at startup")
	scoresFile := pflag.String("scores", "", "score CSV file to load at startup")
	pflag.Parse()

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(log),
		app.WithStoreAddr(cfg.RedisAddr()),
		app.WithCredentials(cfg.RedisUsername, cfg.RedisPassword),
		app.WithDB(cfg.RedisDB),
		app.WithScanCount(cfg.ScanCount),
		app.WithTopLimit(cfg.TopPlayersLimit),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// One-shot loads before serving, when requested. Per-line problems are
	// logged and skipped; only unreadable files abort startup.
	if *usersFile != "" {
		stats, err := svc.LoadUsersFile(ctx, *usersFile)
		if err != nil {
			log.Error(ctx, "user load failed", logger.String("path", *usersFile), logger.Error(err))
			return
		}
		log.Info(ctx, "loaded users",
			logger.String("path", *usersFile),
			logger.Int("loaded", stats.Loaded),
			logger.Int("skipped", stats.Skipped),
		)
	}
	if *scoresFile != "" {
		stats, err := svc.LoadScoresFile(ctx, *scoresFile)
		if err != nil {
			log.Error(ctx, "score load failed", logger.String("path", *scoresFile), logger.Error(err))
			return
		}
		log.Info(ctx, "loaded scores",
			logger.String("path", *scoresFile),
			logger.Int("loaded", stats.Loaded),
			logger.Int("skipped", stats.Skipped),
		)
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
