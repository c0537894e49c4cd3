package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tgienger/fcm/internal/account"
	"github.com/tgienger/fcm/internal/auth"
	"github.com/tgienger/fcm/internal/cards"
	"github.com/tgienger/fcm/internal/config"
	"github.com/tgienger/fcm/internal/db"
	"github.com/tgienger/fcm/internal/logger"
	"github.com/tgienger/fcm/internal/metrics"
	"github.com/tgienger/fcm/internal/session"
	"github.com/tgienger/fcm/internal/store"
	"github.com/tgienger/fcm/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("fcm %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log, closeLog, err := logger.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	path := cfg.DBPath
	if path == "" {
		if path, err = db.DefaultPath(); err != nil {
			return fmt.Errorf("resolving database path: %w", err)
		}
	}
	database, err := db.New(path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer database.Close()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics listener failed", slog.String("addr", cfg.MetricsAddr), slog.Any("error", err))
			}
		}()
		defer srv.Close()
	}

	state := session.New()
	st := store.New(database,
		store.WithMetrics(collector),
		store.WithLogger(log),
		store.WithIdentity(state),
	)
	provider, err := auth.Open(ctx, database,
		auth.WithMetrics(collector),
		auth.WithLogger(log),
		auth.WithSignInLimit(cfg.SignInBurst, cfg.SignInInterval),
	)
	if err != nil {
		return fmt.Errorf("opening auth provider: %w", err)
	}

	state.Start(provider)
	defer state.Stop()

	sub := cards.NewSubscription(st)
	defer sub.Close()
	stop := sub.Follow(ctx, state, func(err error) {
		log.Error("card subscription failed", slog.Any("error", err))
	})
	defer stop()

	ctrl := account.NewController(provider, st, log)
	app := ui.NewApp(state, sub, ui.Deps{
		Auth:    ctrl,
		Account: ctrl,
		Form:    cards.NewForm(st, state, cards.WithLogger(log)),
		Actions: cards.NewActions(st, cards.WithLogger(log)),
	}, log)
	defer app.Close()

	log.Info("starting", slog.String("version", version), slog.String("db", path))

	// Create and run the application
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
