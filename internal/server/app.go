// Package server wires configuration, storage, services and the HTTP API
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/carbontrack/internal/cache"
	"github.com/dmitrijs2005/carbontrack/internal/logging"
	"github.com/dmitrijs2005/carbontrack/internal/server/config"
	"github.com/dmitrijs2005/carbontrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carbontrack/internal/server/services"
	"golang.org/x/sync/errgroup"

	hs "github.com/dmitrijs2005/carbontrack/internal/server/http"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbPingTimeout   = 5 * time.Second
	cacheSweepEvery = time.Minute
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewApp opens the database and applies migrations. The caller owns the
// returned App and must call Close.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(logging.NewHandler(os.Stdout, c.LogLevel, c.LogFormat)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, repomanager: rm}, nil
}

// Close releases the database pool.
func (app *App) Close() error {
	return app.db.Close()
}

// Run serves the HTTP API until SIGINT, SIGTERM or SIGQUIT, or until a
// component fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	rankings := cache.NewMemory(ctx, app.config.LeaderboardCacheTTL, cacheSweepEvery)
	carbon := services.NewCarbonService(app.db, app.repomanager, rankings, app.logger)
	srv := hs.New(app.config, app.logger, carbon)

	g.Go(func() error {
		return srv.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "app stopped with error", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
