// Package server initializes and runs the backend application: it selects the
// storage backend, runs migrations, seeds the built-in accounts, and starts
// the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/parallaxhq/parallax/internal/logging"
	"github.com/parallaxhq/parallax/internal/server/config"
	"github.com/parallaxhq/parallax/internal/server/httpapi"
	"github.com/parallaxhq/parallax/internal/server/repositories/repomanager"
	"github.com/parallaxhq/parallax/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *httpapi.Server
}

// NewApp wires the application together. An empty DatabaseDSN selects the
// in-memory repositories; otherwise PostgreSQL is opened and migrated.
func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	ctx := context.Background()

	var db *sql.DB
	var rm repomanager.RepositoryManager

	if c.DatabaseDSN == "" {
		logger.Info(ctx, "No database DSN configured, using in-memory repositories")
		rm = repomanager.NewMemoryRepositoryManager()
	} else {
		var err error
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		pm := repomanager.NewPostgresRepositoryManager()
		if err := pm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		rm = pm
	}

	us := services.NewUserService(db, rm, c)
	if err := us.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seeding accounts: %w", err)
	}

	vs := services.NewVehicleService(db, rm)
	ps := services.NewPlateImageService(c.RecognizerBaseURL, vs)
	ph := services.NewPhotoService(c)

	srv := httpapi.NewServer(c.EndpointAddr, logger, us, vs, ps, ph)

	return &App{config: c, logger: logger, httpServer: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
