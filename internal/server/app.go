// Package server initializes and runs the TodoKeeper API server: it opens
// the storage backends, applies migrations, serves HTTP and shuts everything
// down on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	rdb         *redis.Client
	repomanager repomanager.RepositoryManager
	httpServer  *httpapi.HTTPServer
}

// NewApp validates c and wires storage, services and the HTTP server.
// Connections are opened lazily; nothing touches the network until Run.
func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogLevel, c.Environment)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	health := []httpapi.Pinger{db}
	var opts []repomanager.Option
	if c.RevocationBackend == config.RevocationBackendRedis {
		app.rdb = redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
		})
		opts = append(opts, repomanager.WithRevocationList(
			revokedtokens.NewRedisRepository(app.rdb, c.TokenValidityDuration),
		))
		health = append(health, httpapi.PingFunc(func(ctx context.Context) error {
			return app.rdb.Ping(ctx).Err()
		}))
	}
	app.repomanager = repomanager.NewPostgresRepositoryManager(opts...)

	us := services.NewUserService(db, app.repomanager, c)
	ts := services.NewTodoService(db, app.repomanager, c)
	app.httpServer = httpapi.NewHTTPServer(c, logger, us, ts, metrics.New(), health...)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run applies migrations and serves until ctx is cancelled or a signal
// arrives, then releases the storage handles.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment, "revocation_backend", app.config.RevocationBackend)

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return errors.Join(fmt.Errorf("migrations: %w", err), app.Close())
	}

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "Shutting down...")
	return errors.Join(runErr, app.Close())
}

// Close releases the database and Redis handles.
func (app *App) Close() error {
	var errs []error
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
