// Package app wires configuration, storage and HTTP routing into one
// service object with an explicit start and stop lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"bookcatalog/db/migrations"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/upload"

	"github.com/spf13/afero"
)

type App struct {
	cfg       config.Config
	logger    *slog.Logger
	service   *book.Service
	covers    *upload.LocalStore
	limiter   *httpx.RateLimitMiddleware
	handler   http.Handler
	closeRepo func()
}

// New connects to the configured database and assembles the application.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	repo, closeRepo, err := OpenRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a, err := Build(cfg, logger, repo, afero.NewOsFs())
	if err != nil {
		closeRepo()
		return nil, err
	}
	a.closeRepo = closeRepo
	return a, nil
}

// Build assembles the application on an opened repository. Cover images are
// written to cfg.Upload.Dir on fs.
func Build(cfg config.Config, logger *slog.Logger, repo book.Repository, fs afero.Fs) (*App, error) {
	covers, err := upload.NewLocalStore(fs, cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		service: book.NewService(repo, covers),
		covers:  covers,
	}
	if cfg.Server.RateLimitRPS > 0 {
		a.limiter = httpx.NewRateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	}
	a.handler = a.routes()
	return a, nil
}

// OpenRepository opens the backend selected by the DSN scheme: MongoDB for
// mongodb:// URIs, PostgreSQL otherwise. The returned func releases the pool.
func OpenRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (book.Repository, func(), error) {
	dbCfg := cfg.Database

	if database.IsMongoDSN(dbCfg.DSN) {
		client, err := database.OpenMongo(ctx, dbCfg.DSN, dbCfg.MaxConns, dbCfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() {
			dctx, cancel := context.WithTimeout(context.Background(), dbCfg.Timeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}

		repo := book.NewMongoRepo(client.Database(dbCfg.Name), dbCfg.Timeout)
		if err := repo.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		logger.Info("database connection OK", "backend", "mongo", "dsn", database.RedactDSN(dbCfg.DSN))
		return repo, disconnect, nil
	}

	pool, err := database.OpenPostgres(ctx, dbCfg.DSN, dbCfg.MaxConns, dbCfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	if dbCfg.AutoMigrate {
		if err := migrations.Up(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("migrations applied")
	}
	logger.Info("database connection OK", "backend", "postgres", "dsn", database.RedactDSN(dbCfg.DSN))
	return book.NewPostgresRepo(pool, dbCfg.Timeout), pool.Close, nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled and then shuts the server down,
// giving in-flight requests cfg.Server.ShutdownTimeout to finish.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      a.handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}

	if a.limiter != nil {
		go a.limiter.Run(ctx)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", srv.Addr, "env", a.cfg.Env)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	a.logger.Info("server stopped", "addr", srv.Addr)
	return nil
}

// Close releases the database pool. It is safe to call more than once.
func (a *App) Close() {
	if a.closeRepo != nil {
		a.closeRepo()
		a.closeRepo = nil
	}
}
