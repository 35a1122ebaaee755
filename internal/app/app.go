package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/yomitan-backend/internal/adapter/postgres"
	"github.com/heartmarshall/yomitan-backend/internal/adapter/postgres/term"
	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/language"
	"github.com/heartmarshall/yomitan-backend/internal/service/dictionary"
	"github.com/heartmarshall/yomitan-backend/internal/service/lookup"
	"github.com/heartmarshall/yomitan-backend/internal/transport/middleware"
	"github.com/heartmarshall/yomitan-backend/internal/transport/rest"
)

const rateLimitCleanup = 5 * time.Minute

// Run is the server entry point. It loads configuration, connects to the
// database, loads the deinflection languages and serves HTTP until ctx is
// canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("languages", cfg.Languages.Enabled),
	)

	pool, err := OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	registry, err := language.Load(ctx, logger, cfg.Languages)
	if err != nil {
		return fmt.Errorf("load languages: %w", err)
	}
	if !registry.Ready() {
		logger.Warn("no language loaded; lookups will fail until the tables are fixed")
	}

	limiter := middleware.NewRateLimiter(rateLimitCleanup)
	defer limiter.Stop()

	handler := buildHandler(cfg, pool, registry, limiter, logger)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// buildHandler wires the repository, services and HTTP handlers on top of
// pool and registry.
func buildHandler(cfg *config.Config, pool *pgxpool.Pool, registry *language.Registry, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	repo := term.New(pool)
	lookupSvc := lookup.NewService(logger, repo, registry, cfg.Lookup)
	dictSvc := dictionary.NewService(logger, repo, postgres.NewTxManager(pool), cfg.Dictionary)

	return rest.NewRouter(rest.Handlers{
		Health:     rest.NewHealthHandler(pool, registry, BuildVersion()),
		Lookup:     rest.NewLookupHandler(lookupSvc, registry, logger),
		Dictionary: rest.NewDictionaryHandler(dictSvc, cfg.Server.MaxUploadBytes, logger),
	}, limiter, cfg, logger)
}

// OpenDatabase connects to PostgreSQL and applies pending migrations when
// auto_migrate is enabled. The caller owns the returned pool.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return pool, nil
}

// serve runs srv until ctx is canceled or the listener fails, then shuts it
// down within timeout.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
