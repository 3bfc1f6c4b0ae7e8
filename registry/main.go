package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/animus-labs/animus-views/internal/catalog"
	"github.com/animus-labs/animus-views/internal/catalog/memory"
	catalogpg "github.com/animus-labs/animus-views/internal/catalog/postgres"
	"github.com/animus-labs/animus-views/internal/platform/auditlog"
	"github.com/animus-labs/animus-views/internal/platform/auth"
	"github.com/animus-labs/animus-views/internal/platform/httpserver"
	"github.com/animus-labs/animus-views/internal/platform/objectstore"
	"github.com/animus-labs/animus-views/internal/platform/postgres"
)

const serviceName = "registry"

func main() {
	level, err := logLevelFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := serviceConfigFromEnv()
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}
	if _, err := loadOpenAPI(ctx); err != nil {
		logger.Error("invalid api document", "error", err)
		os.Exit(2)
	}

	var (
		store  catalog.Store
		db     *sql.DB
		checks []httpserver.ReadinessCheck
	)
	switch cfg.Store {
	case storePostgres:
		dbCfg, err := postgres.ConfigFromEnv()
		if err != nil {
			logger.Error("invalid database config", "error", err)
			os.Exit(2)
		}
		db, err = postgres.Open(ctx, dbCfg)
		if err != nil {
			logger.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		store = catalogpg.NewStore(db)
		checks = append(checks, httpserver.ReadinessCheck{
			Name: "postgres",
			Check: func(ctx context.Context) error {
				return postgres.Ping(ctx, db, 750*time.Millisecond)
			},
		})
	case storeMemory:
		seed, err := memory.LoadFile(cfg.SeedFile)
		if err != nil {
			logger.Error("invalid seed file", "path", cfg.SeedFile, "error", err)
			os.Exit(2)
		}
		store, err = memory.New(seed)
		if err != nil {
			logger.Error("invalid seed file", "path", cfg.SeedFile, "error", err)
			os.Exit(2)
		}
		logger.Info("catalog loaded from seed", "path", cfg.SeedFile, "datasets", len(seed.Datasets), "versions", len(seed.Versions))
	}

	var links downloadLinker
	if cfg.ObjectStoreEnabled {
		storeCfg, err := objectstore.ConfigFromEnv()
		if err != nil {
			logger.Error("invalid object store config", "error", err)
			os.Exit(2)
		}
		client, err := objectstore.NewMinIOClient(storeCfg)
		if err != nil {
			logger.Error("object store client init failed", "error", err)
			os.Exit(2)
		}
		startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = objectstore.CheckBucket(startupCtx, client, storeCfg)
		cancel()
		if err != nil {
			logger.Error("object store unavailable", "error", err)
			os.Exit(1)
		}
		presigner, err := objectstore.NewPresigner(client, storeCfg)
		if err != nil {
			logger.Error("object store presigner init failed", "error", err)
			os.Exit(2)
		}
		links = presigner
		checks = append(checks, httpserver.ReadinessCheck{
			Name: "minio",
			Check: func(ctx context.Context) error {
				checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
				defer cancel()
				return objectstore.CheckBucket(checkCtx, client, storeCfg)
			},
		})
	}

	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid auth config", "error", err)
		os.Exit(2)
	}
	var middleware *auth.Middleware
	switch authCfg.Mode {
	case auth.ModeOIDC, auth.ModeDev:
		authn, err := newAuthenticator(ctx, authCfg)
		if err != nil {
			logger.Error("auth init failed", "error", err)
			os.Exit(1)
		}
		middleware = &auth.Middleware{
			Logger:        logger,
			Authenticator: authn,
			Authorize:     auth.MethodRoleAuthorizer(),
			SkipPrefixes:  []string{"/healthz", "/readyz", "/openapi.yaml"},
		}
		if db != nil {
			middleware.Audit = auditlog.DenyRecorder(db, serviceName)
		}
	case auth.ModeDisabled:
		logger.Warn("authentication disabled")
	}

	api := newRegistryAPI(logger, store, links)
	handler := buildHandler(logger, api, middleware, checks...)

	if err := httpserver.Run(ctx, logger, httpserver.Config{
		Service:         serviceName,
		Addr:            cfg.Addr,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newAuthenticator(ctx context.Context, cfg auth.Config) (auth.Authenticator, error) {
	if cfg.Mode == auth.ModeDev {
		return auth.NewDevAuthenticator(cfg), nil
	}
	// The provider keeps ctx for refreshing signing keys, so it must outlive startup.
	return auth.NewOIDCAuthenticator(ctx, cfg)
}

// buildHandler assembles the service routes. middleware may be nil when
// authentication is disabled.
func buildHandler(logger *slog.Logger, api *registryAPI, middleware *auth.Middleware, checks ...httpserver.ReadinessCheck) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", httpserver.Healthz(serviceName))
	mux.HandleFunc("/readyz", httpserver.ReadyzWithChecks(serviceName, checks...))
	mux.HandleFunc("GET /openapi.yaml", serveOpenAPI)
	api.register(mux)

	var handler http.Handler = mux
	if middleware != nil {
		handler = middleware.Wrap(handler)
	}
	return httpserver.Wrap(logger, handler)
}
