package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinzhu/copier"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/audit"
	"github.com/tendant/simple-account/pkg/bootstrap"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/database"
	"github.com/tendant/simple-account/pkg/login"
	"github.com/tendant/simple-account/pkg/ratelimit"
	"github.com/tendant/simple-account/pkg/revocation"
	"github.com/tendant/simple-account/pkg/router"
	"github.com/tendant/simple-account/pkg/tokengenerator"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	slog.Info("Starting account service", "persistence", cfg.Persistence.Type, "revocation", cfg.Revocation.Backend)

	ctx := context.Background()

	repo, closeStore, err := openAccountRepository(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open account store", "persistence", cfg.Persistence.Type, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	revocations, err := openRevocationStore(ctx, cfg.Revocation)
	if err != nil {
		slog.Error("Failed to open revocation store", "backend", cfg.Revocation.Backend, "err", err)
		os.Exit(1)
	}

	hasher, err := login.NewPasswordHasher(cfg.Password.Hasher)
	if err != nil {
		slog.Error("Failed to create password hasher", "err", err)
		os.Exit(1)
	}

	expiry, err := cfg.JWT.ParseAccessTokenExpiry()
	if err != nil {
		slog.Error("Failed to parse access token expiry", "err", err)
		os.Exit(1)
	}
	tokens := tokengenerator.NewJwtTokenGenerator(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, expiry)

	services := router.NewServices(router.Dependencies{
		Repository:     repo,
		Hasher:         hasher,
		TokenGenerator: tokens,
		Revocations:    revocations,
	})

	// Create first admin user if no users exist
	var adminConfig bootstrap.AdminBootstrapConfig
	if err := copier.Copy(&adminConfig, &cfg.Admin); err != nil {
		slog.Error("Failed to read admin bootstrap config", "err", err)
		os.Exit(1)
	}
	result, err := bootstrap.BootstrapAdmin(ctx, services.Accounts, adminConfig)
	if err != nil {
		slog.Error("Failed to bootstrap admin user", "err", err)
		os.Exit(1)
	}
	bootstrap.PrintBootstrapResult(os.Stdout, result)
	bootstrap.LogBootstrapSummary(result)

	throttleConfig, err := cfg.RateLimit.ThrottleConfig()
	if err != nil {
		slog.Error("Failed to read rate limit config", "err", err)
		os.Exit(1)
	}
	throttle := ratelimit.NewMiddleware(throttleConfig)
	defer throttle.Stop()

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	routes := router.NewConfig(services, throttle)
	routes.Audit = audit.NewMiddleware(audit.Config{})
	router.SetupRoutes(server.R, routes)

	slog.Info("Account service ready")
	server.Run()
}

func openAccountRepository(ctx context.Context, cfg config.Config) (account.AccountRepository, func(), error) {
	noop := func() {}
	repoConfig := account.RepositoryConfig{DataDir: cfg.Persistence.FileDataPath}

	switch cfg.Persistence.Type {
	case account.PersistencePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Database.ToDatabaseURL())
		if err != nil {
			slog.Error("Failed to connect to database",
				"host", cfg.Database.Host,
				"port", cfg.Database.Port,
				"database", cfg.Database.Database,
				"schema", cfg.Database.Schema,
				"err", err)
			return nil, noop, err
		}
		slog.Info("Database connected", "database", cfg.Database.Database, "schema", cfg.Database.Schema)
		repoConfig.Pool = pool
		repo, err := account.NewAccountRepository(cfg.Persistence.Type, repoConfig)
		return repo, closePool(pool), err
	case account.PersistenceSQLite:
		db, err := database.OpenSQLite(ctx, cfg.Persistence.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("SQLite database opened", "path", cfg.Persistence.SQLitePath)
		repoConfig.SQLite = db
		repo, err := account.NewAccountRepository(cfg.Persistence.Type, repoConfig)
		return repo, closeDB(db), err
	default:
		repo, err := account.NewAccountRepository(cfg.Persistence.Type, repoConfig)
		return repo, noop, err
	}
}

func openRevocationStore(ctx context.Context, cfg config.RevocationConfig) (revocation.Store, error) {
	switch cfg.Backend {
	case revocation.BackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		slog.Info("Redis connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return revocation.NewRedisStore(client), nil
	case revocation.BackendInMemory, "":
		return revocation.NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported revocation backend: %s", cfg.Backend)
	}
}

func closePool(pool *pgxpool.Pool) func() {
	return pool.Close
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close database", "err", err)
		}
	}
}
