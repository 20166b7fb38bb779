// @title                       Inventory API
// @version                     1.0
// @description                 Inventory tracking backend: login, admin-only registration and a role-gated catalog.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/inventory-system/inventory-api/internal/api"
	"github.com/inventory-system/inventory-api/internal/api/middleware"
	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
	"github.com/inventory-system/inventory-api/internal/core/service"
	"github.com/inventory-system/inventory-api/internal/infrastructure/db/mongo"
	"github.com/inventory-system/inventory-api/internal/infrastructure/db/postgres"
	"github.com/inventory-system/inventory-api/internal/infrastructure/db/redis"
	"github.com/inventory-system/inventory-api/internal/infrastructure/http/handlers"
	"github.com/inventory-system/inventory-api/internal/infrastructure/queue"
	"github.com/inventory-system/inventory-api/internal/pkg/config"
	"github.com/inventory-system/inventory-api/pkg/logger"
)

const (
	shutdownTimeout = 15 * time.Second
	readinessPing   = 2 * time.Second
	auditWorkers    = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "inventory-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.GeneratedSecret {
		log.Warn().Msg("JWT_SECRET not set; using a random per-process secret, tokens will not survive a restart")
	}

	trustedProxies, err := cfg.TrustedProxyNets()
	if err != nil {
		return err
	}

	// --- PostgreSQL ---
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN()})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	checks := []handlers.DependencyCheck{{
		Name: "postgres",
		Ping: func(ctx context.Context) error { return pool.Ping(ctx) },
	}}

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(
		postgres.NewAccountRepository(pool),
		service.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		log,
	)

	if cfg.Bootstrap.Enabled {
		log.Warn().Msg("BOOTSTRAP_DEFAULT_ACCOUNTS enabled; change the default passwords")
		if err := authService.EnsureBootstrapAccounts(ctx, []ports.BootstrapAccount{
			{Username: "admin", Password: cfg.Bootstrap.AdminPassword, Role: domain.RoleAdmin},
			{Username: "staff", Password: cfg.Bootstrap.StaffPassword, Role: domain.RoleStaff},
		}); err != nil {
			return err
		}
	}

	// --- Optional: Redis login limiter ---
	var limiter middleware.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)

		limiter = redis.NewLoginLimiter(rdb, cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginBlockDuration)
		checks = append(checks, handlers.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redis.Ping(ctx, rdb, readinessPing) },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	// --- Optional: Mongo audit trail ---
	var auditSink ports.AuditSink
	var dispatcher *queue.Dispatcher
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer disconnectMongo(client, log)

		if err := mongo.EnsureAuditIndexes(ctx, db); err != nil {
			log.Warn().Err(err).Msg("audit index not created")
		}

		dispatcher = queue.NewDispatcher(auditWorkers, service.NewAuditService(mongo.NewAuditRepository(db), log), log)
		dispatcher.Start(workerCtx)
		auditSink = dispatcher
		checks = append(checks, handlers.DependencyCheck{
			Name: "mongodb",
			Ping: func(ctx context.Context) error { return mongo.Ping(ctx, db) },
		})
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail enabled")
	}

	inventoryService := service.NewInventoryService(postgres.NewInventoryRepository(pool), auditSink, log)

	// --- HTTP ---
	e := api.NewRouter(api.RouterParams{
		Log:               log,
		Production:        cfg.IsProduction(),
		AuthService:       authService,
		Inventory:         inventoryService,
		Tokens:            tokens,
		LoginLimiter:      limiter,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		TrustedProxies:    trustedProxies,
		HealthChecks:      checks,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// Requests have drained; workers flush their queues before returning.
	stopWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	return nil
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("close redis")
	}
}

func disconnectMongo(client *gomongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("disconnect mongo")
	}
}
