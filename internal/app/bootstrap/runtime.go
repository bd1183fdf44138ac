package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/clinic-booking-api/internal/clinic"
	appconfig "github.com/wolfman30/clinic-booking-api/internal/config"
	"github.com/wolfman30/clinic-booking-api/internal/storage"
	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

// StorageOptions maps configuration onto backend selection options.
func StorageOptions(cfg *appconfig.Config) storage.Options {
	return storage.Options{
		DatabaseURL:       cfg.DatabaseURL,
		SQLitePath:        cfg.SQLitePath,
		SQLiteForeignKeys: cfg.SQLiteForeignKeys,
		MaxConns:          cfg.DBMaxConns,
	}
}

// OpenBackend opens the configured storage backend.
func OpenBackend(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (storage.Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.UsePostgres() {
		logger.Info("opening postgres backend", "max_conns", cfg.DBMaxConns)
	} else {
		logger.Info("opening sqlite backend", "path", cfg.SQLitePath, "foreign_keys", cfg.SQLiteForeignKeys)
	}
	backend, err := storage.Open(ctx, StorageOptions(cfg))
	if err != nil {
		return nil, err
	}
	logger.Info("storage backend opened", "backend", backend.Dialect().Name())
	return backend, nil
}

// Initialize applies schema migrations and inserts seed rows into an empty
// database, each when enabled. It must complete before the server accepts
// traffic; the caller decides whether an error is fatal.
func Initialize(ctx context.Context, cfg *appconfig.Config, backend storage.Backend, logger *logging.Logger) error {
	if cfg == nil || backend == nil {
		return fmt.Errorf("bootstrap: config and backend required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.AutoMigrate {
		if err := storage.Migrate(StorageOptions(cfg)); err != nil {
			return fmt.Errorf("bootstrap: schema: %w", err)
		}
		logger.Info("schema up to date", "backend", backend.Dialect().Name())
	}

	if cfg.SeedData {
		seeded, err := storage.Seed(ctx, backend)
		if err != nil {
			return fmt.Errorf("bootstrap: seed: %w", err)
		}
		if seeded {
			logger.Info("seed data inserted",
				"doctors", len(storage.SeedDoctors),
				"patients", len(storage.SeedPatients),
				"appointments", len(storage.SeedAppointments),
			)
		}
	}
	return nil
}

// BuildRedisClient returns a Redis client when REDIS_ADDR is configured.
// With verify set, an unreachable server yields nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, roster cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildRosterCache wires the doctor roster cache; nil when Redis is absent.
// Any roster cached by an earlier process is dropped so the first read after
// startup comes from storage.
func BuildRosterCache(ctx context.Context, redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) *clinic.RosterCache {
	if redisClient == nil || cfg == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	cache := clinic.NewRosterCache(redisClient, cfg.RosterCacheTTL)
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("failed to reset roster cache", "error", err)
	}
	return cache
}
