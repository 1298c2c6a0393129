package storage

import (
	"context"
	"fmt"

	"github.com/example/task-tracker/config"
)

// Open connects to the backend selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg config.Config) (KV, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite, "":
		return OpenSQLite(cfg.DBPath, cfg.DBDebug)
	case config.DriverRedis:
		return OpenRedis(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Database: cfg.RedisDB,
		})
	case config.DriverNATS:
		return OpenJetStream(ctx, cfg.NATSURL, cfg.KVBucket)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// describe returns a log-friendly location for the configured backend.
func describe(cfg config.Config) string {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		return "redis " + cfg.RedisAddr
	case config.DriverNATS:
		return fmt.Sprintf("nats %s (bucket %s)", cfg.NATSURL, cfg.KVBucket)
	case config.DriverPostgres:
		return "postgres"
	default:
		return "sqlite " + cfg.DBPath
	}
}
