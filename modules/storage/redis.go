package storage

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/storage/redis/v3"
	goredis "github.com/redis/go-redis/v9"
)

var _ KV = (*redis.Storage)(nil)

// RedisConfig holds the connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	Database int
}

// OpenRedis connects to Redis through gofiber storage.
// The server is pinged first because the storage constructor panics when
// it cannot connect.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*redis.Storage, error) {
	pinger := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	err := pinger.Ping(pingCtx).Err()
	_ = pinger.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Addr, err)
	}

	host, port := parseRedisAddr(cfg.Addr)
	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: cfg.Password,
		Database: cfg.Database,
		PoolSize: 10,
	}), nil
}

// parseRedisAddr parses "host:port" into host and port.
// Returns defaults (127.0.0.1:6379) for invalid or missing values.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
