package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	expires_at TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresKV stores keys in a PostgreSQL table.
type PostgresKV struct {
	pool *pgxpool.Pool
}

var _ KV = (*PostgresKV)(nil)

// OpenPostgres connects to databaseURL and creates the table if needed.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createKVTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create kv_entries table: %w", err)
	}
	return &PostgresKV{pool: pool}, nil
}

// GetWithContext returns the value for key, or nil if it is missing or expired.
func (s *PostgresKV) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	).Scan(&val)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if val == nil {
		return []byte{}, nil
	}
	return val, nil
}

// SetWithContext upserts key.
func (s *PostgresKV) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	var expiresAt *time.Time
	if exp > 0 {
		at := time.Now().Add(exp)
		expiresAt = &at
	}
	if val == nil {
		val = []byte{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_entries (key, value, expires_at, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()`,
		key, val, expiresAt,
	)
	return err
}

// DeleteWithContext removes key.
func (s *PostgresKV) DeleteWithContext(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

// Ping checks the database connection.
func (s *PostgresKV) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresKV) Close() error {
	s.pool.Close()
	return nil
}
