package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// kvEntry is one row of the key-value table.
type kvEntry struct {
	Key       string     `gorm:"column:key;primaryKey;size:255"`
	Value     []byte     `gorm:"column:value;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM.
func (kvEntry) TableName() string {
	return "kv_entries"
}

// SQLiteKV stores keys in a SQLite table through GORM.
type SQLiteKV struct {
	db *gorm.DB
}

var _ KV = (*SQLiteKV)(nil)

// OpenSQLite opens (or creates) the database at path and migrates the table.
func OpenSQLite(path string, debug bool) (*SQLiteKV, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// An in-memory database exists per connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return NewSQLiteKV(db)
}

// NewSQLiteKV wraps an open GORM database.
func NewSQLiteKV(db *gorm.DB) (*SQLiteKV, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// GetWithContext returns the value for key, or nil if it is missing or expired.
func (s *SQLiteKV) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	var entry kvEntry
	if err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if entry.ExpiresAt != nil && !entry.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	if entry.Value == nil {
		return []byte{}, nil
	}
	return entry.Value, nil
}

// SetWithContext upserts key.
func (s *SQLiteKV) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	entry := kvEntry{
		Key:       key,
		Value:     val,
		UpdatedAt: time.Now(),
	}
	if entry.Value == nil {
		entry.Value = []byte{}
	}
	if exp > 0 {
		at := time.Now().Add(exp)
		entry.ExpiresAt = &at
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

// DeleteWithContext removes key.
func (s *SQLiteKV) DeleteWithContext(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
}

// Ping checks the database connection.
func (s *SQLiteKV) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteKV) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
