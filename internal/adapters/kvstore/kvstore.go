/*
 * file: kvstore.go
 * package: kvstore
 * description:
 *     GORM-backed key-value primitive: put/get over a single table, the
 *     concrete stand-in for the persistent storage primitives a directory
 *     actor needs, with a fixed connection-pool configuration.
 */
package kvstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// row is the single table backing every key.
type row struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value []byte
}

func (row) TableName() string { return "kv_entries" }

// Store is a KV primitive whose Put calls are serialized by a per-store
// mutex, so at most one write is in flight per Store. The mutex is held only
// inside Put; a caller's Get-then-Put sequence is not locked as a whole.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// Open establishes the connection pool and migrates the kv table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("kvstore: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&row{}); err != nil {
		return nil, fmt.Errorf("kvstore: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the raw bytes for key, and ok=false if the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var r row
	err := s.db.WithContext(ctx).First(&r, "key = ?", key).Error
	if err != nil {
		if gormErrRecordNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return r.Value, true, nil
}

// Put writes value under key, overwriting any existing row.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := row{Key: key, Value: value}
	err := s.db.WithContext(ctx).Save(&r).Error
	if err != nil {
		return fmt.Errorf("kvstore: put %q: %w", key, err)
	}
	return nil
}

func gormErrRecordNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
