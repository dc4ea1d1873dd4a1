package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/metrics"
	"github.com/hardwayp3nny/ioweb/internal/repository"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store хранит снапшот в локальном файле SQLite
type Store struct {
	db     *sql.DB
	key    string
	logger *zap.Logger
}

func New(ctx context.Context, path, key string, logger *zap.Logger) (*Store, error) {
	key = repository.KeyOrDefault(key)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// один писатель, иначе SQLITE_BUSY при параллельных PUT
	db.SetMaxOpenConns(1)

	s := &Store{db: db, key: key, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	return tx.Commit()
}

func observe(operation string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues("sqlite", operation).Observe(time.Since(start).Seconds())
}

func (s *Store) Read(ctx context.Context) ([]byte, error) {
	defer observe("read", time.Now())

	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM snapshots WHERE key = ?", s.key).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return []byte(doc), nil
}

func (s *Store) Write(ctx context.Context, doc []byte) error {
	defer observe("write", time.Now())

	_, err := s.db.ExecContext(ctx, `
INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(doc))
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.logger.Debug("snapshot stored", zap.String("key", s.key), zap.Int("bytes", len(doc)))
	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	defer observe("health_check", time.Now())
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
