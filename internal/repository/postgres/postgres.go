package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/config"
	"github.com/hardwayp3nny/ioweb/internal/metrics"
	"github.com/hardwayp3nny/ioweb/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// value хранится байтами как есть: JSONB не примет \u0000 и переупорядочит ключи,
// TEXT отвергнет невалидный UTF-8. Документ уже проверен сервисом.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`DO $$
BEGIN
	IF (SELECT data_type FROM information_schema.columns
	    WHERE table_name = 'snapshots' AND column_name = 'value') <> 'bytea' THEN
		ALTER TABLE snapshots ALTER COLUMN value TYPE BYTEA USING convert_to(value::text, 'UTF8');
	END IF;
END $$`,
}

type PostgresRepository struct {
	pool   *pgxpool.Pool
	key    string
	logger *zap.Logger
}

func NewPostgresRepository(ctx context.Context, dbConfig config.DBConfig, key string, logger *zap.Logger) (*PostgresRepository, error) {
	// Конфигурация пула
	key = repository.KeyOrDefault(key)

	poolConfig, err := pgxpool.ParseConfig(dbConfig.DBSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	poolConfig.MaxConns = int32(dbConfig.MaxDBConnections)
	poolConfig.MinConns = int32(dbConfig.MinDBConnections)
	poolConfig.MaxConnLifetime = dbConfig.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dbConfig.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	// Запуск горутины для мониторинга соединений
	go monitorConnections(ctx, pool, logger)

	return &PostgresRepository{
		pool:   pool,
		key:    key,
		logger: logger,
	}, nil
}

// monitorConnections периодически обновляет метрики соединений и завершается при отмене ctx
func monitorConnections(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping monitorConnections goroutine due to context cancellation")
			return
		case <-ticker.C:
			stats := pool.Stat()
			metrics.DBActiveConnections.Set(float64(stats.AcquiredConns()))
			metrics.DBIdleConnections.Set(float64(stats.IdleConns()))

			logger.Debug("Database connection stats",
				zap.Int("acquired", int(stats.AcquiredConns())),
				zap.Int("idle", int(stats.IdleConns())),
				zap.Int("max", int(stats.MaxConns())),
			)
		}
	}
}

func observe(operation string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues("postgres", operation).Observe(time.Since(start).Seconds())
}

func (r *PostgresRepository) Read(ctx context.Context) ([]byte, error) {
	defer observe("read", time.Now())

	var doc []byte
	err := r.pool.QueryRow(ctx, "SELECT value FROM snapshots WHERE key = $1", r.key).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return doc, nil
}

func (r *PostgresRepository) Write(ctx context.Context, doc []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	defer observe("write", time.Now())

	query := `INSERT INTO snapshots (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := r.pool.Exec(ctx, query, r.key, doc); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	r.logger.Debug("snapshot stored", zap.String("key", r.key), zap.Int("bytes", len(doc)))
	return nil
}

func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	defer observe("health_check", time.Now())
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}
