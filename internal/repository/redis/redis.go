package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/metrics"
	"github.com/hardwayp3nny/ioweb/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options параметры подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Store хранит снапшот строкой под одним ключом Redis
type Store struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// New подключается к Redis и проверяет соединение
func New(ctx context.Context, opts Options, logger *zap.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, opts.Key, logger), nil
}

// NewWithClient оборачивает уже созданный клиент
func NewWithClient(client *redis.Client, key string, logger *zap.Logger) *Store {
	key = repository.KeyOrDefault(key)
	return &Store{
		client: client,
		key:    key,
		logger: logger,
	}
}

func observe(operation string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues("redis", operation).Observe(time.Since(start).Seconds())
}

func (s *Store) Read(ctx context.Context) ([]byte, error) {
	defer observe("read", time.Now())

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return data, nil
}

func (s *Store) Write(ctx context.Context, doc []byte) error {
	defer observe("write", time.Now())

	// Без TTL: снапшот живёт до следующей записи
	if err := s.client.Set(ctx, s.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.logger.Debug("snapshot stored", zap.String("key", s.key), zap.Int("bytes", len(doc)))
	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	defer observe("health_check", time.Now())
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
