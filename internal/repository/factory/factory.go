package factory

import (
	"context"
	"fmt"

	"github.com/hardwayp3nny/ioweb/internal/config"
	"github.com/hardwayp3nny/ioweb/internal/repository"
	"github.com/hardwayp3nny/ioweb/internal/repository/memory"
	"github.com/hardwayp3nny/ioweb/internal/repository/mysql"
	"github.com/hardwayp3nny/ioweb/internal/repository/postgres"
	"github.com/hardwayp3nny/ioweb/internal/repository/redis"
	"github.com/hardwayp3nny/ioweb/internal/repository/sqlite"

	"go.uber.org/zap"
)

// Open создаёт хранилище снапшота по STORE_DRIVER
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (repository.SnapshotStore, error) {
	logger = logger.With(zap.String("driver", cfg.Driver), zap.String("key", cfg.Key))

	var (
		store repository.SnapshotStore
		err   error
	)

	switch cfg.Driver {
	case "", "memory":
		logger.Warn("using in-memory snapshot store, data is lost on restart")
		store = memory.NewStore()
	case "redis":
		store, err = openRedis(ctx, cfg, logger)
	case "postgres":
		store, err = openPostgres(ctx, cfg, logger)
	case "sqlite":
		store, err = openSQLite(ctx, cfg, logger)
	case "mysql":
		store, err = openMySQL(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return store, nil
}

// обёртки ниже нужны, чтобы typed nil не попал в интерфейс

func openRedis(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (repository.SnapshotStore, error) {
	s, err := redis.New(ctx, redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Key:      cfg.Key,
	}, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (repository.SnapshotStore, error) {
	s, err := postgres.NewPostgresRepository(ctx, cfg.DBConfig, cfg.Key, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openSQLite(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (repository.SnapshotStore, error) {
	s, err := sqlite.New(ctx, cfg.SQLitePath, cfg.Key, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openMySQL(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (repository.SnapshotStore, error) {
	s, err := mysql.New(ctx, cfg.MySQLDSN, cfg.DBConfig, cfg.Key, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}
