package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/config"
	"github.com/hardwayp3nny/ioweb/internal/metrics"
	"github.com/hardwayp3nny/ioweb/internal/repository"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// SnapshotRecord строка таблицы snapshots
type SnapshotRecord struct {
	SnapshotKey string    `gorm:"column:snapshot_key;primaryKey;size:64"`
	Value       string    `gorm:"column:value;type:longtext;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SnapshotRecord) TableName() string {
	return "snapshots"
}

type Store struct {
	db     *gorm.DB
	key    string
	logger *zap.Logger
}

// New открывает MySQL через gorm и создаёт таблицу при необходимости
func New(ctx context.Context, dsn string, dbConfig config.DBConfig, key string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(dbConfig.MaxDBConnections)
	sqlDB.SetMaxIdleConns(dbConfig.MinDBConnections)
	sqlDB.SetConnMaxLifetime(dbConfig.MaxConnLifetime)
	sqlDB.SetConnMaxIdleTime(dbConfig.MaxConnIdleTime)

	return NewWithDB(ctx, db, key, logger)
}

// NewWithDB использует уже открытое соединение gorm
func NewWithDB(ctx context.Context, db *gorm.DB, key string, logger *zap.Logger) (*Store, error) {
	key = repository.KeyOrDefault(key)

	if err := db.WithContext(ctx).AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshots table: %w", err)
	}

	return &Store{db: db, key: key, logger: logger}, nil
}

func observe(operation string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues("mysql", operation).Observe(time.Since(start).Seconds())
}

func (s *Store) Read(ctx context.Context) ([]byte, error) {
	defer observe("read", time.Now())

	var record SnapshotRecord
	err := s.db.WithContext(ctx).Where("snapshot_key = ?", s.key).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return []byte(record.Value), nil
}

func (s *Store) Write(ctx context.Context, doc []byte) error {
	defer observe("write", time.Now())

	record := SnapshotRecord{
		SnapshotKey: s.key,
		Value:       string(doc),
		UpdatedAt:   time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.logger.Debug("snapshot stored", zap.String("key", s.key), zap.Int("bytes", len(doc)))
	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	defer observe("health_check", time.Now())

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
