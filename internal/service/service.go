package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hardwayp3nny/ioweb/internal/domain"
	"github.com/hardwayp3nny/ioweb/internal/metrics"
	"github.com/hardwayp3nny/ioweb/internal/repository"
	"github.com/hardwayp3nny/ioweb/internal/trend"

	"go.uber.org/zap"
)

type Repository interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, doc []byte) error
	HealthCheck(ctx context.Context) error
}

// SnapshotService не хранит состояния между запросами, каждый вызов идёт в хранилище
type SnapshotService struct {
	repo     Repository
	validate bool
	logger   *zap.Logger
}

func NewSnapshotService(repo Repository, validate bool, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		repo:     repo,
		validate: validate,
		logger:   logger,
	}
}

func (s *SnapshotService) CheckStore(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

// GetSnapshot возвращает сохранённый документ как есть
func (s *SnapshotService) GetSnapshot(ctx context.Context) ([]byte, error) {
	doc, err := s.repo.Read(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.SnapshotReads.WithLabelValues("not_found").Inc()
			return nil, wrap(ErrSnapshotNotFound, err)
		}

		metrics.SnapshotReads.WithLabelValues("error").Inc()
		s.logger.Error("[SnapshotService] Failed to read snapshot", zap.Error(err))
		return nil, wrap(ErrStoreUnavailable, err)
	}

	if !json.Valid(doc) {
		metrics.SnapshotReads.WithLabelValues("error").Inc()
		s.logger.Error("[SnapshotService] Stored snapshot is not valid JSON", zap.Int("bytes", len(doc)))
		return nil, wrap(ErrStoreUnavailable, errors.New("stored snapshot is not valid JSON"))
	}

	metrics.SnapshotReads.WithLabelValues("ok").Inc()
	return doc, nil
}

// SaveSnapshot проверяет тело запроса и перезаписывает снапшот.
// В хранилище уходит исходный документ в компактном виде, поэтому GET отдаёт ровно то, что было записано.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return wrap(ErrStoreUnavailable, err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		metrics.SnapshotWrites.WithLabelValues("malformed").Inc()
		return wrap(ErrMalformedInput, err)
	}

	if s.validate {
		snapshot, err := domain.ParseSnapshot(compact.Bytes())
		if err != nil {
			if errors.Is(err, domain.ErrInvalidSnapshot) {
				metrics.SnapshotWrites.WithLabelValues("invalid").Inc()
				return wrap(ErrInvalidSnapshot, err)
			}
			metrics.SnapshotWrites.WithLabelValues("malformed").Inc()
			return wrap(ErrMalformedInput, err)
		}

		s.logger.Debug("[SnapshotService] Snapshot validated",
			zap.Int("points", len(snapshot.ProcessorData)),
			zap.Int("processors", len(trend.Names(snapshot))))
	}

	if err := s.repo.Write(ctx, compact.Bytes()); err != nil {
		metrics.SnapshotWrites.WithLabelValues("error").Inc()
		s.logger.Error("[SnapshotService] Failed to write snapshot", zap.Error(err))
		return wrap(ErrStoreUnavailable, err)
	}

	metrics.SnapshotWrites.WithLabelValues("ok").Inc()
	metrics.SnapshotSizeBytes.Set(float64(compact.Len()))

	s.logger.Info("[SnapshotService] Snapshot saved", zap.Int("bytes", compact.Len()))
	return nil
}

// LoadSnapshot читает и декодирует снапшот для производных представлений
func (s *SnapshotService) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	doc, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := domain.ParseSnapshot(doc)
	if err != nil {
		// содержимое хранилища испорчено или записано в обход сервиса
		metrics.SnapshotReads.WithLabelValues("error").Inc()
		s.logger.Error("[SnapshotService] Stored snapshot cannot be decoded", zap.Error(err))
		return nil, wrap(ErrStoreUnavailable, err)
	}
	return snapshot, nil
}

func (s *SnapshotService) Series(ctx context.Context) (trend.SeriesSet, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return trend.SeriesSet{}, err
	}
	return trend.BuildSeries(snapshot), nil
}

func (s *SnapshotService) LatestRewards(ctx context.Context) ([]trend.RewardRow, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return trend.LatestRewards(snapshot), nil
}

// Roi считает окупаемость процессора по наградам последней точки
func (s *SnapshotService) Roi(ctx context.Context, processor string, purchasePrice float64) (trend.RoiResult, error) {
	if processor == "" {
		return trend.RoiResult{}, wrap(ErrInvalidInput, errors.New("processor is required"))
	}

	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return trend.RoiResult{}, err
	}

	sample, ok := trend.FindSample(snapshot, processor)
	if !ok {
		return trend.RoiResult{}, wrap(ErrInvalidInput, fmt.Errorf("processor %q not found in latest data", processor))
	}

	result, err := trend.ComputeRoi(sample, purchasePrice)
	if err != nil {
		return trend.RoiResult{}, wrap(ErrInvalidInput, err)
	}
	return result, nil
}
