package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Prices interface {
	IOPrice(ctx context.Context) (decimal.Decimal, error)
	USDCNYRate(ctx context.Context) (decimal.Decimal, error)
}

type Publisher interface {
	Publish(ctx context.Context, snapshot *domain.Snapshot) error
}

// Collector собирает снапшот из каталога CSV и текущих курсов и отправляет его в сервис
type Collector struct {
	dir       string
	prices    Prices
	publisher Publisher
	workers   int
	now       func() time.Time
	logger    *zap.Logger
}

func NewCollector(dir string, prices Prices, publisher Publisher, logger *zap.Logger) *Collector {
	return &Collector{
		dir:       dir,
		prices:    prices,
		publisher: publisher,
		workers:   DefaultWorkers,
		now:       time.Now,
		logger:    logger,
	}
}

// WithWorkers задаёт число воркеров разбора CSV
func (c *Collector) WithWorkers(n int) *Collector {
	if n > 0 {
		c.workers = n
	}
	return c
}

// Build подготавливает снапшот, ничего не отправляя
func (c *Collector) Build(ctx context.Context) (*domain.Snapshot, error) {
	now := c.now().UTC()

	points, err := BuildPoints(ctx, c.dir, now, c.workers, c.logger)
	if err != nil {
		return nil, err
	}

	ioPrice, err := c.prices.IOPrice(ctx)
	if err != nil {
		return nil, err
	}

	rate, err := c.prices.USDCNYRate(ctx)
	if err != nil {
		return nil, err
	}

	updated := domain.NewTimestamp(now)
	snapshot := &domain.Snapshot{
		IOPrice:       ioPrice,
		USDCNYRate:    rate,
		ProcessorData: points,
		LastUpdated:   &updated,
	}

	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("built snapshot is invalid: %w", err)
	}
	return snapshot, nil
}

func (c *Collector) Publish(ctx context.Context) (*domain.Snapshot, error) {
	snapshot, err := c.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.publisher.Publish(ctx, snapshot); err != nil {
		return nil, err
	}

	c.logger.Info("snapshot published",
		zap.Int("points", len(snapshot.ProcessorData)),
		zap.String("io_price", snapshot.IOPrice.String()),
		zap.String("usd_cny_rate", snapshot.USDCNYRate.String()),
	)
	return snapshot, nil
}
