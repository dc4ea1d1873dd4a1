package collector

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/domain"
	"github.com/hardwayp3nny/ioweb/internal/metrics"

	"go.uber.org/zap"
)

const DefaultWorkers = 4

type fileJob struct {
	index int
	name  string
}

type fileResult struct {
	index   int
	name    string
	samples []domain.ProcessorSample
	err     error
}

// aggregateFiles разбирает файлы пулом воркеров; результаты возвращаются в порядке names
func aggregateFiles(ctx context.Context, dir string, names []string, workers int, logger *zap.Logger) ([]fileResult, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(names) {
		workers = len(names)
	}

	jobs := make(chan fileJob)
	results := make(chan fileResult, len(names))

	metrics.CollectorActiveWorkers.Set(float64(workers))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			defer metrics.CollectorActiveWorkers.Dec()

			for job := range jobs {
				startTime := time.Now()
				samples, err := aggregateFile(filepath.Join(dir, job.name))
				metrics.CollectorFileProcessingTime.Observe(time.Since(startTime).Seconds())

				if err != nil {
					metrics.CollectorFiles.WithLabelValues("failed").Inc()
					logger.Warn("[Collector] failed to aggregate file",
						zap.Int("worker_id", workerID),
						zap.String("file", job.name),
						zap.Error(err),
					)
				} else {
					metrics.CollectorFiles.WithLabelValues("processed").Inc()
					logger.Debug("[Collector] file aggregated",
						zap.Int("worker_id", workerID),
						zap.String("file", job.name),
						zap.Int("processors", len(samples)),
					)
				}

				results <- fileResult{index: job.index, name: job.name, samples: samples, err: err}
			}
		}(i)
	}

	var dispatchErr error
dispatch:
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			break
		}
		select {
		case jobs <- fileJob{index: i, name: name}:
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		}
	}
	close(jobs)

	wg.Wait()
	close(results)
	metrics.CollectorActiveWorkers.Set(0)

	if dispatchErr != nil {
		return nil, dispatchErr
	}

	ordered := make([]fileResult, len(names))
	for res := range results {
		ordered[res.index] = res
	}
	return ordered, nil
}
