package collector

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const DefaultBlockWorkersURL = "https://block-rewards.io.solutions/block-workers/"

// Downloader выкачивает почасовые CSV с наградами за прошедшие часы
type Downloader struct {
	client  *resty.Client
	baseURL string
	dir     string
	delay   time.Duration
	logger  *zap.Logger
}

func NewDownloader(baseURL, dir string, delay, timeout time.Duration, logger *zap.Logger) *Downloader {
	client := resty.New()
	client.SetTimeout(timeout)

	return &Downloader{
		client:  client,
		baseURL: baseURL,
		dir:     dir,
		delay:   delay,
		logger:  logger,
	}
}

// Download идёт назад от последнего полного часа до now и останавливается
// на первом отсутствующем или пустом файле. Возвращает число скачанных файлов.
func (d *Downloader) Download(ctx context.Context, hours int, now time.Time) (int, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating csv directory: %w", err)
	}

	lastHour := now.UTC().Truncate(time.Hour).Add(-time.Hour)
	downloaded := 0

	for i := 0; i < hours; i++ {
		at := lastHour.Add(-time.Duration(i) * time.Hour)
		stamp := at.Format("2006-01-02-15")
		url := d.baseURL + "csv/" + stamp + ".csv"
		path := filepath.Join(d.dir, stamp+"-block-workers.csv")

		if _, err := os.Stat(path); err == nil {
			if isComplete(path) {
				d.logger.Debug("skipping existing complete file", zap.String("file", path))
				continue
			}
			d.logger.Info("existing file is incomplete, re-downloading", zap.String("file", path))
			if err := os.Remove(path); err != nil {
				return downloaded, fmt.Errorf("removing incomplete file: %w", err)
			}
		}

		ok, err := d.fetch(ctx, url, path)
		if err != nil {
			return downloaded, err
		}
		if !ok {
			d.logger.Info("no more files available", zap.Time("before", at))
			break
		}

		if info, err := os.Stat(path); err == nil && info.Size() == 0 {
			d.logger.Info("downloaded file is empty, removing it", zap.String("file", path))
			d.discard(path)
			break
		}

		downloaded++

		select {
		case <-ctx.Done():
			return downloaded, ctx.Err()
		case <-time.After(d.delay):
		}
	}

	return downloaded, nil
}

// discard удаляет файл; ошибка только логируется, загрузка всё равно останавливается
func (d *Downloader) discard(path string) {
	if err := os.Remove(path); err != nil {
		d.logger.Warn("failed to remove empty file", zap.String("file", path), zap.Error(err))
	}
}

func (d *Downloader) fetch(ctx context.Context, url, path string) (bool, error) {
	resp, err := d.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return false, fmt.Errorf("downloading %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		d.logger.Warn("failed to download", zap.String("url", url), zap.Int("status", resp.StatusCode()))
		return false, nil
	}

	if err := os.WriteFile(path, resp.Body(), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}

	d.logger.Info("downloaded", zap.String("file", path), zap.Int("bytes", len(resp.Body())))
	return true, nil
}
