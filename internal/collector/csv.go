package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// колонки выгрузки block-workers
const (
	colConnectivity = 7
	colProcessor    = 8
	colQuantity     = 9
	colRewarded     = 13
	minColumns      = 15
)

const (
	tierHighSpeed      = "high speed"
	tierUltraHighSpeed = "ultra high speed"
)

type tierStats struct {
	sum   float64
	count int
}

func (t tierStats) average() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}

// AggregateCSV считает среднюю награду на единицу для каждого процессора.
// Учитываются только тарифы high speed и ultra high speed; если средние есть у обоих,
// берётся их среднее, иначе то, что есть. Результат отсортирован по награде по убыванию.
func AggregateCSV(r io.Reader) ([]domain.ProcessorSample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.ProcessorSample{}, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	stats := make(map[string]map[string]tierStats)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if len(row) < minColumns {
			continue
		}

		tier := strings.ToLower(strings.TrimSpace(row[colConnectivity]))
		if tier != tierHighSpeed && tier != tierUltraHighSpeed {
			continue
		}

		quantity, err := strconv.ParseFloat(strings.TrimSpace(row[colQuantity]), 64)
		if err != nil {
			continue
		}
		rewarded, err := strconv.ParseFloat(strings.TrimSpace(row[colRewarded]), 64)
		if err != nil {
			continue
		}
		if quantity <= 0 || rewarded <= 0 {
			continue
		}

		processor := strings.ToLower(strings.TrimSpace(row[colProcessor]))
		if stats[processor] == nil {
			stats[processor] = make(map[string]tierStats)
		}
		st := stats[processor][tier]
		st.sum += rewarded / quantity
		st.count++
		stats[processor][tier] = st
	}

	type averaged struct {
		name   string
		reward float64
	}
	var rows []averaged
	for name, tiers := range stats {
		high := tiers[tierHighSpeed].average()
		ultra := tiers[tierUltraHighSpeed].average()

		reward := high
		switch {
		case high > 0 && ultra > 0:
			reward = (high + ultra) / 2
		case ultra > high:
			reward = ultra
		}
		if reward > 0 {
			rows = append(rows, averaged{name: name, reward: reward})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].reward == rows[j].reward {
			return rows[i].name < rows[j].name
		}
		return rows[i].reward > rows[j].reward
	})

	samples := make([]domain.ProcessorSample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, domain.ProcessorSample{
			Name:   row.name,
			Reward: decimal.NewFromFloat(row.reward),
		})
	}
	return samples, nil
}

// FileHour достаёт час выгрузки из имени вида 2024-06-01-13-block-workers.csv
func FileHour(filename string) (time.Time, bool) {
	parts := strings.Split(filepath.Base(filename), "-")
	if len(parts) < 4 {
		return time.Time{}, false
	}

	hour := strings.TrimSuffix(parts[3], ".csv")
	t, err := time.ParseInLocation("2006-01-02T15", strings.Join(parts[0:3], "-")+"T"+hour, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// BuildPoints агрегирует все *.csv каталога в точки снапшота, по возрастанию времени.
// Файлы с нераспознанным именем получают метку now.
func BuildPoints(ctx context.Context, dir string, now time.Time, workers int, logger *zap.Logger) ([]domain.DataPoint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading csv directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		names = append(names, entry.Name())
	}

	points := []domain.DataPoint{}
	if len(names) == 0 {
		return points, nil
	}

	results, err := aggregateFiles(ctx, dir, names, workers, logger)
	if err != nil {
		return nil, err
	}

	for _, res := range results {
		if res.err != nil {
			return nil, fmt.Errorf("aggregating %s: %w", res.name, res.err)
		}

		at, ok := FileHour(res.name)
		if !ok {
			at = now.UTC()
		}

		points = append(points, domain.DataPoint{
			Datetime:   domain.NewTimestamp(at),
			Processors: res.samples,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Datetime.Before(points[j].Datetime.Time)
	})
	return points, nil
}

func aggregateFile(path string) ([]domain.ProcessorSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return AggregateCSV(f)
}

// isComplete: заголовок минимум из 4 колонок и хотя бы одна строка данных
func isComplete(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil || len(header) < 4 {
		return false
	}
	_, err = reader.Read()
	return err == nil
}
