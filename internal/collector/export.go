package collector

import (
	"fmt"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/domain"
	"github.com/hardwayp3nny/ioweb/internal/trend"

	"github.com/xuri/excelize/v2"
)

const (
	seriesSheet = "Series"
	latestSheet = "Latest"
)

// ExportXLSX пишет выровненные ряды и таблицу последних наград в книгу Excel
func ExportXLSX(snapshot *domain.Snapshot, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", seriesSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	set := trend.BuildSeries(snapshot)

	header := []interface{}{"datetime"}
	for _, series := range set.Series {
		header = append(header, series.Name)
	}
	if err := f.SetSheetRow(seriesSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing series header: %w", err)
	}

	for i, ts := range set.Timestamps {
		row := []interface{}{ts.UTC().Format(time.RFC3339)}
		for _, series := range set.Series {
			if v := series.Values[i]; v != nil {
				row = append(row, *v)
			} else {
				row = append(row, nil)
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(seriesSheet, cell, &row); err != nil {
			return fmt.Errorf("writing series row: %w", err)
		}
	}

	if _, err := f.NewSheet(latestSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	latestHeader := []interface{}{"name", "reward", "usdReward", "cnyReward"}
	if err := f.SetSheetRow(latestSheet, "A1", &latestHeader); err != nil {
		return fmt.Errorf("writing latest header: %w", err)
	}
	for i, row := range trend.LatestRewards(snapshot) {
		values := []interface{}{
			row.Name,
			row.Reward.InexactFloat64(),
			row.USDReward.InexactFloat64(),
			row.CNYReward.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(latestSheet, cell, &values); err != nil {
			return fmt.Errorf("writing latest row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
