// Package trend содержит чистые функции над снапшотом: ряды для графиков,
// таблицу последних наград и расчёт окупаемости.
package trend

import (
	"time"

	"github.com/hardwayp3nny/ioweb/internal/domain"
)

// Series значения одного процессора, выровненные по меткам времени снапшота.
// nil означает, что в эту метку у процессора не было замера.
type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type SeriesSet struct {
	Timestamps []time.Time `json:"timestamps"`
	Series     []Series    `json:"series"`
}

// Names возвращает имена процессоров в порядке первого появления
func Names(s *domain.Snapshot) []string {
	if s == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var names []string
	for _, point := range s.ProcessorData {
		for _, sample := range point.Processors {
			if _, ok := seen[sample.Name]; ok {
				continue
			}
			seen[sample.Name] = struct{}{}
			names = append(names, sample.Name)
		}
	}
	return names
}

// BuildSeries строит по ряду на каждый процессор длиной в число точек снапшота
func BuildSeries(s *domain.Snapshot) SeriesSet {
	set := SeriesSet{
		Timestamps: []time.Time{},
		Series:     []Series{},
	}
	if s == nil {
		return set
	}

	names := Names(s)
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
		set.Series = append(set.Series, Series{
			Name:   name,
			Values: make([]*float64, len(s.ProcessorData)),
		})
	}

	for i, point := range s.ProcessorData {
		set.Timestamps = append(set.Timestamps, point.Datetime.Time)
		for _, sample := range point.Processors {
			values := set.Series[index[sample.Name]].Values
			// повторное имя в той же точке игнорируется, берём первое
			if values[i] != nil {
				continue
			}
			reward := sample.Reward.InexactFloat64()
			values[i] = &reward
		}
	}

	return set
}
