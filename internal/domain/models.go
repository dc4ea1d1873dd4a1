package domain

import (
	"github.com/shopspring/decimal"
)

// Snapshot представляет единственный хранимый документ с трендом наград
type Snapshot struct {
	IOPrice       decimal.Decimal `json:"ioPrice"`
	USDCNYRate    decimal.Decimal `json:"usdCnyRate"`
	ProcessorData []DataPoint     `json:"processorData"`
	LastUpdated   *Timestamp      `json:"lastUpdated,omitempty"`
}

// DataPoint набор наград процессоров на один момент времени
type DataPoint struct {
	Datetime   Timestamp         `json:"datetime"`
	Processors []ProcessorSample `json:"processors"`
}

// ProcessorSample награда процессора в IO за час
type ProcessorSample struct {
	Name   string          `json:"name"`
	Reward decimal.Decimal `json:"reward"`
}

// Latest возвращает последнюю точку или nil, если данных нет
func (s *Snapshot) Latest() *DataPoint {
	if s == nil || len(s.ProcessorData) == 0 {
		return nil
	}
	return &s.ProcessorData[len(s.ProcessorData)-1]
}
