package trend

import (
	"errors"
	"fmt"
	"math"

	"github.com/hardwayp3nny/ioweb/internal/domain"

	"github.com/shopspring/decimal"
)

const hoursPerDay = 24

var ErrInvalidInput = errors.New("invalid roi input")

// RoiInput награда процессора вместе с курсами снапшота
type RoiInput struct {
	Name       string
	Reward     decimal.Decimal
	IOPrice    decimal.Decimal
	USDCNYRate decimal.Decimal
}

type RoiResult struct {
	Processor        string  `json:"processor"`
	PurchasePrice    float64 `json:"purchasePrice"`
	DailyRewardIO    float64 `json:"dailyRewardIo"`
	DailyRewardUSD   float64 `json:"dailyRewardUsd"`
	DailyRewardLocal float64 `json:"dailyRewardLocalCurrency"`
	DaysToRoi        float64 `json:"daysToRoi"`
}

// Display дни до окупаемости с двумя знаками, как на дашборде
func (r RoiResult) Display() string {
	return fmt.Sprintf("%.2f", r.DaysToRoi)
}

// ComputeRoi считает, за сколько дней награда окупит покупку по цене purchasePrice
// (цена в той же валюте, что и usdCnyRate).
func ComputeRoi(sample RoiInput, purchasePrice float64) (RoiResult, error) {
	if math.IsNaN(purchasePrice) || math.IsInf(purchasePrice, 0) || purchasePrice <= 0 {
		return RoiResult{}, fmt.Errorf("%w: purchase price must be a positive finite number, got %v", ErrInvalidInput, purchasePrice)
	}

	reward := sample.Reward.InexactFloat64()
	ioPrice := sample.IOPrice.InexactFloat64()
	rate := sample.USDCNYRate.InexactFloat64()

	hourlyLocal := reward * ioPrice * rate
	if hourlyLocal == 0 || math.IsNaN(hourlyLocal) || math.IsInf(hourlyLocal, 0) {
		return RoiResult{}, fmt.Errorf("%w: reward value of %q is zero or not finite", ErrInvalidInput, sample.Name)
	}

	dailyLocal := hourlyLocal * hoursPerDay

	return RoiResult{
		Processor:        sample.Name,
		PurchasePrice:    purchasePrice,
		DailyRewardIO:    reward * hoursPerDay,
		DailyRewardUSD:   reward * ioPrice * hoursPerDay,
		DailyRewardLocal: dailyLocal,
		DaysToRoi:        purchasePrice / dailyLocal,
	}, nil
}

// FindSample ищет процессор в последней точке снапшота
func FindSample(s *domain.Snapshot, name string) (RoiInput, bool) {
	latest := s.Latest()
	if latest == nil {
		return RoiInput{}, false
	}

	for _, sample := range latest.Processors {
		if sample.Name == name {
			return RoiInput{
				Name:       sample.Name,
				Reward:     sample.Reward,
				IOPrice:    s.IOPrice,
				USDCNYRate: s.USDCNYRate,
			}, true
		}
	}
	return RoiInput{}, false
}
