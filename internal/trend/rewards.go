package trend

import (
	"github.com/hardwayp3nny/ioweb/internal/domain"

	"github.com/shopspring/decimal"
)

// RewardRow строка таблицы наград за последний час
type RewardRow struct {
	Name      string          `json:"name"`
	Reward    decimal.Decimal `json:"reward"`
	USDReward decimal.Decimal `json:"usdReward"`
	CNYReward decimal.Decimal `json:"cnyReward"`
}

// LatestRewards пересчитывает награды последней точки в USD и CNY
func LatestRewards(s *domain.Snapshot) []RewardRow {
	rows := []RewardRow{}

	latest := s.Latest()
	if latest == nil {
		return rows
	}

	for _, sample := range latest.Processors {
		usd := sample.Reward.Mul(s.IOPrice)
		rows = append(rows, RewardRow{
			Name:      sample.Name,
			Reward:    sample.Reward,
			USDReward: usd,
			CNYReward: usd.Mul(s.USDCNYRate),
		})
	}
	return rows
}
