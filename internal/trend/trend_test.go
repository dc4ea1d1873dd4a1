package trend

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hardwayp3nny/ioweb/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(name, reward string) domain.ProcessorSample {
	return domain.ProcessorSample{Name: name, Reward: decimal.RequireFromString(reward)}
}

func point(hour int, samples ...domain.ProcessorSample) domain.DataPoint {
	return domain.DataPoint{
		Datetime:   domain.NewTimestamp(time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC)),
		Processors: samples,
	}
}

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		IOPrice:    decimal.RequireFromString("2"),
		USDCNYRate: decimal.RequireFromString("7"),
		ProcessorData: []domain.DataPoint{
			point(1, sample("a", "1.5"), sample("b", "0.5")),
			point(2, sample("a", "1.25"), sample("b", "0.75")),
			point(3, sample("a", "1")),
			point(4, sample("b", "0.25"), sample("a", "2")),
		},
	}
}

func TestBuildSeries_AlignsGaps(t *testing.T) {
	set := BuildSeries(testSnapshot())

	require.Len(t, set.Timestamps, 4)
	require.Len(t, set.Series, 2)
	assert.Equal(t, "a", set.Series[0].Name)
	assert.Equal(t, "b", set.Series[1].Name)

	b := set.Series[1].Values
	require.Len(t, b, 4)
	assert.Nil(t, b[2])
	for _, i := range []int{0, 1, 3} {
		require.NotNil(t, b[i])
	}
	assert.Equal(t, 0.5, *b[0])
	assert.Equal(t, 0.25, *b[3])

	for _, v := range set.Series[0].Values {
		assert.NotNil(t, v)
	}
}

func TestBuildSeries_Deterministic(t *testing.T) {
	s := testSnapshot()
	assert.Equal(t, BuildSeries(s), BuildSeries(s))
}

func TestBuildSeries_FirstSeenOrder(t *testing.T) {
	s := &domain.Snapshot{ProcessorData: []domain.DataPoint{
		point(1, sample("z", "1")),
		point(2, sample("m", "1"), sample("z", "1")),
		point(3, sample("a", "1")),
	}}

	assert.Equal(t, []string{"z", "m", "a"}, Names(s))
}

func TestBuildSeries_DuplicateNameKeepsFirst(t *testing.T) {
	s := &domain.Snapshot{ProcessorData: []domain.DataPoint{
		point(1, sample("a", "1"), sample("a", "9")),
	}}

	set := BuildSeries(s)
	require.Len(t, set.Series, 1)
	assert.Equal(t, 1.0, *set.Series[0].Values[0])
}

func TestBuildSeries_Empty(t *testing.T) {
	assert.Empty(t, BuildSeries(nil).Series)
	assert.Empty(t, BuildSeries(&domain.Snapshot{}).Timestamps)
}

func TestComputeRoi(t *testing.T) {
	one := decimal.NewFromInt(1)

	result, err := ComputeRoi(RoiInput{Name: "a", Reward: one, IOPrice: one, USDCNYRate: one}, 24)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.DaysToRoi)
	assert.Equal(t, "1.00", result.Display())
	assert.Equal(t, 24.0, result.DailyRewardLocal)
}

func TestComputeRoi_InvalidInput(t *testing.T) {
	one := decimal.NewFromInt(1)
	valid := RoiInput{Name: "a", Reward: one, IOPrice: one, USDCNYRate: one}

	tests := []struct {
		name  string
		input RoiInput
		price float64
	}{
		{"zero reward", RoiInput{Name: "a", Reward: decimal.Zero, IOPrice: one, USDCNYRate: one}, 100},
		{"zero io price", RoiInput{Name: "a", Reward: one, IOPrice: decimal.Zero, USDCNYRate: one}, 100},
		{"zero fx rate", RoiInput{Name: "a", Reward: one, IOPrice: one, USDCNYRate: decimal.Zero}, 100},
		{"zero price", valid, 0},
		{"negative price", valid, -5},
		{"nan price", valid, math.NaN()},
		{"infinite price", valid, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeRoi(tt.input, tt.price)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestFindSample(t *testing.T) {
	s := testSnapshot()

	in, ok := FindSample(s, "b")
	require.True(t, ok)
	assert.True(t, in.Reward.Equal(decimal.RequireFromString("0.25")))
	assert.True(t, in.IOPrice.Equal(s.IOPrice))

	_, ok = FindSample(s, "missing")
	assert.False(t, ok)

	_, ok = FindSample(&domain.Snapshot{}, "a")
	assert.False(t, ok)
}

func TestLatestRewards(t *testing.T) {
	rows := LatestRewards(testSnapshot())

	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].Name)
	assert.Equal(t, "0.5", rows[0].USDReward.String())
	assert.Equal(t, "3.5", rows[0].CNYReward.String())
	assert.Equal(t, "28", rows[1].CNYReward.String())

	assert.Empty(t, LatestRewards(&domain.Snapshot{}))
}
