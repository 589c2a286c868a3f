package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "election-tool-backend/internal/common/errors"
	"election-tool-backend/internal/features/election/models"
)

func monetaryLottery() *models.LotteryConfig {
	return &models.LotteryConfig{
		RewardType:     models.RewardMonetary,
		TotalPrizePool: 1000,
		WinnerCount:    2,
		PrizeDistribution: []models.PrizeDistribution{
			{Rank: 2, Percentage: 40},
			{Rank: 1, Percentage: 60},
		},
		DrawDate: time.Now().Add(72 * time.Hour),
	}
}

func TestCalculatePrizesMonetary(t *testing.T) {
	breakdown, err := CalculatePrizes(monetaryLottery())
	require.NoError(t, err)

	assert.InDelta(t, 1000, breakdown.PoolTotal, 1e-9)
	assert.False(t, breakdown.DisplayOnly)
	require.Len(t, breakdown.PerRank, 2)

	// Payouts come back sorted by rank regardless of input order.
	assert.Equal(t, 1, breakdown.PerRank[0].Rank)
	assert.InDelta(t, 600, breakdown.PerRank[0].Amount, 1e-9)
	assert.Equal(t, 2, breakdown.PerRank[1].Rank)
	assert.InDelta(t, 400, breakdown.PerRank[1].Amount, 1e-9)
}

func TestCalculatePrizesPayoutSumNeverExceedsPool(t *testing.T) {
	cfg := monetaryLottery()
	cfg.TotalPrizePool = 100.01
	cfg.PrizeDistribution = []models.PrizeDistribution{
		{Rank: 1, Percentage: 33.33},
		{Rank: 2, Percentage: 33.33},
	}
	cfg.WinnerCount = 2

	breakdown, err := CalculatePrizes(cfg)
	require.NoError(t, err)

	assert.LessOrEqual(t, payoutSum(breakdown), breakdown.PoolTotal)
}

func payoutSum(b *PrizeBreakdown) float64 {
	var sum float64
	for _, p := range b.PerRank {
		sum += p.Amount
	}
	return sum
}

func TestCalculatePrizesRoundingCannotExceedPool(t *testing.T) {
	// 50% of 1000.01 rounds half-up to 500.01; two independent roundings
	// would pay out 1000.02.
	cfg := monetaryLottery()
	cfg.TotalPrizePool = 1000.01
	cfg.PrizeDistribution = []models.PrizeDistribution{
		{Rank: 1, Percentage: 50},
		{Rank: 2, Percentage: 50},
	}

	breakdown, err := CalculatePrizes(cfg)
	require.NoError(t, err)

	assert.InDelta(t, breakdown.PoolTotal, payoutSum(breakdown), 1e-9,
		"a distribution summing to 100 allocates exactly the whole pool")
	assert.InDelta(t, 500.01, breakdown.PerRank[0].Amount, 1e-9)
	assert.InDelta(t, 500.00, breakdown.PerRank[1].Amount, 1e-9)
}

func TestCalculatePrizesPartialDistributionLeavesRemainder(t *testing.T) {
	cfg := monetaryLottery()
	cfg.PrizeDistribution = []models.PrizeDistribution{
		{Rank: 1, Percentage: 50},
		{Rank: 2, Percentage: 30},
	}

	breakdown, err := CalculatePrizes(cfg)
	require.NoError(t, err)

	// The last rank keeps its own share when the distribution does not
	// allocate the whole pool.
	assert.InDelta(t, 500, breakdown.PerRank[0].Amount, 1e-9)
	assert.InDelta(t, 300, breakdown.PerRank[1].Amount, 1e-9)
	assert.Less(t, payoutSum(breakdown), breakdown.PoolTotal)
}

func TestCalculatePrizesNonMonetary(t *testing.T) {
	cfg := &models.LotteryConfig{
		RewardType:     models.RewardNonMonetary,
		EstimatedValue: 350,
		WinnerCount:    2,
		PrizeDistribution: []models.PrizeDistribution{
			{Rank: 1, PrizeValue: "Tablet"},
			{Rank: 2, PrizeValue: "Headphones"},
		},
		DrawDate: time.Now().Add(time.Hour),
	}

	breakdown, err := CalculatePrizes(cfg)
	require.NoError(t, err)

	assert.True(t, breakdown.DisplayOnly)
	assert.InDelta(t, 350, breakdown.PoolTotal, 1e-9)
	assert.Equal(t, "Tablet", breakdown.PerRank[0].Prize)
	assert.Zero(t, breakdown.PerRank[0].Amount)
}

func TestCalculatePrizesProjectedRevenue(t *testing.T) {
	cfg := &models.LotteryConfig{
		RewardType:             models.RewardProjectedRevenue,
		ProjectedRevenue:       5000,
		RevenueSharePercentage: 10,
		WinnerCount:            1,
		PrizeDistribution: []models.PrizeDistribution{
			{Rank: 1, Percentage: 100},
		},
		DrawDate: time.Now().Add(time.Hour),
	}

	t.Run("pool recomputed from the formula", func(t *testing.T) {
		breakdown, err := CalculatePrizes(cfg)
		require.NoError(t, err)
		assert.InDelta(t, 500, breakdown.PoolTotal, 1e-9)
		assert.InDelta(t, 500, breakdown.PerRank[0].Amount, 1e-9)
	})

	t.Run("matching cached pool accepted", func(t *testing.T) {
		cached := *cfg
		cached.TotalPrizePool = 500
		_, err := CalculatePrizes(&cached)
		assert.NoError(t, err)
	})

	t.Run("stale cached pool rejected", func(t *testing.T) {
		stale := *cfg
		stale.TotalPrizePool = 480
		_, err := CalculatePrizes(&stale)
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeConfiguration, appErr.Code)
	})
}

func TestCalculatePrizesInvalidConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := CalculatePrizes(nil)
		assert.Error(t, err)
	})

	t.Run("validation failures propagate", func(t *testing.T) {
		cfg := monetaryLottery()
		cfg.PrizeDistribution[0].Percentage = 80
		_, err := CalculatePrizes(cfg)
		assert.Error(t, err)
	})
}

func TestPayoutForRank(t *testing.T) {
	breakdown, err := CalculatePrizes(monetaryLottery())
	require.NoError(t, err)

	payout, ok := breakdown.PayoutForRank(2)
	require.True(t, ok)
	assert.InDelta(t, 400, payout.Amount, 1e-9)

	_, ok = breakdown.PayoutForRank(5)
	assert.False(t, ok)
}
