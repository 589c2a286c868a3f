package service

import (
	"math"
	"sort"

	"election-tool-backend/internal/common/errors"
	"election-tool-backend/internal/features/election/models"
)

// RankPayout is the computed prize for one rank. Amount is set for monetary
// and projected_revenue rewards; Prize describes non-monetary rewards.
type RankPayout struct {
	Rank   int     `json:"rank"`
	Amount float64 `json:"amount,omitempty"`
	Prize  string  `json:"prize,omitempty"`
}

// PrizeBreakdown is the full computed prize pool and its distribution.
// DisplayOnly marks non-monetary pools whose total is an estimated value,
// not cash to be paid out.
type PrizeBreakdown struct {
	PoolTotal   float64      `json:"pool_total"`
	PerRank     []RankPayout `json:"per_rank"`
	DisplayOnly bool         `json:"display_only,omitempty"`
}

// CalculatePrizes computes the prize pool and per-rank payouts from a
// lottery configuration. The projected_revenue pool is always recomputed
// from the formula; a stored total_prize_pool is only a cache of it and is
// rejected when it disagrees beyond rounding tolerance.
func CalculatePrizes(cfg *models.LotteryConfig) (*PrizeBreakdown, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("lottery configuration is missing")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	breakdown := &PrizeBreakdown{}

	switch cfg.RewardType {
	case models.RewardMonetary:
		breakdown.PoolTotal = models.RoundMoney(cfg.TotalPrizePool)

	case models.RewardNonMonetary:
		breakdown.PoolTotal = models.RoundMoney(cfg.EstimatedValue)
		breakdown.DisplayOnly = true

	case models.RewardProjectedRevenue:
		pool := models.RoundMoney(cfg.ProjectedRevenue * cfg.RevenueSharePercentage / 100)
		if cfg.TotalPrizePool != 0 && !models.MoneyEquals(cfg.TotalPrizePool, pool) {
			return nil, errors.NewConfigurationError("stored total_prize_pool disagrees with projected revenue formula").
				WithDetail("stored", cfg.TotalPrizePool).
				WithDetail("computed", pool)
		}
		breakdown.PoolTotal = pool
	}

	dists := make([]models.PrizeDistribution, len(cfg.PrizeDistribution))
	copy(dists, cfg.PrizeDistribution)
	sort.Slice(dists, func(i, j int) bool { return dists[i].Rank < dists[j].Rank })

	var percentSum float64
	for _, d := range dists {
		percentSum += d.Percentage
	}
	fullAllocation := math.Abs(percentSum-100) <= models.PercentSumTolerance

	// Per-rank rounding must never pay out more than the pool: track what is
	// already allocated and let the last rank absorb the rounding drift when
	// the distribution allocates the whole pool.
	allocated := 0.0
	breakdown.PerRank = make([]RankPayout, 0, len(dists))
	for i, d := range dists {
		payout := RankPayout{Rank: d.Rank}
		if cfg.RewardType == models.RewardNonMonetary {
			payout.Prize = d.PrizeValue
		} else {
			remaining := models.RoundMoney(breakdown.PoolTotal - allocated)
			if remaining < 0 {
				remaining = 0
			}
			if i == len(dists)-1 && fullAllocation {
				payout.Amount = remaining
			} else {
				payout.Amount = models.RoundMoney(breakdown.PoolTotal * d.Percentage / 100)
				if payout.Amount > remaining {
					payout.Amount = remaining
				}
			}
			allocated = models.RoundMoney(allocated + payout.Amount)
		}
		breakdown.PerRank = append(breakdown.PerRank, payout)
	}

	return breakdown, nil
}

// PayoutForRank returns the payout for a rank, if the distribution has one.
func (b *PrizeBreakdown) PayoutForRank(rank int) (RankPayout, bool) {
	for _, p := range b.PerRank {
		if p.Rank == rank {
			return p, true
		}
	}
	return RankPayout{}, false
}
