package models

import (
	"fmt"
	"time"

	apperrors "election-tool-backend/internal/common/errors"
)

// PercentSumTolerance absorbs representation noise when checking that prize
// distribution percentages do not exceed 100.
const PercentSumTolerance = 0.01

// RewardType selects how the prize pool is funded and computed.
type RewardType string

const (
	RewardMonetary         RewardType = "monetary"
	RewardNonMonetary      RewardType = "non_monetary"
	RewardProjectedRevenue RewardType = "projected_revenue"
)

// PrizeDistribution is the payout rule for a single rank. Percentage drives
// monetary and projected_revenue rewards; PrizeValue describes non-monetary
// prizes and is never inflated by the pool.
type PrizeDistribution struct {
	Rank       int     `json:"rank"`
	Percentage float64 `json:"percentage,omitempty"`
	PrizeValue string  `json:"prize_value,omitempty"`
}

// LotteryConfig is the gamification configuration attached to an election.
type LotteryConfig struct {
	RewardType             RewardType          `json:"reward_type"`
	TotalPrizePool         float64             `json:"total_prize_pool,omitempty"`
	EstimatedValue         float64             `json:"estimated_value,omitempty"`
	ProjectedRevenue       float64             `json:"projected_revenue,omitempty"`
	RevenueSharePercentage float64             `json:"revenue_share_percentage,omitempty"`
	WinnerCount            int                 `json:"winner_count"`
	PrizeDistribution      []PrizeDistribution `json:"prize_distribution"`
	PrizeFundingSource     string              `json:"prize_funding_source,omitempty"`
	DrawDate               time.Time           `json:"draw_date"`
	AutoDraw               bool                `json:"auto_draw"`
}

// Validate checks the lottery configuration invariants. Percentage sums over
// 100 are a configuration error, never silently clamped.
func (c *LotteryConfig) Validate() error {
	switch c.RewardType {
	case RewardMonetary:
		if c.TotalPrizePool <= 0 {
			return newConfigError("monetary reward requires a positive total_prize_pool")
		}
	case RewardNonMonetary:
		if c.EstimatedValue < 0 {
			return newConfigError("estimated_value must not be negative")
		}
	case RewardProjectedRevenue:
		if c.ProjectedRevenue < 0 {
			return newConfigError("projected_revenue must not be negative")
		}
		if c.RevenueSharePercentage <= 0 || c.RevenueSharePercentage > 100 {
			return newConfigError("revenue_share_percentage must be within (0, 100]")
		}
	default:
		return newConfigError("unknown reward_type: " + string(c.RewardType))
	}

	if c.WinnerCount < 1 {
		return newConfigError("winner_count must be at least 1")
	}

	if len(c.PrizeDistribution) == 0 {
		return newConfigError("prize_distribution must not be empty")
	}

	seenRanks := make(map[int]struct{}, len(c.PrizeDistribution))
	percentSum := 0.0
	for _, d := range c.PrizeDistribution {
		if d.Rank < 1 {
			return newConfigError(fmt.Sprintf("prize rank must be at least 1, got %d", d.Rank))
		}
		if d.Rank > c.WinnerCount {
			return newConfigError(fmt.Sprintf("prize rank %d exceeds winner_count %d", d.Rank, c.WinnerCount))
		}
		if _, dup := seenRanks[d.Rank]; dup {
			return newConfigError(fmt.Sprintf("duplicate prize rank %d", d.Rank))
		}
		seenRanks[d.Rank] = struct{}{}

		if d.Percentage < 0 {
			return newConfigError(fmt.Sprintf("prize percentage for rank %d must not be negative", d.Rank))
		}
		percentSum += d.Percentage
	}

	if c.RewardType != RewardNonMonetary && percentSum > 100+PercentSumTolerance {
		return newConfigError(fmt.Sprintf("prize distribution percentages sum to %.2f, exceeding 100", percentSum))
	}

	return nil
}

// DrawStatus tracks the lottery draw lifecycle.
type DrawStatus string

const (
	DrawStatusPending   DrawStatus = "pending"
	DrawStatusCompleted DrawStatus = "completed"
	DrawStatusFailed    DrawStatus = "failed"
)

// DrawWinner is one selected winner with their rank payout.
type DrawWinner struct {
	UserID int64   `json:"user_id"`
	Rank   int     `json:"rank"`
	Amount float64 `json:"amount,omitempty"`
	Prize  string  `json:"prize,omitempty"`
}

// LotteryDraw is the tracked state of an election's draw. The record is
// created lazily on first stats or eligibility check.
type LotteryDraw struct {
	ElectionID       string       `json:"election_id"`
	DrawStatus       DrawStatus   `json:"draw_status"`
	ParticipantCount int64        `json:"participant_count"`
	Winners          []DrawWinner `json:"winners,omitempty"`
	HasBeenDrawn     bool         `json:"has_been_drawn"`
	DrawnAt          *time.Time   `json:"drawn_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// DrawStats is the public view of a draw exposed to callers.
type DrawStats struct {
	ElectionID       string       `json:"election_id"`
	DrawStatus       DrawStatus   `json:"draw_status"`
	ParticipantCount int64        `json:"participant_count"`
	TotalPrizePool   float64      `json:"total_prize_pool"`
	Winners          []DrawWinner `json:"winners,omitempty"`
	HasBeenDrawn     bool         `json:"has_been_drawn"`
}

func newConfigError(reason string) error {
	return apperrors.NewConfigurationError(reason)
}
