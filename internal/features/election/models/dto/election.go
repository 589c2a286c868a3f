package dto

import "time"

// ElectionCreateRequest is the creator-facing payload for a new election.
type ElectionCreateRequest struct {
	Title    string    `json:"title" binding:"required,min=3,max=200"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Timezone string    `json:"timezone"`

	PricingType             string                 `json:"pricing_type" binding:"required,oneof=free general_fee regional_fee"`
	GeneralFee              float64                `json:"general_fee" binding:"min=0"`
	ProcessingFeePercentage float64                `json:"processing_fee_percentage" binding:"min=0"`
	RegionalPrices          []RegionalPriceRequest `json:"regional_prices" binding:"omitempty,dive"`

	VideoRequired          bool    `json:"video_required"`
	MinimumWatchPercentage float64 `json:"minimum_watch_percentage" binding:"min=0,max=100"`

	PermissionType   string   `json:"permission_type" binding:"required,oneof=public country_specific organization_only"`
	AllowedCountries []string `json:"allowed_countries"`

	VotingType string            `json:"voting_type" binding:"required,oneof=plurality ranked_choice approval"`
	Questions  []QuestionRequest `json:"questions" binding:"required,min=1,dive"`

	Lottery *LotteryConfigRequest `json:"lottery_config"`
}

type RegionalPriceRequest struct {
	RegionCode       string  `json:"region_code" binding:"required"`
	ParticipationFee float64 `json:"participation_fee" binding:"min=0"`
	Currency         string  `json:"currency" binding:"required,len=3"`
}

type QuestionRequest struct {
	Text          string                  `json:"text" binding:"required,min=1,max=500"`
	Required      bool                    `json:"required"`
	MaxSelections int                     `json:"max_selections" binding:"required,min=1"`
	Options       []QuestionOptionRequest `json:"options" binding:"required,min=2,dive"`
}

type QuestionOptionRequest struct {
	Text string `json:"text" binding:"required,min=1,max=200"`
}

type LotteryConfigRequest struct {
	RewardType             string                     `json:"reward_type" binding:"required,oneof=monetary non_monetary projected_revenue"`
	TotalPrizePool         float64                    `json:"total_prize_pool" binding:"min=0"`
	EstimatedValue         float64                    `json:"estimated_value" binding:"min=0"`
	ProjectedRevenue       float64                    `json:"projected_revenue" binding:"min=0"`
	RevenueSharePercentage float64                    `json:"revenue_share_percentage" binding:"min=0,max=100"`
	WinnerCount            int                        `json:"winner_count" binding:"required,min=1"`
	PrizeDistribution      []PrizeDistributionRequest `json:"prize_distribution" binding:"required,min=1,dive"`
	PrizeFundingSource     string                     `json:"prize_funding_source"`
	DrawDate               time.Time                  `json:"draw_date" binding:"required"`
	AutoDraw               bool                       `json:"auto_draw"`
}

type PrizeDistributionRequest struct {
	Rank       int     `json:"rank" binding:"required,min=1"`
	Percentage float64 `json:"percentage" binding:"min=0,max=100"`
	PrizeValue string  `json:"prize_value"`
}

// VoteSubmissionRequest carries the voter's answers keyed by question id.
type VoteSubmissionRequest struct {
	Answers map[string][]string `json:"answers" binding:"required"`
}

// VideoProgressRequest reports the stored watch percentage for the voter.
type VideoProgressRequest struct {
	WatchPercentage float64 `json:"watch_percentage" binding:"min=0,max=100"`
}
