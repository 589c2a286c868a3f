package dto

import (
	"time"

	"election-tool-backend/internal/features/election/models"
)

type ElectionResponse struct {
	ID        string    `json:"id"`
	CreatorID int64     `json:"creator_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Phase     string    `json:"phase"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Timezone  string    `json:"timezone,omitempty"`

	PricingType             string                `json:"pricing_type"`
	GeneralFee              float64               `json:"general_fee,omitempty"`
	ProcessingFeePercentage float64               `json:"processing_fee_percentage,omitempty"`
	RegionalPrices          []models.RegionalPrice `json:"regional_prices,omitempty"`

	VideoRequired          bool    `json:"video_required"`
	MinimumWatchPercentage float64 `json:"minimum_watch_percentage,omitempty"`

	PermissionType   string   `json:"permission_type"`
	AllowedCountries []string `json:"allowed_countries,omitempty"`

	VotingType string            `json:"voting_type"`
	Questions  []models.Question `json:"questions"`

	Lottery *models.LotteryConfig `json:"lottery_config,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FeeQuoteResponse struct {
	IsFree         bool    `json:"is_free"`
	BaseFee        float64 `json:"base_fee"`
	ProcessingFee  float64 `json:"processing_fee"`
	TotalFee       float64 `json:"total_fee"`
	Currency       string  `json:"currency"`
	Region         string  `json:"region,omitempty"`
	RegionFallback bool    `json:"region_fallback,omitempty"`
}

type RankPayoutResponse struct {
	Rank   int     `json:"rank"`
	Amount float64 `json:"amount,omitempty"`
	Prize  string  `json:"prize,omitempty"`
}

type PrizeBreakdownResponse struct {
	RewardType  string               `json:"reward_type"`
	PoolTotal   float64              `json:"pool_total"`
	Currency    string               `json:"currency"`
	DisplayOnly bool                 `json:"display_only"`
	PerRank     []RankPayoutResponse `json:"per_rank"`
}

type EligibilityResponse struct {
	CanVote  bool              `json:"can_vote"`
	Phase    string            `json:"phase"`
	Blockers []BlockerResponse `json:"blockers"`
	Fee      *FeeQuoteResponse `json:"fee,omitempty"`
}

type BlockerResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

type VoteReceiptResponse struct {
	VoteID        string    `json:"vote_id"`
	ElectionID    string    `json:"election_id"`
	ReceiptCode   string    `json:"receipt_code"`
	SubmittedAt   time.Time `json:"submitted_at"`
	LotteryTicket bool      `json:"lottery_ticket"`
}

type VoteResponse struct {
	ID          string              `json:"id"`
	ElectionID  string              `json:"election_id"`
	Answers     map[string][]string `json:"answers"`
	ReceiptCode string              `json:"receipt_code"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

type VideoProgressResponse struct {
	ElectionID      string  `json:"election_id"`
	WatchPercentage float64 `json:"watch_percentage"`
}

type PaymentIntentResponse struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

type DrawWinnerResponse struct {
	UserID int64   `json:"user_id"`
	Rank   int     `json:"rank"`
	Amount float64 `json:"amount,omitempty"`
	Prize  string  `json:"prize,omitempty"`
}

type DrawStatsResponse struct {
	ElectionID       string               `json:"election_id"`
	DrawStatus       string               `json:"draw_status"`
	HasBeenDrawn     bool                 `json:"has_been_drawn"`
	ParticipantCount int64                `json:"participant_count"`
	TotalPrizePool   float64              `json:"total_prize_pool"`
	Winners          []DrawWinnerResponse `json:"winners,omitempty"`
}
