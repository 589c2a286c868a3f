package mapper

import (
	"time"

	"github.com/google/uuid"

	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/features/election/models/dto"
	"election-tool-backend/internal/features/election/service"
	"election-tool-backend/internal/platform/payment"
)

// ToElection builds an election document from a create/update request.
// Question and option ids are assigned server-side.
func ToElection(req *dto.ElectionCreateRequest) *models.Election {
	e := &models.Election{
		Title:    req.Title,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Timezone: req.Timezone,

		PricingType:             models.PricingType(req.PricingType),
		GeneralFee:              req.GeneralFee,
		ProcessingFeePercentage: req.ProcessingFeePercentage,

		VideoRequired:          req.VideoRequired,
		MinimumWatchPercentage: req.MinimumWatchPercentage,

		PermissionType:   models.PermissionType(req.PermissionType),
		AllowedCountries: req.AllowedCountries,

		VotingType: models.VotingType(req.VotingType),
	}

	for _, rp := range req.RegionalPrices {
		e.RegionalPrices = append(e.RegionalPrices, models.RegionalPrice{
			RegionCode:       rp.RegionCode,
			ParticipationFee: rp.ParticipationFee,
			Currency:         rp.Currency,
		})
	}

	e.Questions = make([]models.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		question := models.Question{
			ID:            uuid.New().String(),
			Text:          q.Text,
			Required:      q.Required,
			MaxSelections: q.MaxSelections,
			Options:       make([]models.QuestionOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.QuestionOption{
				ID:   uuid.New().String(),
				Text: o.Text,
			})
		}
		e.Questions = append(e.Questions, question)
	}

	if req.Lottery != nil {
		e.Lottery = toLotteryConfig(req.Lottery)
	}

	return e
}

func toLotteryConfig(req *dto.LotteryConfigRequest) *models.LotteryConfig {
	cfg := &models.LotteryConfig{
		RewardType:             models.RewardType(req.RewardType),
		TotalPrizePool:         req.TotalPrizePool,
		EstimatedValue:         req.EstimatedValue,
		ProjectedRevenue:       req.ProjectedRevenue,
		RevenueSharePercentage: req.RevenueSharePercentage,
		WinnerCount:            req.WinnerCount,
		PrizeFundingSource:     req.PrizeFundingSource,
		DrawDate:               req.DrawDate,
		AutoDraw:               req.AutoDraw,
	}
	for _, d := range req.PrizeDistribution {
		cfg.PrizeDistribution = append(cfg.PrizeDistribution, models.PrizeDistribution{
			Rank:       d.Rank,
			Percentage: d.Percentage,
			PrizeValue: d.PrizeValue,
		})
	}
	return cfg
}

// ToElectionResponse maps an election to its public representation, with the
// phase derived from the given instant.
func ToElectionResponse(e *models.Election, now time.Time) *dto.ElectionResponse {
	return &dto.ElectionResponse{
		ID:        e.ID,
		CreatorID: e.CreatorID,
		Title:     e.Title,
		Status:    string(e.Status),
		Phase:     string(service.ClassifyPhase(e, now)),
		StartsAt:  e.StartsAt,
		EndsAt:    e.EndsAt,
		Timezone:  e.Timezone,

		PricingType:             string(e.PricingType),
		GeneralFee:              e.GeneralFee,
		ProcessingFeePercentage: e.ProcessingFeePercentage,
		RegionalPrices:          e.RegionalPrices,

		VideoRequired:          e.VideoRequired,
		MinimumWatchPercentage: e.MinimumWatchPercentage,

		PermissionType:   string(e.PermissionType),
		AllowedCountries: e.AllowedCountries,

		VotingType: string(e.VotingType),
		Questions:  e.Questions,

		Lottery: e.Lottery,

		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToFeeQuoteResponse(q *service.FeeQuote) *dto.FeeQuoteResponse {
	return &dto.FeeQuoteResponse{
		IsFree:         q.IsFree,
		BaseFee:        q.BaseFee,
		ProcessingFee:  q.ProcessingFee,
		TotalFee:       q.TotalFee,
		Currency:       q.Currency,
		Region:         q.Region,
		RegionFallback: q.RegionFallback,
	}
}

func ToPrizeBreakdownResponse(cfg *models.LotteryConfig, b *service.PrizeBreakdown) *dto.PrizeBreakdownResponse {
	resp := &dto.PrizeBreakdownResponse{
		RewardType:  string(cfg.RewardType),
		PoolTotal:   b.PoolTotal,
		Currency:    service.DefaultCurrency,
		DisplayOnly: b.DisplayOnly,
		PerRank:     make([]dto.RankPayoutResponse, 0, len(b.PerRank)),
	}
	for _, p := range b.PerRank {
		resp.PerRank = append(resp.PerRank, dto.RankPayoutResponse{
			Rank:   p.Rank,
			Amount: p.Amount,
			Prize:  p.Prize,
		})
	}
	return resp
}

func ToEligibilityResponse(v service.Verdict) *dto.EligibilityResponse {
	resp := &dto.EligibilityResponse{
		CanVote:  v.CanVote,
		Phase:    string(v.Phase),
		Blockers: make([]dto.BlockerResponse, 0, len(v.Blockers)),
	}
	for _, b := range v.Blockers {
		resp.Blockers = append(resp.Blockers, dto.BlockerResponse{
			Code:   string(b.Code),
			Detail: b.Detail,
		})
	}
	if v.Fee != nil {
		resp.Fee = ToFeeQuoteResponse(v.Fee)
	}
	return resp
}

func ToVoteReceiptResponse(r *models.VoteReceipt) *dto.VoteReceiptResponse {
	return &dto.VoteReceiptResponse{
		VoteID:        r.VoteID,
		ElectionID:    r.ElectionID,
		ReceiptCode:   r.ReceiptCode,
		SubmittedAt:   r.SubmittedAt,
		LotteryTicket: r.LotteryTicket,
	}
}

func ToVoteResponse(v *models.Vote) *dto.VoteResponse {
	return &dto.VoteResponse{
		ID:          v.ID,
		ElectionID:  v.ElectionID,
		Answers:     v.Answers,
		ReceiptCode: v.ReceiptCode,
		SubmittedAt: v.SubmittedAt,
	}
}

func ToPaymentIntentResponse(i *payment.Intent) *dto.PaymentIntentResponse {
	return &dto.PaymentIntentResponse{
		ID:           i.ID,
		ClientSecret: i.ClientSecret,
		Amount:       i.Amount,
		Currency:     i.Currency,
	}
}

func ToDrawStatsResponse(s *models.DrawStats) *dto.DrawStatsResponse {
	resp := &dto.DrawStatsResponse{
		ElectionID:       s.ElectionID,
		DrawStatus:       string(s.DrawStatus),
		HasBeenDrawn:     s.HasBeenDrawn,
		ParticipantCount: s.ParticipantCount,
		TotalPrizePool:   s.TotalPrizePool,
	}
	for _, w := range s.Winners {
		resp.Winners = append(resp.Winners, dto.DrawWinnerResponse{
			UserID: w.UserID,
			Rank:   w.Rank,
			Amount: w.Amount,
			Prize:  w.Prize,
		})
	}
	return resp
}
