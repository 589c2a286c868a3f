package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"election-tool-backend/internal/common/cache"
	apperrors "election-tool-backend/internal/common/errors"
	"election-tool-backend/internal/common/logger"
	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/features/election/repository"
	"election-tool-backend/internal/platform/payment"
)

const electionCacheTTL = 30 * time.Second

type electionService struct {
	elections repository.ElectionRepository
	votes     repository.VoteRepository
	progress  repository.ProgressRepository
	draws     repository.DrawRepository
	gateway   PaymentGateway
	cache     *cache.CacheService
	now       func() time.Time
}

func NewElectionService(
	elections repository.ElectionRepository,
	votes repository.VoteRepository,
	progress repository.ProgressRepository,
	draws repository.DrawRepository,
	gateway PaymentGateway,
	cacheService *cache.CacheService,
) ElectionService {
	return &electionService{
		elections: elections,
		votes:     votes,
		progress:  progress,
		draws:     draws,
		gateway:   gateway,
		cache:     cacheService,
		now:       time.Now,
	}
}

func (s *electionService) Create(ctx context.Context, creatorID int64, election *models.Election) (*models.Election, error) {
	now := s.now()
	election.ID = uuid.New().String()
	election.CreatorID = creatorID
	election.Status = models.ElectionStatusDraft
	election.CreatedAt = now
	election.UpdatedAt = now

	if err := election.Validate(); err != nil {
		return nil, err
	}

	if err := s.elections.Create(ctx, election); err != nil {
		return nil, apperrors.NewExternalServiceError("election store", err)
	}

	logger.Info().
		Str("election_id", election.ID).
		Int64("creator_id", creatorID).
		Msg("election created")

	return election, nil
}

func (s *electionService) Update(ctx context.Context, creatorID int64, electionID string, update *models.Election) (*models.Election, error) {
	election, err := s.getOwned(ctx, creatorID, electionID)
	if err != nil {
		return nil, err
	}

	// Published elections freeze once the voting window opens.
	if election.Status != models.ElectionStatusDraft && !s.now().Before(election.StartsAt) {
		return nil, models.ErrElectionNotEditable
	}

	update.ID = election.ID
	update.CreatorID = election.CreatorID
	update.Status = election.Status
	update.CreatedAt = election.CreatedAt
	update.UpdatedAt = s.now()

	if err := update.Validate(); err != nil {
		return nil, err
	}

	if err := s.elections.Update(ctx, update); err != nil {
		return nil, apperrors.NewExternalServiceError("election store", err)
	}

	s.invalidate(ctx, electionID)
	return update, nil
}

func (s *electionService) Publish(ctx context.Context, creatorID int64, electionID string) (*models.Election, error) {
	election, err := s.getOwned(ctx, creatorID, electionID)
	if err != nil {
		return nil, err
	}

	if election.Status != models.ElectionStatusDraft {
		return nil, apperrors.NewConflictError("election", "only draft elections can be published")
	}
	if err := election.Validate(); err != nil {
		return nil, err
	}

	election.Status = models.ElectionStatusPublished
	election.UpdatedAt = s.now()
	if err := s.elections.Update(ctx, election); err != nil {
		return nil, apperrors.NewExternalServiceError("election store", err)
	}

	s.invalidate(ctx, electionID)
	logger.Info().Str("election_id", electionID).Msg("election published")
	return election, nil
}

func (s *electionService) Cancel(ctx context.Context, creatorID int64, electionID string) error {
	election, err := s.getOwned(ctx, creatorID, electionID)
	if err != nil {
		return err
	}

	if election.Status == models.ElectionStatusCompleted {
		return apperrors.NewConflictError("election", "completed elections cannot be cancelled")
	}

	if err := s.elections.UpdateStatus(ctx, electionID, models.ElectionStatusCancelled); err != nil {
		return apperrors.NewExternalServiceError("election store", err)
	}

	s.invalidate(ctx, electionID)
	logger.Info().Str("election_id", electionID).Msg("election cancelled")
	return nil
}

func (s *electionService) GetByID(ctx context.Context, electionID string) (*models.Election, error) {
	if s.cache != nil {
		var cached models.Election
		if err := s.cache.Get(ctx, cache.ElectionKey(electionID), &cached); err == nil {
			return &cached, nil
		}
	}

	election, err := s.elections.GetByID(ctx, electionID)
	if err == repository.ErrElectionNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewExternalServiceError("election store", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ElectionKey(electionID), election, electionCacheTTL); err != nil {
			logger.Debug().Err(err).Str("election_id", electionID).Msg("failed to cache election")
		}
	}
	return election, nil
}

func (s *electionService) GetByCreator(ctx context.Context, creatorID int64) ([]*models.Election, error) {
	elections, err := s.elections.GetByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("election store", err)
	}
	return elections, nil
}

func (s *electionService) QuoteFee(ctx context.Context, electionID string, hint RegionHint) (*FeeQuote, error) {
	election, err := s.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	return CalculateFee(election, hint)
}

func (s *electionService) GetPrizeBreakdown(ctx context.Context, electionID string) (*PrizeBreakdown, error) {
	election, err := s.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !election.HasLottery() {
		return nil, ErrNoLottery
	}
	return CalculatePrizes(election.Lottery)
}

// CheckEligibility gathers a fresh snapshot of voter facts and runs the
// pure evaluation. Payment and video reads are eventually consistent, so
// the snapshot is valid for this call only.
func (s *electionService) CheckEligibility(ctx context.Context, electionID string, voter VoterFacts) (Verdict, error) {
	election, err := s.GetByID(ctx, electionID)
	if err != nil {
		return Verdict{}, err
	}

	if election.HasLottery() {
		// Draw state becomes observable on the first eligibility check, not
		// only on the first stats read.
		if _, err := s.draws.GetOrCreate(ctx, electionID); err != nil {
			logger.Debug().Err(err).Str("election_id", electionID).Msg("failed to ensure draw record")
		}
	}

	now := s.now()
	phase := ClassifyPhase(election, now)

	fee, err := CalculateFee(election, RegionHint{Country: voter.Country, City: voter.City})
	if err != nil {
		return Verdict{}, err
	}

	evalCtx := EvaluationContext{
		Now:             now,
		IsAuthenticated: voter.UserID != 0,
		VoterCountry:    voter.Country,
		PaymentStatus:   models.PaymentPending,
	}

	if evalCtx.IsAuthenticated {
		hasVoted, err := s.votes.HasVoted(ctx, electionID, voter.UserID)
		if err != nil {
			return Verdict{}, apperrors.NewExternalServiceError("vote store", err)
		}
		evalCtx.HasExistingVote = hasVoted

		if !fee.IsFree {
			status, err := s.gateway.GetStatus(ctx, electionID, voter.UserID)
			if err != nil {
				return Verdict{}, apperrors.NewExternalServiceError("payment gateway", err)
			}
			evalCtx.PaymentStatus = models.PaymentStatus(status)
		}

		if election.VideoRequired {
			progress, err := s.progress.Get(ctx, electionID, voter.UserID)
			if err != nil {
				return Verdict{}, apperrors.NewExternalServiceError("video progress store", err)
			}
			evalCtx.VideoWatchPercentage = progress.WatchPercentage
		}
	}

	return EvaluateEligibility(election, phase, fee, evalCtx), nil
}

// SubmitVote re-validates eligibility, validates the ballot shape, then
// commits with insert-if-absent semantics. The lottery ticket is issued
// only after the vote is durably committed.
func (s *electionService) SubmitVote(ctx context.Context, electionID string, voter VoterFacts, answers models.AnswerMap) (*models.VoteReceipt, error) {
	election, err := s.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	verdict, err := s.CheckEligibility(ctx, electionID, voter)
	if err != nil {
		return nil, err
	}
	if !verdict.CanVote {
		return nil, apperrors.NewNotEligibleError(verdict.BlockerCodes())
	}

	if err := models.ValidateAnswers(election, answers); err != nil {
		return nil, apperrors.NewValidationError("answers", err.Error())
	}

	receiptCode, err := NewReceiptCode()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to generate receipt code")
	}

	vote := &models.Vote{
		ID:          uuid.New().String(),
		ElectionID:  electionID,
		UserID:      voter.UserID,
		Answers:     answers,
		ReceiptCode: receiptCode,
		SubmittedAt: s.now(),
	}

	commitCtx, cancel := context.WithTimeout(ctx, CommitTimeout)
	defer cancel()

	if err := s.votes.InsertIfAbsent(commitCtx, vote); err != nil {
		if err == repository.ErrVoteConflict {
			// Race-safety net: the evaluator said canVote, but another
			// submission won the insert.
			return nil, apperrors.New(apperrors.ErrCodeAlreadyVoted, "a vote has already been recorded for this election")
		}
		return nil, apperrors.NewExternalServiceError("vote store", err)
	}

	receipt := &models.VoteReceipt{
		VoteID:      vote.ID,
		ElectionID:  electionID,
		ReceiptCode: vote.ReceiptCode,
		SubmittedAt: vote.SubmittedAt,
	}

	if election.HasLottery() {
		if err := s.draws.AddTickets(ctx, electionID, voter.UserID, 1); err != nil {
			// The vote is committed; the missing ticket is repaired by the
			// draw sweeper reconciliation, not by failing the submission.
			logger.Error().Err(err).
				Str("election_id", electionID).
				Int64("user_id", voter.UserID).
				Msg("failed to issue lottery ticket after committed vote")
		} else {
			receipt.LotteryTicket = true
		}
	}

	logger.Info().
		Str("election_id", electionID).
		Str("vote_id", vote.ID).
		Msg("vote committed")

	return receipt, nil
}

func (s *electionService) GetVote(ctx context.Context, electionID string, userID int64) (*models.Vote, error) {
	vote, err := s.votes.GetByUser(ctx, electionID, userID)
	if err == repository.ErrVoteNotFound {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "no vote recorded for this election")
	}
	if err != nil {
		return nil, apperrors.NewExternalServiceError("vote store", err)
	}
	return vote, nil
}

func (s *electionService) SaveVideoProgress(ctx context.Context, electionID string, userID int64, watchPercentage float64) error {
	if watchPercentage < 0 || watchPercentage > 100 {
		return apperrors.NewValidationError("watch_percentage", "must be within 0-100")
	}
	if _, err := s.GetByID(ctx, electionID); err != nil {
		return err
	}

	err := s.progress.Upsert(ctx, &models.VideoProgress{
		ElectionID:      electionID,
		UserID:          userID,
		WatchPercentage: watchPercentage,
	})
	if err != nil {
		return apperrors.NewExternalServiceError("video progress store", err)
	}
	return nil
}

func (s *electionService) CreatePaymentIntent(ctx context.Context, electionID string, userID int64, hint RegionHint) (*payment.Intent, error) {
	fee, err := s.QuoteFee(ctx, electionID, hint)
	if err != nil {
		return nil, err
	}
	if fee.IsFree {
		return nil, apperrors.NewValidationError("election", "free elections do not require payment")
	}

	intent, err := s.gateway.CreateIntent(ctx, electionID, userID, fee.TotalFee, fee.Currency)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("payment gateway", err)
	}
	return intent, nil
}

func (s *electionService) getOwned(ctx context.Context, creatorID int64, electionID string) (*models.Election, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err == repository.ErrElectionNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewExternalServiceError("election store", err)
	}
	if election.CreatorID != creatorID {
		return nil, ErrNotOwner
	}
	return election, nil
}

func (s *electionService) invalidate(ctx context.Context, electionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateElection(ctx, electionID); err != nil {
		logger.Debug().Err(err).Str("election_id", electionID).Msg("failed to invalidate election cache")
	}
}
