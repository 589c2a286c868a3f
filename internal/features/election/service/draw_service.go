package service

import (
	"context"
	"sync"
	"time"

	apperrors "election-tool-backend/internal/common/errors"
	"election-tool-backend/internal/common/logger"
	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/features/election/repository"
)

type DrawTracker struct {
	ctx    context.Context
	cancel context.CancelFunc

	elections repository.ElectionRepository
	votes     repository.VoteRepository
	draws     repository.DrawRepository
	picker    WinnerPicker

	sweepInterval time.Duration
	processing    sync.Map
	semaphore     chan struct{}
	wg            sync.WaitGroup
	now           func() time.Time
}

// NewDrawService builds the draw tracker plus its background sweeper.
func NewDrawService(
	elections repository.ElectionRepository,
	votes repository.VoteRepository,
	draws repository.DrawRepository,
	picker WinnerPicker,
	sweepInterval time.Duration,
) *DrawTracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &DrawTracker{
		ctx:           ctx,
		cancel:        cancel,
		elections:     elections,
		votes:         votes,
		draws:         draws,
		picker:        picker,
		sweepInterval: sweepInterval,
		semaphore:     make(chan struct{}, MaxConcurrentDraws),
		now:           time.Now,
	}
}

// GetStats lazily creates the draw record on first access and surfaces the
// failed state once the draw date has passed without a draw.
func (s *DrawTracker) GetStats(ctx context.Context, electionID string) (*models.DrawStats, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err == repository.ErrElectionNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewExternalServiceError("election store", err)
	}
	if !election.HasLottery() {
		return nil, ErrNoLottery
	}

	draw, err := s.draws.GetOrCreate(ctx, electionID)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("draw store", err)
	}

	if draw.DrawStatus == models.DrawStatusPending && s.now().After(election.Lottery.DrawDate) {
		if marked, err := s.draws.MarkFailedIfPending(ctx, electionID); err == nil && marked {
			draw.DrawStatus = models.DrawStatusFailed
			logger.Warn().Str("election_id", electionID).Msg("draw date passed without a draw, marking failed")
		}
	}

	breakdown, err := CalculatePrizes(election.Lottery)
	if err != nil {
		return nil, err
	}

	participants := draw.ParticipantCount
	if !draw.HasBeenDrawn {
		participants, err = s.votes.CountByElection(ctx, electionID)
		if err != nil {
			return nil, apperrors.NewExternalServiceError("vote store", err)
		}
	}

	return &models.DrawStats{
		ElectionID:       electionID,
		DrawStatus:       draw.DrawStatus,
		ParticipantCount: participants,
		TotalPrizePool:   breakdown.PoolTotal,
		Winners:          draw.Winners,
		HasBeenDrawn:     draw.HasBeenDrawn,
	}, nil
}

// TriggerDraw executes the draw at most once. A trigger against a completed
// draw is a no-op that returns the recorded winners; failed draws remain
// triggerable until one succeeds. Safe to call concurrently: the store's
// compare-and-swap decides the single winner selection that counts.
func (s *DrawTracker) TriggerDraw(ctx context.Context, requesterID int64, electionID string) (*models.DrawStats, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err == repository.ErrElectionNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewExternalServiceError("election store", err)
	}
	if !election.HasLottery() {
		return nil, ErrNoLottery
	}
	if requesterID != 0 && election.CreatorID != requesterID {
		return nil, ErrNotOwner
	}
	if ClassifyPhase(election, s.now()) != models.PhaseEnded {
		return nil, ErrNotEndedYet
	}

	draw, err := s.draws.GetOrCreate(ctx, electionID)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("draw store", err)
	}
	if draw.HasBeenDrawn {
		return s.GetStats(ctx, electionID)
	}

	breakdown, err := CalculatePrizes(election.Lottery)
	if err != nil {
		return nil, err
	}

	tickets, err := s.draws.GetTickets(ctx, electionID)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("draw store", err)
	}

	participantCount, err := s.votes.CountByElection(ctx, electionID)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("vote store", err)
	}

	var winners []models.DrawWinner
	if len(tickets) > 0 {
		winners, err = s.picker.Pick(tickets, election.Lottery.WinnerCount, breakdown)
		if err != nil {
			return nil, apperrors.NewExternalServiceError("lottery draw service", err)
		}
	}

	commitCtx, cancel := context.WithTimeout(ctx, CommitTimeout)
	defer cancel()

	committed, err := s.draws.CompleteIfNotDrawn(commitCtx, electionID, winners, participantCount, s.now())
	if err != nil {
		return nil, apperrors.NewExternalServiceError("draw store", err)
	}
	if !committed {
		// Another trigger won the race; report its result.
		logger.Debug().Str("election_id", electionID).Msg("draw already completed by a concurrent trigger")
		return s.GetStats(ctx, electionID)
	}

	logger.Info().
		Str("election_id", electionID).
		Int("winners", len(winners)).
		Int64("participants", participantCount).
		Msg("lottery draw completed")

	return s.GetStats(ctx, electionID)
}

// Start launches the sweeper loop: it fails overdue pending draws and runs
// auto-draws for ended elections whose draw date arrived.
func (s *DrawTracker) Start() {
	logger.Info().Dur("interval", s.sweepInterval).Msg("starting draw sweeper")
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.sweep(); err != nil {
					logger.Error().Err(err).Msg("draw sweep failed")
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *DrawTracker) Stop() {
	logger.Info().Msg("stopping draw sweeper")
	s.cancel()
	s.wg.Wait()
	logger.Info().Msg("draw sweeper stopped")
}

func (s *DrawTracker) sweep() error {
	electionIDs, err := s.elections.GetLotteryElectionIDs(s.ctx)
	if err != nil {
		return err
	}

	for _, electionID := range electionIDs {
		if _, busy := s.processing.LoadOrStore(electionID, true); busy {
			continue
		}

		go func(id string) {
			defer s.processing.Delete(id)

			select {
			case s.semaphore <- struct{}{}:
				defer func() { <-s.semaphore }()
			case <-s.ctx.Done():
				return
			}

			if err := s.sweepElection(id); err != nil {
				logger.Error().Err(err).Str("election_id", id).Msg("failed to sweep election draw")
			}
		}(electionID)
	}

	return nil
}

func (s *DrawTracker) sweepElection(electionID string) error {
	ctx, cancel := context.WithTimeout(s.ctx, DrawProcessingTimeout)
	defer cancel()

	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return err
	}
	if !election.HasLottery() {
		return nil
	}
	if !s.now().After(election.Lottery.DrawDate) {
		return nil
	}

	draw, err := s.draws.Get(ctx, electionID)
	if err == repository.ErrDrawNotFound {
		// Nobody has looked at this draw yet; create it so state is
		// observable before the sweep acts on it.
		if draw, err = s.draws.GetOrCreate(ctx, electionID); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if draw.HasBeenDrawn {
		return nil
	}

	if err := s.draws.AcquireLock(ctx, electionID, DrawLockTimeout); err != nil {
		if err == repository.ErrAlreadyLocked {
			return nil
		}
		return err
	}
	defer s.draws.ReleaseLock(ctx, electionID)

	if election.Lottery.AutoDraw && ClassifyPhase(election, s.now()) == models.PhaseEnded {
		_, err = s.TriggerDraw(ctx, 0, electionID)
		return err
	}

	if draw.DrawStatus == models.DrawStatusPending {
		if marked, err := s.draws.MarkFailedIfPending(ctx, electionID); err != nil {
			return err
		} else if marked {
			logger.Warn().Str("election_id", electionID).Msg("draw date passed without a draw, marking failed")
		}
	}

	return nil
}
