package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-tool-backend/internal/features/election/models"
)

type drawFixture struct {
	tracker   *DrawTracker
	elections *fakeElectionRepo
	votes     *fakeVoteRepo
	draws     *fakeDrawRepo
	now       time.Time
}

func newDrawFixture(t *testing.T) *drawFixture {
	t.Helper()
	f := &drawFixture{
		elections: newFakeElectionRepo(),
		votes:     newFakeVoteRepo(),
		draws:     newFakeDrawRepo(),
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.tracker = NewDrawService(f.elections, f.votes, f.draws, NewTicketPicker(), time.Minute)
	f.tracker.now = func() time.Time { return f.now }
	return f
}

func (f *drawFixture) seedEndedLottery(t *testing.T, mutate func(*models.Election)) *models.Election {
	t.Helper()
	e := &models.Election{
		ID:             "e1",
		CreatorID:      42,
		Title:          "Board election",
		Status:         models.ElectionStatusPublished,
		StartsAt:       f.now.Add(-48 * time.Hour),
		EndsAt:         f.now.Add(-time.Hour),
		PricingType:    models.PricingFree,
		PermissionType: models.PermissionPublic,
		VotingType:     models.VotingPlurality,
		Questions: []models.Question{
			{ID: "q1", Text: "Q", MaxSelections: 1, Options: []models.QuestionOption{
				{ID: "a", Text: "A"}, {ID: "b", Text: "B"},
			}},
		},
		Lottery: &models.LotteryConfig{
			RewardType:     models.RewardMonetary,
			TotalPrizePool: 1000,
			WinnerCount:    2,
			PrizeDistribution: []models.PrizeDistribution{
				{Rank: 1, Percentage: 60},
				{Rank: 2, Percentage: 40},
			},
			DrawDate: f.now.Add(time.Hour),
			AutoDraw: false,
		},
	}
	if mutate != nil {
		mutate(e)
	}
	require.NoError(t, f.elections.Create(context.Background(), e))
	return e
}

func (f *drawFixture) seedVoters(t *testing.T, electionID string, userIDs ...int64) {
	t.Helper()
	for _, userID := range userIDs {
		require.NoError(t, f.votes.InsertIfAbsent(context.Background(), &models.Vote{
			ID:         voteKey(electionID, userID),
			ElectionID: electionID,
			UserID:     userID,
		}))
		require.NoError(t, f.draws.AddTickets(context.Background(), electionID, userID, 1))
	}
}

func TestGetStatsLazilyCreatesDraw(t *testing.T) {
	f := newDrawFixture(t)
	f.seedEndedLottery(t, nil)
	f.seedVoters(t, "e1", 1, 2, 3)

	stats, err := f.tracker.GetStats(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, models.DrawStatusPending, stats.DrawStatus)
	assert.False(t, stats.HasBeenDrawn)
	assert.Equal(t, int64(3), stats.ParticipantCount)
	assert.InDelta(t, 1000, stats.TotalPrizePool, 1e-9)
	assert.Empty(t, stats.Winners)
}

func TestGetStatsMarksOverduePendingAsFailed(t *testing.T) {
	f := newDrawFixture(t)
	f.seedEndedLottery(t, func(e *models.Election) {
		e.Lottery.DrawDate = f.now.Add(-time.Minute)
	})

	stats, err := f.tracker.GetStats(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusFailed, stats.DrawStatus)
	assert.False(t, stats.HasBeenDrawn)
}

func TestGetStatsErrors(t *testing.T) {
	f := newDrawFixture(t)

	_, err := f.tracker.GetStats(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	f.seedEndedLottery(t, func(e *models.Election) {
		e.ID = "plain"
		e.Lottery = nil
	})
	_, err = f.tracker.GetStats(context.Background(), "plain")
	assert.ErrorIs(t, err, ErrNoLottery)
}

func TestTriggerDraw(t *testing.T) {
	f := newDrawFixture(t)
	f.seedEndedLottery(t, nil)
	f.seedVoters(t, "e1", 1, 2, 3, 4)

	stats, err := f.tracker.TriggerDraw(context.Background(), 42, "e1")
	require.NoError(t, err)

	assert.True(t, stats.HasBeenDrawn)
	assert.Equal(t, models.DrawStatusCompleted, stats.DrawStatus)
	assert.Equal(t, int64(4), stats.ParticipantCount)
	require.Len(t, stats.Winners, 2)
	assert.Equal(t, 1, stats.Winners[0].Rank)
	assert.InDelta(t, 600, stats.Winners[0].Amount, 1e-9)
	assert.InDelta(t, 400, stats.Winners[1].Amount, 1e-9)
}

func TestTriggerDrawIsIdempotent(t *testing.T) {
	f := newDrawFixture(t)
	f.seedEndedLottery(t, nil)
	f.seedVoters(t, "e1", 1, 2, 3)

	first, err := f.tracker.TriggerDraw(context.Background(), 42, "e1")
	require.NoError(t, err)

	second, err := f.tracker.TriggerDraw(context.Background(), 42, "e1")
	require.NoError(t, err)

	assert.Equal(t, first.Winners, second.Winners)
	assert.Equal(t, first.ParticipantCount, second.ParticipantCount)
}

func TestTriggerDrawGuards(t *testing.T) {
	f := newDrawFixture(t)
	f.seedEndedLottery(t, nil)

	t.Run("non-owner rejected", func(t *testing.T) {
		_, err := f.tracker.TriggerDraw(context.Background(), 99, "e1")
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("sweeper bypasses the owner check", func(t *testing.T) {
		_, err := f.tracker.TriggerDraw(context.Background(), 0, "e1")
		assert.NoError(t, err)
	})

	t.Run("still running", func(t *testing.T) {
		f.seedEndedLottery(t, func(e *models.Election) {
			e.ID = "running"
			e.EndsAt = f.now.Add(time.Hour)
		})
		_, err := f.tracker.TriggerDraw(context.Background(), 42, "running")
		assert.ErrorIs(t, err, ErrNotEndedYet)
	})

	t.Run("no lottery", func(t *testing.T) {
		f.seedEndedLottery(t, func(e *models.Election) {
			e.ID = "plain"
			e.Lottery = nil
		})
		_, err := f.tracker.TriggerDraw(context.Background(), 42, "plain")
		assert.ErrorIs(t, err, ErrNoLottery)
	})
}

func TestTriggerDrawRecoversFailedDraw(t *testing.T) {
	f := newDrawFixture(t)
	f.seedEndedLottery(t, func(e *models.Election) {
		e.Lottery.DrawDate = f.now.Add(-time.Minute)
	})
	f.seedVoters(t, "e1", 1, 2, 3)

	// The overdue check marks the draw failed first.
	stats, err := f.tracker.GetStats(context.Background(), "e1")
	require.NoError(t, err)
	require.Equal(t, models.DrawStatusFailed, stats.DrawStatus)

	// A manual trigger still completes it.
	stats, err = f.tracker.TriggerDraw(context.Background(), 42, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusCompleted, stats.DrawStatus)
	assert.True(t, stats.HasBeenDrawn)
	assert.Len(t, stats.Winners, 2)
}

func TestTriggerDrawWithNoTickets(t *testing.T) {
	f := newDrawFixture(t)
	f.seedEndedLottery(t, nil)

	stats, err := f.tracker.TriggerDraw(context.Background(), 42, "e1")
	require.NoError(t, err)

	assert.True(t, stats.HasBeenDrawn)
	assert.Empty(t, stats.Winners)
}

func TestTriggerDrawConcurrentSingleResult(t *testing.T) {
	f := newDrawFixture(t)
	f.seedEndedLottery(t, nil)
	f.seedVoters(t, "e1", 1, 2, 3, 4, 5)

	const attempts = 6
	var wg sync.WaitGroup
	results := make([]*models.DrawStats, attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.tracker.TriggerDraw(context.Background(), 42, "e1")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	for _, stats := range results[1:] {
		assert.Equal(t, results[0].Winners, stats.Winners, "all triggers must observe the same draw")
	}
}

func TestSweepElection(t *testing.T) {
	t.Run("auto draw runs after the draw date", func(t *testing.T) {
		f := newDrawFixture(t)
		f.seedEndedLottery(t, func(e *models.Election) {
			e.Lottery.AutoDraw = true
			e.Lottery.DrawDate = f.now.Add(-time.Minute)
		})
		f.seedVoters(t, "e1", 1, 2, 3)

		require.NoError(t, f.tracker.sweepElection("e1"))

		stats, err := f.tracker.GetStats(context.Background(), "e1")
		require.NoError(t, err)
		assert.True(t, stats.HasBeenDrawn)
		assert.Len(t, stats.Winners, 2)
	})

	t.Run("manual draw is marked failed instead", func(t *testing.T) {
		f := newDrawFixture(t)
		f.seedEndedLottery(t, func(e *models.Election) {
			e.Lottery.AutoDraw = false
			e.Lottery.DrawDate = f.now.Add(-time.Minute)
		})

		require.NoError(t, f.tracker.sweepElection("e1"))

		draw, err := f.draws.Get(context.Background(), "e1")
		require.NoError(t, err)
		assert.Equal(t, models.DrawStatusFailed, draw.DrawStatus)
		assert.False(t, draw.HasBeenDrawn)
	})

	t.Run("draw date not reached yet is a no-op", func(t *testing.T) {
		f := newDrawFixture(t)
		f.seedEndedLottery(t, nil)

		require.NoError(t, f.tracker.sweepElection("e1"))

		_, err := f.draws.Get(context.Background(), "e1")
		assert.Error(t, err, "no draw record should exist yet")
	})

	t.Run("locked election is skipped", func(t *testing.T) {
		f := newDrawFixture(t)
		f.seedEndedLottery(t, func(e *models.Election) {
			e.Lottery.AutoDraw = true
			e.Lottery.DrawDate = f.now.Add(-time.Minute)
		})
		require.NoError(t, f.draws.AcquireLock(context.Background(), "e1", time.Minute))

		require.NoError(t, f.tracker.sweepElection("e1"))

		draw, err := f.draws.Get(context.Background(), "e1")
		require.NoError(t, err)
		assert.False(t, draw.HasBeenDrawn)
	})
}
