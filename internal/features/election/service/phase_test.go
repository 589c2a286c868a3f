package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"election-tool-backend/internal/features/election/models"
)

func phaseElection(start, end time.Time) *models.Election {
	return &models.Election{
		ID:       "e1",
		Status:   models.ElectionStatusPublished,
		StartsAt: start,
		EndsAt:   end,
	}
}

func TestClassifyPhase(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	e := phaseElection(start, end)

	t.Run("well before start", func(t *testing.T) {
		assert.Equal(t, models.PhaseUpcoming, ClassifyPhase(e, start.Add(-time.Hour)))
	})

	t.Run("inside the start grace window", func(t *testing.T) {
		assert.Equal(t, models.PhaseActive, ClassifyPhase(e, start.Add(-30*time.Second)))
	})

	t.Run("just outside the grace window", func(t *testing.T) {
		assert.Equal(t, models.PhaseUpcoming, ClassifyPhase(e, start.Add(-90*time.Second)))
	})

	t.Run("during the window", func(t *testing.T) {
		assert.Equal(t, models.PhaseActive, ClassifyPhase(e, start.Add(time.Hour)))
	})

	t.Run("at the end instant", func(t *testing.T) {
		assert.Equal(t, models.PhaseActive, ClassifyPhase(e, end))
	})

	t.Run("no grace after the end", func(t *testing.T) {
		assert.Equal(t, models.PhaseEnded, ClassifyPhase(e, end.Add(time.Second)))
	})

	t.Run("draft overrides time", func(t *testing.T) {
		draft := phaseElection(start, end)
		draft.Status = models.ElectionStatusDraft
		assert.Equal(t, models.PhaseDraft, ClassifyPhase(draft, start.Add(time.Hour)))
	})
}

func TestPhaseDetail(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	e := phaseElection(start, end)

	assert.Contains(t, PhaseDetail(e, models.PhaseUpcoming, start.Add(-2*time.Hour)), "starts in")
	assert.Contains(t, PhaseDetail(e, models.PhaseEnded, end.Add(time.Hour)), "ended on")
	assert.Equal(t, "election is a draft", PhaseDetail(e, models.PhaseDraft, start))
	assert.Empty(t, PhaseDetail(e, models.PhaseActive, start))
}
