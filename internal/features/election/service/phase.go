package service

import (
	"fmt"
	"time"

	"election-tool-backend/internal/features/election/models"
)

// ClassifyPhase derives the temporal phase of an election from a single
// `now` snapshot. Draft status overrides time entirely. The grace window
// widens the start boundary only: a voter arriving up to StartGraceWindow
// before starts_at is already considered inside the active window.
func ClassifyPhase(e *models.Election, now time.Time) models.Phase {
	if e.Status == models.ElectionStatusDraft {
		return models.PhaseDraft
	}
	if now.Before(e.StartsAt.Add(-StartGraceWindow)) {
		return models.PhaseUpcoming
	}
	if now.After(e.EndsAt) {
		return models.PhaseEnded
	}
	return models.PhaseActive
}

// PhaseDetail renders the phase-specific hint used in the NOT_ACTIVE
// blocker: how long until the election starts, or when it ended.
func PhaseDetail(e *models.Election, phase models.Phase, now time.Time) string {
	switch phase {
	case models.PhaseDraft:
		return "election is a draft"
	case models.PhaseUpcoming:
		return fmt.Sprintf("starts in %s", e.StartsAt.Sub(now).Round(time.Second))
	case models.PhaseEnded:
		return fmt.Sprintf("ended on %s", e.EndsAt.Format(time.RFC3339))
	default:
		return ""
	}
}
