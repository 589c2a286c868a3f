package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-tool-backend/internal/features/election/models"
)

func eligibilityElection() *models.Election {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Election{
		ID:             "e1",
		Status:         models.ElectionStatusPublished,
		StartsAt:       now.Add(-time.Hour),
		EndsAt:         now.Add(time.Hour),
		PricingType:    models.PricingFree,
		PermissionType: models.PermissionPublic,
	}
}

func TestEvaluateEligibilityAllClear(t *testing.T) {
	e := eligibilityElection()
	fee := &FeeQuote{IsFree: true, Currency: DefaultCurrency}

	verdict := EvaluateEligibility(e, models.PhaseActive, fee, EvaluationContext{
		Now:             e.StartsAt.Add(time.Minute),
		IsAuthenticated: true,
	})

	assert.True(t, verdict.CanVote)
	assert.Empty(t, verdict.Blockers)
	assert.Equal(t, models.PhaseActive, verdict.Phase)
	assert.Same(t, fee, verdict.Fee)
}

func TestEvaluateEligibilityCollectsAllBlockersInOrder(t *testing.T) {
	e := eligibilityElection()
	e.PermissionType = models.PermissionCountrySpecific
	e.AllowedCountries = []string{"DE"}
	e.VideoRequired = true
	e.MinimumWatchPercentage = 80

	fee := &FeeQuote{TotalFee: 3.15, Currency: DefaultCurrency}

	verdict := EvaluateEligibility(e, models.PhaseEnded, fee, EvaluationContext{
		Now:                  e.EndsAt.Add(time.Hour),
		IsAuthenticated:      false,
		HasExistingVote:      true,
		PaymentStatus:        models.PaymentPending,
		VideoWatchPercentage: 50,
		VoterCountry:         "BR",
	})

	require.False(t, verdict.CanVote)
	assert.Equal(t, []string{
		string(BlockerNotAuthenticated),
		string(BlockerAlreadyVoted),
		string(BlockerPaymentRequired),
		string(BlockerVideoIncomplete),
		string(BlockerCountryRestricted),
		string(BlockerNotActive),
	}, verdict.BlockerCodes())
}

func TestEvaluateEligibilityVideoThreshold(t *testing.T) {
	e := eligibilityElection()
	e.VideoRequired = true
	e.MinimumWatchPercentage = 80
	fee := &FeeQuote{IsFree: true}

	t.Run("below threshold blocks", func(t *testing.T) {
		verdict := EvaluateEligibility(e, models.PhaseActive, fee, EvaluationContext{
			IsAuthenticated:      true,
			VideoWatchPercentage: 50,
		})
		assert.Equal(t, []string{string(BlockerVideoIncomplete)}, verdict.BlockerCodes())
	})

	t.Run("at threshold passes", func(t *testing.T) {
		verdict := EvaluateEligibility(e, models.PhaseActive, fee, EvaluationContext{
			IsAuthenticated:      true,
			VideoWatchPercentage: 80,
		})
		assert.True(t, verdict.CanVote)
	})
}

func TestEvaluateEligibilityPayment(t *testing.T) {
	e := eligibilityElection()
	e.PricingType = models.PricingGeneral
	e.GeneralFee = 3
	fee := &FeeQuote{TotalFee: 3, Currency: DefaultCurrency}

	t.Run("pending payment blocks", func(t *testing.T) {
		verdict := EvaluateEligibility(e, models.PhaseActive, fee, EvaluationContext{
			IsAuthenticated: true,
			PaymentStatus:   models.PaymentPending,
		})
		assert.Equal(t, []string{string(BlockerPaymentRequired)}, verdict.BlockerCodes())
	})

	t.Run("succeeded payment passes", func(t *testing.T) {
		verdict := EvaluateEligibility(e, models.PhaseActive, fee, EvaluationContext{
			IsAuthenticated: true,
			PaymentStatus:   models.PaymentSucceeded,
		})
		assert.True(t, verdict.CanVote)
	})
}

func TestEvaluateEligibilityNotActiveCarriesDetail(t *testing.T) {
	e := eligibilityElection()
	fee := &FeeQuote{IsFree: true}

	verdict := EvaluateEligibility(e, models.PhaseUpcoming, fee, EvaluationContext{
		Now:             e.StartsAt.Add(-2 * time.Hour),
		IsAuthenticated: true,
	})

	require.Len(t, verdict.Blockers, 1)
	assert.Equal(t, BlockerNotActive, verdict.Blockers[0].Code)
	assert.Contains(t, verdict.Blockers[0].Detail, "starts in")
}
