package service

import (
	"time"

	"election-tool-backend/internal/features/election/models"
)

// BlockerCode is a stable reason code the presentation layer maps to a
// human sentence. The engine never embeds display strings as the source of
// truth; Detail is a hint, not the contract.
type BlockerCode string

const (
	BlockerNotAuthenticated  BlockerCode = "NOT_AUTHENTICATED"
	BlockerAlreadyVoted      BlockerCode = "ALREADY_VOTED"
	BlockerPaymentRequired   BlockerCode = "PAYMENT_REQUIRED"
	BlockerVideoIncomplete   BlockerCode = "VIDEO_INCOMPLETE"
	BlockerCountryRestricted BlockerCode = "COUNTRY_RESTRICTED"
	BlockerNotActive         BlockerCode = "NOT_ACTIVE"
)

// Blocker is one reason the voter cannot vote right now.
type Blocker struct {
	Code   BlockerCode `json:"code"`
	Detail string      `json:"detail,omitempty"`
}

// EvaluationContext is the immutable snapshot of voter facts for a single
// eligibility decision. Facts are gathered once per call; nothing here is
// cached across evaluations.
type EvaluationContext struct {
	Now                  time.Time
	IsAuthenticated      bool
	HasExistingVote      bool
	PaymentStatus        models.PaymentStatus
	VideoWatchPercentage float64
	VoterCountry         string
}

// Verdict is the eligibility decision with every applicable blocker.
type Verdict struct {
	CanVote  bool         `json:"can_vote"`
	Phase    models.Phase `json:"phase"`
	Blockers []Blocker    `json:"blockers"`
	Fee      *FeeQuote    `json:"fee,omitempty"`
}

// EvaluateEligibility collects every applicable blocker in a fixed order so
// a caller can render all of them at once. The order is a contract:
// authentication, prior vote, payment, video, country, then phase.
func EvaluateEligibility(e *models.Election, phase models.Phase, fee *FeeQuote, evalCtx EvaluationContext) Verdict {
	verdict := Verdict{Phase: phase, Fee: fee, Blockers: []Blocker{}}

	if !evalCtx.IsAuthenticated {
		verdict.Blockers = append(verdict.Blockers, Blocker{Code: BlockerNotAuthenticated})
	}

	if evalCtx.HasExistingVote {
		verdict.Blockers = append(verdict.Blockers, Blocker{Code: BlockerAlreadyVoted})
	}

	if fee != nil && !fee.IsFree && evalCtx.PaymentStatus != models.PaymentSucceeded {
		verdict.Blockers = append(verdict.Blockers, Blocker{Code: BlockerPaymentRequired})
	}

	if e.VideoRequired && evalCtx.VideoWatchPercentage < e.MinimumWatchPercentage {
		verdict.Blockers = append(verdict.Blockers, Blocker{Code: BlockerVideoIncomplete})
	}

	if !e.AllowsCountry(evalCtx.VoterCountry) {
		verdict.Blockers = append(verdict.Blockers, Blocker{Code: BlockerCountryRestricted})
	}

	if phase != models.PhaseActive {
		verdict.Blockers = append(verdict.Blockers, Blocker{
			Code:   BlockerNotActive,
			Detail: PhaseDetail(e, phase, evalCtx.Now),
		})
	}

	verdict.CanVote = len(verdict.Blockers) == 0
	return verdict
}

// BlockerCodes flattens a verdict's blockers to their codes, preserving
// evaluation order.
func (v Verdict) BlockerCodes() []string {
	codes := make([]string, len(v.Blockers))
	for i, b := range v.Blockers {
		codes[i] = string(b.Code)
	}
	return codes
}
