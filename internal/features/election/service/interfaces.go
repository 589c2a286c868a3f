package service

import (
	"context"

	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/platform/payment"
)

// ElectionService defines the election and voting operations.
type ElectionService interface {
	Create(ctx context.Context, creatorID int64, election *models.Election) (*models.Election, error)
	Update(ctx context.Context, creatorID int64, electionID string, election *models.Election) (*models.Election, error)
	Publish(ctx context.Context, creatorID int64, electionID string) (*models.Election, error)
	Cancel(ctx context.Context, creatorID int64, electionID string) error
	GetByID(ctx context.Context, electionID string) (*models.Election, error)
	GetByCreator(ctx context.Context, creatorID int64) ([]*models.Election, error)

	QuoteFee(ctx context.Context, electionID string, hint RegionHint) (*FeeQuote, error)
	GetPrizeBreakdown(ctx context.Context, electionID string) (*PrizeBreakdown, error)
	CheckEligibility(ctx context.Context, electionID string, voter VoterFacts) (Verdict, error)

	SubmitVote(ctx context.Context, electionID string, voter VoterFacts, answers models.AnswerMap) (*models.VoteReceipt, error)
	GetVote(ctx context.Context, electionID string, userID int64) (*models.Vote, error)

	SaveVideoProgress(ctx context.Context, electionID string, userID int64, watchPercentage float64) error
	CreatePaymentIntent(ctx context.Context, electionID string, userID int64, hint RegionHint) (*payment.Intent, error)
}

// DrawService tracks lottery draws and exposes the idempotent manual
// trigger.
type DrawService interface {
	GetStats(ctx context.Context, electionID string) (*models.DrawStats, error)
	TriggerDraw(ctx context.Context, requesterID int64, electionID string) (*models.DrawStats, error)
}

// DrawSweeper is the background loop that fails overdue draws and runs
// auto-draws.
type DrawSweeper interface {
	Start()
	Stop()
}

// PaymentGateway is the capability consumed from the payment provider. The
// engine only reads verified results; checkout flows live elsewhere.
type PaymentGateway interface {
	GetStatus(ctx context.Context, electionID string, userID int64) (payment.Status, error)
	CreateIntent(ctx context.Context, electionID string, userID int64, amount float64, currency string) (*payment.Intent, error)
}

// WinnerPicker selects ranked winners from the ticket ledger. The draw
// service only tracks state around it.
type WinnerPicker interface {
	Pick(tickets map[int64]int64, winnerCount int, breakdown *PrizeBreakdown) ([]models.DrawWinner, error)
}

// VoterFacts identifies the voter for eligibility and submission calls.
// UserID 0 means the request is anonymous.
type VoterFacts struct {
	UserID  int64
	Country string
	City    string
}
