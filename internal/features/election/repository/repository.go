package repository

import (
	"context"
	"errors"
	"time"

	"election-tool-backend/internal/features/election/models"
)

var (
	ErrElectionNotFound = errors.New("election not found")
	ErrVoteNotFound     = errors.New("vote not found")
	ErrVoteConflict     = errors.New("a vote already exists for this user and election")
	ErrDrawNotFound     = errors.New("lottery draw not found")
	ErrAlreadyLocked    = errors.New("resource is already locked")
)

// ElectionRepository stores election documents.
type ElectionRepository interface {
	Create(ctx context.Context, election *models.Election) error
	GetByID(ctx context.Context, id string) (*models.Election, error)
	Update(ctx context.Context, election *models.Election) error
	Delete(ctx context.Context, id string) error
	GetByCreator(ctx context.Context, creatorID int64) ([]*models.Election, error)
	UpdateStatus(ctx context.Context, id string, status models.ElectionStatus) error

	// GetLotteryElectionIDs lists elections that carry a lottery config,
	// for the draw sweeper.
	GetLotteryElectionIDs(ctx context.Context) ([]string, error)
}

// VoteRepository stores committed ballots. InsertIfAbsent is the single
// write path and must be atomic on (election_id, user_id): two racing
// submissions yield exactly one stored vote and one ErrVoteConflict.
type VoteRepository interface {
	InsertIfAbsent(ctx context.Context, vote *models.Vote) error
	GetByUser(ctx context.Context, electionID string, userID int64) (*models.Vote, error)
	HasVoted(ctx context.Context, electionID string, userID int64) (bool, error)
	CountByElection(ctx context.Context, electionID string) (int64, error)
}

// ProgressRepository stores video-watch facts. Upsert keeps the maximum
// percentage seen so progress never regresses.
type ProgressRepository interface {
	Get(ctx context.Context, electionID string, userID int64) (*models.VideoProgress, error)
	Upsert(ctx context.Context, progress *models.VideoProgress) error
}

// DrawRepository tracks lottery draw state and tickets. CompleteIfNotDrawn
// is a compare-and-swap: it commits winners only when no draw has executed
// yet, so concurrent triggers settle on a single result.
type DrawRepository interface {
	GetOrCreate(ctx context.Context, electionID string) (*models.LotteryDraw, error)
	Get(ctx context.Context, electionID string) (*models.LotteryDraw, error)
	CompleteIfNotDrawn(ctx context.Context, electionID string, winners []models.DrawWinner, participantCount int64, drawnAt time.Time) (bool, error)
	MarkFailedIfPending(ctx context.Context, electionID string) (bool, error)

	AddTickets(ctx context.Context, electionID string, userID int64, count int64) error
	GetTickets(ctx context.Context, electionID string) (map[int64]int64, error)

	AcquireLock(ctx context.Context, key string, ttl time.Duration) error
	ReleaseLock(ctx context.Context, key string) error
}
