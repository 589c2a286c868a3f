package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/features/election/repository"
)

const (
	keyPrefixVote       = "vote:"
	keyPrefixVotesCount = "election:votes_count:"
	keyPrefixProgress   = "video_progress:"
)

type voteRepository struct {
	client *redis.Client
}

func NewVoteRepository(client *redis.Client) repository.VoteRepository {
	return &voteRepository{client: client}
}

func makeVoteKey(electionID string, userID int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefixVote, electionID, userID)
}

func makeVotesCountKey(electionID string) string {
	return keyPrefixVotesCount + electionID
}

// InsertIfAbsent relies on SETNX for the at-most-one-vote constraint: the
// first writer wins, every other racer observes ErrVoteConflict.
func (r *voteRepository) InsertIfAbsent(ctx context.Context, vote *models.Vote) error {
	data, err := json.Marshal(vote)
	if err != nil {
		return fmt.Errorf("failed to marshal vote: %w", err)
	}

	ok, err := r.client.SetNX(ctx, makeVoteKey(vote.ElectionID, vote.UserID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrVoteConflict
	}

	return r.client.Incr(ctx, makeVotesCountKey(vote.ElectionID)).Err()
}

func (r *voteRepository) GetByUser(ctx context.Context, electionID string, userID int64) (*models.Vote, error) {
	data, err := r.client.Get(ctx, makeVoteKey(electionID, userID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrVoteNotFound
	}
	if err != nil {
		return nil, err
	}

	var vote models.Vote
	if err := json.Unmarshal(data, &vote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vote: %w", err)
	}
	return &vote, nil
}

func (r *voteRepository) HasVoted(ctx context.Context, electionID string, userID int64) (bool, error) {
	n, err := r.client.Exists(ctx, makeVoteKey(electionID, userID)).Result()
	return n > 0, err
}

func (r *voteRepository) CountByElection(ctx context.Context, electionID string) (int64, error) {
	count, err := r.client.Get(ctx, makeVotesCountKey(electionID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

type progressRepository struct {
	client *redis.Client
}

func NewProgressRepository(client *redis.Client) repository.ProgressRepository {
	return &progressRepository{client: client}
}

func makeProgressKey(electionID string, userID int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefixProgress, electionID, userID)
}

func (r *progressRepository) Get(ctx context.Context, electionID string, userID int64) (*models.VideoProgress, error) {
	pct, err := r.client.Get(ctx, makeProgressKey(electionID, userID)).Float64()
	if err == redis.Nil {
		return &models.VideoProgress{ElectionID: electionID, UserID: userID, WatchPercentage: 0}, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.VideoProgress{ElectionID: electionID, UserID: userID, WatchPercentage: pct}, nil
}

// Upsert keeps the maximum percentage seen. Watch reports may arrive out of
// order; a lower value never overwrites a higher one.
func (r *progressRepository) Upsert(ctx context.Context, progress *models.VideoProgress) error {
	current, err := r.Get(ctx, progress.ElectionID, progress.UserID)
	if err != nil {
		return err
	}
	if progress.WatchPercentage <= current.WatchPercentage {
		return nil
	}
	return r.client.Set(ctx, makeProgressKey(progress.ElectionID, progress.UserID), progress.WatchPercentage, 0).Err()
}
