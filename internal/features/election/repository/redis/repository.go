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
	keyPrefixElection  = "election:"
	keyPrefixByCreator = "elections:by_creator:"
	keyLotterySet      = "elections:lottery"
)

type electionRepository struct {
	client *redis.Client
}

func NewElectionRepository(client *redis.Client) repository.ElectionRepository {
	return &electionRepository{client: client}
}

func makeElectionKey(id string) string {
	return keyPrefixElection + id
}

func makeByCreatorKey(creatorID int64) string {
	return fmt.Sprintf("%s%d", keyPrefixByCreator, creatorID)
}

func (r *electionRepository) Create(ctx context.Context, election *models.Election) error {
	data, err := json.Marshal(election)
	if err != nil {
		return fmt.Errorf("failed to marshal election: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, makeElectionKey(election.ID), data, 0)
	pipe.SAdd(ctx, makeByCreatorKey(election.CreatorID), election.ID)
	if election.HasLottery() {
		pipe.SAdd(ctx, keyLotterySet, election.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *electionRepository) GetByID(ctx context.Context, id string) (*models.Election, error) {
	data, err := r.client.Get(ctx, makeElectionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrElectionNotFound
	}
	if err != nil {
		return nil, err
	}

	var election models.Election
	if err := json.Unmarshal(data, &election); err != nil {
		return nil, fmt.Errorf("failed to unmarshal election: %w", err)
	}
	return &election, nil
}

func (r *electionRepository) Update(ctx context.Context, election *models.Election) error {
	data, err := json.Marshal(election)
	if err != nil {
		return fmt.Errorf("failed to marshal election: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, makeElectionKey(election.ID), data, 0)
	if election.HasLottery() {
		pipe.SAdd(ctx, keyLotterySet, election.ID)
	} else {
		pipe.SRem(ctx, keyLotterySet, election.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *electionRepository) Delete(ctx context.Context, id string) error {
	election, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, makeElectionKey(id))
	pipe.SRem(ctx, makeByCreatorKey(election.CreatorID), id)
	pipe.SRem(ctx, keyLotterySet, id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *electionRepository) GetByCreator(ctx context.Context, creatorID int64) ([]*models.Election, error) {
	ids, err := r.client.SMembers(ctx, makeByCreatorKey(creatorID)).Result()
	if err != nil {
		return nil, err
	}

	elections := make([]*models.Election, 0, len(ids))
	for _, id := range ids {
		election, err := r.GetByID(ctx, id)
		if err == repository.ErrElectionNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		elections = append(elections, election)
	}
	return elections, nil
}

func (r *electionRepository) UpdateStatus(ctx context.Context, id string, status models.ElectionStatus) error {
	election, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	election.Status = status
	return r.Update(ctx, election)
}

func (r *electionRepository) GetLotteryElectionIDs(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, keyLotterySet).Result()
}
