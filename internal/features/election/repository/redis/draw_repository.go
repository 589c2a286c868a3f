package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/features/election/repository"
)

const (
	keyPrefixDraw    = "draw:"
	drawnMarkSuffix  = ":drawn"
	ticketsSuffix    = ":tickets"
	keyPrefixDrawLck = "lock:draw:"
)

type drawRepository struct {
	client *redis.Client
}

func NewDrawRepository(client *redis.Client) repository.DrawRepository {
	return &drawRepository{client: client}
}

func makeDrawKey(electionID string) string {
	return keyPrefixDraw + electionID
}

func (r *drawRepository) GetOrCreate(ctx context.Context, electionID string) (*models.LotteryDraw, error) {
	draw, err := r.Get(ctx, electionID)
	if err == nil {
		return draw, nil
	}
	if err != repository.ErrDrawNotFound {
		return nil, err
	}

	now := time.Now()
	draw = &models.LotteryDraw{
		ElectionID: electionID,
		DrawStatus: models.DrawStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	data, err := json.Marshal(draw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draw: %w", err)
	}

	// First writer wins; on a race, re-read whatever was stored.
	ok, err := r.client.SetNX(ctx, makeDrawKey(electionID), data, 0).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.Get(ctx, electionID)
	}
	return draw, nil
}

func (r *drawRepository) Get(ctx context.Context, electionID string) (*models.LotteryDraw, error) {
	data, err := r.client.Get(ctx, makeDrawKey(electionID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrDrawNotFound
	}
	if err != nil {
		return nil, err
	}

	var draw models.LotteryDraw
	if err := json.Unmarshal(data, &draw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draw: %w", err)
	}
	return &draw, nil
}

// CompleteIfNotDrawn claims the drawn marker with SETNX before writing the
// result. A second trigger fails to claim the marker and reports false, so
// a draw can never execute twice, including from the failed state.
func (r *drawRepository) CompleteIfNotDrawn(ctx context.Context, electionID string, winners []models.DrawWinner, participantCount int64, drawnAt time.Time) (bool, error) {
	claimed, err := r.client.SetNX(ctx, makeDrawKey(electionID)+drawnMarkSuffix, drawnAt.Unix(), 0).Result()
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	draw, err := r.GetOrCreate(ctx, electionID)
	if err != nil {
		return false, err
	}

	draw.DrawStatus = models.DrawStatusCompleted
	draw.ParticipantCount = participantCount
	draw.Winners = winners
	draw.HasBeenDrawn = true
	draw.DrawnAt = &drawnAt
	draw.UpdatedAt = time.Now()

	data, err := json.Marshal(draw)
	if err != nil {
		return false, fmt.Errorf("failed to marshal draw: %w", err)
	}
	if err := r.client.Set(ctx, makeDrawKey(electionID), data, 0).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *drawRepository) MarkFailedIfPending(ctx context.Context, electionID string) (bool, error) {
	draw, err := r.Get(ctx, electionID)
	if err != nil {
		return false, err
	}
	if draw.DrawStatus != models.DrawStatusPending || draw.HasBeenDrawn {
		return false, nil
	}

	draw.DrawStatus = models.DrawStatusFailed
	draw.UpdatedAt = time.Now()

	data, err := json.Marshal(draw)
	if err != nil {
		return false, fmt.Errorf("failed to marshal draw: %w", err)
	}
	if err := r.client.Set(ctx, makeDrawKey(electionID), data, 0).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *drawRepository) AddTickets(ctx context.Context, electionID string, userID int64, count int64) error {
	field := strconv.FormatInt(userID, 10)
	return r.client.HIncrBy(ctx, makeDrawKey(electionID)+ticketsSuffix, field, count).Err()
}

func (r *drawRepository) GetTickets(ctx context.Context, electionID string) (map[int64]int64, error) {
	raw, err := r.client.HGetAll(ctx, makeDrawKey(electionID)+ticketsSuffix).Result()
	if err != nil {
		return nil, err
	}

	tickets := make(map[int64]int64, len(raw))
	for field, value := range raw {
		userID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt ticket field %q: %w", field, err)
		}
		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt ticket count %q: %w", value, err)
		}
		tickets[userID] = count
	}
	return tickets, nil
}

func (r *drawRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := r.client.SetNX(ctx, keyPrefixDrawLck+key, "locked", ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return repository.ErrAlreadyLocked
	}
	return nil
}

func (r *drawRepository) ReleaseLock(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefixDrawLck+key).Err()
}
