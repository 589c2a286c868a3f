package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/features/election/repository"
)

// Election documents and draws are stored as jsonb; votes and tickets are
// relational so the database can enforce the uniqueness constraints.

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) repository.ElectionRepository {
	return &electionRepository{db: db}
}

func (r *electionRepository) Create(ctx context.Context, election *models.Election) error {
	doc, err := json.Marshal(election)
	if err != nil {
		return fmt.Errorf("failed to marshal election: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO elections (id, creator_id, has_lottery, doc, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		election.ID, election.CreatorID, election.HasLottery(), doc, election.CreatedAt, election.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create election: %w", err)
	}
	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id string) (*models.Election, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM elections WHERE id = $1`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, repository.ErrElectionNotFound
	}
	if err != nil {
		return nil, err
	}

	var election models.Election
	if err := json.Unmarshal(doc, &election); err != nil {
		return nil, fmt.Errorf("failed to unmarshal election: %w", err)
	}
	return &election, nil
}

func (r *electionRepository) Update(ctx context.Context, election *models.Election) error {
	doc, err := json.Marshal(election)
	if err != nil {
		return fmt.Errorf("failed to marshal election: %w", err)
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE elections SET doc = $2, has_lottery = $3, updated_at = $4 WHERE id = $1`,
		election.ID, doc, election.HasLottery(), time.Now())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrElectionNotFound
	}
	return nil
}

func (r *electionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM elections WHERE id = $1`, id)
	return err
}

func (r *electionRepository) GetByCreator(ctx context.Context, creatorID int64) ([]*models.Election, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT doc FROM elections WHERE creator_id = $1 ORDER BY created_at DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var elections []*models.Election
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var election models.Election
		if err := json.Unmarshal(doc, &election); err != nil {
			return nil, fmt.Errorf("failed to unmarshal election: %w", err)
		}
		elections = append(elections, &election)
	}
	return elections, rows.Err()
}

func (r *electionRepository) UpdateStatus(ctx context.Context, id string, status models.ElectionStatus) error {
	election, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	election.Status = status
	election.UpdatedAt = time.Now()
	return r.Update(ctx, election)
}

func (r *electionRepository) GetLotteryElectionIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM elections WHERE has_lottery`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) repository.VoteRepository {
	return &voteRepository{db: db}
}

// InsertIfAbsent leans on the UNIQUE (election_id, user_id) constraint:
// ON CONFLICT DO NOTHING turns a duplicate into zero affected rows.
func (r *voteRepository) InsertIfAbsent(ctx context.Context, vote *models.Vote) error {
	answers, err := json.Marshal(vote.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO votes (id, election_id, user_id, answers, receipt_code, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (election_id, user_id) DO NOTHING`,
		vote.ID, vote.ElectionID, vote.UserID, answers, vote.ReceiptCode, vote.SubmittedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrVoteConflict
	}
	return nil
}

func (r *voteRepository) GetByUser(ctx context.Context, electionID string, userID int64) (*models.Vote, error) {
	vote := &models.Vote{ElectionID: electionID, UserID: userID}
	var answers []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, answers, receipt_code, submitted_at FROM votes WHERE election_id = $1 AND user_id = $2`,
		electionID, userID).Scan(&vote.ID, &answers, &vote.ReceiptCode, &vote.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrVoteNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &vote.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	return vote, nil
}

func (r *voteRepository) HasVoted(ctx context.Context, electionID string, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM votes WHERE election_id = $1 AND user_id = $2)`,
		electionID, userID).Scan(&exists)
	return exists, err
}

func (r *voteRepository) CountByElection(ctx context.Context, electionID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE election_id = $1`, electionID).Scan(&count)
	return count, err
}

type progressRepository struct {
	db *sql.DB
}

func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, electionID string, userID int64) (*models.VideoProgress, error) {
	progress := &models.VideoProgress{ElectionID: electionID, UserID: userID}
	err := r.db.QueryRowContext(ctx,
		`SELECT watch_percentage FROM video_progress WHERE election_id = $1 AND user_id = $2`,
		electionID, userID).Scan(&progress.WatchPercentage)
	if err == sql.ErrNoRows {
		return progress, nil
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *progressRepository) Upsert(ctx context.Context, progress *models.VideoProgress) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO video_progress (election_id, user_id, watch_percentage, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (election_id, user_id)
		 DO UPDATE SET watch_percentage = GREATEST(video_progress.watch_percentage, EXCLUDED.watch_percentage), updated_at = NOW()`,
		progress.ElectionID, progress.UserID, progress.WatchPercentage)
	return err
}

type drawRepository struct {
	db *sql.DB
}

func NewDrawRepository(db *sql.DB) repository.DrawRepository {
	return &drawRepository{db: db}
}

func (r *drawRepository) GetOrCreate(ctx context.Context, electionID string) (*models.LotteryDraw, error) {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lottery_draws (election_id, draw_status, has_been_drawn, created_at, updated_at)
		 VALUES ($1, $2, FALSE, $3, $3)
		 ON CONFLICT (election_id) DO NOTHING`,
		electionID, models.DrawStatusPending, now)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, electionID)
}

func (r *drawRepository) Get(ctx context.Context, electionID string) (*models.LotteryDraw, error) {
	draw := &models.LotteryDraw{ElectionID: electionID}
	var winners []byte
	var drawnAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT draw_status, participant_count, winners, has_been_drawn, drawn_at, created_at, updated_at
		 FROM lottery_draws WHERE election_id = $1`, electionID).
		Scan(&draw.DrawStatus, &draw.ParticipantCount, &winners, &draw.HasBeenDrawn, &drawnAt, &draw.CreatedAt, &draw.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrDrawNotFound
	}
	if err != nil {
		return nil, err
	}
	if drawnAt.Valid {
		draw.DrawnAt = &drawnAt.Time
	}
	if len(winners) > 0 {
		if err := json.Unmarshal(winners, &draw.Winners); err != nil {
			return nil, fmt.Errorf("failed to unmarshal winners: %w", err)
		}
	}
	return draw, nil
}

// CompleteIfNotDrawn is a conditional update: the WHERE clause makes the
// transition atomic, so a second concurrent trigger affects zero rows.
func (r *drawRepository) CompleteIfNotDrawn(ctx context.Context, electionID string, winners []models.DrawWinner, participantCount int64, drawnAt time.Time) (bool, error) {
	data, err := json.Marshal(winners)
	if err != nil {
		return false, fmt.Errorf("failed to marshal winners: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE lottery_draws
		 SET draw_status = $2, participant_count = $3, winners = $4, has_been_drawn = TRUE, drawn_at = $5, updated_at = NOW()
		 WHERE election_id = $1 AND has_been_drawn = FALSE`,
		electionID, models.DrawStatusCompleted, participantCount, data, drawnAt)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *drawRepository) MarkFailedIfPending(ctx context.Context, electionID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE lottery_draws SET draw_status = $2, updated_at = NOW()
		 WHERE election_id = $1 AND draw_status = $3 AND has_been_drawn = FALSE`,
		electionID, models.DrawStatusFailed, models.DrawStatusPending)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *drawRepository) AddTickets(ctx context.Context, electionID string, userID int64, count int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lottery_tickets (election_id, user_id, ticket_count)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (election_id, user_id)
		 DO UPDATE SET ticket_count = lottery_tickets.ticket_count + EXCLUDED.ticket_count`,
		electionID, userID, count)
	return err
}

func (r *drawRepository) GetTickets(ctx context.Context, electionID string) (map[int64]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, ticket_count FROM lottery_tickets WHERE election_id = $1`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make(map[int64]int64)
	for rows.Next() {
		var userID, count int64
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, err
		}
		tickets[userID] = count
	}
	return tickets, rows.Err()
}

// AcquireLock uses an advisory lock table with expiry rather than a session
// advisory lock so the sweeper works through a connection pool.
func (r *drawRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO draw_locks (lock_key, expires_at) VALUES ($1, NOW() + $2::interval)
		 ON CONFLICT (lock_key) DO UPDATE SET expires_at = NOW() + $2::interval
		 WHERE draw_locks.expires_at < NOW()`,
		key, fmt.Sprintf("%d seconds", int(ttl.Seconds())))
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrAlreadyLocked
	}
	return nil
}

func (r *drawRepository) ReleaseLock(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM draw_locks WHERE lock_key = $1`, key)
	return err
}
