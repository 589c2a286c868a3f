package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"election-tool-backend/internal/features/election/models"
	"election-tool-backend/internal/features/election/repository"
	"election-tool-backend/internal/platform/payment"
)

type fakeElectionRepo struct {
	mu        sync.Mutex
	elections map[string]*models.Election
}

func newFakeElectionRepo() *fakeElectionRepo {
	return &fakeElectionRepo{elections: make(map[string]*models.Election)}
}

func (r *fakeElectionRepo) Create(_ context.Context, e *models.Election) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.elections[e.ID] = &cp
	return nil
}

func (r *fakeElectionRepo) GetByID(_ context.Context, id string) (*models.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.elections[id]
	if !ok {
		return nil, repository.ErrElectionNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeElectionRepo) Update(_ context.Context, e *models.Election) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.elections[e.ID]; !ok {
		return repository.ErrElectionNotFound
	}
	cp := *e
	r.elections[e.ID] = &cp
	return nil
}

func (r *fakeElectionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.elections, id)
	return nil
}

func (r *fakeElectionRepo) GetByCreator(_ context.Context, creatorID int64) ([]*models.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Election
	for _, e := range r.elections {
		if e.CreatorID == creatorID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeElectionRepo) UpdateStatus(_ context.Context, id string, status models.ElectionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.elections[id]
	if !ok {
		return repository.ErrElectionNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeElectionRepo) GetLotteryElectionIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, e := range r.elections {
		if e.HasLottery() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[string]*models.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[string]*models.Vote)}
}

func voteKey(electionID string, userID int64) string {
	return fmt.Sprintf("%s:%d", electionID, userID)
}

func (r *fakeVoteRepo) InsertIfAbsent(_ context.Context, vote *models.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey(vote.ElectionID, vote.UserID)
	if _, exists := r.votes[key]; exists {
		return repository.ErrVoteConflict
	}
	cp := *vote
	r.votes[key] = &cp
	return nil
}

func (r *fakeVoteRepo) GetByUser(_ context.Context, electionID string, userID int64) (*models.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.votes[voteKey(electionID, userID)]
	if !ok {
		return nil, repository.ErrVoteNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVoteRepo) HasVoted(_ context.Context, electionID string, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.votes[voteKey(electionID, userID)]
	return ok, nil
}

func (r *fakeVoteRepo) CountByElection(_ context.Context, electionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.votes {
		if v.ElectionID == electionID {
			n++
		}
	}
	return n, nil
}

type fakeProgressRepo struct {
	mu       sync.Mutex
	progress map[string]float64
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{progress: make(map[string]float64)}
}

func (r *fakeProgressRepo) Get(_ context.Context, electionID string, userID int64) (*models.VideoProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &models.VideoProgress{
		ElectionID:      electionID,
		UserID:          userID,
		WatchPercentage: r.progress[voteKey(electionID, userID)],
	}, nil
}

func (r *fakeProgressRepo) Upsert(_ context.Context, p *models.VideoProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey(p.ElectionID, p.UserID)
	if p.WatchPercentage > r.progress[key] {
		r.progress[key] = p.WatchPercentage
	}
	return nil
}

type fakeDrawRepo struct {
	mu      sync.Mutex
	draws   map[string]*models.LotteryDraw
	tickets map[string]map[int64]int64
	locks   map[string]bool

	failAddTickets bool
}

func newFakeDrawRepo() *fakeDrawRepo {
	return &fakeDrawRepo{
		draws:   make(map[string]*models.LotteryDraw),
		tickets: make(map[string]map[int64]int64),
		locks:   make(map[string]bool),
	}
}

func (r *fakeDrawRepo) GetOrCreate(_ context.Context, electionID string) (*models.LotteryDraw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.draws[electionID]; ok {
		cp := *d
		return &cp, nil
	}
	d := &models.LotteryDraw{
		ElectionID: electionID,
		DrawStatus: models.DrawStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	r.draws[electionID] = d
	cp := *d
	return &cp, nil
}

func (r *fakeDrawRepo) Get(_ context.Context, electionID string) (*models.LotteryDraw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.draws[electionID]
	if !ok {
		return nil, repository.ErrDrawNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDrawRepo) CompleteIfNotDrawn(_ context.Context, electionID string, winners []models.DrawWinner, participantCount int64, drawnAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.draws[electionID]
	if !ok {
		return false, repository.ErrDrawNotFound
	}
	if d.HasBeenDrawn {
		return false, nil
	}
	d.HasBeenDrawn = true
	d.DrawStatus = models.DrawStatusCompleted
	d.Winners = winners
	d.ParticipantCount = participantCount
	d.DrawnAt = &drawnAt
	d.UpdatedAt = drawnAt
	return true, nil
}

func (r *fakeDrawRepo) MarkFailedIfPending(_ context.Context, electionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.draws[electionID]
	if !ok {
		return false, repository.ErrDrawNotFound
	}
	if d.DrawStatus != models.DrawStatusPending {
		return false, nil
	}
	d.DrawStatus = models.DrawStatusFailed
	return true, nil
}

func (r *fakeDrawRepo) AddTickets(_ context.Context, electionID string, userID int64, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAddTickets {
		return fmt.Errorf("ticket store unavailable")
	}
	if r.tickets[electionID] == nil {
		r.tickets[electionID] = make(map[int64]int64)
	}
	r.tickets[electionID][userID] += count
	return nil
}

func (r *fakeDrawRepo) GetTickets(_ context.Context, electionID string) (map[int64]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]int64, len(r.tickets[electionID]))
	for userID, n := range r.tickets[electionID] {
		out[userID] = n
	}
	return out, nil
}

func (r *fakeDrawRepo) AcquireLock(_ context.Context, key string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks[key] {
		return repository.ErrAlreadyLocked
	}
	r.locks[key] = true
	return nil
}

func (r *fakeDrawRepo) ReleaseLock(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, key)
	return nil
}

type fakeGateway struct {
	mu       sync.Mutex
	statuses map[string]payment.Status
	intents  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: make(map[string]payment.Status)}
}

func (g *fakeGateway) setStatus(electionID string, userID int64, status payment.Status) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[voteKey(electionID, userID)] = status
}

func (g *fakeGateway) GetStatus(_ context.Context, electionID string, userID int64) (payment.Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.statuses[voteKey(electionID, userID)]; ok {
		return status, nil
	}
	return payment.StatusPending, nil
}

func (g *fakeGateway) CreateIntent(_ context.Context, electionID string, userID int64, amount float64, currency string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents++
	return &payment.Intent{
		ID:       fmt.Sprintf("pi_%d", g.intents),
		Amount:   amount,
		Currency: currency,
	}, nil
}
