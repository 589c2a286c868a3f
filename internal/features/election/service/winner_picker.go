package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"

	"election-tool-backend/internal/features/election/models"
)

// ticketPicker selects winners weighted by ticket count, without
// replacement: a voter holding more tickets is more likely to win, but can
// only win once.
type ticketPicker struct{}

// NewTicketPicker returns the default in-process WinnerPicker.
func NewTicketPicker() WinnerPicker {
	return ticketPicker{}
}

func (ticketPicker) Pick(tickets map[int64]int64, winnerCount int, breakdown *PrizeBreakdown) ([]models.DrawWinner, error) {
	// Deterministic iteration order before shuffling, so the only source
	// of randomness is the draw itself.
	pool := make([]int64, 0)
	userIDs := make([]int64, 0, len(tickets))
	for userID := range tickets {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	for _, userID := range userIDs {
		for n := int64(0); n < tickets[userID]; n++ {
			pool = append(pool, userID)
		}
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("no tickets to draw from")
	}

	if err := secureShuffle(pool); err != nil {
		return nil, err
	}

	winners := make([]models.DrawWinner, 0, winnerCount)
	seen := make(map[int64]struct{}, winnerCount)
	for _, userID := range pool {
		if len(winners) == winnerCount {
			break
		}
		if _, taken := seen[userID]; taken {
			continue
		}
		seen[userID] = struct{}{}

		winner := models.DrawWinner{UserID: userID, Rank: len(winners) + 1}
		if payout, ok := breakdown.PayoutForRank(winner.Rank); ok {
			winner.Amount = payout.Amount
			winner.Prize = payout.Prize
		}
		winners = append(winners, winner)
	}

	return winners, nil
}

// secureShuffle performs a cryptographically secure Fisher-Yates shuffle.
func secureShuffle(slice []int64) error {
	for i := len(slice) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to generate random number: %w", err)
		}
		j := int(jBig.Int64())
		slice[i], slice[j] = slice[j], slice[i]
	}
	return nil
}
