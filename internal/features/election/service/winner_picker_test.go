package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketPickerPick(t *testing.T) {
	picker := NewTicketPicker()
	breakdown, err := CalculatePrizes(monetaryLottery())
	require.NoError(t, err)

	t.Run("picks distinct users with rank payouts", func(t *testing.T) {
		tickets := map[int64]int64{101: 3, 102: 1, 103: 5}

		winners, err := picker.Pick(tickets, 2, breakdown)
		require.NoError(t, err)
		require.Len(t, winners, 2)

		assert.NotEqual(t, winners[0].UserID, winners[1].UserID)
		assert.Equal(t, 1, winners[0].Rank)
		assert.InDelta(t, 600, winners[0].Amount, 1e-9)
		assert.Equal(t, 2, winners[1].Rank)
		assert.InDelta(t, 400, winners[1].Amount, 1e-9)
	})

	t.Run("fewer voters than winner slots", func(t *testing.T) {
		winners, err := picker.Pick(map[int64]int64{7: 2}, 3, breakdown)
		require.NoError(t, err)
		require.Len(t, winners, 1)
		assert.Equal(t, int64(7), winners[0].UserID)
		assert.Equal(t, 1, winners[0].Rank)
	})

	t.Run("no tickets is an error", func(t *testing.T) {
		_, err := picker.Pick(map[int64]int64{}, 2, breakdown)
		assert.Error(t, err)
	})

	t.Run("single ticket holder always wins", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			winners, err := picker.Pick(map[int64]int64{55: 1}, 1, breakdown)
			require.NoError(t, err)
			require.Len(t, winners, 1)
			assert.Equal(t, int64(55), winners[0].UserID)
		}
	})

	t.Run("every winner held a ticket", func(t *testing.T) {
		tickets := map[int64]int64{1: 1, 2: 1, 3: 1, 4: 1}
		winners, err := picker.Pick(tickets, 4, breakdown)
		require.NoError(t, err)
		require.Len(t, winners, 4)

		seen := make(map[int64]struct{})
		for _, w := range winners {
			_, held := tickets[w.UserID]
			assert.True(t, held)
			_, dup := seen[w.UserID]
			assert.False(t, dup)
			seen[w.UserID] = struct{}{}
		}
	})

	t.Run("ranks beyond the distribution carry no payout", func(t *testing.T) {
		winners, err := picker.Pick(map[int64]int64{1: 1, 2: 1, 3: 1}, 3, breakdown)
		require.NoError(t, err)
		require.Len(t, winners, 3)
		assert.Zero(t, winners[2].Amount)
		assert.Empty(t, winners[2].Prize)
	})
}
