package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReceiptCode(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		code, err := NewReceiptCode()
		require.NoError(t, err)

		require.Len(t, code, 12)
		assert.True(t, strings.HasPrefix(code, "VR-"))
		assert.Equal(t, byte('-'), code[7])

		for _, ch := range code[3:7] + code[8:] {
			assert.Contains(t, receiptAlphabet, string(ch))
		}

		seen[code] = struct{}{}
	}

	// 31^8 possible codes; 100 draws colliding would mean a broken source.
	assert.Len(t, seen, 100)
}
