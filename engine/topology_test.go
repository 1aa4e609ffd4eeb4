package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededPairingOrder(t *testing.T) {
	tests := []struct {
		size int
		want []int
	}{
		{1, []int{0}},
		{2, []int{0, 1}},
		{4, []int{0, 3, 1, 2}},
		{8, []int{0, 7, 3, 4, 1, 6, 2, 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeededPairingOrder(tt.size), "size %d", tt.size)
	}
}

func TestSeededPairingOrderClassicEightPairs(t *testing.T) {
	// In 1-based seed numbers the round-1 pairs must read
	// (1,8),(4,5),(2,7),(3,6) in bracket order.
	order := SeededPairingOrder(8)
	var pairs [][2]int
	for i := 0; i < len(order); i += 2 {
		pairs = append(pairs, [2]int{order[i] + 1, order[i+1] + 1})
	}
	assert.Equal(t, [][2]int{{1, 8}, {4, 5}, {2, 7}, {3, 6}}, pairs)
}

func TestSeededPairingOrderIsPermutation(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32, 64} {
		order := SeededPairingOrder(size)
		seen := make(map[int]bool, size)
		for _, v := range order {
			seen[v] = true
		}
		assert.Len(t, seen, size, "size %d", size)
	}
}

func TestRoundCount(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {16, 4}, {17, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundCount(tt.n), "n=%d", tt.n)
	}
}

func TestBracketSizeAndByes(t *testing.T) {
	assert.Equal(t, 8, BracketSize(5))
	assert.Equal(t, 3, ByesNeeded(5))
	assert.Equal(t, 16, BracketSize(9))
	assert.Equal(t, 0, ByesNeeded(8))
	assert.Equal(t, 2, BracketSize(2))
}
