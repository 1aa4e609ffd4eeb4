package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedOrdererRandomIsDeterministicPerSource(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	first, err := NewSeedOrderer(rand.NewSource(42)).Order(ids, SeedOptions{Policy: SeedRandom})
	require.NoError(t, err)
	second, err := NewSeedOrderer(rand.NewSource(42)).Order(ids, SeedOptions{Policy: SeedRandom})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, ids, first)
	// Input slice is never mutated.
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
}

func TestSeedOrdererRating(t *testing.T) {
	ids := []string{"low", "high", "mid", "unrated", "alsomid"}
	ratings := map[string]float64{"low": 1000, "high": 2200, "mid": 1500, "alsomid": 1500}

	ordered, err := NewSeedOrderer(nil).Order(ids, SeedOptions{Policy: SeedRating, Ratings: ratings})
	require.NoError(t, err)

	// Descending by rating; the two 1500s keep input order; missing rating
	// counts as zero and sorts last.
	assert.Equal(t, []string{"high", "mid", "alsomid", "low", "unrated"}, ordered)
}

func TestSeedOrdererManual(t *testing.T) {
	ids := []string{"a", "b", "c"}

	ordered, err := NewSeedOrderer(nil).Order(ids, SeedOptions{Policy: SeedManual, Manual: []string{"c", "a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ordered)

	_, err = NewSeedOrderer(nil).Order(ids, SeedOptions{Policy: SeedManual, Manual: []string{"c", "a"}})
	assert.ErrorIs(t, err, ErrInvalidSeedOrder)

	_, err = NewSeedOrderer(nil).Order(ids, SeedOptions{Policy: SeedManual, Manual: []string{"c", "a", "x"}})
	assert.ErrorIs(t, err, ErrInvalidSeedOrder)

	// Duplicates are not a permutation even when the length matches.
	_, err = NewSeedOrderer(nil).Order(ids, SeedOptions{Policy: SeedManual, Manual: []string{"a", "a", "b"}})
	assert.ErrorIs(t, err, ErrInvalidSeedOrder)
}

func TestSeedOrdererRejectsTooFewParticipants(t *testing.T) {
	_, err := NewSeedOrderer(nil).Order([]string{"solo"}, SeedOptions{Policy: SeedRandom})
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	_, err = NewSeedOrderer(nil).Order(nil, SeedOptions{Policy: SeedRating})
	assert.ErrorIs(t, err, ErrInsufficientParticipants)
}

func TestSeedOrdererUnknownPolicy(t *testing.T) {
	_, err := NewSeedOrderer(nil).Order([]string{"a", "b"}, SeedOptions{Policy: "swiss"})
	assert.ErrorIs(t, err, ErrUnknownSeedPolicy)
}
