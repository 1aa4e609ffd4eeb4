package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/rallydesk/rallydesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participantIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i+1)
	}
	return ids
}

func TestForFormat(t *testing.T) {
	for _, f := range []models.CompetitionFormat{
		models.FormatRoundRobin,
		models.FormatSingleElimination,
		models.FormatDoubleElimination,
		models.FormatGroupsKnockout,
	} {
		b, err := ForFormat(f)
		require.NoError(t, err, "%s", f)
		require.NotNil(t, b)
	}

	_, err := ForFormat("swiss")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRoundRobinMatchCountAndPairs(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8} {
		matches, err := NewRoundRobinBuilder().BuildDraw(context.Background(), DrawParams{
			CompetitionID: "comp",
			Participants:  participantIDs(n),
		})
		require.NoError(t, err)
		require.Len(t, matches, n*(n-1)/2, "n=%d", n)

		pairs := make(map[string]bool)
		for _, m := range matches {
			require.True(t, m.Slot1.Filled())
			require.True(t, m.Slot2.Filled())
			a, b := *m.Slot1.ParticipantID, *m.Slot2.ParticipantID
			if a > b {
				a, b = b, a
			}
			key := a + "|" + b
			assert.False(t, pairs[key], "pair %s appears twice", key)
			pairs[key] = true

			assert.Equal(t, 1, m.RoundNumber)
			assert.Nil(t, m.NextMatchID)
			assert.Equal(t, models.BracketGroup, m.BracketType)
		}
	}
}

func TestRoundRobinRejectsTooFew(t *testing.T) {
	_, err := NewRoundRobinBuilder().BuildDraw(context.Background(), DrawParams{Participants: []string{"only"}})
	assert.ErrorIs(t, err, ErrInsufficientParticipants)
}

func TestSingleEliminationFullDraw(t *testing.T) {
	matches, err := NewSingleEliminationBuilder().BuildDraw(context.Background(), DrawParams{
		CompetitionID: "comp",
		Participants:  participantIDs(8),
	})
	require.NoError(t, err)
	require.Len(t, matches, 7)

	rounds := make(map[int]int)
	for _, m := range matches {
		rounds[m.RoundNumber]++
	}
	assert.Equal(t, map[int]int{1: 4, 2: 2, 3: 1}, rounds)

	// Classic seeding: p1 vs p8, p4 vs p5, p2 vs p7, p3 vs p6.
	assert.Equal(t, "p1", *matches[0].Slot1.ParticipantID)
	assert.Equal(t, "p8", *matches[0].Slot2.ParticipantID)
	assert.Equal(t, "p4", *matches[1].Slot1.ParticipantID)
	assert.Equal(t, "p5", *matches[1].Slot2.ParticipantID)
	assert.Equal(t, "p2", *matches[2].Slot1.ParticipantID)
	assert.Equal(t, "p7", *matches[2].Slot2.ParticipantID)
	assert.Equal(t, "p3", *matches[3].Slot1.ParticipantID)
	assert.Equal(t, "p6", *matches[3].Slot2.ParticipantID)

	// Every non-final match feeds exactly one later match; the final feeds none.
	final := matches[len(matches)-1]
	assert.Nil(t, final.NextMatchID)
	assert.Equal(t, models.BracketFinal, final.BracketType)
	for _, m := range matches[:len(matches)-1] {
		require.NotNil(t, m.NextMatchID, "match %s", m.BracketLabel)
	}
}

func TestSingleEliminationByesAutoResolve(t *testing.T) {
	matches, err := NewSingleEliminationBuilder().BuildDraw(context.Background(), DrawParams{
		CompetitionID: "comp",
		Participants:  participantIDs(5),
	})
	require.NoError(t, err)
	// Bracket size 8: 7 matches, 3 of them byes completed at creation.
	require.Len(t, matches, 7)

	byeWinners := make(map[string]bool)
	completed := 0
	for _, m := range matches {
		if m.Status == models.MatchStatusCompleted {
			completed++
			require.NotNil(t, m.WinnerID)
			byeWinners[*m.WinnerID] = true
		}
	}
	assert.Equal(t, 3, completed)
	// Byes land on the top seeds: seeds 1, 2 and 3 walk through round 1.
	assert.Equal(t, map[string]bool{"p1": true, "p2": true, "p3": true}, byeWinners)

	// Bye winners are already propagated into round 2.
	var round2Participants []string
	for _, m := range matches {
		if m.RoundNumber != 2 {
			continue
		}
		if m.Slot1.Filled() {
			round2Participants = append(round2Participants, *m.Slot1.ParticipantID)
		}
		if m.Slot2.Filled() {
			round2Participants = append(round2Participants, *m.Slot2.ParticipantID)
		}
	}
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, round2Participants)
}

func TestSingleEliminationRoundCounts(t *testing.T) {
	for _, tt := range []struct{ n, rounds, matchCount int }{
		{2, 1, 1},
		{3, 2, 3},
		{4, 2, 3},
		{5, 3, 7},
		{16, 4, 15},
	} {
		matches, err := NewSingleEliminationBuilder().BuildDraw(context.Background(), DrawParams{
			CompetitionID: "comp",
			Participants:  participantIDs(tt.n),
		})
		require.NoError(t, err, "n=%d", tt.n)
		assert.Len(t, matches, tt.matchCount, "n=%d", tt.n)

		maxRound := 0
		for _, m := range matches {
			if m.RoundNumber > maxRound {
				maxRound = m.RoundNumber
			}
		}
		assert.Equal(t, tt.rounds, maxRound, "n=%d", tt.n)
	}
}

func TestSingleEliminationRoundOffset(t *testing.T) {
	matches, err := NewSingleEliminationBuilder().BuildDraw(context.Background(), DrawParams{
		CompetitionID: "comp",
		Participants:  participantIDs(4),
		RoundOffset:   100,
	})
	require.NoError(t, err)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.RoundNumber, 101)
	}
}

func TestDoubleEliminationSkeleton(t *testing.T) {
	matches, err := NewDoubleEliminationBuilder().BuildDraw(context.Background(), DrawParams{
		CompetitionID: "comp",
		Participants:  participantIDs(8),
	})
	require.NoError(t, err)

	byType := make(map[models.BracketType]int)
	for _, m := range matches {
		byType[m.BracketType]++
	}
	// Full winners bracket (7 matches), losers skeleton of 4/2=2, one grand final.
	assert.Equal(t, 7, byType[models.BracketWinners])
	assert.Equal(t, 2, byType[models.BracketLosers])
	assert.Equal(t, 1, byType[models.BracketFinal])

	final := matches[len(matches)-1]
	assert.Equal(t, "Grand-Final", final.BracketLabel)
	assert.Equal(t, 4, final.RoundNumber)
	assert.True(t, final.Slot1.Open())
	assert.True(t, final.Slot2.Open())
}

func TestGroupsKnockoutSnakeDraft(t *testing.T) {
	groups := SnakeDraft(participantIDs(9), 3)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"p1", "p6", "p7"}, groups[0])
	assert.Equal(t, []string{"p2", "p5", "p8"}, groups[1])
	assert.Equal(t, []string{"p3", "p4", "p9"}, groups[2])
}

func TestGroupsKnockoutGroupStage(t *testing.T) {
	matches, err := NewGroupsKnockoutBuilder().BuildDraw(context.Background(), DrawParams{
		CompetitionID: "comp",
		Participants:  participantIDs(9),
		NumGroups:     3,
	})
	require.NoError(t, err)
	// 3 groups of 3, each a 3-match round robin.
	require.Len(t, matches, 9)

	perGroup := make(map[int]int)
	for _, m := range matches {
		require.NotNil(t, m.GroupNumber)
		perGroup[*m.GroupNumber]++
		assert.Equal(t, models.BracketGroup, m.BracketType)
		assert.Equal(t, 1, m.RoundNumber)
	}
	assert.Equal(t, map[int]int{1: 3, 2: 3, 3: 3}, perGroup)
}
