package engine

import (
	"context"
	"testing"

	"github.com/rallydesk/rallydesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedMatch(p1, p2, winner string, sets ...models.SetScore) *models.Match {
	return &models.Match{
		ID:            winner + p1 + p2,
		CompetitionID: "comp",
		RoundNumber:   1,
		Slot1:         models.ParticipantSlot(p1),
		Slot2:         models.ParticipantSlot(p2),
		WinnerID:      &winner,
		Status:        models.MatchStatusCompleted,
		Scores:        sets,
		BracketType:   models.BracketGroup,
	}
}

func TestStandingsThreeWayCycle(t *testing.T) {
	// A beats B, B beats C, C beats A. Everyone finishes 1-1; point
	// differential alone decides the order.
	matches := []*models.Match{
		completedMatch("A", "B", "A", models.SetScore{SetNumber: 1, Score1: 11, Score2: 2}),
		completedMatch("B", "C", "B", models.SetScore{SetNumber: 1, Score1: 11, Score2: 9}),
		completedMatch("C", "A", "C", models.SetScore{SetNumber: 1, Score1: 11, Score2: 9}),
	}

	table := CalculateStandings(matches, nil)
	require.Len(t, table, 3)

	for _, row := range table {
		assert.Equal(t, 2, row.Played, row.ParticipantID)
		assert.Equal(t, 1, row.Wins, row.ParticipantID)
		assert.Equal(t, 1, row.Losses, row.ParticipantID)
	}

	// Diffs: A = (11-2)+(9-11) = +7, B = (2-11)+(11-9) = -7, C = (9-11)+(11-9) = 0.
	assert.Equal(t, "A", table[0].ParticipantID)
	assert.Equal(t, "C", table[1].ParticipantID)
	assert.Equal(t, "B", table[2].ParticipantID)
	assert.Equal(t, []int{1, 2, 3}, []int{table[0].Rank, table[1].Rank, table[2].Rank})

	// Recomputation on the same input is byte-for-byte stable.
	assert.Equal(t, table, CalculateStandings(matches, nil))
}

func TestStandingsDeterministicTieBreak(t *testing.T) {
	// Two participants with identical records: order falls back to the id.
	matches := []*models.Match{
		completedMatch("zed", "mat", "zed", models.SetScore{SetNumber: 1, Score1: 11, Score2: 5}),
		completedMatch("amy", "mat", "amy", models.SetScore{SetNumber: 1, Score1: 11, Score2: 5}),
	}
	table := CalculateStandings(matches, nil)
	require.Len(t, table, 3)
	assert.Equal(t, "amy", table[0].ParticipantID)
	assert.Equal(t, "zed", table[1].ParticipantID)
	assert.Equal(t, "mat", table[2].ParticipantID)
}

func TestStandingsSetAndPointAccumulation(t *testing.T) {
	matches := []*models.Match{
		completedMatch("A", "B", "A",
			models.SetScore{SetNumber: 1, Score1: 11, Score2: 7},
			models.SetScore{SetNumber: 2, Score1: 8, Score2: 11},
			models.SetScore{SetNumber: 3, Score1: 11, Score2: 3},
		),
	}
	table := CalculateStandings(matches, nil)
	require.Len(t, table, 2)

	a, b := table[0], table[1]
	assert.Equal(t, "A", a.ParticipantID)
	assert.Equal(t, 2, a.SetsFor)
	assert.Equal(t, 1, a.SetsAgainst)
	assert.Equal(t, 30, a.PointsFor)
	assert.Equal(t, 21, a.PointsAgainst)
	assert.Equal(t, 1, b.SetsFor)
	assert.Equal(t, 2, b.SetsAgainst)
}

func TestStandingsSkipsByesAndUnfinished(t *testing.T) {
	bye := &models.Match{
		ID:       "bye",
		Slot1:    models.ParticipantSlot("A"),
		Slot2:    models.ByeSlot(),
		WinnerID: strPtr("A"),
		Status:   models.MatchStatusCompleted,
	}
	pending := &models.Match{
		ID:    "pending",
		Slot1: models.ParticipantSlot("A"),
		Slot2: models.ParticipantSlot("B"),
	}
	table := CalculateStandings([]*models.Match{bye, pending}, nil)
	assert.Empty(t, table)
}

func TestStandingsGroupFilter(t *testing.T) {
	g1, g2 := 1, 2
	m1 := completedMatch("A", "B", "A", models.SetScore{SetNumber: 1, Score1: 11, Score2: 5})
	m1.GroupNumber = &g1
	m2 := completedMatch("C", "D", "C", models.SetScore{SetNumber: 1, Score1: 11, Score2: 5})
	m2.GroupNumber = &g2

	table := CalculateStandings([]*models.Match{m1, m2}, &g1)
	require.Len(t, table, 2)
	assert.Equal(t, "A", table[0].ParticipantID)
	assert.Equal(t, "B", table[1].ParticipantID)
	for _, row := range table {
		require.NotNil(t, row.GroupNumber)
		assert.Equal(t, 1, *row.GroupNumber)
	}
}

func TestQualifierSelection(t *testing.T) {
	// 9 participants, 3 groups via snake draft, play out every group with
	// the lower participant number always winning 11-0.
	matches, err := NewGroupsKnockoutBuilder().BuildDraw(context.Background(), DrawParams{
		CompetitionID: "comp",
		Participants:  participantIDs(9),
		NumGroups:     3,
	})
	require.NoError(t, err)

	graph := NewMatchGraph(matches)
	eng := NewProgressionEngine(graph)
	for _, m := range matches {
		winner := *m.Slot1.ParticipantID
		if less(*m.Slot2.ParticipantID, winner) {
			winner = *m.Slot2.ParticipantID
		}
		_, err := eng.RecordResult(m.ID, winner, []models.SetScore{{SetNumber: 1, Score1: 11, Score2: 0}})
		require.NoError(t, err)
	}

	qualifiers := SelectQualifiers(graph.Completed(nil), 3, 2)
	require.Len(t, qualifiers, 6)
	// Groups are [p1 p6 p7], [p2 p5 p8], [p3 p4 p9]; the two lowest numbers
	// of each group advance, concatenated in group order.
	assert.Equal(t, []string{"p1", "p6", "p2", "p5", "p3", "p4"}, qualifiers)
}

func strPtr(s string) *string { return &s }

// less compares participant ids of the form p<N> numerically.
func less(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
