package engine

import (
	"context"
	"testing"

	"github.com/rallydesk/rallydesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, n int) (*MatchGraph, []*models.Match) {
	t.Helper()
	matches, err := NewSingleEliminationBuilder().BuildDraw(context.Background(), DrawParams{
		CompetitionID: "comp",
		Participants:  participantIDs(n),
	})
	require.NoError(t, err)
	return NewMatchGraph(matches), matches
}

func TestWinnerSide(t *testing.T) {
	side, err := WinnerSide([]models.SetScore{
		{SetNumber: 1, Score1: 11, Score2: 7},
		{SetNumber: 2, Score1: 9, Score2: 11},
		{SetNumber: 3, Score1: 11, Score2: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, side)

	side, err = WinnerSide([]models.SetScore{{SetNumber: 1, Score1: 3, Score2: 11}})
	require.NoError(t, err)
	assert.Equal(t, 2, side)
}

func TestWinnerSideIndeterminate(t *testing.T) {
	// One set each, no decider recorded yet: must be rejected, not guessed.
	_, err := WinnerSide([]models.SetScore{
		{SetNumber: 1, Score1: 11, Score2: 7},
		{SetNumber: 2, Score1: 8, Score2: 11},
	})
	assert.ErrorIs(t, err, ErrIndeterminateResult)

	_, err = WinnerSide(nil)
	assert.ErrorIs(t, err, ErrIndeterminateResult)

	// A drawn set counts for neither side.
	_, err = WinnerSide([]models.SetScore{{SetNumber: 1, Score1: 10, Score2: 10}})
	assert.ErrorIs(t, err, ErrIndeterminateResult)
}

func TestRecordResultAdvancesWinner(t *testing.T) {
	graph, matches := buildGraph(t, 4)
	eng := NewProgressionEngine(graph)

	semi1, semi2, final := matches[0], matches[1], matches[2]

	res, err := eng.RecordResult(semi1.ID, "p1", []models.SetScore{{SetNumber: 1, Score1: 11, Score2: 4}})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, res.Match.Status)
	require.NotNil(t, res.Next)
	assert.Equal(t, final.ID, res.Next.ID)
	// Slot 1 is filled before slot 2.
	assert.True(t, final.Slot1.Is("p1"))
	assert.True(t, final.Slot2.Open())

	_, err = eng.RecordResult(semi2.ID, "p2", []models.SetScore{{SetNumber: 1, Score1: 11, Score2: 9}})
	require.NoError(t, err)
	assert.True(t, final.Slot2.Is("p2"))
}

func TestRecordResultAppendOnly(t *testing.T) {
	graph, matches := buildGraph(t, 4)
	eng := NewProgressionEngine(graph)
	m := matches[0]

	_, err := eng.RecordResult(m.ID, "p1", nil)
	require.NoError(t, err)

	// Second completion fails regardless of which winner is named, and the
	// stored winner does not move.
	_, err = eng.RecordResult(m.ID, "p1", nil)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	_, err = eng.RecordResult(m.ID, "p4", nil)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Equal(t, "p1", *m.WinnerID)
}

func TestRecordResultValidation(t *testing.T) {
	graph, matches := buildGraph(t, 4)
	eng := NewProgressionEngine(graph)

	_, err := eng.RecordResult("nope", "p1", nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = eng.RecordResult(matches[0].ID, "p3", nil)
	assert.ErrorIs(t, err, ErrInvalidWinner)

	matches[1].Status = models.MatchStatusCancelled
	_, err = eng.RecordResult(matches[1].ID, "p2", nil)
	assert.ErrorIs(t, err, ErrMatchCancelled)
}

func TestRecordResultInconsistentProgression(t *testing.T) {
	graph, matches := buildGraph(t, 4)
	eng := NewProgressionEngine(graph)
	final := matches[2]

	// Someone (or a racing writer) already filled both final slots.
	final.Slot1 = models.ParticipantSlot("p1")
	final.Slot2 = models.ParticipantSlot("p9")

	_, err := eng.RecordResult(matches[0].ID, "p1", nil)
	assert.ErrorIs(t, err, ErrInconsistentProgression)
	// The rejected call must not have completed the source match.
	assert.Equal(t, models.MatchStatusPending, matches[0].Status)
	assert.Nil(t, matches[0].WinnerID)
}

func TestManualAdvanceDoesNotPropagate(t *testing.T) {
	graph, matches := buildGraph(t, 4)
	eng := NewProgressionEngine(graph)
	final := matches[2]

	m, err := eng.ManualAdvance(matches[0].ID, "p4")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, m.Status)
	assert.Equal(t, "p4", *m.WinnerID)
	// Only RecordResult propagates.
	assert.True(t, final.Slot1.Open())
	assert.True(t, final.Slot2.Open())

	_, err = eng.ManualAdvance(matches[0].ID, "p4")
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestSwapParticipants(t *testing.T) {
	graph, matches := buildGraph(t, 4)
	eng := NewProgressionEngine(graph)

	require.NoError(t, eng.SwapParticipants(matches[0].ID, matches[1].ID, 1))
	assert.True(t, matches[0].Slot1.Is("p2"))
	assert.True(t, matches[1].Slot1.Is("p1"))

	assert.ErrorIs(t, eng.SwapParticipants(matches[0].ID, matches[1].ID, 3), ErrInvalidSlot)

	_, err := eng.ManualAdvance(matches[0].ID, "p2")
	require.NoError(t, err)
	assert.ErrorIs(t, eng.SwapParticipants(matches[0].ID, matches[1].ID, 1), ErrAlreadyCompleted)
}

func TestMoveParticipant(t *testing.T) {
	graph, matches := buildGraph(t, 4)
	eng := NewProgressionEngine(graph)
	final := matches[2]

	require.NoError(t, eng.MoveParticipant(matches[0].ID, 2, final.ID))
	assert.True(t, final.Slot1.Is("p4"))
	assert.True(t, matches[0].Slot2.Open())

	// Moving out of an open slot is meaningless.
	assert.ErrorIs(t, eng.MoveParticipant(matches[0].ID, 2, final.ID), ErrInvalidSlot)

	// No room left once both target slots are taken.
	require.NoError(t, eng.MoveParticipant(matches[1].ID, 1, final.ID))
	assert.ErrorIs(t, eng.MoveParticipant(matches[1].ID, 2, final.ID), ErrInconsistentProgression)
}

func TestMatchGraphAccessors(t *testing.T) {
	graph, matches := buildGraph(t, 5)
	assert.Equal(t, len(matches), graph.Len())
	assert.Equal(t, matches, graph.Matches())

	_, ok := graph.Get("missing")
	assert.False(t, ok)

	// The three byes are completed at creation.
	assert.Len(t, graph.Completed(nil), 3)
}
