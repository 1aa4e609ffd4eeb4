package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
)

type SingleEliminationBuilder struct{}

func NewSingleEliminationBuilder() DrawBuilder {
	return &SingleEliminationBuilder{}
}

func (b *SingleEliminationBuilder) Name() string {
	return "SingleElimination"
}

// BuildDraw lays participants onto the seeded pairing order, creates round 1
// with byes auto-resolved, then wires each following round off the previous
// one, eagerly carrying bye winners forward. The last round is a single
// final with no next match.
func (b *SingleEliminationBuilder) BuildDraw(ctx context.Context, params DrawParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	rounds := RoundCount(n)
	slots := seededSlots(params.Participants)

	matchNumber := 0
	label := func(round, num int) string {
		return fmt.Sprintf("R%d-M%d", round, num)
	}
	matches, _ := buildKnockoutRounds(params, slots, rounds, models.BracketWinners, label, &matchNumber, time.Now().UTC())

	// The final is its own bracket segment.
	matches[len(matches)-1].BracketType = models.BracketFinal

	return matches, nil
}

// seededSlots maps the seed-ordered participant list onto bracket positions
// via the pairing order. Seed indexes past the participant count turn into
// bye markers, which lands every bye against a top seed.
func seededSlots(participants []string) []models.Slot {
	n := len(participants)
	size := BracketSize(n)
	order := SeededPairingOrder(size)

	slots := make([]models.Slot, size)
	for pos, seedIdx := range order {
		if seedIdx < n {
			slots[pos] = models.ParticipantSlot(participants[seedIdx])
		} else {
			slots[pos] = models.ByeSlot()
		}
	}
	return slots
}

// buildKnockoutRounds creates a full elimination tree over the given round-1
// slots. Returns all matches in round order plus the round-1 matches for
// callers that need to wire loser linkage.
func buildKnockoutRounds(
	params DrawParams,
	slots []models.Slot,
	rounds int,
	bracketType models.BracketType,
	label func(round, num int) string,
	matchNumber *int,
	now time.Time,
) ([]*models.Match, []*models.Match) {
	matches := make([]*models.Match, 0, len(slots)-1)

	prev := make([]*models.Match, 0, len(slots)/2)
	for i := 0; i+1 < len(slots); i += 2 {
		*matchNumber++
		m := &models.Match{
			ID:            uuid.NewString(),
			CompetitionID: params.CompetitionID,
			RoundNumber:   1 + params.RoundOffset,
			MatchNumber:   *matchNumber,
			Slot1:         slots[i],
			Slot2:         slots[i+1],
			Status:        models.MatchStatusPending,
			BracketType:   bracketType,
			BracketLabel:  label(1+params.RoundOffset, *matchNumber),
			CreatedAt:     now,
		}
		resolveBye(m)
		matches = append(matches, m)
		prev = append(prev, m)
	}
	firstRound := prev

	for r := 2; r <= rounds; r++ {
		cur := make([]*models.Match, 0, len(prev)/2)
		for i := 0; i+1 < len(prev); i += 2 {
			*matchNumber++
			m := &models.Match{
				ID:            uuid.NewString(),
				CompetitionID: params.CompetitionID,
				RoundNumber:   r + params.RoundOffset,
				MatchNumber:   *matchNumber,
				Status:        models.MatchStatusPending,
				BracketType:   bracketType,
				BracketLabel:  label(r+params.RoundOffset, *matchNumber),
				CreatedAt:     now,
			}

			left, right := prev[i], prev[i+1]
			left.NextMatchID = &m.ID
			right.NextMatchID = &m.ID
			// A bye winner is already known, push it into the new round.
			if left.WinnerID != nil {
				m.Slot1 = models.ParticipantSlot(*left.WinnerID)
			}
			if right.WinnerID != nil {
				m.Slot2 = models.ParticipantSlot(*right.WinnerID)
			}

			matches = append(matches, m)
			cur = append(cur, m)
		}
		prev = cur
	}

	return matches, firstRound
}

// resolveBye applies the creation-time invariant: a match with exactly one
// concrete slot and one bye slot completes immediately with the concrete
// participant as winner.
func resolveBye(m *models.Match) {
	switch {
	case m.Slot1.Filled() && m.Slot2.Bye:
		m.WinnerID = m.Slot1.ParticipantID
		m.Status = models.MatchStatusCompleted
	case m.Slot2.Filled() && m.Slot1.Bye:
		m.WinnerID = m.Slot2.ParticipantID
		m.Status = models.MatchStatusCompleted
	}
}
