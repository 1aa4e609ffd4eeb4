package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
)

type DoubleEliminationBuilder struct{}

func NewDoubleEliminationBuilder() DrawBuilder {
	return &DoubleEliminationBuilder{}
}

func (b *DoubleEliminationBuilder) Name() string {
	return "DoubleElimination"
}

// BuildDraw creates a full winners bracket plus a losers-bracket skeleton
// and a grand final.
//
// Loser routing from the winners bracket into the losers bracket is not
// wired: the losers matches and the grand final start with open slots and
// no incoming LoserNextMatchID edges. Until a routing scheme is agreed,
// losers-side progression has to be driven through the administrative
// overrides.
func (b *DoubleEliminationBuilder) BuildDraw(ctx context.Context, params DrawParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	rounds := RoundCount(n)
	slots := seededSlots(params.Participants)
	now := time.Now().UTC()

	matchNumber := 0
	label := func(round, num int) string {
		return fmt.Sprintf("W-R%d-M%d", round, num)
	}
	matches, firstRound := buildKnockoutRounds(params, slots, rounds, models.BracketWinners, label, &matchNumber, now)

	losersCount := len(firstRound) / 2
	if losersCount < 1 {
		losersCount = 1
	}
	for i := 0; i < losersCount; i++ {
		matchNumber++
		matches = append(matches, &models.Match{
			ID:            uuid.NewString(),
			CompetitionID: params.CompetitionID,
			RoundNumber:   1 + params.RoundOffset,
			MatchNumber:   matchNumber,
			Status:        models.MatchStatusPending,
			BracketType:   models.BracketLosers,
			BracketLabel:  fmt.Sprintf("L-R1-M%d", matchNumber),
			CreatedAt:     now,
		})
	}

	matchNumber++
	matches = append(matches, &models.Match{
		ID:            uuid.NewString(),
		CompetitionID: params.CompetitionID,
		RoundNumber:   rounds + 1 + params.RoundOffset,
		MatchNumber:   matchNumber,
		Status:        models.MatchStatusPending,
		BracketType:   models.BracketFinal,
		BracketLabel:  "Grand-Final",
		CreatedAt:     now,
	})

	return matches, nil
}
