package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
)

type RoundRobinBuilder struct{}

func NewRoundRobinBuilder() DrawBuilder {
	return &RoundRobinBuilder{}
}

func (b *RoundRobinBuilder) Name() string {
	return "RoundRobin"
}

// BuildDraw creates one match per unordered pair, n*(n-1)/2 in total.
// Round numbers carry no scheduling meaning in a round robin, so every
// match sits in round 1; display bucketing is a presentation concern.
func (b *RoundRobinBuilder) BuildDraw(ctx context.Context, params DrawParams) ([]*models.Match, error) {
	participants := params.Participants
	n := len(participants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	group := 1
	matches := make([]*models.Match, 0, n*(n-1)/2)
	matchNumber := 0
	now := time.Now().UTC()

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matchNumber++
			matches = append(matches, &models.Match{
				ID:            uuid.NewString(),
				CompetitionID: params.CompetitionID,
				RoundNumber:   1 + params.RoundOffset,
				MatchNumber:   matchNumber,
				GroupNumber:   &group,
				Slot1:         models.ParticipantSlot(participants[i]),
				Slot2:         models.ParticipantSlot(participants[j]),
				Status:        models.MatchStatusPending,
				BracketType:   models.BracketGroup,
				BracketLabel:  fmt.Sprintf("RR-M%d", matchNumber),
				CreatedAt:     now,
			})
		}
	}

	return matches, nil
}
