package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
)

type GroupsKnockoutBuilder struct{}

func NewGroupsKnockoutBuilder() DrawBuilder {
	return &GroupsKnockoutBuilder{}
}

func (b *GroupsKnockoutBuilder) Name() string {
	return "GroupsKnockout"
}

// BuildDraw generates the group stage only: participants are dealt into
// NumGroups groups by snake draft and each group plays a round robin. The
// knockout stage is generated later, from qualifiers, by a second
// single-elimination build with a round offset.
func (b *GroupsKnockoutBuilder) BuildDraw(ctx context.Context, params DrawParams) ([]*models.Match, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	numGroups := params.NumGroups
	if numGroups < 1 {
		numGroups = 1
	}
	if numGroups > n {
		numGroups = n
	}

	groups := SnakeDraft(params.Participants, numGroups)

	matches := make([]*models.Match, 0, n*(n-1)/2)
	matchNumber := 0
	now := time.Now().UTC()

	for g, members := range groups {
		groupNumber := g + 1
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				matchNumber++
				gn := groupNumber
				matches = append(matches, &models.Match{
					ID:            uuid.NewString(),
					CompetitionID: params.CompetitionID,
					RoundNumber:   1 + params.RoundOffset,
					MatchNumber:   matchNumber,
					GroupNumber:   &gn,
					Slot1:         models.ParticipantSlot(members[i]),
					Slot2:         models.ParticipantSlot(members[j]),
					Status:        models.MatchStatusPending,
					BracketType:   models.BracketGroup,
					BracketLabel:  fmt.Sprintf("G%d-M%d", groupNumber, matchNumber),
					CreatedAt:     now,
				})
			}
		}
	}

	return matches, nil
}

// SnakeDraft deals a seed-ordered list into numGroups groups, reversing
// fill direction each time an end is reached (1,2,3,3,2,1,...), so
// aggregate seed strength stays balanced across groups.
func SnakeDraft(seeded []string, numGroups int) [][]string {
	groups := make([][]string, numGroups)
	g, dir := 0, 1
	for _, id := range seeded {
		groups[g] = append(groups[g], id)
		if g+dir < 0 || g+dir >= numGroups {
			dir = -dir
		} else {
			g += dir
		}
	}
	return groups
}
