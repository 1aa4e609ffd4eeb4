package engine

import (
	"context"

	"github.com/rallydesk/rallydesk/models"
)

// DrawParams is the input to one draw generation. Participants must
// already be in seed order (see SeedOrderer), index 0 = top seed.
type DrawParams struct {
	CompetitionID string
	Participants  []string
	NumGroups     int
	// RoundOffset shifts every round number, letting a knockout stage
	// generated after a group stage avoid colliding with group rounds.
	RoundOffset int
}

// DrawBuilder is one strategy per competition format. Builders exclusively
// own match creation and initial linkage; they never touch an existing draw.
type DrawBuilder interface {
	BuildDraw(ctx context.Context, params DrawParams) ([]*models.Match, error)
	Name() string
}

// ForFormat selects the builder for a competition format.
func ForFormat(format models.CompetitionFormat) (DrawBuilder, error) {
	switch format {
	case models.FormatRoundRobin:
		return NewRoundRobinBuilder(), nil
	case models.FormatSingleElimination:
		return NewSingleEliminationBuilder(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationBuilder(), nil
	case models.FormatGroupsKnockout:
		return NewGroupsKnockoutBuilder(), nil
	default:
		return nil, ErrUnknownFormat
	}
}
