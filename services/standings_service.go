package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rallydesk/rallydesk/engine"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

type StandingsService interface {
	CompetitionStandings(ctx context.Context, competitionID string, group *int) ([]models.Standing, error)
	Qualifiers(ctx context.Context, competitionID string) ([]string, error)
}

type standingsService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	competitionRepo repositories.CompetitionRepository
}

func NewStandingsService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	competitionRepo repositories.CompetitionRepository,
) StandingsService {
	return &standingsService{
		db:              db,
		matchRepo:       matchRepo,
		competitionRepo: competitionRepo,
	}
}

// CompetitionStandings recomputes the table from completed matches.
// Standings are derived data and never read from storage.
func (s *standingsService) CompetitionStandings(ctx context.Context, competitionID string, group *int) ([]models.Standing, error) {
	if _, err := s.competitionRepo.GetByID(ctx, s.db, competitionID); err != nil {
		return nil, mapRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByCompetition(ctx, s.db, competitionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw of competition %s: %w", competitionID, err)
	}
	return engine.CalculateStandings(matches, group), nil
}

// Qualifiers previews which participants would advance from the group
// stage under the competition's advance-per-group setting.
func (s *standingsService) Qualifiers(ctx context.Context, competitionID string) ([]string, error) {
	competition, err := s.competitionRepo.GetByID(ctx, s.db, competitionID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if competition.Format != models.FormatGroupsKnockout {
		return nil, ErrNotGroupsFormat
	}
	matches, err := s.matchRepo.ListByCompetition(ctx, s.db, competitionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw of competition %s: %w", competitionID, err)
	}
	groupMatches := matches[:0:0]
	for _, m := range matches {
		if m.RoundNumber < knockoutRoundOffset {
			groupMatches = append(groupMatches, m)
		}
	}
	return engine.SelectQualifiers(groupMatches, competition.NumGroups, competition.AdvancePerGroup), nil
}
