package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

type CreateCompetitionInput struct {
	TournamentID    string                   `json:"tournament_id"`
	Name            string                   `json:"name"`
	Sport           string                   `json:"sport"`
	Format          models.CompetitionFormat `json:"format"`
	ParticipantType models.ParticipantType   `json:"participant_type"`
	NumGroups       int                      `json:"num_groups"`
	AdvancePerGroup int                      `json:"advance_per_group"`
	Scoring         models.ScoringRules      `json:"scoring_rules"`
	DivisionID      *string                  `json:"division_id"`
}

type CompetitionService interface {
	Create(ctx context.Context, input CreateCompetitionInput) (*models.Competition, error)
	Get(ctx context.Context, id string) (*models.Competition, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.Competition, error)
	AddParticipant(ctx context.Context, competitionID, participantID string) error
	RemoveParticipant(ctx context.Context, competitionID, participantID string) error
}

type competitionService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	tournamentRepo  repositories.TournamentRepository
}

func NewCompetitionService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	tournamentRepo repositories.TournamentRepository,
) CompetitionService {
	return &competitionService{
		db:              db,
		competitionRepo: competitionRepo,
		tournamentRepo:  tournamentRepo,
	}
}

func (s *competitionService) Create(ctx context.Context, input CreateCompetitionInput) (*models.Competition, error) {
	if input.Name == "" || input.Sport == "" {
		return nil, ErrValidationFailed
	}
	switch input.Format {
	case models.FormatRoundRobin, models.FormatSingleElimination,
		models.FormatDoubleElimination, models.FormatGroupsKnockout:
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrValidationFailed, input.Format)
	}
	if input.Format == models.FormatGroupsKnockout {
		if input.NumGroups < 1 {
			return nil, fmt.Errorf("%w: groups format needs at least one group", ErrValidationFailed)
		}
		if input.AdvancePerGroup < 1 {
			return nil, fmt.Errorf("%w: at least one participant must advance per group", ErrValidationFailed)
		}
	}
	if input.Scoring.SetsToWin < 1 {
		input.Scoring.SetsToWin = 2
	}

	if _, err := s.tournamentRepo.GetByID(ctx, s.db, input.TournamentID); err != nil {
		return nil, mapRepositoryError(err)
	}

	competition := &models.Competition{
		ID:              uuid.NewString(),
		TournamentID:    input.TournamentID,
		Name:            input.Name,
		Sport:           input.Sport,
		Format:          input.Format,
		ParticipantType: input.ParticipantType,
		NumGroups:       input.NumGroups,
		AdvancePerGroup: input.AdvancePerGroup,
		Scoring:         input.Scoring,
		Status:          models.CompetitionDraft,
		DivisionID:      input.DivisionID,
		CreatedAt:       time.Now().UTC(),
	}
	if competition.ParticipantType == "" {
		competition.ParticipantType = models.ParticipantSingles
	}
	if err := s.competitionRepo.Create(ctx, s.db, competition); err != nil {
		return nil, mapRepositoryError(err)
	}
	return competition, nil
}

func (s *competitionService) Get(ctx context.Context, id string) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	ids, err := s.competitionRepo.ListParticipantIDs(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants of competition %s: %w", id, err)
	}
	competition.ParticipantIDs = ids
	return competition, nil
}

func (s *competitionService) ListByTournament(ctx context.Context, tournamentID string) ([]*models.Competition, error) {
	competitions, err := s.competitionRepo.ListByTournament(ctx, s.db, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return competitions, nil
}

// AddParticipant registers a participant. The list is frozen once a draw
// exists; resetting the draw reopens it.
func (s *competitionService) AddParticipant(ctx context.Context, competitionID, participantID string) error {
	competition, err := s.competitionRepo.GetByID(ctx, s.db, competitionID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if competition.Status != models.CompetitionDraft {
		return ErrParticipantsLocked
	}
	return mapRepositoryError(s.competitionRepo.AddParticipant(ctx, s.db, competitionID, participantID))
}

func (s *competitionService) RemoveParticipant(ctx context.Context, competitionID, participantID string) error {
	competition, err := s.competitionRepo.GetByID(ctx, s.db, competitionID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if competition.Status != models.CompetitionDraft {
		return ErrParticipantsLocked
	}
	return mapRepositoryError(s.competitionRepo.RemoveParticipant(ctx, s.db, competitionID, participantID))
}
