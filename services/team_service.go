package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

type CreateTeamInput struct {
	TournamentID string   `json:"tournament_id"`
	Name         string   `json:"name"`
	Sport        string   `json:"sport"`
	PlayerIDs    []string `json:"player_ids"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	Get(ctx context.Context, id string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string, sport *string) ([]*models.Team, error)
	Delete(ctx context.Context, id string) error
}

type teamService struct {
	db         *sql.DB
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
}

func NewTeamService(db *sql.DB, teamRepo repositories.TeamRepository, playerRepo repositories.PlayerRepository) TeamService {
	return &teamService{db: db, teamRepo: teamRepo, playerRepo: playerRepo}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" || input.Sport == "" || input.TournamentID == "" {
		return nil, ErrValidationFailed
	}
	if len(input.PlayerIDs) == 0 {
		return nil, ErrTeamRosterRequired
	}
	for _, playerID := range input.PlayerIDs {
		if _, err := s.playerRepo.GetByID(ctx, s.db, playerID); err != nil {
			return nil, mapRepositoryError(err)
		}
	}

	team := &models.Team{
		ID:           uuid.NewString(),
		TournamentID: input.TournamentID,
		Name:         input.Name,
		Sport:        input.Sport,
		PlayerIDs:    input.PlayerIDs,
		CreatedAt:    time.Now().UTC(),
	}
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.teamRepo.Create(ctx, tx, team)
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return team, nil
}

func (s *teamService) Get(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID string, sport *string) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, s.db, tournamentID, sport)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return teams, nil
}

func (s *teamService) Delete(ctx context.Context, id string) error {
	return mapRepositoryError(runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.teamRepo.Delete(ctx, tx, id)
	}))
}
