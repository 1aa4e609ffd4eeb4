package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

type CreatePlayerInput struct {
	TournamentID string   `json:"tournament_id"`
	Name         string   `json:"name"`
	Email        *string  `json:"email"`
	Sport        string   `json:"sport"`
	Rating       *float64 `json:"rating"`
	DivisionID   *string  `json:"division_id"`
}

type UpdatePlayerInput struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Rating     *float64 `json:"rating"`
	DivisionID *string  `json:"division_id"`
}

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	Get(ctx context.Context, id string) (*models.Player, error)
	ListByTournament(ctx context.Context, tournamentID string, sport, divisionID *string) ([]*models.Player, error)
	Update(ctx context.Context, id string, input UpdatePlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id string) error
}

type playerService struct {
	db         *sql.DB
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(db *sql.DB, playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{db: db, playerRepo: playerRepo}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	if input.Name == "" || input.Sport == "" || input.TournamentID == "" {
		return nil, ErrValidationFailed
	}
	player := &models.Player{
		ID:           uuid.NewString(),
		TournamentID: input.TournamentID,
		Name:         input.Name,
		Email:        input.Email,
		Sport:        input.Sport,
		Rating:       input.Rating,
		DivisionID:   input.DivisionID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.playerRepo.Create(ctx, s.db, player); err != nil {
		return nil, mapRepositoryError(err)
	}
	return player, nil
}

func (s *playerService) Get(ctx context.Context, id string) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return player, nil
}

func (s *playerService) ListByTournament(ctx context.Context, tournamentID string, sport, divisionID *string) ([]*models.Player, error) {
	players, err := s.playerRepo.ListByTournament(ctx, s.db, tournamentID, sport, divisionID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id string, input UpdatePlayerInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if input.Name != nil {
		player.Name = *input.Name
	}
	if input.Email != nil {
		player.Email = input.Email
	}
	if input.Rating != nil {
		player.Rating = input.Rating
	}
	if input.DivisionID != nil {
		player.DivisionID = input.DivisionID
	}
	if err := s.playerRepo.Update(ctx, s.db, player); err != nil {
		return nil, mapRepositoryError(err)
	}
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id string) error {
	return mapRepositoryError(s.playerRepo.Delete(ctx, s.db, id))
}
