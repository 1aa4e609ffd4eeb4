package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

type DivisionService interface {
	Create(ctx context.Context, tournamentID, name string, description *string) (*models.Division, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.Division, error)
	Delete(ctx context.Context, id string) error
}

type divisionService struct {
	db             *sql.DB
	divisionRepo   repositories.DivisionRepository
	tournamentRepo repositories.TournamentRepository
}

func NewDivisionService(db *sql.DB, divisionRepo repositories.DivisionRepository, tournamentRepo repositories.TournamentRepository) DivisionService {
	return &divisionService{db: db, divisionRepo: divisionRepo, tournamentRepo: tournamentRepo}
}

func (s *divisionService) Create(ctx context.Context, tournamentID, name string, description *string) (*models.Division, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if _, err := s.tournamentRepo.GetByID(ctx, s.db, tournamentID); err != nil {
		return nil, mapRepositoryError(err)
	}
	division := &models.Division{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		Name:         name,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.divisionRepo.Create(ctx, s.db, division); err != nil {
		return nil, mapRepositoryError(err)
	}
	return division, nil
}

func (s *divisionService) ListByTournament(ctx context.Context, tournamentID string) ([]*models.Division, error) {
	divisions, err := s.divisionRepo.ListByTournament(ctx, s.db, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return divisions, nil
}

func (s *divisionService) Delete(ctx context.Context, id string) error {
	return mapRepositoryError(s.divisionRepo.Delete(ctx, s.db, id))
}
