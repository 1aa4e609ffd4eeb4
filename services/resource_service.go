package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

type ResourceService interface {
	Create(ctx context.Context, tournamentID, name, sport string) (*models.Resource, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.Resource, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type resourceService struct {
	db             *sql.DB
	resourceRepo   repositories.ResourceRepository
	tournamentRepo repositories.TournamentRepository
}

func NewResourceService(db *sql.DB, resourceRepo repositories.ResourceRepository, tournamentRepo repositories.TournamentRepository) ResourceService {
	return &resourceService{db: db, resourceRepo: resourceRepo, tournamentRepo: tournamentRepo}
}

func (s *resourceService) Create(ctx context.Context, tournamentID, name, sport string) (*models.Resource, error) {
	if name == "" || sport == "" {
		return nil, ErrValidationFailed
	}
	if _, err := s.tournamentRepo.GetByID(ctx, s.db, tournamentID); err != nil {
		return nil, mapRepositoryError(err)
	}
	resource := &models.Resource{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		Name:         name,
		Sport:        sport,
		Status:       "available",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.resourceRepo.Create(ctx, s.db, resource); err != nil {
		return nil, mapRepositoryError(err)
	}
	return resource, nil
}

func (s *resourceService) ListByTournament(ctx context.Context, tournamentID string) ([]*models.Resource, error) {
	resources, err := s.resourceRepo.ListByTournament(ctx, s.db, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return resources, nil
}

func (s *resourceService) UpdateStatus(ctx context.Context, id, status string) error {
	return mapRepositoryError(s.resourceRepo.UpdateStatus(ctx, s.db, id, status))
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	return mapRepositoryError(s.resourceRepo.Delete(ctx, s.db, id))
}
