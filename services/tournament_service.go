package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
	"github.com/rallydesk/rallydesk/storage"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentInput struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Sport       string    `json:"sport"`
	OrganizerID string    `json:"organizer_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    *string   `json:"location"`
}

type UpdateTournamentInput struct {
	Name        *string                  `json:"name"`
	Description *string                  `json:"description"`
	Location    *string                  `json:"location"`
	StartDate   *time.Time               `json:"start_date"`
	EndDate     *time.Time               `json:"end_date"`
	Status      *models.TournamentStatus `json:"status"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, sport *string, status *models.TournamentStatus) ([]*models.Tournament, error)
	Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error)
	UploadLogo(ctx context.Context, id string, contentType string, r io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	competitionRepo repositories.CompetitionRepository
	divisionRepo    repositories.DivisionRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	competitionRepo repositories.CompetitionRepository,
	divisionRepo repositories.DivisionRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		competitionRepo: competitionRepo,
		divisionRepo:    divisionRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" || input.Sport == "" || input.OrganizerID == "" {
		return nil, ErrValidationFailed
	}
	if !input.StartDate.Before(input.EndDate) {
		return nil, ErrTournamentInvalidDateRange
	}
	tournament := &models.Tournament{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Sport:       input.Sport,
		OrganizerID: input.OrganizerID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    input.Location,
		Status:      models.TournamentUpcoming,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.tournamentRepo.Create(ctx, s.db, tournament); err != nil {
		return nil, mapRepositoryError(err)
	}
	return tournament, nil
}

// Get loads a tournament with its competitions and divisions fetched in
// parallel.
func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		competitions, err := s.competitionRepo.ListByTournament(gCtx, s.db, id)
		if err != nil {
			return fmt.Errorf("failed to load competitions: %w", err)
		}
		tournament.Competitions = make([]models.Competition, 0, len(competitions))
		for _, c := range competitions {
			tournament.Competitions = append(tournament.Competitions, *c)
		}
		return nil
	})
	g.Go(func() error {
		divisions, err := s.divisionRepo.ListByTournament(gCtx, s.db, id)
		if err != nil {
			return fmt.Errorf("failed to load divisions: %w", err)
		}
		tournament.Divisions = make([]models.Division, 0, len(divisions))
		for _, d := range divisions {
			tournament.Divisions = append(tournament.Divisions, *d)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, sport *string, status *models.TournamentStatus) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, s.db, sport, status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	for _, t := range tournaments {
		s.populateLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if input.Name != nil {
		tournament.Name = *input.Name
	}
	if input.Description != nil {
		tournament.Description = input.Description
	}
	if input.Location != nil {
		tournament.Location = input.Location
	}
	if input.StartDate != nil {
		tournament.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		tournament.EndDate = *input.EndDate
	}
	if input.Status != nil {
		if !isValidTournamentTransition(tournament.Status, *input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, tournament.Status, *input.Status)
		}
		tournament.Status = *input.Status
	}
	if !tournament.StartDate.Before(tournament.EndDate) {
		return nil, ErrTournamentInvalidDateRange
	}
	if err := s.tournamentRepo.Update(ctx, s.db, tournament); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.populateLogoURL(tournament)
	return tournament, nil
}

// UploadLogo stores the image and replaces the previous one, best effort
// on the delete.
func (s *tournamentService) UploadLogo(ctx context.Context, id string, contentType string, r io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", ErrValidationFailed)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	ext, err := extensionForContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("tournaments/%s/logo%s", id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, r); err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	oldKey := tournament.LogoKey
	if err := s.tournamentRepo.UpdateLogoKey(ctx, s.db, id, &key); err != nil {
		return nil, mapRepositoryError(err)
	}
	if oldKey != nil && *oldKey != key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.String("tournament_id", id), slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	tournament.LogoKey = &key
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) populateLogoURL(t *models.Tournament) {
	if t == nil || t.LogoKey == nil || *t.LogoKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

func isValidTournamentTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.TournamentStatus][]models.TournamentStatus{
		models.TournamentUpcoming:   {models.TournamentInProgress, models.TournamentCancelled},
		models.TournamentInProgress: {models.TournamentCompleted, models.TournamentCancelled},
		models.TournamentCompleted:  {},
		models.TournamentCancelled:  {},
	}
	for _, n := range allowed[current] {
		if next == n {
			return true
		}
	}
	return false
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type %q", contentType)
	}
}
