package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rallydesk/rallydesk/models"
)

var ErrResourceNotFound = errors.New("resource not found")

type ResourceRepository interface {
	Create(ctx context.Context, exec SQLExecutor, res *models.Resource) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Resource, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Resource, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id, status string) error
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresResourceRepository struct{}

func NewPostgresResourceRepository() ResourceRepository {
	return &postgresResourceRepository{}
}

func (r *postgresResourceRepository) Create(ctx context.Context, exec SQLExecutor, res *models.Resource) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO resources (id, tournament_id, name, sport, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.TournamentID, res.Name, res.Sport, res.Status, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert resource %s: %w", res.ID, err)
	}
	return nil
}

func (r *postgresResourceRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Resource, error) {
	var res models.Resource
	err := exec.QueryRowContext(ctx, `
		SELECT id, tournament_id, name, sport, status, created_at
		FROM resources WHERE id = $1`, id).Scan(
		&res.ID, &res.TournamentID, &res.Name, &res.Sport, &res.Status, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan resource %s: %w", id, err)
	}
	return &res, nil
}

func (r *postgresResourceRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Resource, error) {
	rows, err := exec.QueryContext(ctx, `
		SELECT id, tournament_id, name, sport, status, created_at
		FROM resources WHERE tournament_id = $1 ORDER BY name ASC`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources of tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	resources := make([]*models.Resource, 0)
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.TournamentID, &res.Name, &res.Sport, &res.Status, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resource row: %w", err)
		}
		resources = append(resources, &res)
	}
	return resources, rows.Err()
}

func (r *postgresResourceRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id, status string) error {
	result, err := exec.ExecContext(ctx, `UPDATE resources SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of resource %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrResourceNotFound)
}

func (r *postgresResourceRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrResourceNotFound)
}
