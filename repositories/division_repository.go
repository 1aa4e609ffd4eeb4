package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rallydesk/rallydesk/models"
)

var ErrDivisionNotFound = errors.New("division not found")

type DivisionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, d *models.Division) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Division, error)
	GetByName(ctx context.Context, exec SQLExecutor, tournamentID, name string) (*models.Division, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Division, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresDivisionRepository struct{}

func NewPostgresDivisionRepository() DivisionRepository {
	return &postgresDivisionRepository{}
}

func (r *postgresDivisionRepository) Create(ctx context.Context, exec SQLExecutor, d *models.Division) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO divisions (id, tournament_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.TournamentID, d.Name, d.Description, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert division %s: %w", d.ID, err)
	}
	return nil
}

func (r *postgresDivisionRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Division, error) {
	var d models.Division
	err := exec.QueryRowContext(ctx, `
		SELECT id, tournament_id, name, description, created_at
		FROM divisions WHERE id = $1`, id).Scan(
		&d.ID, &d.TournamentID, &d.Name, &d.Description, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to scan division %s: %w", id, err)
	}
	return &d, nil
}

func (r *postgresDivisionRepository) GetByName(ctx context.Context, exec SQLExecutor, tournamentID, name string) (*models.Division, error) {
	var d models.Division
	err := exec.QueryRowContext(ctx, `
		SELECT id, tournament_id, name, description, created_at
		FROM divisions WHERE tournament_id = $1 AND name = $2`, tournamentID, name).Scan(
		&d.ID, &d.TournamentID, &d.Name, &d.Description, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to scan division %q: %w", name, err)
	}
	return &d, nil
}

func (r *postgresDivisionRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Division, error) {
	rows, err := exec.QueryContext(ctx, `
		SELECT id, tournament_id, name, description, created_at
		FROM divisions WHERE tournament_id = $1 ORDER BY name ASC`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query divisions of tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	divisions := make([]*models.Division, 0)
	for rows.Next() {
		var d models.Division
		if err := rows.Scan(&d.ID, &d.TournamentID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan division row: %w", err)
		}
		divisions = append(divisions, &d)
	}
	return divisions, rows.Err()
}

func (r *postgresDivisionRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM divisions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete division %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrDivisionNotFound)
}
