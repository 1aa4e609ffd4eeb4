package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rallydesk/rallydesk/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error)
	List(ctx context.Context, exec SQLExecutor, sport *string, status *models.TournamentStatus) ([]*models.Tournament, error)
	Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	UpdateLogoKey(ctx context.Context, exec SQLExecutor, id string, logoKey *string) error
	ListRecent(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct{}

func NewPostgresTournamentRepository() TournamentRepository {
	return &postgresTournamentRepository{}
}

const tournamentColumns = `id, name, description, sport, organizer_id, start_date, end_date, location, status, logo_key, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO tournaments (`+tournamentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Name, t.Description, t.Sport, t.OrganizerID, t.StartDate, t.EndDate,
		t.Location, t.Status, t.LogoKey, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tournament %s: %w", t.ID, err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	var t models.Tournament
	err := exec.QueryRowContext(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Sport, &t.OrganizerID, &t.StartDate, &t.EndDate,
		&t.Location, &t.Status, &t.LogoKey, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %s: %w", id, err)
	}
	return &t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, exec SQLExecutor, sport *string, status *models.TournamentStatus) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	if sport != nil {
		args = append(args, *sport)
		query += fmt.Sprintf(" AND sport = $%d", len(args))
	}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY start_date DESC"

	return r.queryMany(ctx, exec, query, args...)
}

func (r *postgresTournamentRepository) ListRecent(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Tournament, error) {
	return r.queryMany(ctx, exec, `
		SELECT `+tournamentColumns+` FROM tournaments
		ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *postgresTournamentRepository) queryMany(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Tournament, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Sport, &t.OrganizerID, &t.StartDate, &t.EndDate,
			&t.Location, &t.Status, &t.LogoKey, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, &t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE tournaments
		SET name = $2, description = $3, sport = $4, start_date = $5, end_date = $6,
		    location = $7, status = $8
		WHERE id = $1`,
		t.ID, t.Name, t.Description, t.Sport, t.StartDate, t.EndDate, t.Location, t.Status)
	if err != nil {
		return fmt.Errorf("failed to update tournament %s: %w", t.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, exec SQLExecutor, id string, logoKey *string) error {
	result, err := exec.ExecContext(ctx, `UPDATE tournaments SET logo_key = $2 WHERE id = $1`, id, logoKey)
	if err != nil {
		return fmt.Errorf("failed to update logo of tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
