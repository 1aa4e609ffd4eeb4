package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rallydesk/rallydesk/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Player, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string, sport *string, divisionID *string) ([]*models.Player, error)
	Update(ctx context.Context, exec SQLExecutor, p *models.Player) error
	Delete(ctx context.Context, exec SQLExecutor, id string) error
	RecordResult(ctx context.Context, exec SQLExecutor, winnerID string, loserID *string) error
	Leaderboard(ctx context.Context, exec SQLExecutor, sport string, limit int) ([]*models.Player, error)
	Count(ctx context.Context, exec SQLExecutor, sport *string) (int, error)
}

type postgresPlayerRepository struct{}

func NewPostgresPlayerRepository() PlayerRepository {
	return &postgresPlayerRepository{}
}

const playerColumns = `id, tournament_id, name, email, sport, rating, division_id, wins, losses, matches_played, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.TournamentID, p.Name, p.Email, p.Sport, p.Rating, p.DivisionID,
		p.Wins, p.Losses, p.Played, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Player, error) {
	var p models.Player
	err := exec.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id).Scan(
		&p.ID, &p.TournamentID, &p.Name, &p.Email, &p.Sport, &p.Rating, &p.DivisionID,
		&p.Wins, &p.Losses, &p.Played, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %s: %w", id, err)
	}
	return &p, nil
}

func (r *postgresPlayerRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string, sport *string, divisionID *string) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if sport != nil {
		args = append(args, *sport)
		query += fmt.Sprintf(" AND sport = $%d", len(args))
	}
	if divisionID != nil {
		args = append(args, *divisionID)
		query += fmt.Sprintf(" AND division_id = $%d", len(args))
	}
	query += " ORDER BY name ASC"

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players of tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(
			&p.ID, &p.TournamentID, &p.Name, &p.Email, &p.Sport, &p.Rating, &p.DivisionID,
			&p.Wins, &p.Losses, &p.Played, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) Update(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE players SET name = $2, email = $3, sport = $4, rating = $5, division_id = $6
		WHERE id = $1`,
		p.ID, p.Name, p.Email, p.Sport, p.Rating, p.DivisionID)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", p.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// RecordResult bumps the career counters both sides carry outside any
// single competition.
func (r *postgresPlayerRepository) RecordResult(ctx context.Context, exec SQLExecutor, winnerID string, loserID *string) error {
	if _, err := exec.ExecContext(ctx, `
		UPDATE players SET wins = wins + 1, matches_played = matches_played + 1 WHERE id = $1`,
		winnerID); err != nil {
		return fmt.Errorf("failed to record win for player %s: %w", winnerID, err)
	}
	if loserID != nil {
		if _, err := exec.ExecContext(ctx, `
			UPDATE players SET losses = losses + 1, matches_played = matches_played + 1 WHERE id = $1`,
			*loserID); err != nil {
			return fmt.Errorf("failed to record loss for player %s: %w", *loserID, err)
		}
	}
	return nil
}

func (r *postgresPlayerRepository) Leaderboard(ctx context.Context, exec SQLExecutor, sport string, limit int) ([]*models.Player, error) {
	rows, err := exec.QueryContext(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE sport = $1
		ORDER BY wins DESC, matches_played DESC, name ASC
		LIMIT $2`, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard for sport %s: %w", sport, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(
			&p.ID, &p.TournamentID, &p.Name, &p.Email, &p.Sport, &p.Rating, &p.DivisionID,
			&p.Wins, &p.Losses, &p.Played, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) Count(ctx context.Context, exec SQLExecutor, sport *string) (int, error) {
	query := `SELECT COUNT(*) FROM players`
	args := []interface{}{}
	if sport != nil {
		query += ` WHERE sport = $1`
		args = append(args, *sport)
	}
	var count int
	if err := exec.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}
