package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rallydesk/rallydesk/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name is already in use")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string, sport *string) ([]*models.Team, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
	RecordResult(ctx context.Context, exec SQLExecutor, winnerID string, loserID *string) error
	Count(ctx context.Context, exec SQLExecutor) (int, error)
}

type postgresTeamRepository struct{}

func NewPostgresTeamRepository() TeamRepository {
	return &postgresTeamRepository{}
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Team) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO teams (id, tournament_id, name, sport, wins, losses, matches_played, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.TournamentID, t.Name, t.Sport, t.Wins, t.Losses, t.Played, t.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrTeamNameConflict
		}
		return fmt.Errorf("failed to insert team %s: %w", t.ID, err)
	}

	for _, playerID := range t.PlayerIDs {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO team_players (team_id, player_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, t.ID, playerID); err != nil {
			return fmt.Errorf("failed to link player %s to team %s: %w", playerID, t.ID, err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error) {
	var t models.Team
	err := exec.QueryRowContext(ctx, `
		SELECT id, tournament_id, name, sport, wins, losses, matches_played, created_at
		FROM teams WHERE id = $1`, id).Scan(
		&t.ID, &t.TournamentID, &t.Name, &t.Sport, &t.Wins, &t.Losses, &t.Played, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %s: %w", id, err)
	}

	rows, err := exec.QueryContext(ctx, `SELECT player_id FROM team_players WHERE team_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query players of team %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var playerID string
		if err := rows.Scan(&playerID); err != nil {
			return nil, fmt.Errorf("failed to scan team player id: %w", err)
		}
		t.PlayerIDs = append(t.PlayerIDs, playerID)
	}
	return &t, rows.Err()
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string, sport *string) ([]*models.Team, error) {
	query := `
		SELECT id, tournament_id, name, sport, wins, losses, matches_played, created_at
		FROM teams WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if sport != nil {
		args = append(args, *sport)
		query += fmt.Sprintf(" AND sport = $%d", len(args))
	}
	query += " ORDER BY name ASC"

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams of tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Sport, &t.Wins, &t.Losses, &t.Played, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM team_players WHERE team_id = $1`, id); err != nil {
		return fmt.Errorf("failed to unlink players of team %s: %w", id, err)
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) RecordResult(ctx context.Context, exec SQLExecutor, winnerID string, loserID *string) error {
	if _, err := exec.ExecContext(ctx, `
		UPDATE teams SET wins = wins + 1, matches_played = matches_played + 1 WHERE id = $1`,
		winnerID); err != nil {
		return fmt.Errorf("failed to record win for team %s: %w", winnerID, err)
	}
	if loserID != nil {
		if _, err := exec.ExecContext(ctx, `
			UPDATE teams SET losses = losses + 1, matches_played = matches_played + 1 WHERE id = $1`,
			*loserID); err != nil {
			return fmt.Errorf("failed to record loss for team %s: %w", *loserID, err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	var count int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}
