package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rallydesk/rallydesk/models"
)

var ErrCompetitionNotFound = errors.New("competition not found")

type CompetitionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, c *models.Competition) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Competition, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Competition, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.CompetitionStatus) error
	ListParticipantIDs(ctx context.Context, exec SQLExecutor, competitionID string) ([]string, error)
	AddParticipant(ctx context.Context, exec SQLExecutor, competitionID, participantID string) error
	RemoveParticipant(ctx context.Context, exec SQLExecutor, competitionID, participantID string) error
	CountByStatus(ctx context.Context, exec SQLExecutor, status *models.CompetitionStatus) (int, error)
}

type postgresCompetitionRepository struct{}

func NewPostgresCompetitionRepository() CompetitionRepository {
	return &postgresCompetitionRepository{}
}

const competitionColumns = `
	id, tournament_id, name, sport, format, participant_type,
	num_groups, advance_per_group, sets_to_win, points_per_set,
	status, division_id, created_at`

func (r *postgresCompetitionRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Competition) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO competitions (`+competitionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.TournamentID, c.Name, c.Sport, c.Format, c.ParticipantType,
		c.NumGroups, c.AdvancePerGroup, c.Scoring.SetsToWin, c.Scoring.PointsPerSet,
		c.Status, c.DivisionID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert competition %s: %w", c.ID, err)
	}
	return nil
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Competition, error) {
	var c models.Competition
	err := exec.QueryRowContext(ctx, `SELECT `+competitionColumns+` FROM competitions WHERE id = $1`, id).Scan(
		&c.ID, &c.TournamentID, &c.Name, &c.Sport, &c.Format, &c.ParticipantType,
		&c.NumGroups, &c.AdvancePerGroup, &c.Scoring.SetsToWin, &c.Scoring.PointsPerSet,
		&c.Status, &c.DivisionID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to scan competition %s: %w", id, err)
	}
	return &c, nil
}

func (r *postgresCompetitionRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Competition, error) {
	rows, err := exec.QueryContext(ctx, `
		SELECT `+competitionColumns+` FROM competitions
		WHERE tournament_id = $1 ORDER BY created_at ASC`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitions of tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	competitions := make([]*models.Competition, 0)
	for rows.Next() {
		var c models.Competition
		if err := rows.Scan(
			&c.ID, &c.TournamentID, &c.Name, &c.Sport, &c.Format, &c.ParticipantType,
			&c.NumGroups, &c.AdvancePerGroup, &c.Scoring.SetsToWin, &c.Scoring.PointsPerSet,
			&c.Status, &c.DivisionID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan competition row: %w", err)
		}
		competitions = append(competitions, &c)
	}
	return competitions, rows.Err()
}

func (r *postgresCompetitionRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.CompetitionStatus) error {
	result, err := exec.ExecContext(ctx, `UPDATE competitions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update status of competition %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) ListParticipantIDs(ctx context.Context, exec SQLExecutor, competitionID string) ([]string, error) {
	rows, err := exec.QueryContext(ctx, `
		SELECT participant_id FROM competition_participants
		WHERE competition_id = $1 ORDER BY registered_at ASC`, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants of competition %s: %w", competitionID, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresCompetitionRepository) AddParticipant(ctx context.Context, exec SQLExecutor, competitionID, participantID string) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO competition_participants (competition_id, participant_id, registered_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (competition_id, participant_id) DO NOTHING`,
		competitionID, participantID)
	if err != nil {
		return fmt.Errorf("failed to add participant %s to competition %s: %w", participantID, competitionID, err)
	}
	return nil
}

func (r *postgresCompetitionRepository) RemoveParticipant(ctx context.Context, exec SQLExecutor, competitionID, participantID string) error {
	result, err := exec.ExecContext(ctx, `
		DELETE FROM competition_participants
		WHERE competition_id = $1 AND participant_id = $2`,
		competitionID, participantID)
	if err != nil {
		return fmt.Errorf("failed to remove participant %s from competition %s: %w", participantID, competitionID, err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) CountByStatus(ctx context.Context, exec SQLExecutor, status *models.CompetitionStatus) (int, error) {
	query := `SELECT COUNT(*) FROM competitions`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	if err := exec.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count competitions: %w", err)
	}
	return count, nil
}
