package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rallydesk/rallydesk/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	// ErrMatchConflict is returned when a conditional update loses: the
	// match was completed or cancelled by the time the statement ran.
	ErrMatchConflict = errors.New("match was already completed or cancelled")
	ErrNoOpenSlot    = errors.New("match has no open slot")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID string, group *int, status *models.MatchStatus) ([]*models.Match, error)
	Complete(ctx context.Context, exec SQLExecutor, id string, winnerID string, scores []models.SetScore) error
	FillNextOpenSlot(ctx context.Context, exec SQLExecutor, id, participantID string) error
	UpdateSlots(ctx context.Context, exec SQLExecutor, id string, slot1, slot2 models.Slot) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.MatchStatus) error
	UpdateSchedule(ctx context.Context, exec SQLExecutor, id string, resourceID *string, scheduledTime *time.Time, refereeName *string) error
	DeleteByCompetition(ctx context.Context, exec SQLExecutor, competitionID string) error
	CountByStatus(ctx context.Context, exec SQLExecutor, status *models.MatchStatus) (int, error)
}

type postgresMatchRepository struct{}

func NewPostgresMatchRepository() MatchRepository {
	return &postgresMatchRepository{}
}

const matchColumns = `
	id, competition_id, round_number, match_number, group_number,
	slot1_participant_id, slot1_bye, slot2_participant_id, slot2_bye,
	winner_id, status, scores, next_match_id, loser_next_match_id,
	bracket_type, bracket_label, resource_id, scheduled_time, referee_name, created_at`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	for _, m := range matches {
		scores, err := json.Marshal(m.Scores)
		if err != nil {
			return fmt.Errorf("failed to marshal scores for match %s: %w", m.ID, err)
		}
		_, err = exec.ExecContext(ctx, query,
			m.ID, m.CompetitionID, m.RoundNumber, m.MatchNumber, m.GroupNumber,
			m.Slot1.ParticipantID, m.Slot1.Bye, m.Slot2.ParticipantID, m.Slot2.Bye,
			m.WinnerID, m.Status, scores, m.NextMatchID, m.LoserNextMatchID,
			m.BracketType, m.BracketLabel, m.ResourceID, m.ScheduledTime, m.RefereeName, m.CreatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("duplicate match id %s: %w", m.ID, err)
			}
			return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error) {
	row := exec.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %s: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID string, group *int, status *models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE competition_id = $1`
	args := []interface{}{competitionID}
	if group != nil {
		args = append(args, *group)
		query += fmt.Sprintf(" AND group_number = $%d", len(args))
	}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY round_number ASC, match_number ASC"

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for competition %s: %w", competitionID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Complete is a conditional completion: it only lands if the match has not
// already reached a terminal status, so two racing result submissions
// cannot both win.
func (r *postgresMatchRepository) Complete(ctx context.Context, exec SQLExecutor, id string, winnerID string, scores []models.SetScore) error {
	payload, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	result, err := exec.ExecContext(ctx, `
		UPDATE matches
		SET winner_id = $2, scores = $3, status = 'completed'
		WHERE id = $1 AND status NOT IN ('completed', 'cancelled')`,
		id, winnerID, payload)
	if err != nil {
		return fmt.Errorf("failed to complete match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchConflict)
}

// FillNextOpenSlot places the participant into slot 1 when it is open,
// otherwise slot 2, in one statement, so concurrent completions feeding the
// same match cannot both observe the same empty slot.
func (r *postgresMatchRepository) FillNextOpenSlot(ctx context.Context, exec SQLExecutor, id, participantID string) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE matches
		SET slot1_participant_id = CASE
				WHEN slot1_participant_id IS NULL AND NOT slot1_bye THEN $2
				ELSE slot1_participant_id
			END,
		    slot2_participant_id = CASE
				WHEN (slot1_participant_id IS NOT NULL OR slot1_bye)
				     AND slot2_participant_id IS NULL AND NOT slot2_bye THEN $2
				ELSE slot2_participant_id
			END
		WHERE id = $1
		  AND ((slot1_participant_id IS NULL AND NOT slot1_bye)
		    OR (slot2_participant_id IS NULL AND NOT slot2_bye))`,
		id, participantID)
	if err != nil {
		return fmt.Errorf("failed to fill slot of match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrNoOpenSlot)
}

func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, id string, slot1, slot2 models.Slot) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE matches
		SET slot1_participant_id = $2, slot1_bye = $3,
		    slot2_participant_id = $4, slot2_bye = $5
		WHERE id = $1 AND status NOT IN ('completed', 'cancelled')`,
		id, slot1.ParticipantID, slot1.Bye, slot2.ParticipantID, slot2.Bye)
	if err != nil {
		return fmt.Errorf("failed to update slots of match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchConflict)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.MatchStatus) error {
	result, err := exec.ExecContext(ctx, `UPDATE matches SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update status of match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, id string, resourceID *string, scheduledTime *time.Time, refereeName *string) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE matches SET resource_id = $2, scheduled_time = $3, referee_name = $4
		WHERE id = $1`,
		id, resourceID, scheduledTime, refereeName)
	if err != nil {
		return fmt.Errorf("failed to update schedule of match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByCompetition(ctx context.Context, exec SQLExecutor, competitionID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE competition_id = $1`, competitionID)
	if err != nil {
		return fmt.Errorf("failed to delete matches of competition %s: %w", competitionID, err)
	}
	return nil
}

func (r *postgresMatchRepository) CountByStatus(ctx context.Context, exec SQLExecutor, status *models.MatchStatus) (int, error) {
	query := `SELECT COUNT(*) FROM matches`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	if err := exec.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	var scores []byte
	err := row.Scan(
		&m.ID, &m.CompetitionID, &m.RoundNumber, &m.MatchNumber, &m.GroupNumber,
		&m.Slot1.ParticipantID, &m.Slot1.Bye, &m.Slot2.ParticipantID, &m.Slot2.Bye,
		&m.WinnerID, &m.Status, &scores, &m.NextMatchID, &m.LoserNextMatchID,
		&m.BracketType, &m.BracketLabel, &m.ResourceID, &m.ScheduledTime, &m.RefereeName, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &m.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores of match %s: %w", m.ID, err)
		}
	}
	return &m, nil
}
