package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

// ImportResult summarizes one CSV import run. Bad rows are reported and
// skipped instead of failing the whole file.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type CSVService interface {
	ImportPlayers(ctx context.Context, tournamentID, sport string, r io.Reader) (*ImportResult, error)
	ExportPlayers(ctx context.Context, tournamentID string, w io.Writer) error
}

type csvService struct {
	db           *sql.DB
	playerRepo   repositories.PlayerRepository
	divisionRepo repositories.DivisionRepository
}

func NewCSVService(db *sql.DB, playerRepo repositories.PlayerRepository, divisionRepo repositories.DivisionRepository) CSVService {
	return &csvService{db: db, playerRepo: playerRepo, divisionRepo: divisionRepo}
}

// ImportPlayers reads rows of "name,email,rating,division". The header
// row is optional, divisions are created on first mention, and the whole
// import runs in one transaction.
func (s *csvService) ImportPlayers(ctx context.Context, tournamentID, sport string, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) > 0 && looksLikeHeader(records[0]) {
		records = records[1:]
	}

	result := &ImportResult{}
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		divisionIDs := make(map[string]string)
		for i, record := range records {
			player, divisionName, rowErr := parsePlayerRow(record, tournamentID, sport)
			if rowErr != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, rowErr))
				continue
			}
			if divisionName != "" {
				divisionID, ok := divisionIDs[divisionName]
				if !ok {
					divisionID, rowErr = s.ensureDivision(ctx, tx, tournamentID, divisionName)
					if rowErr != nil {
						return rowErr
					}
					divisionIDs[divisionName] = divisionID
				}
				player.DivisionID = &divisionID
			}
			if rowErr = s.playerRepo.Create(ctx, tx, player); rowErr != nil {
				return rowErr
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *csvService) ExportPlayers(ctx context.Context, tournamentID string, w io.Writer) error {
	players, err := s.playerRepo.ListByTournament(ctx, s.db, tournamentID, nil, nil)
	if err != nil {
		return mapRepositoryError(err)
	}
	divisionNames, err := s.divisionNamesByID(ctx, tournamentID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "email", "rating", "division", "wins", "losses", "matches_played"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range players {
		rating := ""
		if p.Rating != nil {
			rating = strconv.FormatFloat(*p.Rating, 'f', -1, 64)
		}
		division := ""
		if p.DivisionID != nil {
			division = divisionNames[*p.DivisionID]
		}
		row := []string{
			p.Name, derefString(p.Email), rating, division,
			strconv.Itoa(p.Wins), strconv.Itoa(p.Losses), strconv.Itoa(p.Played),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *csvService) ensureDivision(ctx context.Context, tx *sql.Tx, tournamentID, name string) (string, error) {
	existing, err := s.divisionRepo.GetByName(ctx, tx, tournamentID, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repositories.ErrDivisionNotFound) {
		return "", err
	}
	division := &models.Division{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.divisionRepo.Create(ctx, tx, division); err != nil {
		return "", err
	}
	return division.ID, nil
}

func (s *csvService) divisionNamesByID(ctx context.Context, tournamentID string) (map[string]string, error) {
	divisions, err := s.divisionRepo.ListByTournament(ctx, s.db, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	names := make(map[string]string, len(divisions))
	for _, d := range divisions {
		names[d.ID] = d.Name
	}
	return names, nil
}

func parsePlayerRow(record []string, tournamentID, sport string) (*models.Player, string, error) {
	if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
		return nil, "", errors.New("name is required")
	}
	player := &models.Player{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		Name:         strings.TrimSpace(record[0]),
		Sport:        sport,
		CreatedAt:    time.Now().UTC(),
	}
	if len(record) > 1 {
		if email := strings.TrimSpace(record[1]); email != "" {
			player.Email = &email
		}
	}
	if len(record) > 2 {
		if raw := strings.TrimSpace(record[2]); raw != "" {
			rating, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, "", fmt.Errorf("invalid rating %q", raw)
			}
			player.Rating = &rating
		}
	}
	divisionName := ""
	if len(record) > 3 {
		divisionName = strings.TrimSpace(record[3])
	}
	return player, divisionName, nil
}

func looksLikeHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "name")
}
