package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rallydesk/rallydesk/engine"
	"github.com/rallydesk/rallydesk/live"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

type RecordResultInput struct {
	WinnerID string            `json:"winner_id,omitempty"`
	Scores   []models.SetScore `json:"scores"`
}

type UpdateScheduleInput struct {
	ResourceID    *string    `json:"resource_id"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	RefereeName   *string    `json:"referee_name"`
}

type MatchService interface {
	Get(ctx context.Context, matchID string) (*models.Match, error)
	RecordResult(ctx context.Context, matchID string, input RecordResultInput) (*engine.ProgressionResult, error)
	ManualAdvance(ctx context.Context, matchID, winnerID string) (*models.Match, error)
	SwapParticipants(ctx context.Context, competitionID, matchAID, matchBID string, slot int) error
	MoveParticipant(ctx context.Context, competitionID, sourceID string, slot int, targetID string) error
	UpdateSchedule(ctx context.Context, matchID string, input UpdateScheduleInput) (*models.Match, error)
	UpdateStatus(ctx context.Context, matchID string, status models.MatchStatus) error
}

type matchService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	competitionRepo repositories.CompetitionRepository
	playerRepo      repositories.PlayerRepository
	teamRepo        repositories.TeamRepository
	hub             *live.Hub
	logger          *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	competitionRepo repositories.CompetitionRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:              db,
		matchRepo:       matchRepo,
		competitionRepo: competitionRepo,
		playerRepo:      playerRepo,
		teamRepo:        teamRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *matchService) Get(ctx context.Context, matchID string) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return m, nil
}

// RecordResult validates a submitted result against the in-memory match
// graph, then persists the completion and the winner's advancement in one
// transaction. The completion UPDATE is conditional on the match not being
// terminal, so of two racing submissions exactly one lands.
func (s *matchService) RecordResult(ctx context.Context, matchID string, input RecordResultInput) (*engine.ProgressionResult, error) {
	match, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	winnerID := input.WinnerID
	if winnerID == "" {
		winnerID, err = engine.ResolveWinner(match, input.Scores)
		if err != nil {
			return nil, err
		}
	}

	matches, err := s.matchRepo.ListByCompetition(ctx, s.db, match.CompetitionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw of competition %s: %w", match.CompetitionID, err)
	}
	graph := engine.NewMatchGraph(matches)
	prog := engine.NewProgressionEngine(graph)

	result, err := prog.RecordResult(matchID, winnerID, input.Scores)
	if err != nil {
		return nil, err
	}

	competition, err := s.competitionRepo.GetByID(ctx, s.db, match.CompetitionID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.Complete(ctx, tx, matchID, winnerID, input.Scores); err != nil {
			return mapRepositoryError(err)
		}
		if result.Next != nil {
			if err := s.matchRepo.FillNextOpenSlot(ctx, tx, result.Next.ID, winnerID); err != nil {
				return mapRepositoryError(err)
			}
		}
		return s.recordCareerResult(ctx, tx, competition.ParticipantType, winnerID, result.Match.Loser())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match result recorded",
		slog.String("match_id", matchID),
		slog.String("competition_id", match.CompetitionID),
		slog.String("winner_id", winnerID))

	s.hub.Broadcast(live.Event{
		Type:          live.EventMatchUpdated,
		CompetitionID: match.CompetitionID,
		Payload:       result.Match,
	})
	s.hub.Broadcast(live.Event{
		Type:          live.EventStandings,
		CompetitionID: match.CompetitionID,
	})
	return result, nil
}

// ManualAdvance completes a match with an explicit winner and no
// scoreline. It never touches downstream matches.
func (s *matchService) ManualAdvance(ctx context.Context, matchID, winnerID string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	graph := engine.NewMatchGraph([]*models.Match{match})
	updated, err := engine.NewProgressionEngine(graph).ManualAdvance(matchID, winnerID)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.Complete(ctx, s.db, matchID, winnerID, nil); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("match manually advanced",
		slog.String("match_id", matchID),
		slog.String("winner_id", winnerID))

	s.hub.Broadcast(live.Event{
		Type:          live.EventMatchUpdated,
		CompetitionID: match.CompetitionID,
		Payload:       updated,
	})
	return updated, nil
}

func (s *matchService) SwapParticipants(ctx context.Context, competitionID, matchAID, matchBID string, slot int) error {
	matches, err := s.matchRepo.ListByCompetition(ctx, s.db, competitionID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to load draw of competition %s: %w", competitionID, err)
	}
	graph := engine.NewMatchGraph(matches)
	if err := engine.NewProgressionEngine(graph).SwapParticipants(matchAID, matchBID, slot); err != nil {
		return err
	}

	a, _ := graph.Get(matchAID)
	b, _ := graph.Get(matchBID)
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.UpdateSlots(ctx, tx, a.ID, a.Slot1, a.Slot2); err != nil {
			return mapRepositoryError(err)
		}
		return mapRepositoryError(s.matchRepo.UpdateSlots(ctx, tx, b.ID, b.Slot1, b.Slot2))
	})
	if err != nil {
		return err
	}

	s.hub.Broadcast(live.Event{Type: live.EventMatchUpdated, CompetitionID: competitionID, Payload: a})
	s.hub.Broadcast(live.Event{Type: live.EventMatchUpdated, CompetitionID: competitionID, Payload: b})
	return nil
}

func (s *matchService) MoveParticipant(ctx context.Context, competitionID, sourceID string, slot int, targetID string) error {
	matches, err := s.matchRepo.ListByCompetition(ctx, s.db, competitionID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to load draw of competition %s: %w", competitionID, err)
	}
	graph := engine.NewMatchGraph(matches)
	if err := engine.NewProgressionEngine(graph).MoveParticipant(sourceID, slot, targetID); err != nil {
		return err
	}

	src, _ := graph.Get(sourceID)
	dst, _ := graph.Get(targetID)
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.UpdateSlots(ctx, tx, src.ID, src.Slot1, src.Slot2); err != nil {
			return mapRepositoryError(err)
		}
		return mapRepositoryError(s.matchRepo.UpdateSlots(ctx, tx, dst.ID, dst.Slot1, dst.Slot2))
	})
	if err != nil {
		return err
	}

	s.hub.Broadcast(live.Event{Type: live.EventMatchUpdated, CompetitionID: competitionID, Payload: src})
	s.hub.Broadcast(live.Event{Type: live.EventMatchUpdated, CompetitionID: competitionID, Payload: dst})
	return nil
}

func (s *matchService) UpdateSchedule(ctx context.Context, matchID string, input UpdateScheduleInput) (*models.Match, error) {
	if err := s.matchRepo.UpdateSchedule(ctx, s.db, matchID, input.ResourceID, input.ScheduledTime, input.RefereeName); err != nil {
		return nil, mapRepositoryError(err)
	}
	m, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	s.hub.Broadcast(live.Event{Type: live.EventMatchUpdated, CompetitionID: m.CompetitionID, Payload: m})
	return m, nil
}

func (s *matchService) UpdateStatus(ctx context.Context, matchID string, status models.MatchStatus) error {
	m, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !m.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, m.Status, status)
	}
	if err := s.matchRepo.UpdateStatus(ctx, s.db, matchID, status); err != nil {
		return mapRepositoryError(err)
	}
	m.Status = status
	s.hub.Broadcast(live.Event{Type: live.EventMatchUpdated, CompetitionID: m.CompetitionID, Payload: m})
	return nil
}

// recordCareerResult bumps the win/loss counters of the participants. A
// walkover loser (bye opponent) leaves the loser side untouched.
func (s *matchService) recordCareerResult(ctx context.Context, tx *sql.Tx, pt models.ParticipantType, winnerID string, loserID *string) error {
	if pt == models.ParticipantTeam {
		return s.teamRepo.RecordResult(ctx, tx, winnerID, loserID)
	}
	return s.playerRepo.RecordResult(ctx, tx, winnerID, loserID)
}
