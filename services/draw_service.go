package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/rallydesk/rallydesk/engine"
	"github.com/rallydesk/rallydesk/live"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
)

// knockoutRoundOffset puts knockout rounds generated after a group stage
// above every group round, so ordering by round number keeps the two
// phases separate.
const knockoutRoundOffset = 100

type GenerateDrawInput struct {
	SeedPolicy engine.SeedPolicy `json:"seed_policy"`
	ManualSeed []string          `json:"manual_seed,omitempty"`
}

type DrawService interface {
	GenerateDraw(ctx context.Context, competitionID string, input GenerateDrawInput) ([]*models.Match, error)
	GenerateKnockoutStage(ctx context.Context, competitionID string) ([]*models.Match, error)
	ResetDraw(ctx context.Context, competitionID string) error
	ListDraw(ctx context.Context, competitionID string, group *int, status *models.MatchStatus) ([]*models.Match, error)
}

type drawService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	matchRepo       repositories.MatchRepository
	playerRepo      repositories.PlayerRepository
	orderer         *engine.SeedOrderer
	hub             *live.Hub
	logger          *slog.Logger
}

func NewDrawService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	orderer *engine.SeedOrderer,
	hub *live.Hub,
	logger *slog.Logger,
) DrawService {
	return &drawService{
		db:              db,
		competitionRepo: competitionRepo,
		matchRepo:       matchRepo,
		playerRepo:      playerRepo,
		orderer:         orderer,
		hub:             hub,
		logger:          logger,
	}
}

// GenerateDraw seeds the registered participants, builds the full match
// set for the competition format and replaces any previous draw in one
// transaction. Regeneration is all-or-nothing: a failed build leaves the
// old draw untouched.
func (s *drawService) GenerateDraw(ctx context.Context, competitionID string, input GenerateDrawInput) ([]*models.Match, error) {
	competition, err := s.competitionRepo.GetByID(ctx, s.db, competitionID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if competition.Status == models.CompetitionCompleted {
		return nil, ErrCompetitionNotDraft
	}

	participantIDs, err := s.competitionRepo.ListParticipantIDs(ctx, s.db, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants of competition %s: %w", competitionID, err)
	}

	opts := engine.SeedOptions{Policy: input.SeedPolicy, Manual: input.ManualSeed}
	if opts.Policy == "" {
		opts.Policy = engine.SeedRandom
	}
	if opts.Policy == engine.SeedRating {
		opts.Ratings, err = s.loadRatings(ctx, competition.TournamentID, participantIDs)
		if err != nil {
			return nil, err
		}
	}

	seeded, err := s.orderer.Order(participantIDs, opts)
	if err != nil {
		return nil, err
	}

	builder, err := engine.ForFormat(competition.Format)
	if err != nil {
		return nil, err
	}
	matches, err := builder.BuildDraw(ctx, engine.DrawParams{
		CompetitionID: competitionID,
		Participants:  seeded,
		NumGroups:     competition.NumGroups,
	})
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteByCompetition(ctx, tx, competitionID); err != nil {
			return err
		}
		if err := s.matchRepo.CreateBatch(ctx, tx, matches); err != nil {
			return err
		}
		return s.competitionRepo.UpdateStatus(ctx, tx, competitionID, models.CompetitionInProgress)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draw generated",
		slog.String("competition_id", competitionID),
		slog.String("format", string(competition.Format)),
		slog.Int("participants", len(seeded)),
		slog.Int("matches", len(matches)))

	s.hub.Broadcast(live.Event{
		Type:          live.EventDrawGenerated,
		CompetitionID: competitionID,
		Payload:       matches,
	})
	return matches, nil
}

// GenerateKnockoutStage builds the single elimination phase of a
// groups+knockout competition from the group qualifiers. All group
// matches must be completed first.
func (s *drawService) GenerateKnockoutStage(ctx context.Context, competitionID string) ([]*models.Match, error) {
	competition, err := s.competitionRepo.GetByID(ctx, s.db, competitionID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if competition.Format != models.FormatGroupsKnockout {
		return nil, ErrNotGroupsFormat
	}

	existing, err := s.matchRepo.ListByCompetition(ctx, s.db, competitionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw of competition %s: %w", competitionID, err)
	}
	if len(existing) == 0 {
		return nil, ErrCompetitionNotStarted
	}

	groupMatches := make([]*models.Match, 0, len(existing))
	for _, m := range existing {
		if m.RoundNumber >= knockoutRoundOffset {
			return nil, ErrKnockoutAlreadyBuilt
		}
		groupMatches = append(groupMatches, m)
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCancelled {
			return nil, ErrGroupStageIncomplete
		}
	}

	qualifiers := engine.SelectQualifiers(groupMatches, competition.NumGroups, competition.AdvancePerGroup)
	if len(qualifiers) < 2 {
		return nil, engine.ErrInsufficientParticipants
	}

	builder := engine.NewSingleEliminationBuilder()
	matches, err := builder.BuildDraw(ctx, engine.DrawParams{
		CompetitionID: competitionID,
		Participants:  qualifiers,
		RoundOffset:   knockoutRoundOffset,
	})
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.matchRepo.CreateBatch(ctx, tx, matches)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("knockout stage generated",
		slog.String("competition_id", competitionID),
		slog.Int("qualifiers", len(qualifiers)),
		slog.Int("matches", len(matches)))

	s.hub.Broadcast(live.Event{
		Type:          live.EventDrawGenerated,
		CompetitionID: competitionID,
		Payload:       matches,
	})
	return matches, nil
}

// ResetDraw deletes every match of the competition and returns it to
// draft, so a draw can be generated again from scratch.
func (s *drawService) ResetDraw(ctx context.Context, competitionID string) error {
	if _, err := s.competitionRepo.GetByID(ctx, s.db, competitionID); err != nil {
		return mapRepositoryError(err)
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteByCompetition(ctx, tx, competitionID); err != nil {
			return err
		}
		return s.competitionRepo.UpdateStatus(ctx, tx, competitionID, models.CompetitionDraft)
	})
	if err != nil {
		return err
	}

	s.logger.Info("draw reset", slog.String("competition_id", competitionID))
	s.hub.Broadcast(live.Event{Type: live.EventDrawReset, CompetitionID: competitionID})
	return nil
}

func (s *drawService) ListDraw(ctx context.Context, competitionID string, group *int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByCompetition(ctx, s.db, competitionID, group, status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return matches, nil
}

// loadRatings collects ratings for the participants that are players of
// the tournament. Teams and unrated players simply have no entry and seed
// behind the rated ones.
func (s *drawService) loadRatings(ctx context.Context, tournamentID string, participantIDs []string) (map[string]float64, error) {
	players, err := s.playerRepo.ListByTournament(ctx, s.db, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings for tournament %s: %w", tournamentID, err)
	}
	wanted := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		wanted[id] = true
	}
	ratings := make(map[string]float64)
	for _, p := range players {
		if wanted[p.ID] && p.Rating != nil {
			ratings[p.ID] = *p.Rating
		}
	}
	return ratings, nil
}
