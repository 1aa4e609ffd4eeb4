package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/repositories"
	"golang.org/x/sync/errgroup"
)

const recentTournamentsLimit = 5

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	Leaderboard(ctx context.Context, sport string, limit int) ([]models.LeaderboardRow, error)
}

type dashboardService struct {
	db              *sql.DB
	playerRepo      repositories.PlayerRepository
	teamRepo        repositories.TeamRepository
	competitionRepo repositories.CompetitionRepository
	matchRepo       repositories.MatchRepository
	tournamentRepo  repositories.TournamentRepository
}

func NewDashboardService(
	db *sql.DB,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	competitionRepo repositories.CompetitionRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
) DashboardService {
	return &dashboardService{
		db:              db,
		playerRepo:      playerRepo,
		teamRepo:        teamRepo,
		competitionRepo: competitionRepo,
		matchRepo:       matchRepo,
		tournamentRepo:  tournamentRepo,
	}
}

// Stats gathers the organizer dashboard counters in parallel.
func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{SportBreakdown: make(map[string]int)}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.playerRepo.Count(gCtx, s.db, nil)
		if err != nil {
			return fmt.Errorf("failed to count players: %w", err)
		}
		stats.TotalPlayers = count
		return nil
	})
	g.Go(func() error {
		count, err := s.teamRepo.Count(gCtx, s.db)
		if err != nil {
			return fmt.Errorf("failed to count teams: %w", err)
		}
		stats.TotalTeams = count
		return nil
	})
	g.Go(func() error {
		count, err := s.competitionRepo.CountByStatus(gCtx, s.db, nil)
		if err != nil {
			return fmt.Errorf("failed to count competitions: %w", err)
		}
		stats.TotalCompetitions = count
		return nil
	})
	g.Go(func() error {
		active := models.CompetitionInProgress
		count, err := s.competitionRepo.CountByStatus(gCtx, s.db, &active)
		if err != nil {
			return fmt.Errorf("failed to count active competitions: %w", err)
		}
		stats.ActiveCompetitions = count
		return nil
	})
	g.Go(func() error {
		count, err := s.matchRepo.CountByStatus(gCtx, s.db, nil)
		if err != nil {
			return fmt.Errorf("failed to count matches: %w", err)
		}
		stats.TotalMatches = count
		return nil
	})
	g.Go(func() error {
		completed := models.MatchStatusCompleted
		count, err := s.matchRepo.CountByStatus(gCtx, s.db, &completed)
		if err != nil {
			return fmt.Errorf("failed to count completed matches: %w", err)
		}
		stats.CompletedMatches = count
		return nil
	})
	g.Go(func() error {
		tournaments, err := s.tournamentRepo.ListRecent(gCtx, s.db, recentTournamentsLimit)
		if err != nil {
			return fmt.Errorf("failed to list recent tournaments: %w", err)
		}
		stats.RecentTournaments = make([]models.Tournament, 0, len(tournaments))
		for _, t := range tournaments {
			stats.RecentTournaments = append(stats.RecentTournaments, *t)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Sport breakdown needs the tournament list and is cheap enough to run
	// after the counters.
	tournaments, err := s.tournamentRepo.List(ctx, s.db, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for _, t := range tournaments {
		stats.SportBreakdown[t.Sport]++
	}
	return stats, nil
}

// Leaderboard ranks players of a sport by wins, win rate deciding ties.
func (s *dashboardService) Leaderboard(ctx context.Context, sport string, limit int) ([]models.LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	players, err := s.playerRepo.Leaderboard(ctx, s.db, sport, limit)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	rows := make([]models.LeaderboardRow, 0, len(players))
	for i, p := range players {
		row := models.LeaderboardRow{
			Rank:   i + 1,
			ID:     p.ID,
			Name:   p.Name,
			Wins:   p.Wins,
			Losses: p.Losses,
			Played: p.Played,
		}
		if p.Played > 0 {
			row.WinRate = float64(p.Wins) / float64(p.Played)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
