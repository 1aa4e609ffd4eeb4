package models

type DashboardStats struct {
	TotalPlayers       int            `json:"total_players"`
	TotalTeams         int            `json:"total_teams"`
	TotalCompetitions  int            `json:"total_competitions"`
	ActiveCompetitions int            `json:"active_competitions"`
	TotalMatches       int            `json:"total_matches"`
	CompletedMatches   int            `json:"completed_matches"`
	SportBreakdown     map[string]int `json:"sport_breakdown"`
	RecentTournaments  []Tournament   `json:"recent_tournaments"`
}

type LeaderboardRow struct {
	Rank    int     `json:"rank"`
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Played  int     `json:"matches_played"`
	WinRate float64 `json:"win_rate"`
}
