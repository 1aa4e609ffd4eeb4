package models

import "time"

type CompetitionFormat string

const (
	FormatRoundRobin        CompetitionFormat = "round_robin"
	FormatSingleElimination CompetitionFormat = "single_elimination"
	FormatDoubleElimination CompetitionFormat = "double_elimination"
	FormatGroupsKnockout    CompetitionFormat = "groups_knockout"
)

type ParticipantType string

const (
	ParticipantSingles ParticipantType = "singles"
	ParticipantDoubles ParticipantType = "doubles"
	ParticipantTeam    ParticipantType = "team"
)

type CompetitionStatus string

const (
	CompetitionDraft      CompetitionStatus = "draft"
	CompetitionInProgress CompetitionStatus = "in_progress"
	CompetitionCompleted  CompetitionStatus = "completed"
)

// ScoringRules describes how a scoreline decides a match: best-of style
// set counts and the nominal points per set for the sport.
type ScoringRules struct {
	SetsToWin    int `json:"sets_to_win"`
	PointsPerSet int `json:"points_per_set"`
}

// Competition is the immutable descriptor a draw generation consumes.
type Competition struct {
	ID              string            `json:"id" db:"id"`
	TournamentID    string            `json:"tournament_id" db:"tournament_id"`
	Name            string            `json:"name" db:"name"`
	Sport           string            `json:"sport" db:"sport"`
	Format          CompetitionFormat `json:"format" db:"format"`
	ParticipantType ParticipantType   `json:"participant_type" db:"participant_type"`
	NumGroups       int               `json:"num_groups" db:"num_groups"`
	AdvancePerGroup int               `json:"advance_per_group" db:"advance_per_group"`
	Scoring         ScoringRules      `json:"scoring_rules"`
	Status          CompetitionStatus `json:"status" db:"status"`
	DivisionID      *string           `json:"division_id,omitempty" db:"division_id"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`

	// Registered participant ids, loaded by the service layer.
	ParticipantIDs []string `json:"participant_ids,omitempty" db:"-"`
}
