package models

import "time"

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// CanTransitionTo reports whether the status machine allows moving from s to next.
// Transitions only run forward; completed and cancelled are terminal.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	switch s {
	case MatchStatusPending:
		return next == MatchStatusScheduled || next == MatchStatusLive ||
			next == MatchStatusCompleted || next == MatchStatusCancelled
	case MatchStatusScheduled:
		return next == MatchStatusLive || next == MatchStatusCompleted || next == MatchStatusCancelled
	case MatchStatusLive:
		return next == MatchStatusCompleted
	default:
		return false
	}
}

type BracketType string

const (
	BracketWinners BracketType = "winners"
	BracketLosers  BracketType = "losers"
	BracketFinal   BracketType = "final"
	BracketGroup   BracketType = "group"
)

// Slot is one side of a match: a concrete participant, a bye marker, or
// open while the feeding match is still undecided.
type Slot struct {
	ParticipantID *string `json:"participant_id,omitempty"`
	Bye           bool    `json:"bye,omitempty"`
}

func ParticipantSlot(id string) Slot {
	return Slot{ParticipantID: &id}
}

func ByeSlot() Slot {
	return Slot{Bye: true}
}

func (s Slot) Filled() bool {
	return s.ParticipantID != nil
}

// Open reports whether the slot is still waiting on an upstream winner.
func (s Slot) Open() bool {
	return s.ParticipantID == nil && !s.Bye
}

func (s Slot) Is(participantID string) bool {
	return s.ParticipantID != nil && *s.ParticipantID == participantID
}

// SetScore is the score of a single set, participant 1 first.
type SetScore struct {
	SetNumber int `json:"set_number"`
	Score1    int `json:"participant1_score"`
	Score2    int `json:"participant2_score"`
}

type Match struct {
	ID            string      `json:"id" db:"id"`
	CompetitionID string      `json:"competition_id" db:"competition_id"`
	RoundNumber   int         `json:"round_number" db:"round_number"`
	MatchNumber   int         `json:"match_number" db:"match_number"`
	GroupNumber   *int        `json:"group_number,omitempty" db:"group_number"`
	Slot1         Slot        `json:"slot1"`
	Slot2         Slot        `json:"slot2"`
	WinnerID      *string     `json:"winner_id,omitempty" db:"winner_id"`
	Status        MatchStatus `json:"status" db:"status"`
	Scores        []SetScore  `json:"scores"`

	NextMatchID      *string     `json:"next_match_id,omitempty" db:"next_match_id"`
	LoserNextMatchID *string     `json:"loser_next_match_id,omitempty" db:"loser_next_match_id"`
	BracketType      BracketType `json:"bracket_type" db:"bracket_type"`
	BracketLabel     string      `json:"bracket_position" db:"bracket_label"`

	// Scheduling metadata owned by the surrounding service. The draw engine
	// preserves these fields but never interprets them.
	ResourceID    *string    `json:"resource_id,omitempty" db:"resource_id"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty" db:"scheduled_time"`
	RefereeName   *string    `json:"referee_name,omitempty" db:"referee_name"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Loser returns the id of the losing side of a completed match, if both
// sides were concrete participants.
func (m *Match) Loser() *string {
	if m.WinnerID == nil {
		return nil
	}
	if m.Slot1.Filled() && *m.Slot1.ParticipantID != *m.WinnerID {
		return m.Slot1.ParticipantID
	}
	if m.Slot2.Filled() && *m.Slot2.ParticipantID != *m.WinnerID {
		return m.Slot2.ParticipantID
	}
	return nil
}

func (m *Match) HasParticipant(participantID string) bool {
	return m.Slot1.Is(participantID) || m.Slot2.Is(participantID)
}
