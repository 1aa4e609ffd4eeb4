package models

import "time"

type TournamentStatus string

const (
	TournamentUpcoming   TournamentStatus = "upcoming"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
	TournamentCancelled  TournamentStatus = "cancelled"
)

type Tournament struct {
	ID          string           `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description *string          `json:"description,omitempty" db:"description"`
	Sport       string           `json:"sport" db:"sport"`
	OrganizerID string           `json:"organizer_id" db:"organizer_id"`
	StartDate   time.Time        `json:"start_date" db:"start_date"`
	EndDate     time.Time        `json:"end_date" db:"end_date"`
	Location    *string          `json:"location,omitempty" db:"location"`
	Status      TournamentStatus `json:"status" db:"status"`
	LogoKey     *string          `json:"-" db:"logo_key"`
	LogoURL     *string          `json:"logo_url,omitempty" db:"-"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	// Optional linked data populated by services, not mapped directly.
	Competitions []Competition `json:"competitions,omitempty" db:"-"`
	Divisions    []Division    `json:"divisions,omitempty" db:"-"`
}

// Division groups players inside a tournament (e.g. Men's Open, U18).
type Division struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Resource is a physical playing surface matches get scheduled onto
// (a court, a table). The draw engine never allocates resources itself.
type Resource struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Sport        string    `json:"sport" db:"sport"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
