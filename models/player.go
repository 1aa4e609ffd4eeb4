package models

import "time"

type Player struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Sport        string    `json:"sport" db:"sport"`
	Rating       *float64  `json:"rating,omitempty" db:"rating"`
	DivisionID   *string   `json:"division_id,omitempty" db:"division_id"`
	Wins         int       `json:"wins" db:"wins"`
	Losses       int       `json:"losses" db:"losses"`
	Played       int       `json:"matches_played" db:"matches_played"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Team struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Sport        string    `json:"sport" db:"sport"`
	PlayerIDs    []string  `json:"player_ids" db:"-"`
	Wins         int       `json:"wins" db:"wins"`
	Losses       int       `json:"losses" db:"losses"`
	Played       int       `json:"matches_played" db:"matches_played"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Players []Player `json:"players,omitempty" db:"-"`
}
