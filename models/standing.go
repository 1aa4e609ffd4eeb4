package models

// Standing is one row of a derived standings table. It is recomputed from
// completed matches on demand and never persisted as source of truth.
type Standing struct {
	ParticipantID string `json:"participant_id"`
	GroupNumber   *int   `json:"group_number,omitempty"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	SetsFor       int    `json:"sets_for"`
	SetsAgainst   int    `json:"sets_against"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	Rank          int    `json:"rank"`
}

func (s Standing) PointDiff() int {
	return s.PointsFor - s.PointsAgainst
}

func (s Standing) SetDiff() int {
	return s.SetsFor - s.SetsAgainst
}
