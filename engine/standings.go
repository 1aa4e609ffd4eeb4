package engine

import (
	"sort"

	"github.com/rallydesk/rallydesk/models"
)

// CalculateStandings folds completed matches into per-participant rows and
// ranks them. Only matches with two concrete participants count; bye
// walkovers are not played matches.
//
// Sort keys are wins desc, then point differential desc. Deeper tie-breaks
// (head-to-head, strength of schedule) are deliberately not implemented;
// rows that tie on both keys fall back to participant id so the output is
// deterministic on every platform, not a ranking statement.
func CalculateStandings(matches []*models.Match, group *int) []models.Standing {
	rows := make(map[string]*models.Standing)
	order := make([]string, 0)

	row := func(id string) *models.Standing {
		r, ok := rows[id]
		if !ok {
			r = &models.Standing{ParticipantID: id, GroupNumber: group}
			rows[id] = r
			order = append(order, id)
		}
		return r
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		if group != nil && (m.GroupNumber == nil || *m.GroupNumber != *group) {
			continue
		}
		if !m.Slot1.Filled() || !m.Slot2.Filled() {
			continue
		}

		p1, p2 := *m.Slot1.ParticipantID, *m.Slot2.ParticipantID
		r1, r2 := row(p1), row(p2)
		r1.Played++
		r2.Played++
		if *m.WinnerID == p1 {
			r1.Wins++
			r2.Losses++
		} else {
			r2.Wins++
			r1.Losses++
		}

		for _, s := range m.Scores {
			r1.PointsFor += s.Score1
			r1.PointsAgainst += s.Score2
			r2.PointsFor += s.Score2
			r2.PointsAgainst += s.Score1
			switch {
			case s.Score1 > s.Score2:
				r1.SetsFor++
				r2.SetsAgainst++
			case s.Score2 > s.Score1:
				r2.SetsFor++
				r1.SetsAgainst++
			}
		}
	}

	table := make([]models.Standing, 0, len(order))
	for _, id := range order {
		table = append(table, *rows[id])
	}

	sort.Slice(table, func(i, j int) bool {
		if table[i].Wins != table[j].Wins {
			return table[i].Wins > table[j].Wins
		}
		if table[i].PointDiff() != table[j].PointDiff() {
			return table[i].PointDiff() > table[j].PointDiff()
		}
		return table[i].ParticipantID < table[j].ParticipantID
	})

	for i := range table {
		table[i].Rank = i + 1
	}
	return table
}
