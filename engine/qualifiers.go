package engine

import "github.com/rallydesk/rallydesk/models"

// SelectQualifiers extracts the top advancePerGroup participants of each
// group's standings, concatenated in group order 1..numGroups. The result
// feeds a fresh single-elimination build for the knockout stage.
func SelectQualifiers(matches []*models.Match, numGroups, advancePerGroup int) []string {
	if numGroups < 1 {
		numGroups = 1
	}
	if advancePerGroup < 1 {
		advancePerGroup = 1
	}

	qualifiers := make([]string, 0, numGroups*advancePerGroup)
	for g := 1; g <= numGroups; g++ {
		group := g
		table := CalculateStandings(matches, &group)
		limit := advancePerGroup
		if limit > len(table) {
			limit = len(table)
		}
		for _, row := range table[:limit] {
			qualifiers = append(qualifiers, row.ParticipantID)
		}
	}
	return qualifiers
}
