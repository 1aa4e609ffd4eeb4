package engine

import "github.com/rallydesk/rallydesk/models"

// MatchGraph is the full match set of one draw generation, addressable by
// id. NextMatchID edges form a forest for elimination draws and are absent
// for round-robin and group matches.
//
// The graph itself is not safe for concurrent mutation; the caller is
// expected to serialize operations per competition (see ProgressionEngine).
type MatchGraph struct {
	byID  map[string]*models.Match
	order []string
}

func NewMatchGraph(matches []*models.Match) *MatchGraph {
	g := &MatchGraph{
		byID:  make(map[string]*models.Match, len(matches)),
		order: make([]string, 0, len(matches)),
	}
	for _, m := range matches {
		g.byID[m.ID] = m
		g.order = append(g.order, m.ID)
	}
	return g
}

func (g *MatchGraph) Get(id string) (*models.Match, bool) {
	m, ok := g.byID[id]
	return m, ok
}

func (g *MatchGraph) Len() int {
	return len(g.order)
}

// Matches returns all matches in creation order.
func (g *MatchGraph) Matches() []*models.Match {
	out := make([]*models.Match, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.byID[id])
	}
	return out
}

// Completed returns completed matches, optionally restricted to one group.
func (g *MatchGraph) Completed(group *int) []*models.Match {
	out := make([]*models.Match, 0, len(g.order))
	for _, id := range g.order {
		m := g.byID[id]
		if m.Status != models.MatchStatusCompleted {
			continue
		}
		if group != nil && (m.GroupNumber == nil || *m.GroupNumber != *group) {
			continue
		}
		out = append(out, m)
	}
	return out
}
