package engine

import "github.com/rallydesk/rallydesk/models"

// ProgressionEngine owns all post-creation mutation of a match graph:
// result recording with winner advancement, and the administrative
// overrides for bracket correction. It performs no I/O; callers persist
// the mutated matches inside whatever transaction boundary they run in.
type ProgressionEngine struct {
	graph *MatchGraph
}

func NewProgressionEngine(graph *MatchGraph) *ProgressionEngine {
	return &ProgressionEngine{graph: graph}
}

type ProgressionResult struct {
	Match *models.Match
	// Next is the downstream match whose slot received the winner, if any.
	Next *models.Match
}

// WinnerSide derives which side a scoreline awards: count sets won per
// side, strictly more sets wins. A tie is rejected rather than guessed.
func WinnerSide(scores []models.SetScore) (int, error) {
	sets1, sets2 := 0, 0
	for _, s := range scores {
		switch {
		case s.Score1 > s.Score2:
			sets1++
		case s.Score2 > s.Score1:
			sets2++
		}
	}
	switch {
	case sets1 > sets2:
		return 1, nil
	case sets2 > sets1:
		return 2, nil
	default:
		return 0, ErrIndeterminateResult
	}
}

// ResolveWinner maps a scoreline onto a match's participants.
func ResolveWinner(m *models.Match, scores []models.SetScore) (string, error) {
	side, err := WinnerSide(scores)
	if err != nil {
		return "", err
	}
	slot := m.Slot1
	if side == 2 {
		slot = m.Slot2
	}
	if !slot.Filled() {
		return "", ErrIndeterminateResult
	}
	return *slot.ParticipantID, nil
}

// RecordResult completes a match and advances the winner along the
// NextMatchID edge, filling the downstream match's first open slot (slot 1
// checked before slot 2). Completion is append-only: a completed match is
// never silently overwritten, and propagation happens exactly once.
//
// All validation runs before any mutation, so a rejected call leaves the
// graph untouched.
func (e *ProgressionEngine) RecordResult(matchID, winnerID string, scores []models.SetScore) (*ProgressionResult, error) {
	m, ok := e.graph.Get(matchID)
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.Status == models.MatchStatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if m.Status == models.MatchStatusCancelled {
		return nil, ErrMatchCancelled
	}
	if !m.HasParticipant(winnerID) {
		return nil, ErrInvalidWinner
	}

	var next *models.Match
	if m.NextMatchID != nil {
		next, ok = e.graph.Get(*m.NextMatchID)
		if !ok {
			return nil, ErrInconsistentProgression
		}
		if !next.Slot1.Open() && !next.Slot2.Open() {
			return nil, ErrInconsistentProgression
		}
	}

	m.WinnerID = &winnerID
	m.Scores = scores
	m.Status = models.MatchStatusCompleted

	if next != nil {
		if next.Slot1.Open() {
			next.Slot1 = models.ParticipantSlot(winnerID)
		} else {
			next.Slot2 = models.ParticipantSlot(winnerID)
		}
	}

	return &ProgressionResult{Match: m, Next: next}, nil
}

// ManualAdvance completes a match with an explicit winner and no scoreline.
// Unlike RecordResult it never propagates downstream; an operator fixing a
// bracket moves participants explicitly.
func (e *ProgressionEngine) ManualAdvance(matchID, winnerID string) (*models.Match, error) {
	m, ok := e.graph.Get(matchID)
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.Status == models.MatchStatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if m.Status == models.MatchStatusCancelled {
		return nil, ErrMatchCancelled
	}
	if !m.HasParticipant(winnerID) {
		return nil, ErrInvalidWinner
	}

	m.WinnerID = &winnerID
	m.Status = models.MatchStatusCompleted
	return m, nil
}

// SwapParticipants exchanges the occupants of the same slot between two
// matches. Completed matches keep their participants frozen.
func (e *ProgressionEngine) SwapParticipants(matchAID, matchBID string, slot int) error {
	if slot != 1 && slot != 2 {
		return ErrInvalidSlot
	}
	a, ok := e.graph.Get(matchAID)
	if !ok {
		return ErrMatchNotFound
	}
	b, ok := e.graph.Get(matchBID)
	if !ok {
		return ErrMatchNotFound
	}
	if a.Status == models.MatchStatusCompleted || b.Status == models.MatchStatusCompleted {
		return ErrAlreadyCompleted
	}

	if slot == 1 {
		a.Slot1, b.Slot1 = b.Slot1, a.Slot1
	} else {
		a.Slot2, b.Slot2 = b.Slot2, a.Slot2
	}
	return nil
}

// MoveParticipant moves the occupant of a source slot into the target
// match's first open slot, leaving the source slot open.
func (e *ProgressionEngine) MoveParticipant(sourceID string, slot int, targetID string) error {
	if slot != 1 && slot != 2 {
		return ErrInvalidSlot
	}
	src, ok := e.graph.Get(sourceID)
	if !ok {
		return ErrMatchNotFound
	}
	dst, ok := e.graph.Get(targetID)
	if !ok {
		return ErrMatchNotFound
	}
	if src.Status == models.MatchStatusCompleted || dst.Status == models.MatchStatusCompleted {
		return ErrAlreadyCompleted
	}

	var moving models.Slot
	if slot == 1 {
		moving = src.Slot1
	} else {
		moving = src.Slot2
	}
	if !moving.Filled() {
		return ErrInvalidSlot
	}
	if !dst.Slot1.Open() && !dst.Slot2.Open() {
		return ErrInconsistentProgression
	}

	if dst.Slot1.Open() {
		dst.Slot1 = moving
	} else {
		dst.Slot2 = moving
	}
	if slot == 1 {
		src.Slot1 = models.Slot{}
	} else {
		src.Slot2 = models.Slot{}
	}
	return nil
}
