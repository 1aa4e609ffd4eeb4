package engine

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

type SeedPolicy string

const (
	SeedRandom SeedPolicy = "random"
	SeedRating SeedPolicy = "rating"
	SeedManual SeedPolicy = "manual"
)

type SeedOptions struct {
	Policy SeedPolicy
	// Ratings backs the rating policy; participants missing from the map
	// are treated as rated 0.
	Ratings map[string]float64
	// Manual is the exact order for the manual policy.
	Manual []string
}

// SeedOrderer turns a participant list into the ordered sequence used as
// bracket input, index 0 being the top seed. The random source is injected
// so tests can pin the shuffle; the mutex makes a shared orderer safe for
// concurrent draw generations.
type SeedOrderer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeedOrderer(src rand.Source) *SeedOrderer {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &SeedOrderer{rng: rand.New(src)}
}

func (o *SeedOrderer) Order(participants []string, opts SeedOptions) ([]string, error) {
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	switch opts.Policy {
	case SeedRandom, "":
		ordered := make([]string, len(participants))
		copy(ordered, participants)
		o.mu.Lock()
		o.rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
		o.mu.Unlock()
		return ordered, nil

	case SeedRating:
		ordered := make([]string, len(participants))
		copy(ordered, participants)
		// Stable sort keeps input-relative order between equal ratings.
		sort.SliceStable(ordered, func(i, j int) bool {
			return opts.Ratings[ordered[i]] > opts.Ratings[ordered[j]]
		})
		return ordered, nil

	case SeedManual:
		if !samePermutation(participants, opts.Manual) {
			return nil, ErrInvalidSeedOrder
		}
		ordered := make([]string, len(opts.Manual))
		copy(ordered, opts.Manual)
		return ordered, nil

	default:
		return nil, ErrUnknownSeedPolicy
	}
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		seen[id]--
		if seen[id] < 0 {
			return false
		}
	}
	return true
}
