package replacement

import (
	"fmt"
	"math/rand"
)

// RandomPolicy fills invalid ways in index order and otherwise evicts a way
// drawn uniformly from the whole set. It is the non-competitive baseline and
// ignores partitioning entirely.
type RandomPolicy struct {
	numWays int
	rng     *rand.Rand
}

// NewRandomPolicy creates a RandomPolicy with a policy-local random source.
// The same seed reproduces the same victim sequence.
func NewRandomPolicy(numWays int, seed int64) *RandomPolicy {
	if numWays <= 0 {
		panic(fmt.Sprintf("replacement: way count %d must be positive", numWays))
	}

	return &RandomPolicy{
		numWays: numWays,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Initialize is a no-op. The policy has no precomputed state.
func (p *RandomPolicy) Initialize() {}

// FindVictim returns the lowest-index invalid way so that warm-up fills
// happen in index order. Once the set is full it draws uniformly from all
// ways.
func (p *RandomPolicy) FindVictim(
	cpu, setID int,
	set []BlockView,
	t AccessType,
) int {
	for w := 0; w < p.numWays; w++ {
		if !set[w].Valid {
			return w
		}
	}

	return p.rng.Intn(p.numWays)
}

// UpdateOnFill is a no-op. The policy keeps no per-line state.
func (p *RandomPolicy) UpdateOnFill(cpu, setID, wayID int, t AccessType) {}

// UpdateOnAccess is a no-op. The policy keeps no per-line state.
func (p *RandomPolicy) UpdateOnAccess(
	cpu, setID, wayID int,
	t AccessType,
	hit bool,
) {
}
