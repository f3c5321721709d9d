package replacement

import (
	"fmt"

	"github.com/sarchlab/cachecomp/mem/cache/competition"
)

// PartitionPolicy statically divides the ways of every set into contiguous
// per-CPU partitions and runs an LRU victim search restricted to the
// requesting CPU's partition. Partitions are fixed for the run once
// Initialize completes.
type PartitionPolicy struct {
	numSets int
	numWays int
	numCPUs int

	// leftMargins[i] is the first way owned by CPU i; CPU i owns
	// [leftMargins[i], leftMargins[i+1]) in every set.
	leftMargins []int

	// lastUsed holds one recency stamp per (set, way), indexed
	// set*numWays+way. Stamps come from a single policy-owned clock so
	// they are comparable across CPUs within a set.
	lastUsed []uint64
	clock    uint64
}

// NewPartitionPolicy creates a PartitionPolicy. It panics on invalid
// geometry or a CPU count outside [1, competition.MaxCPUs].
func NewPartitionPolicy(numSets, numWays, numCPUs int) *PartitionPolicy {
	if numSets <= 0 || numWays <= 0 {
		panic(fmt.Sprintf(
			"replacement: geometry %d sets x %d ways must be positive",
			numSets, numWays))
	}

	if numCPUs <= 0 || numCPUs > competition.MaxCPUs {
		panic(fmt.Sprintf(
			"replacement: CPU count %d out of range [1, %d]",
			numCPUs, competition.MaxCPUs))
	}

	return &PartitionPolicy{
		numSets:     numSets,
		numWays:     numWays,
		numCPUs:     numCPUs,
		leftMargins: make([]int, numCPUs+1),
		lastUsed:    make([]uint64, numSets*numWays),
	}
}

// Initialize computes the partition margins by dividing the ways evenly
// across the CPUs. Remainder ways fold into the last CPU's partition because
// the final margin is clamped to the way count. Calling Initialize again
// recomputes the same table.
func (p *PartitionPolicy) Initialize() {
	waysPerCPU := p.numWays / p.numCPUs

	p.leftMargins[0] = 0
	for i := 1; i < p.numCPUs; i++ {
		p.leftMargins[i] = i * waysPerCPU
	}
	p.leftMargins[p.numCPUs] = p.numWays

	p.mustHaveValidMargins()
}

// PartitionRange returns the half-open way range [start, end) owned by a
// CPU. The range may be empty when there are fewer ways than CPUs.
func (p *PartitionPolicy) PartitionRange(cpu int) (start, end int) {
	p.mustBeValidCPU(cpu)

	return p.leftMargins[cpu], p.leftMargins[cpu+1]
}

// FindVictim selects a victim within the requesting CPU's partition. Invalid
// ways win first, in index order, so each CPU warms up its own partition
// before any eviction happens. Otherwise the way with the smallest recency
// stamp wins, ties going to the lowest index.
//
// A CPU with an empty partition must not request victims; doing so is a
// caller contract violation and panics.
func (p *PartitionPolicy) FindVictim(
	cpu, setID int,
	set []BlockView,
	t AccessType,
) int {
	p.mustBeValidSet(setID)

	start, end := p.PartitionRange(cpu)
	if start == end {
		panic(fmt.Sprintf(
			"replacement: CPU %d has an empty partition and cannot evict",
			cpu))
	}

	for w := start; w < end; w++ {
		if !set[w].Valid {
			return w
		}
	}

	base := setID * p.numWays
	victim := start
	for w := start + 1; w < end; w++ {
		if p.lastUsed[base+w] < p.lastUsed[base+victim] {
			victim = w
		}
	}

	return victim
}

// UpdateOnFill stamps the filled way as used now.
func (p *PartitionPolicy) UpdateOnFill(cpu, setID, wayID int, t AccessType) {
	p.mustBeValidSet(setID)
	p.mustBeValidWay(wayID)

	p.stamp(setID, wayID)
}

// UpdateOnAccess refreshes the recency of a way on a hit, unless the access
// is a write. Write hits deliberately do not refresh recency, which makes
// write-heavy occupants more evictable.
func (p *PartitionPolicy) UpdateOnAccess(
	cpu, setID, wayID int,
	t AccessType,
	hit bool,
) {
	p.mustBeValidSet(setID)
	p.mustBeValidWay(wayID)

	if hit && t != Write {
		p.stamp(setID, wayID)
	}
}

func (p *PartitionPolicy) stamp(setID, wayID int) {
	p.lastUsed[setID*p.numWays+wayID] = p.clock
	p.clock++
}

func (p *PartitionPolicy) mustHaveValidMargins() {
	if p.leftMargins[0] != 0 || p.leftMargins[p.numCPUs] != p.numWays {
		panic(fmt.Sprintf(
			"replacement: margin table %v must span [0, %d]",
			p.leftMargins, p.numWays))
	}

	for i := 0; i < p.numCPUs; i++ {
		if p.leftMargins[i] > p.leftMargins[i+1] {
			panic(fmt.Sprintf(
				"replacement: margin table %v is not monotonic",
				p.leftMargins))
		}
	}
}

func (p *PartitionPolicy) mustBeValidCPU(cpu int) {
	if cpu < 0 || cpu >= p.numCPUs {
		panic(fmt.Sprintf(
			"replacement: CPU %d out of range [0, %d)", cpu, p.numCPUs))
	}
}

func (p *PartitionPolicy) mustBeValidSet(setID int) {
	if setID < 0 || setID >= p.numSets {
		panic(fmt.Sprintf(
			"replacement: set %d out of range [0, %d)", setID, p.numSets))
	}
}

func (p *PartitionPolicy) mustBeValidWay(wayID int) {
	if wayID < 0 || wayID >= p.numWays {
		panic(fmt.Sprintf(
			"replacement: way %d out of range [0, %d)", wayID, p.numWays))
	}
}
