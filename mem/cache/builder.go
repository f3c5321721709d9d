package cache

import (
	"fmt"

	"github.com/sarchlab/cachecomp/mem/cache/competition"
	"github.com/sarchlab/cachecomp/mem/cache/replacement"
)

// Builder can build cache comps.
type Builder struct {
	numSets          int
	wayAssociativity int
	numCPUs          int
	log2BlockSize    int
	replaceStrategy  string
	randomSeed       int64
	policy           replacement.Policy
	stats            *competition.Stats
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numSets:          2048,
		wayAssociativity: 16,
		numCPUs:          1,
		log2BlockSize:    6,
		replaceStrategy:  "partition",
	}
}

// WithNumSets sets the number of sets of the cache.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithWayAssociativity sets the number of ways per set.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithNumCPUs sets the number of CPUs that compete in the cache.
func (b Builder) WithNumCPUs(numCPUs int) Builder {
	b.numCPUs = numCPUs
	return b
}

// WithLog2BlockSize sets the log2 of the cache line size.
func (b Builder) WithLog2BlockSize(log2BlockSize int) Builder {
	b.log2BlockSize = log2BlockSize
	return b
}

// WithReplaceStrategy selects the replacement policy by name, either
// "partition" or "random".
func (b Builder) WithReplaceStrategy(replaceStrategy string) Builder {
	b.replaceStrategy = replaceStrategy
	return b
}

// WithRandomSeed sets the seed of the random replacement policy.
func (b Builder) WithRandomSeed(seed int64) Builder {
	b.randomSeed = seed
	return b
}

// WithPolicy injects a replacement policy directly, overriding the strategy
// name.
func (b Builder) WithPolicy(policy replacement.Policy) Builder {
	b.policy = policy
	return b
}

// WithStats injects a competition stats engine. Without one, Build creates a
// fresh engine named after the cache.
func (b Builder) WithStats(stats *competition.Stats) Builder {
	b.stats = stats
	return b
}

// Build builds a cache.
func (b Builder) Build(name string) *Comp {
	b.mustHaveValidGeometry()

	c := &Comp{
		name:          name,
		numSets:       b.numSets,
		numWays:       b.wayAssociativity,
		numCPUs:       b.numCPUs,
		log2BlockSize: b.log2BlockSize,
		stats:         b.stats,
	}

	if c.stats == nil {
		c.stats = competition.NewStats(name, b.numCPUs)
	}

	c.sets = make([]Set, b.numSets)
	for i := range c.sets {
		blocks := make([]Block, b.wayAssociativity)
		for w := range blocks {
			blocks[w] = Block{SetID: i, WayID: w}
		}

		c.sets[i].Blocks = blocks
	}

	c.policy = b.createPolicy()
	c.policy.Initialize()

	return c
}

func (b Builder) createPolicy() replacement.Policy {
	if b.policy != nil {
		return b.policy
	}

	switch b.replaceStrategy {
	case "partition":
		return replacement.NewPartitionPolicy(
			b.numSets, b.wayAssociativity, b.numCPUs)
	case "random":
		return replacement.NewRandomPolicy(b.wayAssociativity, b.randomSeed)
	default:
		panic("unknown replace strategy: " + b.replaceStrategy)
	}
}

func (b Builder) mustHaveValidGeometry() {
	if b.numSets <= 0 || b.wayAssociativity <= 0 {
		panic(fmt.Sprintf(
			"cache: geometry %d sets x %d ways must be positive",
			b.numSets, b.wayAssociativity))
	}

	if b.log2BlockSize < 0 {
		panic("cache: log2 block size must not be negative")
	}

	if b.numCPUs <= 0 || b.numCPUs > competition.MaxCPUs {
		panic(fmt.Sprintf(
			"cache: CPU count %d out of range [1, %d]",
			b.numCPUs, competition.MaxCPUs))
	}
}
