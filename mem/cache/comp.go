package cache

import (
	"fmt"
	"sync"

	"github.com/sarchlab/cachecomp/mem/cache/competition"
	"github.com/sarchlab/cachecomp/mem/cache/replacement"
)

// A Comp models one shared cache. It owns the set/way array and a cycle
// counter, forwards victim selection to its replacement policy, and reports
// every access, fill, and eviction to its competition stats.
//
// All mutation of one Comp comes from a single simulated timeline. The cycle
// counter advances by one per processed access; idle time is advanced
// explicitly with AdvanceCycle. Mutating operations and the Snapshot and
// SinceHeartbeat views serialize through an internal lock, so a monitoring
// goroutine can read a cache while its timeline runs.
type Comp struct {
	name string
	mu   sync.Mutex

	numSets       int
	numWays       int
	numCPUs       int
	log2BlockSize int

	sets   []Set
	policy replacement.Policy
	stats  *competition.Stats
	cycle  uint64
}

// Name returns the name of the cache.
func (c *Comp) Name() string {
	return c.name
}

// CurrentCycle returns the cache's logical cycle counter.
func (c *Comp) CurrentCycle() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cycle
}

// Stats returns the competition statistics engine of the cache. Direct reads
// of the engine do not serialize with a running timeline; concurrent
// observers use Snapshot and SinceHeartbeat instead.
func (c *Comp) Stats() *competition.Stats {
	return c.stats
}

// Snapshot returns a copy of the cumulative competition counters. It may be
// called while another goroutine drives the cache.
func (c *Comp) Snapshot() competition.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats.Snapshot()
}

// SinceHeartbeat returns the counters accumulated since the last heartbeat
// without closing the window. Like Snapshot, it may be called while another
// goroutine drives the cache.
func (c *Comp) SinceHeartbeat() competition.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats.SinceHeartbeat()
}

// NumCPUs returns the number of CPUs that compete in the cache.
func (c *Comp) NumCPUs() int {
	return c.numCPUs
}

// SetID returns the set an address maps to.
func (c *Comp) SetID(addr uint64) int {
	return int((addr >> c.log2BlockSize) % uint64(c.numSets))
}

// Access performs one access on behalf of a CPU and advances the cache cycle
// by one. On a miss it selects a victim, evicts it if valid, and fills the
// line. It returns whether the access hit.
func (c *Comp) Access(cpu int, addr uint64, t replacement.AccessType) bool {
	c.mustBeValidCPU(cpu)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cycle++

	tag := addr >> c.log2BlockSize
	setID := c.SetID(addr)
	set := &c.sets[setID]

	if blk, found := lookup(set, tag); found {
		c.stats.RecordAccess(cpu, true)
		c.policy.UpdateOnAccess(cpu, blk.SetID, blk.WayID, t, true)

		return true
	}

	c.stats.RecordAccess(cpu, false)
	wayID := c.fill(cpu, setID, tag, t)
	c.policy.UpdateOnAccess(cpu, setID, wayID, t, false)

	return false
}

// AdvanceCycle moves the cache clock forward without processing an access.
func (c *Comp) AdvanceCycle(cycles uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cycle += cycles
}

// SampleOccupancy records one way-occupancy sampling round: for each CPU,
// the number of valid ways it currently owns across all sets.
func (c *Comp) SampleOccupancy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	perCPU := make([]uint64, c.numCPUs)

	for s := range c.sets {
		for w := range c.sets[s].Blocks {
			b := &c.sets[s].Blocks[w]
			if b.Valid {
				perCPU[b.CPU]++
			}
		}
	}

	c.stats.AddOccupancySample(perCPU)
}

// Heartbeat closes one reporting window. It walks all resident lines to
// accumulate their interim lifetimes, then returns the per-period delta of
// every competition counter.
func (c *Comp) Heartbeat() competition.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	for s := range c.sets {
		for w := range c.sets[s].Blocks {
			b := &c.sets[s].Blocks[w]
			if b.Valid {
				c.stats.AddInterimLifetime(b.CPU, c.cycle-b.FillCycle)
			}
		}
	}

	return c.stats.Heartbeat()
}

func (c *Comp) fill(
	cpu, setID int,
	tag uint64,
	t replacement.AccessType,
) int {
	set := &c.sets[setID]

	wayID := c.policy.FindVictim(cpu, setID, snapshotSet(set), t)
	if wayID < 0 || wayID >= c.numWays {
		panic(fmt.Sprintf(
			"cache %s: victim way %d out of range [0, %d)",
			c.name, wayID, c.numWays))
	}

	block := &set.Blocks[wayID]
	if block.Valid {
		c.stats.RecordEviction(cpu, block.CPU, c.cycle-block.FillCycle)
	}

	block.Tag = tag
	block.CPU = cpu
	block.Valid = true
	block.FillCycle = c.cycle

	c.policy.UpdateOnFill(cpu, block.SetID, block.WayID, t)
	c.stats.RecordFill(cpu)

	return wayID
}

func (c *Comp) mustBeValidCPU(cpu int) {
	if cpu < 0 || cpu >= c.numCPUs {
		panic(fmt.Sprintf(
			"cache %s: CPU %d out of range [0, %d)", c.name, cpu, c.numCPUs))
	}
}

func lookup(set *Set, tag uint64) (*Block, bool) {
	for w := range set.Blocks {
		b := &set.Blocks[w]
		if b.Valid && b.Tag == tag {
			return b, true
		}
	}

	return nil, false
}

func snapshotSet(set *Set) []replacement.BlockView {
	views := make([]replacement.BlockView, len(set.Blocks))

	for w := range set.Blocks {
		b := &set.Blocks[w]
		views[w] = replacement.BlockView{
			Valid: b.Valid,
			CPU:   b.CPU,
			Tag:   b.Tag,
		}
	}

	return views
}
