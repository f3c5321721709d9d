package competition

import "fmt"

// Stats accumulates competition counters from cache access, fill, and
// eviction events, and tracks a last-heartbeat shadow copy of every counter
// so that per-period deltas can be reported instead of ever-growing totals.
//
// Stats is driven from a single simulated timeline and is not safe for
// concurrent use. A simulation that models several independent caches gives
// each of them its own Stats instance.
type Stats struct {
	numCPUs int

	live          Snapshot
	lastHeartbeat Snapshot
}

// NewStats creates a Stats for the given number of simulated CPUs. The CPU
// count must be in [1, MaxCPUs].
func NewStats(name string, numCPUs int) *Stats {
	if numCPUs <= 0 || numCPUs > MaxCPUs {
		panic(fmt.Sprintf(
			"competition: CPU count %d out of range [1, %d]",
			numCPUs, MaxCPUs))
	}

	s := &Stats{numCPUs: numCPUs}
	s.live.Name = name
	s.lastHeartbeat.Name = name

	return s
}

// Name returns the name the stats were created with.
func (s *Stats) Name() string {
	return s.live.Name
}

// NumCPUs returns the configured CPU count.
func (s *Stats) NumCPUs() int {
	return s.numCPUs
}

// RecordAccess counts one access by a CPU, and one miss if it did not hit.
func (s *Stats) RecordAccess(cpu int, hit bool) {
	s.mustBeValidCPU(cpu)

	s.live.Accesses[cpu]++
	if !hit {
		s.live.Misses[cpu]++
	}
}

// RecordFill counts one line fill on behalf of a CPU.
func (s *Stats) RecordFill(cpu int) {
	s.mustBeValidCPU(cpu)

	s.live.FillCount[cpu]++
}

// RecordEviction attributes one eviction. The caller reports each evicted
// line exactly once. The victim owner always pays the eviction and banks the
// line's resident lifetime; the cross-CPU counters move only when the
// evictor displaces another CPU's line.
func (s *Stats) RecordEviction(evictor, victimOwner int, lifetimeCycles uint64) {
	s.mustBeValidCPU(evictor)
	s.mustBeValidCPU(victimOwner)

	s.live.TotalEvictionsCaused[evictor]++
	if evictor != victimOwner {
		s.live.EvictionsCaused[evictor]++
		s.live.EvictedByOthers[victimOwner]++
	}

	s.live.EvictionCount[victimOwner]++
	s.live.TotalLifetimeCycles[victimOwner] += lifetimeCycles
}

// AddOccupancySample records one way-occupancy sampling round. perCPU holds
// the number of valid ways each CPU currently owns across all sets. The
// shared sample count advances once per round, not once per CPU.
func (s *Stats) AddOccupancySample(perCPU []uint64) {
	if len(perCPU) > s.numCPUs {
		panic(fmt.Sprintf(
			"competition: occupancy sample for %d CPUs, configured %d",
			len(perCPU), s.numCPUs))
	}

	for c, n := range perCPU {
		s.live.WayOccupancySamples[c] += n
	}

	s.live.WayOccupancySampleCount++
}

// AddInterimLifetime accumulates the so-far lifetime of one still-resident
// line, attributed to its owner. Called by the heartbeat walk of the cache.
func (s *Stats) AddInterimLifetime(owner int, cycles uint64) {
	s.mustBeValidCPU(owner)

	s.live.InterimLifetimeSum[owner] += cycles
	s.live.InterimLineCount[owner]++
}

// Snapshot returns a copy of the cumulative counters.
func (s *Stats) Snapshot() Snapshot {
	return s.live
}

// SinceHeartbeat returns the counters accumulated since the last heartbeat
// without closing the window.
func (s *Stats) SinceHeartbeat() Snapshot {
	return s.live.Sub(s.lastHeartbeat)
}

// Heartbeat closes the current reporting window: it returns the delta of
// every counter since the previous heartbeat and overwrites the shadow copy
// with the live values.
func (s *Stats) Heartbeat() Snapshot {
	delta := s.live.Sub(s.lastHeartbeat)
	s.lastHeartbeat = s.live

	return delta
}

func (s *Stats) mustBeValidCPU(cpu int) {
	if cpu < 0 || cpu >= s.numCPUs {
		panic(fmt.Sprintf(
			"competition: CPU %d out of range [0, %d)", cpu, s.numCPUs))
	}
}
