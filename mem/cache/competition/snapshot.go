// Package competition tracks how simulated CPUs interfere with each other
// inside a shared cache.
package competition

// MaxCPUs is the upper bound of CPUs that competition tracking supports.
// Per-CPU vectors are sized to this bound regardless of the configured CPU
// count so that snapshots stay cheap to copy and subtract.
const MaxCPUs = 16

// A Snapshot holds the value of every competition counter at one point in
// time. Subtracting two snapshots yields the counters for the window between
// them.
type Snapshot struct {
	Name string `json:"name"`

	// Per-CPU access counts at the shared cache.
	Accesses [MaxCPUs]uint64 `json:"accesses"`
	Misses   [MaxCPUs]uint64 `json:"misses"`

	// EvictionsCaused counts only cross-CPU displacements by the evictor.
	// EvictedByOthers is its victim-side mirror. TotalEvictionsCaused
	// includes same-owner refills.
	EvictionsCaused      [MaxCPUs]uint64 `json:"evictions_caused"`
	EvictedByOthers      [MaxCPUs]uint64 `json:"evicted_by_others"`
	TotalEvictionsCaused [MaxCPUs]uint64 `json:"total_evictions_caused"`

	// Eviction count and accumulated resident lifetime, both attributed to
	// the CPU that owned the evicted line.
	EvictionCount       [MaxCPUs]uint64 `json:"eviction_count"`
	TotalLifetimeCycles [MaxCPUs]uint64 `json:"total_lifetime_cycles"`

	// Way-occupancy sampling. The sample count is shared across CPUs, one
	// increment per sampling round.
	WayOccupancySamples     [MaxCPUs]uint64 `json:"way_occupancy_samples"`
	WayOccupancySampleCount uint64          `json:"way_occupancy_sample_count"`

	// Interim lifetimes of lines that are still resident, accumulated at
	// each heartbeat. They complement TotalLifetimeCycles, which only sees
	// lines after they have left.
	InterimLifetimeSum [MaxCPUs]uint64 `json:"interim_lifetime_sum"`
	InterimLineCount   [MaxCPUs]uint64 `json:"interim_line_count"`

	// Fill counts, the arrival rate source for Little's Law.
	FillCount [MaxCPUs]uint64 `json:"fill_count"`
}

// Sub subtracts another snapshot elementwise, including every per-CPU vector
// position up to MaxCPUs. The name is taken from the receiver.
func (s Snapshot) Sub(o Snapshot) Snapshot {
	d := Snapshot{Name: s.Name}

	for c := 0; c < MaxCPUs; c++ {
		d.Accesses[c] = s.Accesses[c] - o.Accesses[c]
		d.Misses[c] = s.Misses[c] - o.Misses[c]
		d.EvictionsCaused[c] = s.EvictionsCaused[c] - o.EvictionsCaused[c]
		d.EvictedByOthers[c] = s.EvictedByOthers[c] - o.EvictedByOthers[c]
		d.TotalEvictionsCaused[c] =
			s.TotalEvictionsCaused[c] - o.TotalEvictionsCaused[c]
		d.EvictionCount[c] = s.EvictionCount[c] - o.EvictionCount[c]
		d.TotalLifetimeCycles[c] =
			s.TotalLifetimeCycles[c] - o.TotalLifetimeCycles[c]
		d.WayOccupancySamples[c] =
			s.WayOccupancySamples[c] - o.WayOccupancySamples[c]
		d.InterimLifetimeSum[c] =
			s.InterimLifetimeSum[c] - o.InterimLifetimeSum[c]
		d.InterimLineCount[c] = s.InterimLineCount[c] - o.InterimLineCount[c]
		d.FillCount[c] = s.FillCount[c] - o.FillCount[c]
	}

	d.WayOccupancySampleCount =
		s.WayOccupancySampleCount - o.WayOccupancySampleCount

	return d
}

// AvgLifetime estimates the average resident lifetime of one CPU's lines
// over a reporting window using Little's Law, W = L * period / fills, where
// L is the average way occupancy observed in the window. A window with no
// fills or no occupancy samples reports 0.
func AvgLifetime(delta Snapshot, cpu int, periodCycles uint64) float64 {
	fills := delta.FillCount[cpu]
	if fills == 0 || delta.WayOccupancySampleCount == 0 {
		return 0
	}

	avgOccupancy := float64(delta.WayOccupancySamples[cpu]) /
		float64(delta.WayOccupancySampleCount)

	return avgOccupancy * float64(periodCycles) / float64(fills)
}
