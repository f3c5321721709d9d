package datarecording

import (
	"github.com/sarchlab/cachecomp/mem/cache/competition"
)

// A HeartbeatEntry is one CPU's row for one heartbeat window. All counter
// fields are per-period deltas, not cumulative totals.
type HeartbeatEntry struct {
	Heartbeat uint64
	Cycle     uint64
	CPU       uint64

	Accesses uint64
	Misses   uint64

	EvictionsCaused      uint64
	EvictedByOthers      uint64
	TotalEvictionsCaused uint64
	Evictions            uint64
	LifetimeCycles       uint64

	InterimLifetimeSum uint64
	InterimLineCount   uint64

	Fills                 uint64
	OccupancySamples      uint64
	OccupancySampleRounds uint64

	// AvgLifetime is the Little's-Law estimate for the window, 0 when the
	// window has no fills.
	AvgLifetime float64
}

// A CompetitionLogger flattens per-heartbeat competition deltas into rows of
// a recorder table, one row per CPU per heartbeat.
type CompetitionLogger struct {
	recorder  DataRecorder
	tableName string
	numCPUs   int
	heartbeat uint64
}

// NewCompetitionLogger creates the backing table and returns a logger for
// it.
func NewCompetitionLogger(
	recorder DataRecorder,
	tableName string,
	numCPUs int,
) *CompetitionLogger {
	l := &CompetitionLogger{
		recorder:  recorder,
		tableName: tableName,
		numCPUs:   numCPUs,
	}

	recorder.CreateTable(tableName, HeartbeatEntry{})

	return l
}

// LogHeartbeat records one closed reporting window ending at cycle.
func (l *CompetitionLogger) LogHeartbeat(
	cycle, periodCycles uint64,
	delta competition.Snapshot,
) {
	l.heartbeat++

	for cpu := 0; cpu < l.numCPUs; cpu++ {
		l.recorder.InsertData(l.tableName, HeartbeatEntry{
			Heartbeat: l.heartbeat,
			Cycle:     cycle,
			CPU:       uint64(cpu),

			Accesses: delta.Accesses[cpu],
			Misses:   delta.Misses[cpu],

			EvictionsCaused:      delta.EvictionsCaused[cpu],
			EvictedByOthers:      delta.EvictedByOthers[cpu],
			TotalEvictionsCaused: delta.TotalEvictionsCaused[cpu],
			Evictions:            delta.EvictionCount[cpu],
			LifetimeCycles:       delta.TotalLifetimeCycles[cpu],

			InterimLifetimeSum: delta.InterimLifetimeSum[cpu],
			InterimLineCount:   delta.InterimLineCount[cpu],

			Fills:                 delta.FillCount[cpu],
			OccupancySamples:      delta.WayOccupancySamples[cpu],
			OccupancySampleRounds: delta.WayOccupancySampleCount,

			AvgLifetime: competition.AvgLifetime(delta, cpu, periodCycles),
		})
	}
}
