// Package workload generates synthetic multi-CPU cache access streams for
// driving competition simulations.
package workload

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/cachecomp/mem/cache/replacement"
)

// An Agent replays a deterministic random access stream on behalf of one
// CPU. Agents place their lines in the same sets but under CPU-unique tags,
// so all interference between them happens through set conflicts.
type Agent struct {
	cpu        int
	footprint  uint64
	writeRatio float64
	blockShift int
	rng        *rand.Rand
}

// NewAgent creates an agent for one CPU. footprintLines is the number of
// distinct lines the agent cycles through; writeRatio is the fraction of
// accesses issued as writes; log2BlockSize aligns every address to the
// cache's block size. The same seed reproduces the same stream.
func NewAgent(
	cpu int,
	seed int64,
	footprintLines uint64,
	writeRatio float64,
	log2BlockSize int,
) *Agent {
	if cpu < 0 {
		panic(fmt.Sprintf("workload: CPU %d must not be negative", cpu))
	}

	if footprintLines == 0 {
		panic("workload: footprint must hold at least one line")
	}

	if writeRatio < 0 || writeRatio > 1 {
		panic(fmt.Sprintf(
			"workload: write ratio %f out of range [0, 1]", writeRatio))
	}

	// The line bits must stay below bit 40, where the CPU id field starts.
	if log2BlockSize <= 0 || log2BlockSize >= 40 {
		panic(fmt.Sprintf(
			"workload: log2 block size %d out of range (0, 40)",
			log2BlockSize))
	}

	return &Agent{
		cpu:        cpu,
		footprint:  footprintLines,
		writeRatio: writeRatio,
		blockShift: log2BlockSize,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Next returns the next access of the stream.
func (a *Agent) Next() (addr uint64, t replacement.AccessType) {
	line := a.rng.Uint64() % a.footprint

	// The CPU id lives above the line bits so that two agents never share
	// a tag while still colliding on set indices.
	addr = uint64(a.cpu+1)<<40 | line<<a.blockShift

	t = replacement.Load
	if a.rng.Float64() < a.writeRatio {
		t = replacement.Write
	}

	return addr, t
}
