package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func invalidSet(numWays int) []BlockView {
	return make([]BlockView, numWays)
}

func validSet(numWays int) []BlockView {
	set := make([]BlockView, numWays)
	for w := range set {
		set[w].Valid = true
	}

	return set
}

var _ = Describe("PartitionPolicy", func() {
	var p *PartitionPolicy

	BeforeEach(func() {
		p = NewPartitionPolicy(4, 8, 2)
		p.Initialize()
	})

	Context("partition table", func() {
		It("should divide the ways evenly across the CPUs", func() {
			start0, end0 := p.PartitionRange(0)
			start1, end1 := p.PartitionRange(1)

			Expect(start0).To(Equal(0))
			Expect(end0).To(Equal(4))
			Expect(start1).To(Equal(4))
			Expect(end1).To(Equal(8))
		})

		It("should fold remainder ways into the last partition", func() {
			p = NewPartitionPolicy(4, 10, 3)
			p.Initialize()

			start2, end2 := p.PartitionRange(2)

			Expect(start2).To(Equal(6))
			Expect(end2).To(Equal(10))
		})

		It("should assign every way to exactly one CPU", func() {
			owners := make([]int, 8)
			for way := range owners {
				owners[way] = -1
			}

			for cpu := 0; cpu < 2; cpu++ {
				start, end := p.PartitionRange(cpu)
				for way := start; way < end; way++ {
					Expect(owners[way]).To(Equal(-1))
					owners[way] = cpu
				}
			}

			for way := range owners {
				Expect(owners[way]).NotTo(Equal(-1))
			}
		})

		It("should be idempotent across repeated initialization", func() {
			p.Initialize()
			p.Initialize()

			start1, end1 := p.PartitionRange(1)

			Expect(start1).To(Equal(4))
			Expect(end1).To(Equal(8))
		})
	})

	Context("warm-up", func() {
		It("should fill the requester's partition in index order", func() {
			set := invalidSet(8)

			for i := 0; i < 4; i++ {
				way := p.FindVictim(1, 0, set, Load)

				Expect(way).To(Equal(4 + i))

				set[way].Valid = true
				p.UpdateOnFill(1, 0, way, Load)
			}
		})

		It("should never fill outside the requester's partition", func() {
			set := invalidSet(8)

			for i := 0; i < 16; i++ {
				way := p.FindVictim(0, 0, set, Load)

				Expect(way).To(BeNumerically(">=", 0))
				Expect(way).To(BeNumerically("<", 4))

				set[way].Valid = true
				p.UpdateOnFill(0, 0, way, Load)
			}
		})
	})

	Context("LRU search", func() {
		It("should evict the way with the smallest recency stamp", func() {
			set := validSet(8)

			// Stamp partition 1's ways in the order 5, 7, 4, 6 so that
			// way 5 is the least recently used.
			for _, way := range []int{5, 7, 4, 6} {
				p.UpdateOnFill(1, 0, way, Load)
			}
			for _, way := range []int{7, 4, 6} {
				p.UpdateOnAccess(1, 0, way, Load, true)
			}

			Expect(p.FindVictim(1, 0, set, Load)).To(Equal(5))
		})

		It("should break ties by the lowest index", func() {
			set := validSet(8)

			Expect(p.FindVictim(0, 0, set, Load)).To(Equal(0))
		})

		It("should keep recency per set", func() {
			set := validSet(8)

			p.UpdateOnFill(0, 0, 0, Load)
			p.UpdateOnFill(0, 1, 1, Load)
			p.UpdateOnFill(0, 0, 1, Load)
			p.UpdateOnFill(0, 0, 2, Load)
			p.UpdateOnFill(0, 0, 3, Load)
			p.UpdateOnFill(0, 1, 0, Load)
			p.UpdateOnFill(0, 1, 2, Load)
			p.UpdateOnFill(0, 1, 3, Load)

			Expect(p.FindVictim(0, 0, set, Load)).To(Equal(0))
			Expect(p.FindVictim(0, 1, set, Load)).To(Equal(1))
		})
	})

	Context("recency refresh", func() {
		It("should not refresh recency on a write hit", func() {
			set := validSet(8)

			p.UpdateOnFill(0, 0, 0, Load)
			p.UpdateOnFill(0, 0, 1, Load)
			p.UpdateOnFill(0, 0, 2, Load)
			p.UpdateOnFill(0, 0, 3, Load)

			// A write hit on way 0 must leave it the LRU candidate.
			p.UpdateOnAccess(0, 0, 0, Write, true)

			Expect(p.FindVictim(0, 0, set, Load)).To(Equal(0))
		})

		It("should refresh recency on a read hit", func() {
			set := validSet(8)

			p.UpdateOnFill(0, 0, 0, Load)
			p.UpdateOnFill(0, 0, 1, Load)
			p.UpdateOnFill(0, 0, 2, Load)
			p.UpdateOnFill(0, 0, 3, Load)

			p.UpdateOnAccess(0, 0, 0, Load, true)

			Expect(p.FindVictim(0, 0, set, Load)).To(Equal(1))
		})

		It("should not refresh recency on a miss", func() {
			set := validSet(8)

			p.UpdateOnFill(0, 0, 0, Load)
			p.UpdateOnFill(0, 0, 1, Load)
			p.UpdateOnFill(0, 0, 2, Load)
			p.UpdateOnFill(0, 0, 3, Load)

			p.UpdateOnAccess(0, 0, 0, Load, false)

			Expect(p.FindVictim(0, 0, set, Load)).To(Equal(0))
		})
	})

	Context("degenerate configurations", func() {
		It("should allow fewer ways than CPUs", func() {
			p = NewPartitionPolicy(4, 2, 3)
			p.Initialize()

			// All ways fold into the last CPU's partition.
			start2, end2 := p.PartitionRange(2)

			Expect(start2).To(Equal(0))
			Expect(end2).To(Equal(2))
		})

		It("should panic when an empty partition requests a victim", func() {
			p = NewPartitionPolicy(4, 2, 3)
			p.Initialize()

			Expect(func() {
				p.FindVictim(0, 0, validSet(2), Load)
			}).To(Panic())
		})
	})

	Context("configuration errors", func() {
		It("should reject non-positive geometry", func() {
			Expect(func() { NewPartitionPolicy(0, 8, 2) }).To(Panic())
			Expect(func() { NewPartitionPolicy(4, 0, 2) }).To(Panic())
		})

		It("should reject CPU counts beyond the competition bound", func() {
			Expect(func() { NewPartitionPolicy(4, 32, 17) }).To(Panic())
			Expect(func() { NewPartitionPolicy(4, 8, 0) }).To(Panic())
		})
	})
})
