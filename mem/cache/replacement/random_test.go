package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RandomPolicy", func() {
	var p *RandomPolicy

	BeforeEach(func() {
		p = NewRandomPolicy(4, 1)
	})

	It("should fill invalid ways across the whole set in index order", func() {
		set := invalidSet(4)

		for i := 0; i < 4; i++ {
			way := p.FindVictim(0, 0, set, Load)

			Expect(way).To(Equal(i))

			set[way].Valid = true
		}
	})

	It("should draw from the whole set once full", func() {
		set := validSet(4)
		seen := make(map[int]bool)

		for i := 0; i < 200; i++ {
			way := p.FindVictim(0, 0, set, Load)

			Expect(way).To(BeNumerically(">=", 0))
			Expect(way).To(BeNumerically("<", 4))

			seen[way] = true
		}

		// A uniform draw over 4 ways reaches every way in 200 tries.
		Expect(seen).To(HaveLen(4))
	})

	It("should reproduce the same victim sequence for the same seed", func() {
		other := NewRandomPolicy(4, 1)
		set := validSet(4)

		for i := 0; i < 50; i++ {
			Expect(p.FindVictim(0, 0, set, Load)).
				To(Equal(other.FindVictim(0, 0, set, Load)))
		}
	})

	It("should reject a non-positive way count", func() {
		Expect(func() { NewRandomPolicy(0, 1) }).To(Panic())
	})
})
