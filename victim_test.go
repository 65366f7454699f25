package drrip

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/drrip/internal/rrpv"
)

var _ = Describe("VictimFinder", func() {
	var (
		table  rrpv.Table
		finder *victimFinder
	)

	BeforeEach(func() {
		table = rrpv.NewTable(4, 4, 2)
		finder = newVictimFinder(table)
	})

	It("should return to idle after each transaction", func() {
		finder.find(0)

		Expect(finder.state).To(Equal(stateIdle))
	})

	It("should pick the lowest qualifying way", func() {
		table.Write(1, 0, 2)
		table.Write(1, 1, 3)
		table.Write(1, 2, 3)
		table.Write(1, 3, 3)

		way, agingPasses := finder.find(1)

		Expect(way).To(Equal(1))
		Expect(agingPasses).To(Equal(0))
	})

	It("should age the whole set in a single bounded pass", func() {
		for way := 0; way < 4; way++ {
			table.Write(2, way, 2)
		}

		way, agingPasses := finder.find(2)

		Expect(way).To(Equal(0))
		Expect(agingPasses).To(Equal(1))
		for w := 0; w < 4; w++ {
			Expect(table.Read(2, w)).To(Equal(uint8(3)))
		}
	})

	It("should only age the target set", func() {
		for way := 0; way < 4; way++ {
			table.Write(2, way, 1)
			table.Write(3, way, 1)
		}

		finder.find(2)

		for w := 0; w < 4; w++ {
			Expect(table.Read(3, w)).To(Equal(uint8(1)))
		}
	})

	It("should report one callback per aging pass", func() {
		passes := []int{}
		finder.onAgingPass = func(set, pass int) {
			Expect(set).To(Equal(0))
			passes = append(passes, pass)
		}

		for way := 0; way < 4; way++ {
			table.Write(0, way, 0)
		}

		finder.find(0)

		Expect(passes).To(Equal([]int{1, 2, 3}))
	})
})
