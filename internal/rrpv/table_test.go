package rrpv

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table", func() {
	var table Table

	BeforeEach(func() {
		table = NewTable(8, 4, 2)
	})

	It("should initialize all cells to the maximum value", func() {
		for set := 0; set < table.NumSets(); set++ {
			for way := 0; way < table.NumWays(); way++ {
				Expect(table.Read(set, way)).To(Equal(uint8(3)))
			}
		}
	})

	It("should derive max and long from the bit width", func() {
		Expect(table.Max()).To(Equal(uint8(3)))
		Expect(table.Long()).To(Equal(uint8(2)))

		wide := NewTable(2, 2, 3)
		Expect(wide.Max()).To(Equal(uint8(7)))
		Expect(wide.Long()).To(Equal(uint8(6)))
	})

	It("should read back written values", func() {
		table.Write(3, 1, 0)
		table.Write(3, 2, 2)

		Expect(table.Read(3, 1)).To(Equal(uint8(0)))
		Expect(table.Read(3, 2)).To(Equal(uint8(2)))
		Expect(table.Read(3, 0)).To(Equal(uint8(3)))
	})

	It("should reject values above the maximum", func() {
		Expect(func() { table.Write(0, 0, 4) }).To(Panic())
	})

	It("should reject fewer than 2 bits", func() {
		Expect(func() { NewTable(4, 4, 1) }).To(Panic())
	})

	It("should reset all cells to the maximum value", func() {
		table.Write(1, 1, 0)
		table.Write(5, 3, 1)

		table.ResetAll()

		for set := 0; set < table.NumSets(); set++ {
			for way := 0; way < table.NumWays(); way++ {
				Expect(table.Read(set, way)).To(Equal(uint8(3)))
			}
		}
	})

	It("should snapshot without aliasing the live cells", func() {
		table.Write(2, 0, 1)

		snapshot := table.Snapshot()
		Expect(snapshot[2][0]).To(Equal(uint8(1)))

		snapshot[2][0] = 3
		Expect(table.Read(2, 0)).To(Equal(uint8(1)))
	})
})
