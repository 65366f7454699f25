package dueling

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PSEL", func() {
	var psel *PSEL

	BeforeEach(func() {
		psel = NewPSEL(10)
	})

	It("should initialize to the midpoint", func() {
		Expect(psel.Value()).To(Equal(uint32(511)))
		Expect(psel.Max()).To(Equal(uint32(1023)))
	})

	It("should favor SRRIP at and above the midpoint", func() {
		Expect(psel.FavorsSRRIP()).To(BeTrue())

		psel.Inc()
		Expect(psel.FavorsSRRIP()).To(BeTrue())

		psel.Dec()
		psel.Dec()
		Expect(psel.FavorsSRRIP()).To(BeFalse())
	})

	It("should saturate at zero", func() {
		for i := 0; i < 2000; i++ {
			psel.Dec()
		}

		Expect(psel.Value()).To(Equal(uint32(0)))
	})

	It("should saturate at the maximum", func() {
		for i := 0; i < 2000; i++ {
			psel.Inc()
		}

		Expect(psel.Value()).To(Equal(uint32(1023)))
	})

	It("should reset to the midpoint", func() {
		psel.Inc()
		psel.Inc()

		psel.Reset()

		Expect(psel.Value()).To(Equal(uint32(511)))
	})

	It("should reject out-of-range bit widths", func() {
		Expect(func() { NewPSEL(0) }).To(Panic())
		Expect(func() { NewPSEL(32) }).To(Panic())
	})
})

var _ = Describe("EpsilonCounter", func() {
	var counter *EpsilonCounter

	BeforeEach(func() {
		counter = NewEpsilonCounter()
	})

	It("should report long exactly once per period", func() {
		longCount := 0
		for i := 0; i < EpsilonPeriod; i++ {
			if counter.Advance() {
				longCount++
			}
		}

		Expect(longCount).To(Equal(1))
		Expect(counter.Value()).To(Equal(uint32(0)))
	})

	It("should report long on the first advance only", func() {
		Expect(counter.Advance()).To(BeTrue())

		for i := 1; i < EpsilonPeriod; i++ {
			Expect(counter.Advance()).To(BeFalse())
		}

		Expect(counter.Advance()).To(BeTrue())
	})

	It("should reset to zero", func() {
		counter.Advance()
		counter.Advance()

		counter.Reset()

		Expect(counter.Value()).To(Equal(uint32(0)))
		Expect(counter.Advance()).To(BeTrue())
	})
})
