package dueling

import "fmt"

// A PSEL is the saturating policy-selection counter. Leader-set misses move
// it: an SRRIP-leader miss decrements, a BIP-leader miss increments. Values
// at or above the midpoint vote for SRRIP on follower sets.
type PSEL struct {
	value uint32
	max   uint32
	mid   uint32
}

// NewPSEL creates a PSEL counter with the given bit width, initialized to
// its midpoint.
func NewPSEL(bits int) *PSEL {
	if bits < 1 || bits > 31 {
		panic(fmt.Errorf("psel bit width %d out of range [1, 31]", bits))
	}

	max := uint32(1<<bits - 1)

	return &PSEL{
		value: max / 2,
		max:   max,
		mid:   max / 2,
	}
}

// Inc moves the counter toward BIP, saturating at the maximum.
func (p *PSEL) Inc() {
	if p.value < p.max {
		p.value++
	}
}

// Dec moves the counter toward SRRIP, saturating at zero.
func (p *PSEL) Dec() {
	if p.value > 0 {
		p.value--
	}
}

// FavorsSRRIP reports the policy the counter currently votes for.
func (p *PSEL) FavorsSRRIP() bool {
	return p.value >= p.mid
}

// Value returns the current counter value.
func (p *PSEL) Value() uint32 {
	return p.value
}

// Max returns the saturation ceiling.
func (p *PSEL) Max() uint32 {
	return p.max
}

// Reset returns the counter to its midpoint.
func (p *PSEL) Reset() {
	p.value = p.mid
}
