package dueling

// EpsilonPeriod is the cycle length of the BIP insertion counter. One in
// every EpsilonPeriod BIP insertions receives the long re-reference value.
const EpsilonPeriod = 32

// An EpsilonCounter is the cyclic counter that gives BIP its bimodal
// character without a random source. Determinism keeps runs reproducible.
type EpsilonCounter struct {
	value uint32
}

// NewEpsilonCounter creates a counter at zero.
func NewEpsilonCounter() *EpsilonCounter {
	return &EpsilonCounter{}
}

// Advance moves the counter one step, wrapping at EpsilonPeriod, and
// reports whether the pre-advance value was zero. A true return marks the
// insertion that receives the long re-reference value.
func (c *EpsilonCounter) Advance() bool {
	long := c.value == 0

	c.value = (c.value + 1) % EpsilonPeriod

	return long
}

// Value returns the current counter value.
func (c *EpsilonCounter) Value() uint32 {
	return c.value
}

// Reset returns the counter to zero.
func (c *EpsilonCounter) Reset() {
	c.value = 0
}
