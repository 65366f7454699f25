// Package rrpv implements the re-reference prediction value store of a
// set-associative cache.
package rrpv

import "fmt"

// A Table holds one re-reference prediction value per (set, way) position.
// Lower values predict a nearer re-reference; the maximum value marks a
// block as immediately evictable.
type Table interface {
	Read(set, way int) uint8
	Write(set, way int, value uint8)
	ResetAll()
	Snapshot() [][]uint8
	NumSets() int
	NumWays() int

	// Max returns the largest representable value, 2^bits - 1.
	Max() uint8

	// Long returns the "long re-reference" insertion value, Max - 1.
	Long() uint8
}

// NewTable creates a Table with all cells set to the maximum value.
func NewTable(numSets, numWays, bits int) Table {
	mustBePositive("numSets", numSets)
	mustBePositive("numWays", numWays)

	if bits < 2 {
		panic(fmt.Errorf(
			"rrpv table requires at least 2 bits, got %d", bits))
	}

	t := &tableImpl{
		numSets: numSets,
		numWays: numWays,
		max:     uint8(1<<bits - 1),
	}

	t.ResetAll()

	return t
}

type tableImpl struct {
	numSets int
	numWays int
	max     uint8
	cells   [][]uint8
}

func (t *tableImpl) Read(set, way int) uint8 {
	return t.cells[set][way]
}

func (t *tableImpl) Write(set, way int, value uint8) {
	if value > t.max {
		panic(fmt.Errorf(
			"rrpv value %d exceeds maximum %d", value, t.max))
	}

	t.cells[set][way] = value
}

// ResetAll marks every cell as immediately evictable.
func (t *tableImpl) ResetAll() {
	t.cells = make([][]uint8, t.numSets)
	for i := range t.cells {
		t.cells[i] = make([]uint8, t.numWays)
		for j := range t.cells[i] {
			t.cells[i][j] = t.max
		}
	}
}

// Snapshot returns a copy of the full table. Mutating the copy does not
// affect the table.
func (t *tableImpl) Snapshot() [][]uint8 {
	snapshot := make([][]uint8, t.numSets)
	for i := range t.cells {
		snapshot[i] = make([]uint8, t.numWays)
		copy(snapshot[i], t.cells[i])
	}

	return snapshot
}

func (t *tableImpl) NumSets() int {
	return t.numSets
}

func (t *tableImpl) NumWays() int {
	return t.numWays
}

func (t *tableImpl) Max() uint8 {
	return t.max
}

func (t *tableImpl) Long() uint8 {
	return t.max - 1
}

func mustBePositive(name string, value int) {
	if value <= 0 {
		panic(fmt.Errorf("%s must be positive, got %d", name, value))
	}
}
