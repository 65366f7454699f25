package drrip

import (
	"fmt"

	"github.com/sarchlab/drrip/internal/rrpv"
)

type fsmState int

const (
	stateIdle fsmState = iota
	stateSearching
	stateAging
	stateFound
)

// A victimFinder runs the search/age loop of one miss transaction. It scans
// the target set for a way at the maximum re-reference value and, when none
// qualifies, ages the whole set by one step and searches again. Each aging
// pass raises the minimum value in the set, so at most Max aging passes are
// needed before a way qualifies.
type victimFinder struct {
	table rrpv.Table

	state       fsmState
	set         int
	way         int
	agingPasses int

	onAgingPass func(set, pass int)
}

func newVictimFinder(table rrpv.Table) *victimFinder {
	return &victimFinder{
		table: table,
		state: stateIdle,
	}
}

// find runs the state machine to completion for one miss on the given set
// and returns the committed victim way together with the number of aging
// passes the transaction needed.
func (f *victimFinder) find(set int) (way, agingPasses int) {
	if f.state != stateIdle {
		panic(fmt.Errorf(
			"victim search started while another transaction is outstanding"))
	}

	f.set = set
	f.agingPasses = 0
	f.state = stateSearching

	for f.state != stateFound {
		switch f.state {
		case stateSearching:
			f.search()
		case stateAging:
			f.age()
		}
	}

	f.state = stateIdle

	return f.way, f.agingPasses
}

// search picks the first way at the maximum value, scanning in ascending
// way order. Ascending index is the only tie-break.
func (f *victimFinder) search() {
	max := f.table.Max()

	for way := 0; way < f.table.NumWays(); way++ {
		if f.table.Read(f.set, way) == max {
			f.way = way
			f.state = stateFound

			return
		}
	}

	f.state = stateAging
}

// age performs a single bounded pass over the set, then hands control back
// to the search state. The search always re-evaluates after aging; it never
// trusts a pre-aging verdict.
func (f *victimFinder) age() {
	max := f.table.Max()

	for way := 0; way < f.table.NumWays(); way++ {
		value := f.table.Read(f.set, way)
		if value < max {
			f.table.Write(f.set, way, value+1)
		}
	}

	f.agingPasses++

	if f.onAgingPass != nil {
		f.onAgingPass(f.set, f.agingPasses)
	}

	f.state = stateSearching
}

func (f *victimFinder) reset() {
	f.state = stateIdle
}
