package drrip

import (
	"github.com/sarchlab/drrip/dueling"
	"github.com/sarchlab/drrip/internal/rrpv"
)

// Builder can build DRRIP engines.
type Builder struct {
	numSets  int
	numWays  int
	rrpvBits int
	pselBits int
	selector dueling.LeaderSelector
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numSets:  64,
		numWays:  4,
		rrpvBits: 2,
		pselBits: 10,
	}
}

// WithNumSets sets the number of cache sets.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithNumWays sets the associativity.
func (b Builder) WithNumWays(numWays int) Builder {
	b.numWays = numWays
	return b
}

// WithRRPVBits sets the width of each re-reference value. At least 2 bits
// are required; a 1-bit value degenerates the aging loop.
func (b Builder) WithRRPVBits(rrpvBits int) Builder {
	b.rrpvBits = rrpvBits
	return b
}

// WithPSELBits sets the width of the policy-selection counter.
func (b Builder) WithPSELBits(pselBits int) Builder {
	b.pselBits = pselBits
	return b
}

// WithLeaderSelector sets the leader-set assignment. The default is the
// fixed-index assignment of the reference hardware.
func (b Builder) WithLeaderSelector(s dueling.LeaderSelector) Builder {
	b.selector = s
	return b
}

// Build builds an engine.
func (b Builder) Build(name string) Engine {
	selector := b.selector
	if selector == nil {
		selector = dueling.NewFixedLeaderSelector()
	}

	table := rrpv.NewTable(b.numSets, b.numWays, b.rrpvBits)

	e := &engineImpl{
		name:     name,
		table:    table,
		selector: selector,
		psel:     dueling.NewPSEL(b.pselBits),
		epsilon:  dueling.NewEpsilonCounter(),
		finder:   newVictimFinder(table),
	}

	e.finder.onAgingPass = func(set, pass int) {
		e.InvokeHook(HookCtx{
			Domain: e,
			Pos:    HookPosAgingPass,
			Item:   AgingPassInfo{Set: set, Pass: pass},
		})
	}

	return e
}
