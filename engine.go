// Package drrip implements the decision core of a Dynamic Re-Reference
// Interval Prediction (DRRIP) cache replacement engine. The engine blends
// two insertion policies, SRRIP and BIP, and picks between them per cache
// set with a set-dueling monitor. The enclosing cache resolves each access
// into (set, way, hit) before invoking the engine; the engine only decides
// what to evict and how to update its re-reference state.
package drrip

import (
	"fmt"

	"github.com/sarchlab/drrip/dueling"
	"github.com/sarchlab/drrip/internal/rrpv"
)

// An AccessResult reports the outcome of one access. VictimWay is -1 on a
// hit. AgingPasses counts the aging rounds the victim search needed; it is
// always 0 on a hit.
type AccessResult struct {
	Hit         bool
	VictimWay   int
	Policy      dueling.Policy
	AgingPasses int
}

// An Engine is a DRRIP replacement engine for one cache. Engines process
// one access at a time to completion; callers must not submit an access
// while another is outstanding. Multiple engines own fully independent
// state and need no coordination.
type Engine interface {
	Hookable

	Name() string

	// Access processes one resolved access. A hit promotes the accessed
	// way. A miss drives the victim search to completion and returns the
	// committed victim way together with the policy that governed the
	// insertion.
	Access(set, way int, hit bool) AccessResult

	// Reset returns every re-reference value to the maximum, the PSEL
	// counter to its midpoint, and the BIP counter to zero.
	Reset()

	// PSEL returns the current policy-selection counter value.
	PSEL() uint32

	// EpsilonCounter returns the current BIP insertion counter value.
	EpsilonCounter() uint32

	// RRPVs returns a snapshot of the full re-reference table.
	RRPVs() [][]uint8

	NumSets() int
	NumWays() int
}

type engineImpl struct {
	HookableBase

	name     string
	table    rrpv.Table
	selector dueling.LeaderSelector
	psel     *dueling.PSEL
	epsilon  *dueling.EpsilonCounter
	finder   *victimFinder
}

func (e *engineImpl) Name() string {
	return e.name
}

func (e *engineImpl) Access(set, way int, hit bool) AccessResult {
	e.mustBeValidSet(set)

	if hit {
		return e.promote(set, way)
	}

	return e.resolveMiss(set)
}

// promote lowers the accessed way's re-reference value by one, flooring at
// zero. This is the sole promotion rule.
func (e *engineImpl) promote(set, way int) AccessResult {
	e.mustBeValidWay(way)

	value := e.table.Read(set, way)
	if value > 0 {
		e.table.Write(set, way, value-1)
	}

	return AccessResult{
		Hit:       true,
		VictimWay: -1,
		Policy:    e.activePolicy(set),
	}
}

// resolveMiss runs one miss transaction: find a victim, insert the new
// block's re-reference value under the active policy, and update the
// dueling counters. The PSEL update happens exactly once per transaction.
func (e *engineImpl) resolveMiss(set int) AccessResult {
	policy := e.activePolicy(set)

	victim, agingPasses := e.finder.find(set)

	e.table.Write(set, victim, e.insertionValue(policy))
	e.updatePSEL(set)

	e.InvokeHook(HookCtx{
		Domain: e,
		Pos:    HookPosVictimCommit,
		Item: VictimCommitInfo{
			Set:         set,
			Way:         victim,
			Policy:      policy.String(),
			AgingPasses: agingPasses,
		},
	})

	return AccessResult{
		VictimWay:   victim,
		Policy:      policy,
		AgingPasses: agingPasses,
	}
}

// activePolicy resolves the policy that governs the current access. Leader
// sets always use their assigned policy; follower sets adopt whichever
// policy the PSEL counter favors.
func (e *engineImpl) activePolicy(set int) dueling.Policy {
	switch e.selector.Role(set) {
	case dueling.SRRIPLeader:
		return dueling.SRRIP
	case dueling.BIPLeader:
		return dueling.BIP
	default:
		if e.psel.FavorsSRRIP() {
			return dueling.SRRIP
		}

		return dueling.BIP
	}
}

// insertionValue returns the re-reference value for a newly inserted block.
// SRRIP always inserts long. BIP advances its counter once per committed
// miss and inserts long only on the 1-in-32 tick, distant otherwise.
func (e *engineImpl) insertionValue(policy dueling.Policy) uint8 {
	if policy == dueling.SRRIP {
		return e.table.Long()
	}

	if e.epsilon.Advance() {
		return e.table.Long()
	}

	return e.table.Max()
}

// updatePSEL counts a leader-set miss as one vote. A miss on a leader is
// evidence its policy is doing worse, so the vote moves toward the other
// policy's region of the counter.
func (e *engineImpl) updatePSEL(set int) {
	switch e.selector.Role(set) {
	case dueling.SRRIPLeader:
		e.psel.Dec()
	case dueling.BIPLeader:
		e.psel.Inc()
	}
}

func (e *engineImpl) Reset() {
	e.table.ResetAll()
	e.psel.Reset()
	e.epsilon.Reset()
	e.finder.reset()
}

func (e *engineImpl) PSEL() uint32 {
	return e.psel.Value()
}

func (e *engineImpl) EpsilonCounter() uint32 {
	return e.epsilon.Value()
}

func (e *engineImpl) RRPVs() [][]uint8 {
	return e.table.Snapshot()
}

func (e *engineImpl) NumSets() int {
	return e.table.NumSets()
}

func (e *engineImpl) NumWays() int {
	return e.table.NumWays()
}

func (e *engineImpl) mustBeValidSet(set int) {
	if set < 0 || set >= e.table.NumSets() {
		panic(fmt.Errorf("set %d out of range [0, %d)",
			set, e.table.NumSets()))
	}
}

func (e *engineImpl) mustBeValidWay(way int) {
	if way < 0 || way >= e.table.NumWays() {
		panic(fmt.Errorf("way %d out of range [0, %d)",
			way, e.table.NumWays()))
	}
}
