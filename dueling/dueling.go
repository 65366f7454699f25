// Package dueling implements the set-dueling machinery that arbitrates
// between the SRRIP and BIP insertion policies.
package dueling

// A Policy is an insertion policy that can govern a cache set.
type Policy int

// The two policies that duel.
const (
	SRRIP Policy = iota
	BIP
)

func (p Policy) String() string {
	switch p {
	case SRRIP:
		return "srrip"
	case BIP:
		return "bip"
	default:
		return "unknown"
	}
}

// A Role labels a cache set as a dedicated sample for one policy or as a
// follower that adopts whichever policy the PSEL counter favors.
type Role int

// The possible roles of a set.
const (
	Follower Role = iota
	SRRIPLeader
	BIPLeader
)

func (r Role) String() string {
	switch r {
	case SRRIPLeader:
		return "srrip-leader"
	case BIPLeader:
		return "bip-leader"
	default:
		return "follower"
	}
}

// A LeaderSelector decides the role of each cache set. Implementations must
// be pure functions of the set index so that a set's role never changes
// during a run.
type LeaderSelector interface {
	Role(set int) Role
}
