package dueling

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// NewFixedLeaderSelector creates a LeaderSelector that assigns the two
// lowest set indices to SRRIP and the next two to BIP. This mirrors the
// reference hardware, which hardwires its monitor sets.
func NewFixedLeaderSelector() LeaderSelector {
	return &fixedLeaderSelector{}
}

type fixedLeaderSelector struct{}

func (s *fixedLeaderSelector) Role(set int) Role {
	switch {
	case set < 2:
		return SRRIPLeader
	case set < 4:
		return BIPLeader
	default:
		return Follower
	}
}

// NewHashedLeaderSelector creates a LeaderSelector that spreads
// leadersPerPolicy leader sets of each policy across the index space by
// hashing set indices. Spreading the monitors avoids the correlated-workload
// bias that low fixed indices suffer from.
func NewHashedLeaderSelector(numSets, leadersPerPolicy int) LeaderSelector {
	if leadersPerPolicy <= 0 {
		panic(fmt.Errorf(
			"leadersPerPolicy must be positive, got %d", leadersPerPolicy))
	}

	if 2*leadersPerPolicy > numSets {
		panic(fmt.Errorf(
			"%d sets cannot host %d leaders per policy",
			numSets, leadersPerPolicy))
	}

	s := &hashedLeaderSelector{
		roles: make([]Role, numSets),
	}

	order := make([]int, numSets)
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(i, j int) bool {
		hi, hj := hashSet(order[i]), hashSet(order[j])
		if hi != hj {
			return hi < hj
		}

		return order[i] < order[j]
	})

	for i := 0; i < leadersPerPolicy; i++ {
		s.roles[order[i]] = SRRIPLeader
		s.roles[order[leadersPerPolicy+i]] = BIPLeader
	}

	return s
}

type hashedLeaderSelector struct {
	roles []Role
}

func (s *hashedLeaderSelector) Role(set int) Role {
	return s.roles[set]
}

func hashSet(set int) uint64 {
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(set))

	return xxhash.Sum64(buf[:])
}
