package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// Named random streams. Each draws from its own generator so that adding a
// draw to one part of the model leaves the others' sequences unchanged.
const (
	// StreamTerminal feeds the live model: arrivals, sizing, dwell and
	// service times. It is seeded with the run seed as given.
	StreamTerminal = "port"

	// StreamBooking feeds truck appointment resolution, done before the run
	// starts.
	StreamBooking = "tas"
)

// pcgIncrement is the golden-ratio constant used as the second PCG word.
const pcgIncrement = 0x9e3779b97f4a7c15

// Streams hands out one generator per stream name, all derived from a
// single run seed. A given (seed, name) pair always yields the same
// sequence. Not safe for concurrent use; the kernel only ever calls it from
// the running process.
type Streams struct {
	seed   int64
	byName map[string]*rand.Rand
}

// NewStreams returns the stream set for seed.
func NewStreams(seed int64) *Streams {
	return &Streams{seed: seed, byName: map[string]*rand.Rand{}}
}

// Seed is the run seed the streams derive from.
func (s *Streams) Seed() int64 { return s.seed }

// Stream returns the generator for name, creating it on first use. The
// terminal stream uses the run seed directly; any other name mixes in a
// hash of the name.
func (s *Streams) Stream(name string) *rand.Rand {
	if g, ok := s.byName[name]; ok {
		return g
	}
	word := uint64(s.seed)
	if name != StreamTerminal {
		word ^= nameHash(name)
	}
	g := rand.New(rand.NewPCG(word, word^pcgIncrement))
	s.byName[name] = g
	return g
}

func nameHash(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}
