package sim

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestStreams_SameSeedSameSequence(t *testing.T) {
	for _, seed := range []int64{0, 42, -1, math.MaxInt64, math.MinInt64} {
		a, b := NewStreams(seed), NewStreams(seed)
		for i := 0; i < 5; i++ {
			x := a.Stream(StreamBooking).Float64()
			y := b.Stream(StreamBooking).Float64()
			if x != y {
				t.Fatalf("seed %d draw %d: %v != %v", seed, i, x, y)
			}
		}
		if a.Seed() != seed {
			t.Errorf("Seed() = %d, want %d", a.Seed(), seed)
		}
	}
}

func TestStreams_DrawsOnOneStreamLeaveOthersAlone(t *testing.T) {
	busy := NewStreams(42)
	for i := 0; i < 10; i++ {
		busy.Stream(StreamTerminal).Float64()
	}
	got := busy.Stream(StreamBooking).Float64()
	want := NewStreams(42).Stream(StreamBooking).Float64()
	if got != want {
		t.Errorf("booking first draw = %v, want %v", got, want)
	}
}

func TestStreams_TerminalUsesRunSeed(t *testing.T) {
	seed := int64(7)
	g := NewStreams(seed).Stream(StreamTerminal)
	w := uint64(seed)
	direct := rand.New(rand.NewPCG(w, w^pcgIncrement))
	for i := 0; i < 10; i++ {
		if got, want := g.Float64(), direct.Float64(); got != want {
			t.Errorf("draw %d: %v, want %v", i, got, want)
		}
	}
}

func TestStreams_ReusesGenerator(t *testing.T) {
	s := NewStreams(42)
	if s.Stream(StreamTerminal) != s.Stream(StreamTerminal) {
		t.Error("Stream returned a new generator for a known name")
	}
	if len(s.byName) != 1 {
		t.Errorf("streams = %d, want 1", len(s.byName))
	}
}

func TestStreams_NamesDiverge(t *testing.T) {
	s := NewStreams(0)
	if s.Stream(StreamTerminal).Uint64() == s.Stream(StreamBooking).Uint64() {
		t.Error("terminal and booking streams produced the same first value")
	}
}
