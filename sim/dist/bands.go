package dist

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gopkg.in/yaml.v3"
)

// Band is one row of a banded dwell table: with probability Prob the value is
// drawn uniformly from [Start, End].
type Band struct {
	Start float64
	End   float64
	Prob  float64
}

// BandedUniform picks a band by cumulative probability in list order and
// samples uniformly inside it. When rounding leaves the draw past the last
// cumulative edge the last band is used. An empty table yields 0.
func BandedUniform(rng *rand.Rand, bands []Band) float64 {
	if len(bands) == 0 {
		return 0
	}
	r := rng.Float64()
	cumulative := 0.0
	for _, b := range bands {
		cumulative += b.Prob
		if r <= cumulative {
			return Uniform(rng, b.Start, b.End)
		}
	}
	last := bands[len(bands)-1]
	return Uniform(rng, last.Start, last.End)
}

// ValidateBands checks that each band is ordered with a non-negative
// probability and that probabilities sum to roughly one.
func ValidateBands(bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: dwell band table is empty", ErrInvalidDistribution)
	}
	total := 0.0
	for i, b := range bands {
		if b.End < b.Start {
			return fmt.Errorf("%w: band %d end %.2f before start %.2f", ErrInvalidDistribution, i, b.End, b.Start)
		}
		if b.Start < 0 {
			return fmt.Errorf("%w: band %d start %.2f is negative", ErrInvalidDistribution, i, b.Start)
		}
		if b.Prob < 0 {
			return fmt.Errorf("%w: band %d probability %.4f is negative", ErrInvalidDistribution, i, b.Prob)
		}
		total += b.Prob
	}
	if total < 0.99 || total > 1.01 {
		return fmt.Errorf("%w: band probabilities sum to %.4f, want ~1", ErrInvalidDistribution, total)
	}
	return nil
}

// MarshalYAML writes a band as a [start, end, prob] sequence.
func (b Band) MarshalYAML() (any, error) {
	return []float64{b.Start, b.End, b.Prob}, nil
}

// UnmarshalYAML reads a [start, end, prob] sequence.
func (b *Band) UnmarshalYAML(node *yaml.Node) error {
	var vals []float64
	if err := node.Decode(&vals); err != nil {
		return fmt.Errorf("dwell band: %w", err)
	}
	if len(vals) != 3 {
		return fmt.Errorf("dwell band at line %d: want [start, end, prob], got %d values", node.Line, len(vals))
	}
	b.Start, b.End, b.Prob = vals[0], vals[1], vals[2]
	return nil
}

// Weight is one outcome of a discrete integer distribution.
type Weight struct {
	Value int
	Prob  float64
}

// WeightedInt samples an integer outcome. Outcomes are visited in ascending
// value order regardless of input order; when the draw falls past the last
// cumulative edge the largest value is returned.
func WeightedInt(rng *rand.Rand, weights []Weight) int {
	if len(weights) == 0 {
		return 0
	}
	sorted := make([]Weight, len(weights))
	copy(sorted, weights)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	r := rng.Float64()
	cumulative := 0.0
	for _, w := range sorted {
		cumulative += w.Prob
		if r <= cumulative {
			return w.Value
		}
	}
	return sorted[len(sorted)-1].Value
}

// MarshalYAML writes a weight as a [value, prob] sequence.
func (w Weight) MarshalYAML() (any, error) {
	return []float64{float64(w.Value), w.Prob}, nil
}

// UnmarshalYAML reads a [value, prob] sequence.
func (w *Weight) UnmarshalYAML(node *yaml.Node) error {
	var vals []float64
	if err := node.Decode(&vals); err != nil {
		return fmt.Errorf("weight: %w", err)
	}
	if len(vals) != 2 {
		return fmt.Errorf("weight at line %d: want [value, prob], got %d values", node.Line, len(vals))
	}
	w.Value, w.Prob = int(vals[0]), vals[1]
	return nil
}
