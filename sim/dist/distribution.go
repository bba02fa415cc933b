// Package dist provides the sampling distributions used by the terminal
// model. Every sampler draws from an explicit *rand.Rand; nothing here touches
// a package-level generator.
package dist

import (
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidDistribution marks parameters a sampler cannot work with.
var ErrInvalidDistribution = errors.New("invalid distribution parameters")

// MinRate is the floor applied to rates and means before division.
const MinRate = 1e-6

// Triangular samples a triangular distribution with the given minimum, mode
// and maximum. A degenerate range returns min; a mode outside the range is
// clamped into it.
func Triangular(rng *rand.Rand, min, mode, max float64) float64 {
	if max <= min {
		return min
	}
	mode = math.Min(max, math.Max(min, mode))
	return distuv.NewTriangle(min, max, mode, rng).Rand()
}

// Exponential samples an exponential variate with the given mean.
func Exponential(rng *rand.Rand, mean float64) float64 {
	return distuv.Exponential{Rate: 1 / math.Max(mean, MinRate), Src: rng}.Rand()
}

// ExponentialRate samples an exponential variate with the given rate.
func ExponentialRate(rng *rand.Rand, rate float64) float64 {
	return distuv.Exponential{Rate: math.Max(rate, MinRate), Src: rng}.Rand()
}

// Uniform samples uniformly from [a, b).
func Uniform(rng *rand.Rand, a, b float64) float64 {
	if b <= a {
		return a
	}
	return distuv.Uniform{Min: a, Max: b, Src: rng}.Rand()
}

// Bernoulli returns true with probability p.
func Bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// ChooseWeighted picks between two outcomes with weights wa and wb, which
// need not sum to one. When both weights are non-positive a is returned.
func ChooseWeighted[T any](rng *rand.Rand, a, b T, wa, wb float64) T {
	total := math.Max(wa, 0) + math.Max(wb, 0)
	if total <= 0 {
		return a
	}
	if rng.Float64()*total < math.Max(wa, 0) {
		return a
	}
	return b
}

// Normal samples N(mu, sigma).
func Normal(rng *rand.Rand, mu, sigma float64) float64 {
	if sigma <= 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: rng}.Rand()
}

// LogNormalParams converts a target mean and standard deviation of X into
// the (mu, sigma) of ln X.
func LogNormalParams(mean, sigma float64) (mu, sigmaLn float64) {
	variance := sigma * sigma
	mu = math.Log(mean * mean / math.Sqrt(variance+mean*mean))
	sigmaLn = math.Sqrt(math.Log(1 + variance/(mean*mean)))
	return mu, sigmaLn
}

// LogNormal samples a lognormal variate whose own mean and standard deviation
// are mean and sigma. A non-positive mean returns 0.
func LogNormal(rng *rand.Rand, mean, sigma float64) float64 {
	if mean <= 0 {
		return 0
	}
	mu, s := LogNormalParams(mean, sigma)
	if s <= 0 {
		return mean
	}
	return distuv.LogNormal{Mu: mu, Sigma: s, Src: rng}.Rand()
}

// Poisson samples a Poisson count with mean lambda; lambda <= 0 yields 0.
func Poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: lambda, Src: rng}.Rand())
}
