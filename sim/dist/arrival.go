package dist

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// HoursPerDay is the length of every hourly profile.
const HoursPerDay = 24

// HourlyRate returns a step function mapping simulated minutes to the rate
// configured for that hour of day.
func HourlyRate(rates []float64) (func(t float64) float64, error) {
	if len(rates) != HoursPerDay {
		return nil, fmt.Errorf("%w: hourly rate profile needs %d values, got %d", ErrInvalidDistribution, HoursPerDay, len(rates))
	}
	profile := make([]float64, HoursPerDay)
	copy(profile, rates)
	return func(t float64) float64 {
		hour := int(math.Floor(t/60)) % HoursPerDay
		if hour < 0 {
			hour += HoursPerDay
		}
		return profile[hour]
	}, nil
}

// ValidateHourlyMultipliers checks that m has one entry per hour and sums to
// 24, so the daily volume is preserved.
func ValidateHourlyMultipliers(m []float64) error {
	if len(m) != HoursPerDay {
		return fmt.Errorf("%w: hourly multipliers need %d values, got %d", ErrInvalidDistribution, HoursPerDay, len(m))
	}
	total := 0.0
	for i, v := range m {
		if v < 0 {
			return fmt.Errorf("%w: hourly multiplier %d is negative (%.4f)", ErrInvalidDistribution, i, v)
		}
		total += v
	}
	if !closeTo(total, HoursPerDay, 1e-6) {
		return fmt.Errorf("%w: hourly multipliers sum to %.6f, want %d", ErrInvalidDistribution, total, HoursPerDay)
	}
	return nil
}

func closeTo(a, b, tol float64) bool {
	diff := math.Abs(a - b)
	return diff <= tol || diff <= tol*math.Max(math.Abs(a), math.Abs(b))
}

// NHPPSlotTimes samples a piecewise-constant non-homogeneous Poisson process
// over [0, ceil(horizon/60) hours). Hour h receives Poisson((perDay/24) *
// multipliers[h mod 24]) events placed uniformly inside the hour. The result
// is sorted.
func NHPPSlotTimes(rng *rand.Rand, horizonMins, perDay float64, multipliers []float64) ([]float64, error) {
	if err := ValidateHourlyMultipliers(multipliers); err != nil {
		return nil, err
	}
	hours := int(math.Ceil(horizonMins / 60))
	base := perDay / HoursPerDay
	times := make([]float64, 0, int(perDay*float64(hours)/HoursPerDay)+1)
	for h := 0; h < hours; h++ {
		n := Poisson(rng, base*multipliers[h%HoursPerDay])
		for i := 0; i < n; i++ {
			times = append(times, float64(h)*60+rng.Float64()*60)
		}
	}
	sort.Float64s(times)
	return times, nil
}

// NextSlotStart rounds t up to the next multiple of slot.
func NextSlotStart(t, slot float64) float64 {
	return math.Ceil(t/slot) * slot
}
