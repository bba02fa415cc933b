package port

import (
	"errors"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
)

func bookingRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestResolveBookings_SortedAndDeterministic(t *testing.T) {
	// GIVEN the default booking parameters over one day
	params := BookingParamsFrom(scenario.Baseline())

	// WHEN resolved twice from identical generators
	a, da, err := ResolveBookings(bookingRNG(3), params, 1440)
	require.NoError(t, err)
	b, db, err := ResolveBookings(bookingRNG(3), params, 1440)
	require.NoError(t, err)

	// THEN the outcome repeats and accepted bookings are in arrival order
	assert.Equal(t, a, b)
	assert.Equal(t, da, db)
	require.NotEmpty(t, a)
	assert.True(t, sort.SliceIsSorted(a, func(i, j int) bool { return a[i].Arrival < a[j].Arrival }))

	for i, bk := range a {
		if bk.Arrival < 0 {
			t.Errorf("booking %d: negative arrival %v", i, bk.Arrival)
		}
		if bk.Arrival > bk.SlotStart+params.SlotMinutes+params.LateToleranceMins {
			t.Errorf("booking %d: arrival %.2f after slot %.2f closed", i, bk.Arrival, bk.SlotStart)
		}
		assert.Equal(t, bk.Attempts-1, bk.Missed, "booking %d", i)
		assert.LessOrEqual(t, bk.Attempts, params.MaxAttempts)
		if bk.Missed == 0 {
			assert.Equal(t, bk.BookedSlot, bk.SlotStart)
		} else {
			assert.GreaterOrEqual(t, bk.SlotStart, bk.BookedSlot)
		}
	}
}

func TestResolveBookings_PunctualTrucksArriveAtSlot(t *testing.T) {
	// GIVEN trucks that always show up with no arrival jitter
	params := BookingParamsFrom(scenario.Baseline())
	params.NoShowProb = 0
	params.ArrivalStdMins = 0

	accepted, dropped, err := ResolveBookings(bookingRNG(8), params, 720)
	require.NoError(t, err)

	// THEN each truck arrives exactly at its booked slot on the first try
	assert.Empty(t, dropped)
	for _, b := range accepted {
		assert.Equal(t, b.BookedSlot, b.Arrival)
		assert.Equal(t, 0, b.Missed)
		assert.Equal(t, 1, b.Attempts)
	}
}

func TestResolveBookings_AttemptCapDrops(t *testing.T) {
	params := BookingParamsFrom(scenario.Baseline())
	params.NoShowProb = 1
	params.MaxAttempts = 4

	accepted, dropped, err := ResolveBookings(bookingRNG(5), params, 1440)
	require.NoError(t, err)

	assert.Empty(t, accepted)
	require.NotEmpty(t, dropped)
	for _, b := range dropped {
		assert.Equal(t, 4, b.Attempts)
		assert.Equal(t, 4, b.Missed)
		assert.Greater(t, b.SlotStart, b.BookedSlot)
	}
}

func TestResolveBookings_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingParams)
	}{
		{"zero slot length", func(p *BookingParams) { p.SlotMinutes = 0 }},
		{"zero attempts", func(p *BookingParams) { p.MaxAttempts = 0 }},
		{"short multiplier profile", func(p *BookingParams) { p.HourlyMultipliers = []float64{1, 1} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := BookingParamsFrom(scenario.Baseline())
			tc.mutate(&params)
			_, _, err := ResolveBookings(bookingRNG(1), params, 600)
			if !errors.Is(err, dist.ErrInvalidDistribution) {
				t.Errorf("err = %v, want ErrInvalidDistribution", err)
			}
		})
	}
}

func TestBookingParamsFrom_CopiesMultipliers(t *testing.T) {
	cfg := scenario.Baseline()
	params := BookingParamsFrom(cfg)
	params.HourlyMultipliers[0] = 99
	assert.NotEqual(t, 99.0, cfg.TASHourlyMultipliers[0])
	assert.Equal(t, float64(cfg.TASSlotMinutes), params.SlotMinutes)
}

func TestBooking_Record(t *testing.T) {
	b := Booking{Arrival: 130, SlotStart: 120, BookedSlot: 60, Missed: 1, Attempts: 2}
	rec := b.record(false)
	assert.Equal(t, 60.0, rec.BookedSlot)
	assert.Equal(t, 120.0, rec.ResolvedSlot)
	assert.Equal(t, 130.0, rec.Arrival)
	assert.Equal(t, 1, rec.Missed)
	assert.False(t, rec.Dropped)
	assert.True(t, b.record(true).Dropped)
}
