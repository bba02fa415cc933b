package port

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/NkanyeziNgobese/PortSimulation/sim"
	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
	"github.com/NkanyeziNgobese/PortSimulation/sim/trace"
)

// BookingParams drives truck appointment resolution.
type BookingParams struct {
	TrucksPerDay      float64
	HourlyMultipliers []float64
	SlotMinutes       float64
	LateToleranceMins float64
	NoShowProb        float64
	RebookMeanMins    float64
	RebookSigmaMins   float64
	ArrivalStdMins    float64
	MaxAttempts       int
}

// BookingParamsFrom extracts the appointment parameters of cfg.
func BookingParamsFrom(cfg scenario.Config) BookingParams {
	return BookingParams{
		TrucksPerDay:      cfg.TASTrucksPerDay,
		HourlyMultipliers: append([]float64(nil), cfg.TASHourlyMultipliers...),
		SlotMinutes:       float64(cfg.TASSlotMinutes),
		LateToleranceMins: cfg.TASLateToleranceMins,
		NoShowProb:        cfg.TASNoShowProb,
		RebookMeanMins:    cfg.TASRebookDelayMeanMins,
		RebookSigmaMins:   cfg.TASRebookDelaySigma,
		ArrivalStdMins:    cfg.TASArrivalStdMins,
		MaxAttempts:       cfg.TASMaxAttempts,
	}
}

// Booking is one resolved truck appointment.
type Booking struct {
	Arrival    float64 // when the truck reaches the terminal
	SlotStart  float64 // the slot it finally honours
	BookedSlot float64 // the slot originally booked
	Missed     int     // no-shows plus late arrivals before acceptance
	Attempts   int
}

func (b Booking) record(dropped bool) trace.BookingRecord {
	return trace.BookingRecord{
		BookedSlot:   b.BookedSlot,
		ResolvedSlot: b.SlotStart,
		Arrival:      b.Arrival,
		Missed:       b.Missed,
		Attempts:     b.Attempts,
		Dropped:      dropped,
	}
}

// ResolveBookings samples slot bookings over [0, horizonMins) and resolves
// each into an arrival. A no-show or a truck later than slot end plus
// tolerance rebooks into the slot boundary after a lognormal delay. A booking
// still unresolved after MaxAttempts tries is returned in dropped. Accepted
// bookings are sorted by arrival time.
func ResolveBookings(rng *rand.Rand, params BookingParams, horizonMins float64) (accepted, dropped []Booking, err error) {
	if params.SlotMinutes <= 0 {
		return nil, nil, fmt.Errorf("%w: slot length must be > 0, got %.2f", dist.ErrInvalidDistribution, params.SlotMinutes)
	}
	if params.MaxAttempts < 1 {
		return nil, nil, fmt.Errorf("%w: max attempts must be >= 1, got %d", dist.ErrInvalidDistribution, params.MaxAttempts)
	}
	slots, err := dist.NHPPSlotTimes(rng, horizonMins, params.TrucksPerDay, params.HourlyMultipliers)
	if err != nil {
		return nil, nil, err
	}

	rebook := func(from float64) float64 {
		return dist.NextSlotStart(from+dist.LogNormal(rng, params.RebookMeanMins, params.RebookSigmaMins), params.SlotMinutes)
	}

	for _, booked := range slots {
		b := Booking{BookedSlot: booked, SlotStart: booked}
		resolved := false
		for b.Attempts < params.MaxAttempts {
			b.Attempts++
			if dist.Bernoulli(rng, params.NoShowProb) {
				b.Missed++
				b.SlotStart = rebook(b.SlotStart)
				continue
			}
			arrival := math.Max(0, b.SlotStart+dist.Normal(rng, 0, params.ArrivalStdMins))
			if arrival > b.SlotStart+params.SlotMinutes+params.LateToleranceMins {
				b.Missed++
				b.SlotStart = rebook(arrival)
				continue
			}
			b.Arrival = arrival
			resolved = true
			break
		}
		if resolved {
			accepted = append(accepted, b)
		} else {
			dropped = append(dropped, b)
		}
	}
	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].Arrival < accepted[j].Arrival })
	return accepted, dropped, nil
}

// tasGenerator releases pre-resolved bookings at their arrival times.
func (r *run) tasGenerator(p *sim.Process) {
	for i, b := range r.bookings {
		p.WaitUntil(b.Arrival)
		id, booking := i, b
		r.arrivals++
		r.sim.Spawn(fmt.Sprintf("tas-truck-%d", id), func(p *sim.Process) { r.tasTruck(p, id, booking) })
	}
}

// tasTruck honours its slot: early trucks stage until the slot opens, then
// gate in, claim, pick up on a loader, release yard space and gate out.
func (r *run) tasTruck(p *sim.Process, id int, b Booking) {
	cfg, t := r.cfg, r.term
	tr := &TruckRecord{
		ID:          id,
		Mode:        scenario.TruckModeTAS,
		SlotStart:   ptr(b.SlotStart),
		MissedSlots: ptr(b.Missed),
		ArrivalTime: ptr(p.Now()),
	}

	p.WaitUntil(b.SlotStart)

	tr.GateInQueueEnter = ptr(p.Now())
	t.gateIn.Use(p, func() {
		tr.GateInStart = ptr(p.Now())
		p.Timeout(dist.Triangular(r.rng, cfg.GateInTimeMin, cfg.GateInTimeMode, cfg.GateInTimeMax))
		tr.GateInEnd = ptr(p.Now())
	})

	tr.ClaimStart = ptr(p.Now())
	picked := r.claim(p, id)
	tr.ClaimEnd = ptr(p.Now())

	tr.LoadingQueueEnter = ptr(p.Now())
	t.loaders.Use(p, func() {
		tr.LoadingStart = ptr(p.Now())
		p.Timeout(dist.Triangular(r.rng, cfg.LoadingTimeMin, cfg.LoadingTimeMode, cfg.LoadingTimeMax))
		tr.LoadingEnd = ptr(p.Now())
	})

	tr.PickedTEU = totalTEU(picked)
	tr.PickedContainers = len(picked)
	if tr.PickedTEU > 0 {
		t.yard.Get(p, tr.PickedTEU)
	}

	r.gateOut(p, tr)
	r.trucks = append(r.trucks, tr)

	for _, c := range picked {
		c.TruckID = ptr(id)
		c.PickupTime = tr.ClaimEnd
		c.LoadingQueueEnter = tr.ClaimEnd
		c.LoadingStart = tr.LoadingStart
		c.LoadingEnd = tr.LoadingEnd
		r.stampGateOut(c, tr)
		r.finish(c)
	}
}
