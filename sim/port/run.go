// Package port models a container terminal on top of the sim kernel: the
// container, truck and vessel processes, their generators, and the run
// orchestration that turns a scenario and a seed into output tables.
package port

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/NkanyeziNgobese/PortSimulation/sim"
	"github.com/NkanyeziNgobese/PortSimulation/sim/metrics"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
	"github.com/NkanyeziNgobese/PortSimulation/sim/trace"
)

// Options tunes a run without changing its scenario.
type Options struct {
	// TraceLevel enables decision records; empty means none.
	TraceLevel trace.TraceLevel
	// Selector overrides the truck claim policy; nil means SelectContainers.
	Selector Selector
}

// Result is everything a caller needs to report on one run.
type Result struct {
	Config     scenario.Config
	Seed       int64
	Containers *metrics.Table // completed containers with derived columns
	Trucks     *metrics.Table
	Vessels    *metrics.Table
	Stats      Stats
	Trace      *trace.SimulationTrace
}

// RowCount is the number of completed containers.
func (r *Result) RowCount() int { return r.Containers.Len() }

// Stats summarises resource usage and entity counts for one run.
type Stats struct {
	Resources           []sim.ResourceStats
	CranePoolEmptyRatio map[string]float64 // per pier, share of [0, sim_time] with every crane assigned
	EventsProcessed     int64
	EventsPending       int
	FinalClock          float64

	ContainersCreated   int
	ContainersCompleted int
	ContainersInFlight  int
	ReadyPoolLeft       int
	ReadyPoolTEU        int
	TrucksWaitingOnPool int
	YardLevel           int
	YardPeakTEU         int

	TrucksArrived    int
	TrucksCompleted  int
	BookingsAccepted int
	BookingsDropped  int

	VesselsArrived   int
	VesselsCompleted int
}

// RunSimulation runs cfg with seed and returns the output tables. The result
// is a pure function of (cfg, seed).
func RunSimulation(cfg scenario.Config, seed int64) (*Result, error) {
	return RunWithOptions(cfg, seed, Options{})
}

// RunWithOptions is RunSimulation with tracing and policy hooks.
func RunWithOptions(cfg scenario.Config, seed int64, opts Options) (*Result, error) {
	r, err := newRun(cfg, seed, opts)
	if err != nil {
		return nil, err
	}
	if err := r.execute(); err != nil {
		return nil, err
	}
	return r.result(), nil
}

// run is the mutable state of one simulation. Everything in it is touched
// only by the process currently scheduled.
type run struct {
	cfg      scenario.Config
	seed     int64
	sim      *sim.Simulator
	rng      *rand.Rand
	term     *terminal
	trace    *trace.SimulationTrace
	selector Selector
	bookings []Booking

	created    []*ContainerRecord
	completed  []*ContainerRecord
	trucks     []*TruckRecord
	vessels    []*VesselRecord
	arrivals   int
	vesselsIn  int
	dropped    int
	nextVessel int

	craneEmpty map[string]float64 // snapshot taken at the stop time
}

func newRun(cfg scenario.Config, seed int64, opts Options) (*run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	streams := sim.NewStreams(seed)
	s := sim.NewSimulator()
	r := &run{
		cfg:      cfg,
		seed:     seed,
		sim:      s,
		rng:      streams.Stream(sim.StreamTerminal),
		term:     newTerminal(s, cfg),
		trace:    trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel}),
		selector: opts.Selector,
	}
	if r.selector == nil {
		r.selector = SelectContainers
	}

	if cfg.IsTAS() {
		accepted, dropped, err := ResolveBookings(streams.Stream(sim.StreamBooking), BookingParamsFrom(cfg), cfg.StopTime())
		if err != nil {
			return nil, fmt.Errorf("%w: resolving truck bookings: %w", scenario.ErrInvalidConfig, err)
		}
		r.bookings = accepted
		r.dropped = len(dropped)
		for _, b := range accepted {
			r.trace.RecordBooking(b.record(false))
		}
		for _, b := range dropped {
			r.trace.RecordBooking(b.record(true))
		}
		if len(dropped) > 0 {
			logrus.Warnf("%d of %d truck bookings exhausted %d attempts and were dropped",
				len(dropped), len(dropped)+len(accepted), cfg.TASMaxAttempts)
		}
	}

	s.SetInvariant(r.term.checkCapacity)
	if cfg.VesselMode {
		s.ScheduleAt(cfg.StopTime(), func(*sim.Simulator) { r.craneEmpty = r.craneEmptyRatios() })
	}
	r.spawnGenerators()
	return r, nil
}

// craneEmptyRatios measures each pier's crane pool over [0, sim_time]. It is
// only exact while the clock is at the stop time.
func (r *run) craneEmptyRatios() map[string]float64 {
	out := make(map[string]float64, len(r.term.piers))
	for _, p := range r.term.piers {
		out[p.name] = p.cranes.EmptyRatio(r.cfg.StopTime())
	}
	return out
}

func (r *run) spawnGenerators() {
	if r.cfg.VesselMode {
		r.sim.Spawn("vessel-generator", r.vesselGenerator)
	} else {
		r.sim.Spawn("ship-generator", r.shipGenerator)
	}
	r.sim.Spawn("export-generator", r.exportGenerator)
	if r.cfg.IsTAS() {
		r.sim.Spawn("tas-generator", r.tasGenerator)
	} else {
		r.sim.Spawn("truck-generator", r.truckGenerator)
	}
}

func (r *run) execute() error {
	logrus.Infof("running scenario %q (seed %d) until t=%.0f", r.cfg.Name, r.seed, r.cfg.RunUntil())
	if err := r.sim.RunUntil(r.cfg.RunUntil()); err != nil {
		return fmt.Errorf("scenario %q seed %d: %w", r.cfg.Name, r.seed, err)
	}
	logrus.Infof("scenario %q finished: %d containers completed, %d events", r.cfg.Name, len(r.completed), r.sim.EventsProcessed)
	return nil
}

func (r *run) result() *Result {
	containerRows := make([]metrics.Row, 0, len(r.completed))
	for _, c := range r.completed {
		containerRows = append(containerRows, c.ToRow())
	}
	truckRows := make([]metrics.Row, 0, len(r.trucks))
	for _, t := range r.trucks {
		truckRows = append(truckRows, t.ToRow())
	}
	// Vessels finish out of arrival order; report them by id.
	vessels := append([]*VesselRecord(nil), r.vessels...)
	sort.SliceStable(vessels, func(i, j int) bool { return vessels[i].ID < vessels[j].ID })
	vesselRows := make([]metrics.Row, 0, len(vessels))
	for _, v := range vessels {
		vesselRows = append(vesselRows, v.ToRow())
	}

	return &Result{
		Config:     r.cfg,
		Seed:       r.seed,
		Containers: metrics.ContainerTable(containerRows),
		Trucks:     metrics.TruckTable(truckRows),
		Vessels:    metrics.VesselTable(vesselRows),
		Stats:      r.stats(),
		Trace:      r.trace,
	}
}

func (r *run) stats() Stats {
	pool := r.term.ready.Items()
	st := Stats{
		CranePoolEmptyRatio: r.craneEmpty,
		EventsProcessed:     r.sim.EventsProcessed,
		EventsPending:       r.sim.Pending(),
		FinalClock:          r.sim.Clock,
		ContainersCreated:   len(r.created),
		ContainersCompleted: len(r.completed),
		ReadyPoolLeft:       len(pool),
		ReadyPoolTEU:        totalTEU(pool),
		TrucksWaitingOnPool: r.term.ready.Waiting(),
		YardLevel:           r.term.yard.Level(),
		YardPeakTEU:         r.term.yard.PeakLevel(),
		TrucksArrived:       r.arrivals,
		TrucksCompleted:     len(r.trucks),
		BookingsAccepted:    len(r.bookings),
		BookingsDropped:     r.dropped,
		VesselsArrived:      r.vesselsIn,
		VesselsCompleted:    len(r.vessels),
	}
	for _, c := range r.created {
		if !c.Done() {
			st.ContainersInFlight++
		}
	}
	for _, res := range r.term.unitResources() {
		st.Resources = append(st.Resources, res.Stats())
	}
	for _, c := range r.term.levelResources() {
		st.Resources = append(st.Resources, c.Stats())
	}
	st.Resources = append(st.Resources, r.term.ready.Stats())
	// The stop-time event never fires when the run ends exactly at sim_time.
	if r.cfg.VesselMode && st.CranePoolEmptyRatio == nil {
		st.CranePoolEmptyRatio = r.craneEmptyRatios()
	}
	return st
}

// newContainer registers a container record at the current time.
func (r *run) newContainer(id, flow string) *ContainerRecord {
	c := &ContainerRecord{
		ID:          id,
		FlowType:    flow,
		TEU:         r.sampleTEU(),
		ArrivalTime: ptr(r.sim.Now()),
	}
	r.created = append(r.created, c)
	return c
}

// finish emits a container whose journey ended.
func (r *run) finish(c *ContainerRecord) {
	r.completed = append(r.completed, c)
}

func (r *run) sampleTEU() int {
	if r.rng.Float64() < r.cfg.Pct40ft {
		return 2
	}
	return 1
}
