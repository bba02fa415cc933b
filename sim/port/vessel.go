package port

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/NkanyeziNgobese/PortSimulation/sim"
	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
)

// vesselGenerator admits vessel calls until the stop time.
func (r *run) vesselGenerator(p *sim.Process) {
	for {
		p.Timeout(dist.Exponential(r.rng, r.cfg.VesselInterarrivalMeanMins))
		if p.Now() >= r.cfg.StopTime() {
			return
		}
		id := r.nextVessel
		r.nextVessel++
		r.vesselsIn++
		r.sim.Spawn(fmt.Sprintf("vessel-%d", id), func(p *sim.Process) { r.vesselCall(p, id) })
	}
}

// containersPerCall is how many boxes a call releases to the yard.
func containersPerCall(cfg scenario.Config) int {
	n := cfg.VesselMovesPerCall
	if cfg.VesselImportShare > 0 {
		n *= cfg.VesselImportShare
	}
	return max(1, int(math.RoundToEven(n)))
}

// effectiveMovesPerHour is the gang's discharge rate after pier efficiency
// and the net working-time factor.
func effectiveMovesPerHour(cfg scenario.Config, cranes int, efficiency float64) float64 {
	return float64(cranes) * cfg.GCHMovesPerHour * math.Max(efficiency, 1e-6) * math.Max(cfg.NetEffectiveWorkFactor, 1e-6)
}

// dischargeMinutes is the time to work moves at rate moves per hour.
func dischargeMinutes(moves, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return moves / rate * 60
}

// shiftLossMinutes charges a uniform hook loss per crane for every full
// shift the discharge spans.
func (r *run) shiftLossMinutes(discharge float64, cranes int) float64 {
	if r.cfg.ShiftLengthMins <= 0 {
		return 0
	}
	shifts := int(math.Floor(discharge / r.cfg.ShiftLengthMins))
	total := 0.0
	for i := 0; i < shifts; i++ {
		total += dist.Uniform(r.rng, r.cfg.ShiftHookLossMinMins, r.cfg.ShiftHookLossMaxMins) * float64(cranes)
	}
	return total
}

// allocateCranes takes a gang from pool. When fewer than minimum cranes are
// idle the vessel waits for exactly minimum; otherwise it takes as many of
// the requested cranes as are idle, never fewer than minimum.
func allocateCranes(p *sim.Process, pool *sim.Container, requested, minimum int) (assigned int, wait float64) {
	start := p.Now()
	if pool.Level() < minimum {
		logrus.Debugf("[t=%.2f] %s waiting for %d cranes on %s (level %d)", p.Now(), p.Name(), minimum, pool.Name(), pool.Level())
		assigned = minimum
	} else {
		assigned = max(min(requested, pool.Level()), minimum)
	}
	pool.Get(p, assigned)
	return assigned, math.Max(0, p.Now()-start)
}

// vesselCall berths a vessel, discharges it with a crane gang at a paced
// release rate, and frees the gang and berth once service time is spent.
func (r *run) vesselCall(p *sim.Process, id int) {
	cfg := r.cfg
	v := &VesselRecord{
		ID:           id,
		ArrivalTime:  p.Now(),
		MovesPerCall: cfg.VesselMovesPerCall,
		TEUPerMove:   cfg.VesselTEUPerMove,
	}
	pr, decision := selectPier(r.term.piers, id, p.Now())
	r.trace.RecordBerth(decision)
	v.Pier = pr.name
	v.ContainersGenerated = containersPerCall(cfg)
	v.TEUTotal = v.MovesPerCall * v.TEUPerMove
	v.TEUGenerated = float64(v.ContainersGenerated) * v.TEUPerMove
	v.EfficiencyFactor = pr.efficiency
	v.CranesRequested = max(pr.sampleGang(r.rng), cfg.MinCranesPerVessel)

	if cfg.EnableAnchorageQueue {
		pr.berth.Acquire(p)
		defer pr.berth.Release()
	}
	v.BerthStartTime = ptr(p.Now())

	assigned, wait := allocateCranes(p, pr.cranes, v.CranesRequested, cfg.MinCranesPerVessel)
	v.CranesAssigned = assigned
	v.CraneWait = ptr(wait)

	rate := effectiveMovesPerHour(cfg, assigned, pr.efficiency)
	interRelease := 60 / math.Max(rate, 1e-6)
	v.EffectiveRateMPH = ptr(rate)
	v.InterReleaseMins = ptr(interRelease)

	discharge := dischargeMinutes(v.MovesPerCall, rate)
	shiftLoss := r.shiftLossMinutes(discharge, assigned)
	v.ShiftLossMins = ptr(shiftLoss)
	service := discharge + shiftLoss
	if cfg.IncludeMarineDelays {
		service += cfg.PilotageBerthingMins + cfg.SailingClearanceMins
	}
	service = math.Max(0, service)
	v.BerthServiceMins = ptr(service)

	for idx := 0; idx < v.ContainersGenerated; idx++ {
		p.Timeout(interRelease)
		c := r.newContainer(fmt.Sprintf("V%d-%d", id, idx), r.sampleShipFlow())
		c.VesselID = ptr(id)
		c.Pier = pr.name
		r.sim.Spawn("container-"+c.ID, func(p *sim.Process) { r.shipContainer(p, c, false) })
	}
	if remaining := service - float64(v.ContainersGenerated)*interRelease; remaining > 0 {
		p.Timeout(remaining)
	}

	pr.cranes.Put(p, assigned)
	v.BerthEndTime = ptr(p.Now())
	r.vessels = append(r.vessels, v)
	logrus.Debugf("[t=%.2f] vessel %d left %s after %.1f min with %d cranes", p.Now(), id, pr.name, p.Now()-*v.BerthStartTime, assigned)
}
