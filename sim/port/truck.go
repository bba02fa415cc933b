package port

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/NkanyeziNgobese/PortSimulation/sim"
	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
	"github.com/NkanyeziNgobese/PortSimulation/sim/trace"
)

// Selector claims ready containers for a truck with the given TEU capacity.
// It may block p until something is claimable and must return at least one
// container, together with a short label naming the rule that fired.
type Selector func(p *sim.Process, pool *sim.FilterStore[*ContainerRecord], capacityTEU int) ([]*ContainerRecord, string)

func is20(c *ContainerRecord) bool { return c.TEU == 1 }
func is40(c *ContainerRecord) bool { return c.TEU == 2 }

// SelectContainers is the default claim policy: a single 40ft box if one is
// ready, else two 20ft boxes, else one 20ft box, else the oldest item. On an
// empty pool it waits for the first arrival and, if that is a 20ft box and
// another 20ft box is already waiting, takes that too.
func SelectContainers(p *sim.Process, pool *sim.FilterStore[*ContainerRecord], capacityTEU int) ([]*ContainerRecord, string) {
	if pool.Len() == 0 {
		first := pool.Get(p, nil)
		picked := []*ContainerRecord{first}
		if capacityTEU >= 2 && is20(first) && pool.Count(is20) > 0 {
			return append(picked, pool.Get(p, is20)), trace.ClaimBlockedPair
		}
		return picked, trace.ClaimBlocked
	}

	if capacityTEU >= 2 && pool.Count(is40) > 0 {
		return []*ContainerRecord{pool.Get(p, is40)}, trace.ClaimSingle40
	}
	n20 := pool.Count(is20)
	if capacityTEU >= 2 && n20 >= 2 {
		first := pool.Get(p, is20)
		return []*ContainerRecord{first, pool.Get(p, is20)}, trace.ClaimPair20
	}
	if n20 == 1 {
		return []*ContainerRecord{pool.Get(p, is20)}, trace.ClaimSingle20
	}
	return []*ContainerRecord{pool.Get(p, nil)}, trace.ClaimAny
}

// claim runs the selector and records the decision.
func (r *run) claim(p *sim.Process, truckID int) []*ContainerRecord {
	poolSize := r.term.ready.Len()
	picked, rule := r.selector(p, r.term.ready, r.cfg.TruckCapacityTEU)
	if r.trace.Enabled() {
		ids := make([]string, len(picked))
		for i, c := range picked {
			ids[i] = c.ID
		}
		r.trace.RecordClaim(trace.ClaimRecord{
			TruckID:       truckID,
			Clock:         p.Now(),
			Rule:          rule,
			ContainerIDs:  ids,
			PickedTEU:     totalTEU(picked),
			ReadyPoolSize: poolSize,
		})
	}
	return picked
}

func totalTEU(cs []*ContainerRecord) int {
	n := 0
	for _, c := range cs {
		n += c.TEU
	}
	return n
}

// truckGenerator spawns free-flow trucks with exponential gaps whose rate
// follows the hourly TEU profile. Hours with zero demand are skipped whole.
func (r *run) truckGenerator(p *sim.Process) {
	rateAt, err := dist.HourlyRate(r.cfg.HourlyTruckTEURate)
	if err != nil {
		// Validated before the run; reaching here is a programming error.
		panic(err)
	}
	capTEU := float64(max(r.cfg.TruckCapacityTEU, 1))
	for id := 0; ; {
		if p.Now() >= r.cfg.StopTime() {
			return
		}
		perMin := rateAt(p.Now()) / capTEU / 60
		if perMin <= 0 {
			p.Timeout(60 - math.Mod(p.Now(), 60))
			continue
		}
		p.Timeout(dist.ExponentialRate(r.rng, perMin))
		if p.Now() >= r.cfg.StopTime() {
			return
		}
		truckID := id
		r.arrivals++
		r.sim.Spawn(fmt.Sprintf("truck-%d", truckID), func(p *sim.Process) { r.freeFlowTruck(p, truckID) })
		id++
	}
}

// freeFlowTruck arrives unannounced, claims containers, fetches them with
// yard equipment, loads and leaves. Its shared timestamps are copied onto
// every container it carries.
func (r *run) freeFlowTruck(p *sim.Process, id int) {
	cfg, t := r.cfg, r.term
	tr := &TruckRecord{ID: id, Mode: scenario.TruckModeFreeFlow, ArrivalTime: ptr(p.Now())}

	tr.GateInQueueEnter = ptr(p.Now())
	t.gateIn.Use(p, func() {
		tr.GateInStart = ptr(p.Now())
		p.Timeout(dist.Triangular(r.rng, cfg.GateInTimeMin, cfg.GateInTimeMode, cfg.GateInTimeMax))
		tr.GateInEnd = ptr(p.Now())
	})

	tr.ClaimStart = ptr(p.Now())
	picked := r.claim(p, id)
	tr.ClaimEnd = ptr(p.Now())
	tr.PickedTEU = totalTEU(picked)
	tr.PickedContainers = len(picked)

	move := t.moveInYard(p, r.rng, cfg)
	tr.YardToTruckQueueEnter = ptr(move.QueueEnter)
	tr.YardToTruckStart = ptr(move.Start)
	tr.OccupancyAtYardToTruck = ptr(move.Occupancy)
	tr.YardToTruckEnd = ptr(move.End)

	if tr.PickedTEU > 0 {
		t.yard.Get(p, tr.PickedTEU)
	}

	tr.LoadingQueueEnter = ptr(p.Now())
	t.loaders.Use(p, func() {
		tr.LoadingStart = ptr(p.Now())
		p.Timeout(dist.Triangular(r.rng, cfg.LoadingTimeMin, cfg.LoadingTimeMode, cfg.LoadingTimeMax))
		tr.LoadingEnd = ptr(p.Now())
	})

	r.gateOut(p, tr)

	for _, c := range picked {
		c.TruckID = ptr(id)
		c.GateInQueueEnter = tr.GateInQueueEnter
		c.GateInStart = tr.GateInStart
		c.GateInEnd = tr.GateInEnd
		c.PickupTime = tr.ClaimEnd
		c.YardToTruckQueueEnter = tr.YardToTruckQueueEnter
		c.YardToTruckStart = tr.YardToTruckStart
		c.YardToTruckEnd = tr.YardToTruckEnd
		c.OccupancyAtYardToTruck = tr.OccupancyAtYardToTruck
		c.LoadingQueueEnter = tr.LoadingQueueEnter
		c.LoadingStart = tr.LoadingStart
		c.LoadingEnd = tr.LoadingEnd
		r.stampGateOut(c, tr)
		r.finish(c)
	}
	r.trucks = append(r.trucks, tr)
	logrus.Debugf("[t=%.2f] truck %d left with %d TEU", p.Now(), id, tr.PickedTEU)
}

// gateOut queues the truck at the out-gate and records the exit.
func (r *run) gateOut(p *sim.Process, tr *TruckRecord) {
	cfg := r.cfg
	tr.GateOutQueueEnter = ptr(p.Now())
	r.term.gateOut.Use(p, func() {
		tr.GateOutStart = ptr(p.Now())
		p.Timeout(dist.Triangular(r.rng, cfg.GateOutTimeMin, cfg.GateOutTimeMode, cfg.GateOutTimeMax))
		tr.GateOutEnd = ptr(p.Now())
	})
	tr.ExitTime = tr.GateOutEnd
}

func (r *run) stampGateOut(c *ContainerRecord, tr *TruckRecord) {
	c.GateQueueEnter = tr.GateOutQueueEnter
	c.GateStart = tr.GateOutStart
	c.GateOutExitTime = tr.GateOutEnd
	c.ExitTime = tr.ExitTime
}
