package port

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/NkanyeziNgobese/PortSimulation/sim"
	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
)

// shipGenerator admits per-container ship arrivals until the stop time.
func (r *run) shipGenerator(p *sim.Process) {
	if r.cfg.PImport+r.cfg.PTransship <= 0 {
		return
	}
	for id := 0; ; id++ {
		p.Timeout(dist.Exponential(r.rng, r.cfg.ShipInterarrivalMeanMins))
		if p.Now() >= r.cfg.StopTime() {
			return
		}
		c := r.newContainer(fmt.Sprintf("S%d", id), r.sampleShipFlow())
		r.sim.Spawn("container-"+c.ID, func(p *sim.Process) { r.shipContainer(p, c, true) })
	}
}

// exportGenerator admits export containers through the gate until the stop time.
func (r *run) exportGenerator(p *sim.Process) {
	if r.cfg.PExport <= 0 {
		return
	}
	for id := 0; ; id++ {
		p.Timeout(dist.Exponential(r.rng, r.cfg.ExportInterarrivalMeanMins))
		if p.Now() >= r.cfg.StopTime() {
			return
		}
		c := r.newContainer(fmt.Sprintf("E%d", id), FlowExport)
		r.sim.Spawn("container-"+c.ID, func(p *sim.Process) { r.exportContainer(p, c) })
	}
}

func (r *run) sampleShipFlow() string {
	return dist.ChooseWeighted(r.rng, FlowImport, FlowTransship, r.cfg.PImport, r.cfg.PTransship)
}

// shipContainer carries an import or transship container from discharge to
// the ready-pool. Containers discharged by a vessel call skip the per-box
// crane because the vessel's gang already paced their release.
func (r *run) shipContainer(p *sim.Process, c *ContainerRecord, useCrane bool) {
	cfg, t := r.cfg, r.term

	if useCrane {
		t.cranes.Use(p, func() {
			c.CraneStart = ptr(p.Now())
			p.Timeout(cfg.CraneTimeMins())
			c.CraneEnd = ptr(p.Now())
		})
	}

	t.yard.Put(p, c.TEU)
	c.YardEntryTime = ptr(p.Now())

	var dwell float64
	if c.FlowType == FlowImport {
		dwell = cfg.OffsetAfterDischargeMins + dist.BandedUniform(r.rng, cfg.ImportDwellBands)
	} else {
		dwell = dist.BandedUniform(r.rng, cfg.TransshipDwellBands)
	}
	p.Timeout(dwell)

	now := p.Now()
	c.PickupRequestTime = ptr(now)
	c.ScannerQueueLenAtPickup = ptr(t.scanners.QueueLen())
	c.LoaderQueueLenAtPickup = ptr(t.loaders.QueueLen())
	c.YardExitTime = ptr(now)

	move := t.moveInYard(p, r.rng, cfg)
	c.YardToScanQueueEnter = ptr(move.QueueEnter)
	c.YardToScanStart = ptr(move.Start)
	c.OccupancyAtYardToScan = ptr(move.Occupancy)
	c.YardToScanEnd = ptr(move.End)

	c.ScanQueueEnter = ptr(p.Now())
	t.scanners.Use(p, func() {
		c.ScanStart = ptr(p.Now())
		p.Timeout(cfg.ScanTimeMins)
		c.ScanEnd = ptr(p.Now())
	})

	c.ReadyTime = ptr(p.Now())
	logrus.Debugf("[t=%.2f] %s ready for pickup (%d TEU)", p.Now(), c.ID, c.TEU)
	// Ownership passes to whichever truck claims it; the yard TEU is
	// released by that truck.
	t.ready.Put(c)
}

// exportContainer runs gate-in, yard dwell, the move to the quay and loading.
func (r *run) exportContainer(p *sim.Process, c *ContainerRecord) {
	cfg, t := r.cfg, r.term

	c.GateInQueueEnter = ptr(p.Now())
	t.gateIn.Use(p, func() {
		c.GateInStart = ptr(p.Now())
		p.Timeout(dist.Triangular(r.rng, cfg.GateInTimeMin, cfg.GateInTimeMode, cfg.GateInTimeMax))
		c.GateInEnd = ptr(p.Now())
	})

	t.yard.Put(p, c.TEU)
	c.YardEntryTime = ptr(p.Now())

	p.Timeout(dist.Uniform(r.rng, cfg.ExportDwellMin, cfg.ExportDwellMax))
	c.PickupRequestTime = ptr(p.Now())
	c.YardExitTime = ptr(p.Now())

	move := t.moveInYard(p, r.rng, cfg)
	c.YardToTruckQueueEnter = ptr(move.QueueEnter)
	c.YardToTruckStart = ptr(move.Start)
	c.OccupancyAtYardToTruck = ptr(move.Occupancy)
	c.YardToTruckEnd = ptr(move.End)

	t.yard.Get(p, c.TEU)

	c.LoadingQueueEnter = ptr(p.Now())
	t.loaders.Use(p, func() {
		c.LoadingStart = ptr(p.Now())
		p.Timeout(dist.Triangular(r.rng, cfg.LoadingTimeMin, cfg.LoadingTimeMode, cfg.LoadingTimeMax))
		c.LoadingEnd = ptr(p.Now())
	})

	c.ExitTime = ptr(*c.LoadingEnd)
	r.finish(c)
}
