package port

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/NkanyeziNgobese/PortSimulation/sim"
	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
	"github.com/NkanyeziNgobese/PortSimulation/sim/trace"
)

// Pier names carried in the pier column.
const (
	Pier1 = "Pier 1"
	Pier2 = "Pier 2"
)

// terminal holds every resource pool of one run.
type terminal struct {
	cranes        *sim.Resource
	yard          *sim.Container
	yardEquipment *sim.Resource
	scanners      *sim.Resource
	loaders       *sim.Resource
	gateIn        *sim.Resource
	gateOut       *sim.Resource
	ready         *sim.FilterStore[*ContainerRecord]

	piers []*pier // tie-break order; empty unless vessel mode is on
}

// pier is a berth group with its own crane pool and productivity.
type pier struct {
	name       string
	berth      *sim.Resource
	cranes     *sim.Container
	efficiency float64
	sampleGang func(rng *rand.Rand) int
}

func newTerminal(s *sim.Simulator, cfg scenario.Config) *terminal {
	t := &terminal{
		cranes:        s.NewResource("cranes", cfg.NumCranes),
		yard:          s.NewContainer("yard", cfg.YardCapacity, 0),
		yardEquipment: s.NewResource("yard_equipment", cfg.YardEquipmentCapacity),
		scanners:      s.NewResource("scanners", cfg.NumScanners),
		loaders:       s.NewResource("loaders", cfg.NumLoaders),
		gateIn:        s.NewResource("gate_in", cfg.NumGateIn),
		gateOut:       s.NewResource("gate_out", cfg.NumGateOut),
		ready:         sim.NewFilterStore[*ContainerRecord](s, "ready_pool"),
	}
	if !cfg.VesselMode {
		return t
	}
	gangDist := append([]dist.Weight(nil), cfg.Pier1GangDistribution...)
	t.piers = []*pier{
		{
			name:       Pier1,
			berth:      s.NewResource("berth_pier1", cfg.Pier1Berths),
			cranes:     s.NewContainer("crane_pool_pier1", cfg.Pier1CranePool, cfg.Pier1CranePool),
			efficiency: cfg.Pier1Efficiency,
			sampleGang: func(rng *rand.Rand) int { return dist.WeightedInt(rng, gangDist) },
		},
		{
			name:       Pier2,
			berth:      s.NewResource("berth_pier2", cfg.Pier2Berths),
			cranes:     s.NewContainer("crane_pool_pier2", cfg.Pier2CranePool, cfg.Pier2CranePool),
			efficiency: cfg.Pier2Efficiency,
			sampleGang: func(rng *rand.Rand) int {
				return triangularGang(rng, cfg.Pier2GangMin, cfg.Pier2GangMode, cfg.Pier2GangMax)
			},
		},
	}
	return t
}

// triangularGang samples a crane count from a triangle and rounds half to
// even before clamping into [min, max].
func triangularGang(rng *rand.Rand, min, mode, max int) int {
	v := dist.Triangular(rng, float64(min), float64(mode), float64(max))
	n := int(math.RoundToEven(v))
	if n > max {
		n = max
	}
	if n < min {
		n = min
	}
	return n
}

// pierScore is queue length plus utilization; lower is less congested.
func pierScore(p *pier) float64 {
	return float64(p.berth.QueueLen()) + p.berth.Occupancy()
}

// selectPier returns the least congested pier; ties go to the earlier pier.
func selectPier(piers []*pier, vesselID int, now float64) (*pier, trace.BerthRecord) {
	rec := trace.BerthRecord{VesselID: vesselID, Clock: now}
	best := -1
	bestScore := math.Inf(1)
	for i, p := range piers {
		score := pierScore(p)
		rec.Candidates = append(rec.Candidates, trace.PierCandidate{
			Pier:     p.name,
			Score:    score,
			QueueLen: p.berth.QueueLen(),
			InUse:    p.berth.InUse(),
			Capacity: p.berth.Capacity(),
		})
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	rec.ChosenPier = piers[best].name
	alt := math.Inf(1)
	for i, c := range rec.Candidates {
		if i != best && c.Score < alt {
			alt = c.Score
		}
	}
	if !math.IsInf(alt, 1) {
		rec.Margin = alt - bestScore
	}
	return piers[best], rec
}

// yardOccupancy is the yard fill ratio clamped into [0, 1].
func (t *terminal) yardOccupancy() float64 {
	return math.Max(0, math.Min(1, t.yard.Occupancy()))
}

// yardMove is one yard-equipment move as seen by the container or truck
// that asked for it.
type yardMove struct {
	QueueEnter float64
	Start      float64
	End        float64
	Occupancy  float64 // yard fill when the equipment was granted
}

// moveInYard queues p for yard equipment and holds it for one move. Yard
// occupancy is read once the equipment is granted, not when p starts queueing,
// and above the occupancy threshold the sampled move time is stretched
// linearly up to (1 + alpha) at a full yard.
func (t *terminal) moveInYard(p *sim.Process, rng *rand.Rand, cfg scenario.Config) yardMove {
	m := yardMove{QueueEnter: p.Now()}
	t.yardEquipment.Use(p, func() {
		m.Start = p.Now()
		m.Occupancy = t.yardOccupancy()
		base := dist.Triangular(rng, cfg.YardMoveMin, cfg.YardMoveMode, cfg.YardMoveMax)
		p.Timeout(math.Max(0, base*congestionPenalty(m.Occupancy, cfg.YardOccThreshold, cfg.RehandleAlpha)))
		m.End = p.Now()
	})
	return m
}

func congestionPenalty(occ, threshold, alpha float64) float64 {
	if occ <= threshold {
		return 1
	}
	return 1 + alpha*(occ-threshold)/math.Max(1-threshold, 1e-6)
}

// unitResources lists the unit pools in a stable order.
func (t *terminal) unitResources() []*sim.Resource {
	out := []*sim.Resource{t.cranes, t.yardEquipment, t.scanners, t.loaders, t.gateIn, t.gateOut}
	for _, p := range t.piers {
		out = append(out, p.berth)
	}
	return out
}

// levelResources lists the level pools in a stable order.
func (t *terminal) levelResources() []*sim.Container {
	out := []*sim.Container{t.yard}
	for _, p := range t.piers {
		out = append(out, p.cranes)
	}
	return out
}

// checkCapacity reports the first pool whose usage is outside its bounds.
func (t *terminal) checkCapacity() error {
	for _, r := range t.unitResources() {
		if r.InUse() < 0 || r.InUse() > r.Capacity() {
			return fmt.Errorf("%s: in use %d outside [0, %d]", r.Name(), r.InUse(), r.Capacity())
		}
	}
	for _, c := range t.levelResources() {
		if c.Level() < 0 || c.Level() > c.Capacity() {
			return fmt.Errorf("%s: level %d outside [0, %d]", c.Name(), c.Level(), c.Capacity())
		}
	}
	return nil
}
