package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type levelRequest struct {
	proc   *Process
	amount int
}

// Container is an accumulating-capacity pool (yard TEU, crane gangs). Get and
// Put move whole amounts atomically; requests are served strictly in arrival
// order per direction, so a large request at the head blocks smaller ones
// behind it.
type Container struct {
	sim      *Simulator
	name     string
	capacity int
	level    int

	getters []levelRequest
	putters []levelRequest

	peakLevel int
	peakQueue int

	emptySince float64
	emptyTime  float64
}

// NewContainer creates a level pool holding initial units out of capacity.
func (s *Simulator) NewContainer(name string, capacity, initial int) *Container {
	if capacity < 1 {
		panic(fmt.Sprintf("container %q: capacity must be >= 1, got %d", name, capacity))
	}
	if initial < 0 || initial > capacity {
		panic(fmt.Sprintf("container %q: initial level %d outside [0, %d]", name, initial, capacity))
	}
	return &Container{
		sim:        s,
		name:       name,
		capacity:   capacity,
		level:      initial,
		peakLevel:  initial,
		emptySince: s.Clock,
	}
}

// Get blocks p until amount units can be removed.
func (c *Container) Get(p *Process, amount int) {
	if amount <= 0 {
		return
	}
	if amount > c.capacity {
		panic(fmt.Sprintf("container %q: get %d exceeds capacity %d", c.name, amount, c.capacity))
	}
	if len(c.getters) == 0 && c.level >= amount {
		c.setLevel(c.level - amount)
		c.settle()
		return
	}
	c.getters = append(c.getters, levelRequest{proc: p, amount: amount})
	c.trackQueue()
	logrus.Tracef("[t=%.3f] %s waiting to get %d from %s (level=%d)", c.sim.Clock, p.name, amount, c.name, c.level)
	p.suspend(StateSuspendedLevel)
}

// Put blocks p until amount units fit under capacity.
func (c *Container) Put(p *Process, amount int) {
	if amount <= 0 {
		return
	}
	if amount > c.capacity {
		panic(fmt.Sprintf("container %q: put %d exceeds capacity %d", c.name, amount, c.capacity))
	}
	if len(c.putters) == 0 && c.level+amount <= c.capacity {
		c.setLevel(c.level + amount)
		c.settle()
		return
	}
	c.putters = append(c.putters, levelRequest{proc: p, amount: amount})
	c.trackQueue()
	logrus.Tracef("[t=%.3f] %s waiting to put %d into %s (level=%d)", c.sim.Clock, p.name, amount, c.name, c.level)
	p.suspend(StateSuspendedLevel)
}

// settle grants queued requests until neither queue head can proceed.
func (c *Container) settle() {
	if c.sim.stopped {
		return
	}
	for progressed := true; progressed; {
		progressed = false
		for len(c.putters) > 0 && c.level+c.putters[0].amount <= c.capacity {
			req := c.putters[0]
			c.putters = c.putters[1:]
			c.setLevel(c.level + req.amount)
			c.sim.scheduleWake(c.sim.Clock, req.proc)
			progressed = true
		}
		for len(c.getters) > 0 && c.level >= c.getters[0].amount {
			req := c.getters[0]
			c.getters = c.getters[1:]
			c.setLevel(c.level - req.amount)
			c.sim.scheduleWake(c.sim.Clock, req.proc)
			progressed = true
		}
	}
}

func (c *Container) setLevel(level int) {
	now := c.sim.Clock
	if c.level == 0 && level > 0 {
		c.emptyTime += now - c.emptySince
	}
	if c.level > 0 && level == 0 {
		c.emptySince = now
	}
	c.level = level
	if level > c.peakLevel {
		c.peakLevel = level
	}
}

func (c *Container) trackQueue() {
	if q := len(c.getters) + len(c.putters); q > c.peakQueue {
		c.peakQueue = q
	}
}

// Name returns the container label.
func (c *Container) Name() string { return c.name }

// Level returns the units currently held.
func (c *Container) Level() int { return c.level }

// Capacity returns the maximum level.
func (c *Container) Capacity() int { return c.capacity }

// Occupancy returns Level/Capacity.
func (c *Container) Occupancy() float64 {
	return float64(c.level) / float64(c.capacity)
}

// QueueLen returns the number of blocked getters and putters.
func (c *Container) QueueLen() int { return len(c.getters) + len(c.putters) }

// PeakLevel returns the highest level observed.
func (c *Container) PeakLevel() int { return c.peakLevel }

// EmptyRatio returns the fraction of [0, horizon] the level spent at zero.
func (c *Container) EmptyRatio(horizon float64) float64 {
	if horizon <= 0 {
		return 0
	}
	empty := c.emptyTime
	if c.level == 0 && horizon > c.emptySince {
		empty += horizon - c.emptySince
	}
	return empty / horizon
}

// Stats returns a snapshot of the container's counters.
func (c *Container) Stats() ResourceStats {
	return ResourceStats{
		Name:      c.name,
		Capacity:  c.capacity,
		PeakInUse: c.peakLevel,
		PeakQueue: c.peakQueue,
	}
}
