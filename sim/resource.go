package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Resource is a unit-capacity pool (cranes, scanners, loaders, gates, berths)
// with a FIFO wait queue. Each Acquire must be paired with exactly one Release.
type Resource struct {
	sim      *Simulator
	name     string
	capacity int
	inUse    int
	waiters  []*Process

	grants    int
	peakInUse int
	peakQueue int
}

// NewResource creates a resource with capacity slots. Capacity must be >= 1.
func (s *Simulator) NewResource(name string, capacity int) *Resource {
	if capacity < 1 {
		panic(fmt.Sprintf("resource %q: capacity must be >= 1, got %d", name, capacity))
	}
	return &Resource{sim: s, name: name, capacity: capacity}
}

// Acquire blocks p until a slot is granted. Grants are FIFO: a newcomer never
// overtakes a queued waiter even when a slot is momentarily free.
func (r *Resource) Acquire(p *Process) {
	if r.inUse < r.capacity && len(r.waiters) == 0 {
		r.inUse++
		r.grant()
		return
	}
	r.waiters = append(r.waiters, p)
	if len(r.waiters) > r.peakQueue {
		r.peakQueue = len(r.waiters)
	}
	logrus.Tracef("[t=%.3f] %s queued on %s (queue=%d)", r.sim.Clock, p.name, r.name, len(r.waiters))
	p.suspend(StateSuspendedResource)
}

// Release frees the caller's slot. When processes are waiting the slot passes
// straight to the head of the queue, which resumes at the current time.
// Release is a no-op once the simulator has stopped.
func (r *Resource) Release() {
	if r.sim.stopped {
		return
	}
	if len(r.waiters) > 0 {
		next := r.waiters[0]
		r.waiters[0] = nil
		r.waiters = r.waiters[1:]
		r.grant()
		r.sim.scheduleWake(r.sim.Clock, next)
		return
	}
	if r.inUse == 0 {
		panic(fmt.Sprintf("resource %q: release without matching acquire", r.name))
	}
	r.inUse--
}

// Use acquires a slot, runs fn and releases the slot on every exit path.
func (r *Resource) Use(p *Process, fn func()) {
	r.Acquire(p)
	defer r.Release()
	fn()
}

func (r *Resource) grant() {
	r.grants++
	if r.inUse > r.peakInUse {
		r.peakInUse = r.inUse
	}
}

// Name returns the resource label.
func (r *Resource) Name() string { return r.name }

// Capacity returns the number of slots.
func (r *Resource) Capacity() int { return r.capacity }

// InUse returns the number of held slots.
func (r *Resource) InUse() int { return r.inUse }

// QueueLen returns the number of processes waiting for a slot.
func (r *Resource) QueueLen() int { return len(r.waiters) }

// Occupancy returns InUse/Capacity.
func (r *Resource) Occupancy() float64 {
	return float64(r.inUse) / float64(r.capacity)
}

// Stats returns a snapshot of the resource's counters.
func (r *Resource) Stats() ResourceStats {
	return ResourceStats{
		Name:      r.name,
		Capacity:  r.capacity,
		Grants:    r.grants,
		PeakInUse: r.peakInUse,
		PeakQueue: r.peakQueue,
	}
}

// ResourceStats summarises how hard a pool was used during a run.
type ResourceStats struct {
	Name      string
	Capacity  int
	Grants    int
	PeakInUse int
	PeakQueue int
}
