package sim

import "github.com/sirupsen/logrus"

type storeGetter[T any] struct {
	proc   *Process
	filter func(T) bool
	item   T
}

// FilterStore is an unbounded FIFO of items where each getter supplies a
// predicate. Getters are served in arrival order and each takes the first
// matching item; a removed item belongs to the getter alone.
type FilterStore[T any] struct {
	sim     *Simulator
	name    string
	items   []T
	getters []*storeGetter[T]

	puts     int
	peakSize int
}

// NewFilterStore creates an empty store owned by s.
func NewFilterStore[T any](s *Simulator, name string) *FilterStore[T] {
	return &FilterStore[T]{sim: s, name: name}
}

// Any matches every item.
func Any[T any](T) bool { return true }

// Put appends item and hands it to the first waiting getter that accepts it.
// Put never blocks.
func (fs *FilterStore[T]) Put(item T) {
	if fs.sim.stopped {
		return
	}
	fs.items = append(fs.items, item)
	fs.puts++
	if len(fs.items) > fs.peakSize {
		fs.peakSize = len(fs.items)
	}
	fs.dispatch()
}

// Get removes and returns the first item accepted by filter, blocking p until
// one exists. A nil filter accepts anything.
func (fs *FilterStore[T]) Get(p *Process, filter func(T) bool) T {
	if filter == nil {
		filter = Any[T]
	}
	// Queued getters already matched nothing in items, so the newcomer
	// cannot overtake anyone by taking a match now.
	if idx := fs.find(filter); idx >= 0 {
		return fs.take(idx)
	}
	g := &storeGetter[T]{proc: p, filter: filter}
	fs.getters = append(fs.getters, g)
	logrus.Tracef("[t=%.3f] %s waiting on %s (%d items, %d waiters)", fs.sim.Clock, p.name, fs.name, len(fs.items), len(fs.getters))
	p.suspend(StateSuspendedStore)
	return g.item
}

// dispatch walks every waiter in order; unlike a level pool, a waiter whose
// filter matches nothing does not block the ones behind it.
func (fs *FilterStore[T]) dispatch() {
	remaining := fs.getters[:0]
	for _, g := range fs.getters {
		if idx := fs.find(g.filter); idx >= 0 {
			g.item = fs.take(idx)
			fs.sim.scheduleWake(fs.sim.Clock, g.proc)
			continue
		}
		remaining = append(remaining, g)
	}
	for i := len(remaining); i < len(fs.getters); i++ {
		fs.getters[i] = nil
	}
	fs.getters = remaining
}

func (fs *FilterStore[T]) find(filter func(T) bool) int {
	for i, it := range fs.items {
		if filter(it) {
			return i
		}
	}
	return -1
}

func (fs *FilterStore[T]) take(idx int) T {
	item := fs.items[idx]
	fs.items = append(fs.items[:idx], fs.items[idx+1:]...)
	return item
}

// Len returns the number of stored items.
func (fs *FilterStore[T]) Len() int { return len(fs.items) }

// Count returns how many stored items match filter.
func (fs *FilterStore[T]) Count(filter func(T) bool) int {
	n := 0
	for _, it := range fs.items {
		if filter(it) {
			n++
		}
	}
	return n
}

// Items returns a copy of the stored items in FIFO order.
func (fs *FilterStore[T]) Items() []T {
	out := make([]T, len(fs.items))
	copy(out, fs.items)
	return out
}

// Waiting returns the number of blocked getters.
func (fs *FilterStore[T]) Waiting() int { return len(fs.getters) }

// Stats returns a snapshot of the store's counters.
func (fs *FilterStore[T]) Stats() ResourceStats {
	return ResourceStats{Name: fs.name, Grants: fs.puts, PeakInUse: fs.peakSize}
}
