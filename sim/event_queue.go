package sim

import "container/heap"

// EventQueue is the simulator's agenda: the next event is the one with the
// smallest timestamp, and among equal timestamps the one scheduled first
// (lowest event ID). With no other tie-break tier, the wake order of
// processes at one instant is exactly the order they were scheduled.
type EventQueue struct {
	pending agenda
}

// NewEventQueue returns an empty agenda.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Len is the number of events not yet dispatched.
func (q *EventQueue) Len() int { return len(q.pending) }

// Schedule adds e to the agenda.
func (q *EventQueue) Schedule(e Event) { heap.Push(&q.pending, e) }

// Next removes and returns the earliest event, or nil when empty.
func (q *EventQueue) Next() Event {
	if len(q.pending) == 0 {
		return nil
	}
	return heap.Pop(&q.pending).(Event)
}

// Peek returns the earliest event without removing it, or nil when empty.
func (q *EventQueue) Peek() Event {
	if len(q.pending) == 0 {
		return nil
	}
	return q.pending[0]
}

// agenda is the heap.Interface backing EventQueue.
type agenda []Event

func (a agenda) Len() int { return len(a) }

func (a agenda) Less(i, j int) bool {
	if ti, tj := a[i].Timestamp(), a[j].Timestamp(); ti != tj {
		return ti < tj
	}
	return a[i].EventID() < a[j].EventID()
}

func (a agenda) Swap(i, j int) { a[i], a[j] = a[j], a[i] }

func (a *agenda) Push(x any) { *a = append(*a, x.(Event)) }

func (a *agenda) Pop() any {
	old := *a
	last := old[len(old)-1]
	old[len(old)-1] = nil
	*a = old[:len(old)-1]
	return last
}
