package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrProcessPanic is returned by RunUntil when a process body panicked.
var ErrProcessPanic = errors.New("process panicked")

// ErrInvariantViolated is returned by RunUntil when the installed invariant
// check fails after an event.
var ErrInvariantViolated = errors.New("invariant violated")

// Simulator is the discrete-event kernel. It owns the event queue, the clock
// and every process spawned on it.
//
// Processes run on their own goroutines but never concurrently: the scheduler
// hands control to exactly one process at a time and blocks until that process
// suspends or terminates. All resource and record mutation therefore happens
// on one logical thread, and wake order is fixed by the event heap.
type Simulator struct {
	Clock           float64
	EventsProcessed int64

	queue       *EventQueue
	nextEventID uint64
	nextProcID  uint64

	yield   chan struct{}
	done    chan struct{}
	stopped bool
	ran     bool
	wg      sync.WaitGroup
	failure error

	invariant func() error
}

// NewSimulator creates a simulator with the clock at zero.
func NewSimulator() *Simulator {
	return &Simulator{
		queue: NewEventQueue(),
		yield: make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Now returns the current simulated time in minutes.
func (s *Simulator) Now() float64 {
	return s.Clock
}

// Pending returns the number of scheduled events not yet processed.
func (s *Simulator) Pending() int {
	return s.queue.Len()
}

// SetInvariant installs a check run after every processed event. The first
// error it returns stops the run and is returned from RunUntil wrapped in
// ErrInvariantViolated.
func (s *Simulator) SetInvariant(check func() error) {
	s.invariant = check
}

func (s *Simulator) newEventID() uint64 {
	s.nextEventID++
	return s.nextEventID
}

// ScheduleAt runs fn on the scheduler at time t.
func (s *Simulator) ScheduleAt(t float64, fn func(s *Simulator)) {
	if t < s.Clock {
		t = s.Clock
	}
	s.queue.Schedule(&CallbackEvent{
		baseEvent: baseEvent{timestamp: t, eventID: s.newEventID()},
		Fn:        fn,
	})
}

func (s *Simulator) scheduleWake(t float64, p *Process) {
	s.queue.Schedule(&WakeEvent{
		baseEvent: baseEvent{timestamp: t, eventID: s.newEventID()},
		Process:   p,
	})
}

// Spawn creates a process running body and schedules its start at the
// current time. Spawning from inside another process is allowed; the child
// starts once the parent suspends.
func (s *Simulator) Spawn(name string, body func(p *Process)) *Process {
	s.nextProcID++
	p := &Process{
		sim:    s,
		id:     s.nextProcID,
		name:   name,
		resume: make(chan struct{}),
		state:  StateNotStarted,
	}
	s.wg.Add(1)
	go p.run(body)
	s.scheduleWake(s.Clock, p)
	logrus.Tracef("[t=%.3f] spawn %s (pid %d)", s.Clock, name, p.id)
	return p
}

// resume hands control to p and blocks until it suspends or terminates.
func (s *Simulator) resume(p *Process) {
	if p.state == StateTerminated {
		return
	}
	p.resume <- struct{}{}
	<-s.yield
}

func (s *Simulator) fail(err error) {
	if s.failure == nil {
		s.failure = err
	}
}

// RunUntil processes every event strictly before until, then stops all
// suspended processes and waits for their goroutines to exit. Events at
// exactly until are left unprocessed. A simulator can only be run once.
func (s *Simulator) RunUntil(until float64) error {
	if s.ran {
		return fmt.Errorf("simulator already ran")
	}
	s.ran = true

	for s.queue.Len() > 0 && s.failure == nil {
		if s.queue.Peek().Timestamp() >= until {
			break
		}
		event := s.queue.Next()

		if event.Timestamp() < s.Clock {
			panic(fmt.Sprintf("Clock went backwards: %f < %f", event.Timestamp(), s.Clock))
		}
		s.Clock = event.Timestamp()
		s.EventsProcessed++

		event.Execute(s)
		if s.invariant != nil && s.failure == nil {
			if err := s.invariant(); err != nil {
				s.fail(fmt.Errorf("%w at t=%.3f after event %d: %w", ErrInvariantViolated, s.Clock, event.EventID(), err))
			}
		}
	}
	if s.failure == nil && s.Clock < until {
		s.Clock = until
	}

	s.shutdown()
	logrus.Debugf("simulator stopped at t=%.3f after %d events (%d pending)", s.Clock, s.EventsProcessed, s.queue.Len())
	return s.failure
}

// shutdown unwinds every goroutine still parked in a suspension point.
func (s *Simulator) shutdown() {
	s.stopped = true
	close(s.done)
	s.wg.Wait()
}
