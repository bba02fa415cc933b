package sim

import (
	"fmt"
	"runtime"
)

// ProcessState is the lifecycle state of a Process.
type ProcessState int

const (
	StateNotStarted ProcessState = iota
	StateRunning
	StateSuspendedTimeout
	StateSuspendedResource
	StateSuspendedLevel
	StateSuspendedStore
	StateSuspendedJoin
	StateTerminated
)

func (s ProcessState) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateSuspendedTimeout:
		return "suspended-timeout"
	case StateSuspendedResource:
		return "suspended-resource"
	case StateSuspendedLevel:
		return "suspended-level"
	case StateSuspendedStore:
		return "suspended-store"
	case StateSuspendedJoin:
		return "suspended-join"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("ProcessState(%d)", int(s))
}

// Process is one logically concurrent activity (a container, a truck, a
// generator). Its body runs on a dedicated goroutine that only executes while
// the scheduler is blocked waiting for it.
type Process struct {
	sim     *Simulator
	id      uint64
	name    string
	state   ProcessState
	resume  chan struct{}
	joiners []*Process
}

// Name returns the label given at Spawn.
func (p *Process) Name() string { return p.name }

// ID returns the spawn-order identifier.
func (p *Process) ID() uint64 { return p.id }

// State returns the current lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// Sim returns the owning simulator.
func (p *Process) Sim() *Simulator { return p.sim }

// Now returns the simulated time.
func (p *Process) Now() float64 { return p.sim.Clock }

func (p *Process) run(body func(p *Process)) {
	defer p.sim.wg.Done()

	select {
	case <-p.resume:
	case <-p.sim.done:
		return
	}

	defer func() {
		if p.sim.stopped {
			// Unwinding after RunUntil returned; the scheduler is gone.
			p.state = StateTerminated
			return
		}
		if r := recover(); r != nil {
			p.sim.fail(fmt.Errorf("%w: %s at t=%.3f: %v", ErrProcessPanic, p.name, p.sim.Clock, r))
		}
		p.state = StateTerminated
		for _, j := range p.joiners {
			p.sim.scheduleWake(p.sim.Clock, j)
		}
		p.joiners = nil
		p.sim.yield <- struct{}{}
	}()

	p.state = StateRunning
	body(p)
}

// suspend yields control to the scheduler. The caller must already have
// arranged for something to wake it (an event or a waiter queue entry).
func (p *Process) suspend(state ProcessState) {
	p.state = state
	p.sim.yield <- struct{}{}
	select {
	case <-p.resume:
		p.state = StateRunning
	case <-p.sim.done:
		runtime.Goexit()
	}
}

// Timeout suspends the process for d simulated minutes. Negative durations
// are treated as zero.
func (p *Process) Timeout(d float64) {
	if d < 0 {
		d = 0
	}
	p.sim.scheduleWake(p.sim.Clock+d, p)
	p.suspend(StateSuspendedTimeout)
}

// WaitUntil suspends until simulated time t; returns immediately if t has passed.
func (p *Process) WaitUntil(t float64) {
	if t <= p.sim.Clock {
		return
	}
	p.Timeout(t - p.sim.Clock)
}

// Join suspends until other terminates.
func (p *Process) Join(other *Process) {
	if other.state == StateTerminated {
		return
	}
	other.joiners = append(other.joiners, p)
	p.suspend(StateSuspendedJoin)
}
