package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_TimeoutAdvancesClock(t *testing.T) {
	s := NewSimulator()
	var seen []float64
	s.Spawn("p", func(p *Process) {
		p.Timeout(5)
		seen = append(seen, p.Now())
		p.Timeout(2.5)
		seen = append(seen, p.Now())
	})
	require.NoError(t, s.RunUntil(100))
	assert.Equal(t, []float64{5, 7.5}, seen)
	assert.Equal(t, 100.0, s.Now(), "clock advances to the run-until time when the queue drains")
}

func TestSimulator_EqualTimestampsWakeInRegistrationOrder(t *testing.T) {
	s := NewSimulator()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.Spawn(name, func(p *Process) {
			p.Timeout(10)
			order = append(order, name)
		})
	}
	require.NoError(t, s.RunUntil(20))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSimulator_RunUntilExcludesBoundary(t *testing.T) {
	// GIVEN a process that would finish exactly at the run-until time
	s := NewSimulator()
	finished := false
	p := s.Spawn("p", func(p *Process) {
		p.Timeout(10)
		finished = true
	})

	// WHEN run until 10
	require.NoError(t, s.RunUntil(10))

	// THEN the wake at t=10 is not processed and the process is unwound
	assert.False(t, finished)
	assert.Equal(t, StateTerminated, p.State())
	assert.Equal(t, 1, s.Pending())
}

func TestSimulator_PanicSurfacesAsError(t *testing.T) {
	s := NewSimulator()
	s.Spawn("bad", func(p *Process) {
		p.Timeout(1)
		panic("boom")
	})
	other := 0
	s.Spawn("other", func(p *Process) {
		for i := 0; i < 10; i++ {
			p.Timeout(1)
			other++
		}
	})
	err := s.RunUntil(100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProcessPanic))
	assert.Less(t, other, 10, "run stops at the panic")
}

func TestSimulator_SpawnFromProcessStartsAfterParentSuspends(t *testing.T) {
	s := NewSimulator()
	var log []string
	s.Spawn("parent", func(p *Process) {
		s.Spawn("child", func(c *Process) {
			log = append(log, "child")
		})
		log = append(log, "parent-before")
		p.Timeout(0)
		log = append(log, "parent-after")
	})
	require.NoError(t, s.RunUntil(1))
	assert.Equal(t, []string{"parent-before", "child", "parent-after"}, log)
}

func TestProcess_Join(t *testing.T) {
	s := NewSimulator()
	var joinedAt float64
	worker := s.Spawn("worker", func(p *Process) { p.Timeout(4) })
	s.Spawn("waiter", func(p *Process) {
		p.Join(worker)
		joinedAt = p.Now()
	})
	require.NoError(t, s.RunUntil(10))
	assert.Equal(t, 4.0, joinedAt)
}

func TestProcess_WaitUntilInPastReturnsImmediately(t *testing.T) {
	s := NewSimulator()
	var at float64
	s.Spawn("p", func(p *Process) {
		p.Timeout(3)
		p.WaitUntil(1)
		at = p.Now()
	})
	require.NoError(t, s.RunUntil(10))
	assert.Equal(t, 3.0, at)
}

func TestSimulator_ShutdownReleasesSuspendedProcesses(t *testing.T) {
	// GIVEN processes parked on every kind of suspension point
	s := NewSimulator()
	r := s.NewResource("r", 1)
	c := s.NewContainer("c", 5, 0)
	fs := NewFilterStore[int](s, "fs")
	s.Spawn("holder", func(p *Process) {
		r.Use(p, func() { p.Timeout(1000) })
	})
	s.Spawn("queued", func(p *Process) { r.Use(p, func() {}) })
	s.Spawn("getter", func(p *Process) { c.Get(p, 3) })
	s.Spawn("store", func(p *Process) { fs.Get(p, nil) })

	// WHEN the run ends first
	require.NoError(t, s.RunUntil(10))

	// THEN RunUntil returned (goroutines exited) and the deferred release was a no-op
	assert.True(t, s.stopped)
	assert.Equal(t, 1, r.InUse())
}

func TestSimulator_RunTwiceFails(t *testing.T) {
	s := NewSimulator()
	require.NoError(t, s.RunUntil(1))
	assert.Error(t, s.RunUntil(2))
}

func TestSimulator_ScheduleAt(t *testing.T) {
	s := NewSimulator()
	var at float64 = -1
	s.ScheduleAt(7, func(s *Simulator) { at = s.Now() })
	require.NoError(t, s.RunUntil(10))
	assert.Equal(t, 7.0, at)
}

func TestSimulator_InvariantCheckedAfterEveryEvent(t *testing.T) {
	// GIVEN a process that overfills a counter between two timeouts and an
	// invariant bounding that counter
	s := NewSimulator()
	level := 0
	checks := 0
	s.SetInvariant(func() error {
		checks++
		if level > 2 {
			return errors.New("level above 2")
		}
		return nil
	})
	s.Spawn("filler", func(p *Process) {
		for i := 0; i < 5; i++ {
			p.Timeout(1)
			level++
		}
	})

	// WHEN the run proceeds
	err := s.RunUntil(100)

	// THEN it stops at the first violating event, t=3
	if !errors.Is(err, ErrInvariantViolated) {
		t.Fatalf("err = %v, want ErrInvariantViolated", err)
	}
	assert.Equal(t, 3.0, s.Now())
	assert.Equal(t, 4, checks, "start event plus wakes at t=1,2,3")
	assert.Equal(t, int64(4), s.EventsProcessed)
}
