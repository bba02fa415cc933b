package port

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NkanyeziNgobese/PortSimulation/sim"
	"github.com/NkanyeziNgobese/PortSimulation/sim/internal/testutil"
	"github.com/NkanyeziNgobese/PortSimulation/sim/metrics"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
	"github.com/NkanyeziNgobese/PortSimulation/sim/trace"
)

func tableCSV(t *testing.T, tbl *metrics.Table) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	return buf.String()
}

func TestRunSimulation_SameSeedSameTables(t *testing.T) {
	for _, name := range scenario.Names() {
		t.Run(name, func(t *testing.T) {
			// GIVEN one preset run twice with the same seed
			cfg := testutil.ShortScenario(t, name, 240)

			// WHEN both runs complete
			a, err := RunSimulation(cfg, 7)
			require.NoError(t, err)
			b, err := RunSimulation(cfg, 7)
			require.NoError(t, err)

			// THEN every output table is byte-identical
			assert.Equal(t, tableCSV(t, a.Containers), tableCSV(t, b.Containers))
			assert.Equal(t, tableCSV(t, a.Trucks), tableCSV(t, b.Trucks))
			assert.Equal(t, tableCSV(t, a.Vessels), tableCSV(t, b.Vessels))
			assert.Equal(t, a.Stats.EventsProcessed, b.Stats.EventsProcessed)
		})
	}
}

func TestRunSimulation_DifferentSeedsDiffer(t *testing.T) {
	cfg := testutil.ShortScenario(t, scenario.NameBaseline, 240)
	a, err := RunSimulation(cfg, 1)
	require.NoError(t, err)
	b, err := RunSimulation(cfg, 2)
	require.NoError(t, err)
	assert.NotEqual(t, tableCSV(t, a.Containers), tableCSV(t, b.Containers))
}

func TestRunSimulation_BaselineEndToEnd(t *testing.T) {
	// GIVEN the baseline scenario with seed 123 over an eight-hour shift
	cfg, err := scenario.Get(scenario.NameBaseline)
	require.NoError(t, err)

	// WHEN it runs
	res, err := RunSimulation(cfg, 123)
	require.NoError(t, err)

	// THEN containers complete and every derived duration is sane
	require.Greater(t, res.RowCount(), 0)
	assert.Equal(t, cfg.RunUntil(), res.Stats.FinalClock)
	for _, col := range []string{"exit_time", "total_time", "yard_dwell", "dwell_terminal_days"} {
		assert.True(t, res.Containers.Has(col), "missing column %s", col)
	}
	for i, row := range res.Containers.Rows {
		total, okT := row.Float("total_time")
		dwell, okD := row.Float("yard_dwell")
		if !okT || !okD {
			continue
		}
		if total < dwell {
			t.Errorf("row %d (%v): total_time %.3f < yard_dwell %.3f", i, row["container_id"], total, dwell)
		}
	}
	diffs := make([]string, 0, len(metrics.ContainerDiffs))
	for _, d := range metrics.ContainerDiffs {
		diffs = append(diffs, d.Name)
	}
	testutil.AssertNonNegative(t, res.Containers, diffs...)
	testutil.AssertNonNegative(t, res.Trucks, "turnaround_time", "gate_in_wait", "claim_wait", "loading_wait", "gate_out_wait")

	// free-flow runs produce no vessel rows
	assert.Equal(t, 0, res.Vessels.Len())
}

func TestRunSimulation_ContainerConservation(t *testing.T) {
	for _, name := range scenario.Names() {
		t.Run(name, func(t *testing.T) {
			cfg := testutil.ShortScenario(t, name, 300)
			res, err := RunSimulation(cfg, 11)
			require.NoError(t, err)
			st := res.Stats

			// created = completed + in flight
			assert.Equal(t, st.ContainersCreated, st.ContainersCompleted+st.ContainersInFlight)
			assert.Equal(t, st.ContainersCompleted, res.RowCount())
			assert.LessOrEqual(t, st.ReadyPoolLeft, st.ContainersInFlight)

			// every completed container entered the yard and exited the terminal
			exports := 0
			for i, row := range res.Containers.Rows {
				_, okExit := row.Float("exit_time")
				_, okYard := row.Float("yard_entry_time")
				if !okExit || !okYard {
					t.Errorf("row %d (%v): exit=%v yard_entry=%v", i, row["container_id"], okExit, okYard)
				}
				if row["flow_type"] == FlowExport {
					exports++
				}
			}

			// every non-export completion left on exactly one truck
			picked := 0
			for _, v := range res.Trucks.Values("picked_containers") {
				picked += int(v)
			}
			assert.Equal(t, res.RowCount()-exports, picked)
		})
	}
}

func TestRunSimulation_ResourcesStayWithinCapacity(t *testing.T) {
	for _, name := range scenario.Names() {
		t.Run(name, func(t *testing.T) {
			// GIVEN a run whose pools are checked after every processed event
			cfg := testutil.ShortScenario(t, name, 300)
			r, err := newRun(cfg, 5, Options{})
			require.NoError(t, err)
			checks := int64(0)
			r.sim.SetInvariant(func() error {
				checks++
				return r.term.checkCapacity()
			})

			// WHEN it runs to the drain horizon
			require.NoError(t, r.execute())

			// THEN no pool was ever over- or under-used, and the check saw
			// every event
			assert.Equal(t, r.sim.EventsProcessed, checks)
			assert.NoError(t, r.term.checkCapacity())
		})
	}
}

func TestRunSimulation_InvariantFailureStopsRun(t *testing.T) {
	// GIVEN a run whose invariant starts failing after t=100
	cfg := testutil.ShortScenario(t, "baseline", 300)
	r, err := newRun(cfg, 5, Options{})
	require.NoError(t, err)
	r.sim.SetInvariant(func() error {
		if r.sim.Now() > 100 {
			return errors.New("yard: level 11 outside [0, 10]")
		}
		return nil
	})

	// WHEN it runs
	err = r.execute()

	// THEN the run stops at the first failing event with a typed error
	require.Error(t, err)
	assert.ErrorIs(t, err, sim.ErrInvariantViolated)
	assert.Contains(t, err.Error(), "yard: level 11")
	assert.Less(t, r.sim.Now(), cfg.RunUntil())
}

func TestRunSimulation_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*scenario.Config)
	}{
		{"zero loaders", func(c *scenario.Config) { c.NumLoaders = 0 }},
		{"probability above one", func(c *scenario.Config) { c.PImport = 1.5 }},
		{"zero horizon", func(c *scenario.Config) { c.SimTimeMins = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := scenario.Baseline()
			tc.mutate(&cfg)
			res, err := RunSimulation(cfg, 1)
			assert.Nil(t, res)
			if !errors.Is(err, scenario.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestRunSimulation_DoesNotMutateConfig(t *testing.T) {
	cfg := scenario.Berth()
	before := cfg.Clone()
	_, err := RunSimulation(cfg.WithSimTime(120), 3)
	require.NoError(t, err)
	assert.Equal(t, before, cfg)
}

func TestRunSimulation_TASAllNoShowsDropsEveryBooking(t *testing.T) {
	// GIVEN slot bookings where every truck misses every slot
	cfg := scenario.Baseline()
	cfg.TruckMode = scenario.TruckModeTAS
	cfg.TASNoShowProb = 1
	cfg.TASMaxAttempts = 3

	// WHEN the run completes
	res, err := RunWithOptions(cfg, 9, Options{TraceLevel: trace.TraceLevelDecisions})
	require.NoError(t, err)

	// THEN no truck ever arrives and every booking was dropped after three tries
	assert.Equal(t, 0, res.Stats.BookingsAccepted)
	assert.Greater(t, res.Stats.BookingsDropped, 0)
	assert.Equal(t, 0, res.Stats.TrucksArrived)
	assert.Equal(t, 0, res.Trucks.Len())
	for _, b := range res.Trace.Bookings {
		assert.True(t, b.Dropped)
		assert.Equal(t, 3, b.Attempts)
		assert.Equal(t, 3, b.Missed)
	}

	// only exports can finish without a truck
	for _, row := range res.Containers.Rows {
		assert.Equal(t, FlowExport, row["flow_type"])
	}
}

func TestRunWithOptions_TraceRecordsDecisions(t *testing.T) {
	cfg := testutil.ShortScenario(t, scenario.NameBerth, 480)
	res, err := RunWithOptions(cfg, 21, Options{TraceLevel: trace.TraceLevelDecisions})
	require.NoError(t, err)
	st := res.Stats

	require.NotNil(t, res.Trace)
	assert.Len(t, res.Trace.Berths, st.VesselsArrived)
	assert.Len(t, res.Trace.Bookings, st.BookingsAccepted+st.BookingsDropped)
	assert.GreaterOrEqual(t, len(res.Trace.Claims), st.TrucksCompleted)
	for _, c := range res.Trace.Claims {
		assert.NotEmpty(t, c.ContainerIDs)
		assert.NotEmpty(t, c.Rule)
	}

	sum := trace.Summarize(res.Trace)
	assert.Equal(t, st.VesselsArrived, sum.BerthDecisions)
}

func TestRunWithOptions_NoTraceByDefault(t *testing.T) {
	res, err := RunSimulation(testutil.ShortScenario(t, scenario.NameBaseline, 120), 1)
	require.NoError(t, err)
	assert.False(t, res.Trace.Enabled())
	assert.Empty(t, res.Trace.Claims)
}

func TestRunWithOptions_CustomSelectorIsUsed(t *testing.T) {
	// GIVEN a selector that only ever takes one container, oldest first
	calls := 0
	oneAtATime := func(p *sim.Process, pool *sim.FilterStore[*ContainerRecord], _ int) ([]*ContainerRecord, string) {
		calls++
		return []*ContainerRecord{pool.Get(p, nil)}, trace.ClaimCustomPolicy
	}

	// WHEN a baseline run uses it
	res, err := RunWithOptions(testutil.ShortScenario(t, scenario.NameBaseline, 300), 4, Options{Selector: oneAtATime})
	require.NoError(t, err)

	// THEN it decided every claim and no truck carried two boxes
	assert.GreaterOrEqual(t, calls, res.Trucks.Len())
	for _, v := range res.Trucks.Values("picked_containers") {
		assert.Equal(t, 1.0, v)
	}
}
