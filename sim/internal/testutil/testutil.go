// Package testutil holds assertion helpers and scenario fixtures shared by
// the sim/ test packages.
package testutil

import (
	"math"
	"testing"

	"github.com/NkanyeziNgobese/PortSimulation/sim/metrics"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// ShortScenario returns the named preset with its arrival horizon cut to
// mins, keeping the drain window. It fails the test on an unknown name.
func ShortScenario(t *testing.T, name string, mins int) scenario.Config {
	t.Helper()
	c, err := scenario.Get(name)
	if err != nil {
		t.Fatalf("preset %q: %v", name, err)
	}
	return c.WithSimTime(mins)
}

// AssertNonNegative fails for every negative cell in the given columns.
// Columns absent from the table are skipped.
func AssertNonNegative(t *testing.T, tbl *metrics.Table, cols ...string) {
	t.Helper()
	for _, col := range cols {
		for i, v := range tbl.Values(col) {
			if v < 0 {
				t.Errorf("%s[%d] = %v, want >= 0", col, i, v)
			}
		}
	}
}
