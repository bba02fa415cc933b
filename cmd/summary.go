package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/fatih/color"

	"github.com/NkanyeziNgobese/PortSimulation/sim/metrics"
	"github.com/NkanyeziNgobese/PortSimulation/sim/port"
	"github.com/NkanyeziNgobese/PortSimulation/sim/trace"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.Faint)
	warnColor   = color.New(color.FgYellow)
	betterColor = color.New(color.FgGreen)
	worseColor  = color.New(color.FgRed)
)

func fmtMins(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

// printSummary writes the KPI digest of one run.
func printSummary(w io.Writer, res *port.Result) {
	st := res.Stats
	headerColor.Fprintf(w, "=== %s (seed %d) ===\n", res.Config.Name, res.Seed)
	fmt.Fprintf(w, "%s %d completed, %d in flight, %d events\n",
		labelColor.Sprint("containers:"), st.ContainersCompleted, st.ContainersInFlight, st.EventsProcessed)
	fmt.Fprintf(w, "%s %d arrived, %d completed\n", labelColor.Sprint("trucks:"), st.TrucksArrived, st.TrucksCompleted)
	fmt.Fprintf(w, "%s %d boxes (%d TEU) unclaimed, %d trucks waiting; yard peak %d TEU\n",
		labelColor.Sprint("ready pool:"), st.ReadyPoolLeft, st.ReadyPoolTEU, st.TrucksWaitingOnPool, st.YardPeakTEU)
	if res.Config.IsTAS() {
		line := fmt.Sprintf("%d accepted, %d dropped", st.BookingsAccepted, st.BookingsDropped)
		if st.BookingsDropped > 0 {
			line = warnColor.Sprint(line)
		}
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("bookings:"), line)
	}
	if res.Config.VesselMode {
		fmt.Fprintf(w, "%s %d arrived, %d completed\n", labelColor.Sprint("vessels:"), st.VesselsArrived, st.VesselsCompleted)
		for _, pier := range []string{port.Pier1, port.Pier2} {
			fmt.Fprintf(w, "%s %s %.1f%% of sim time\n", labelColor.Sprint("all cranes busy:"), pier, 100*st.CranePoolEmptyRatio[pier])
		}
	}
	if res.Trace.Enabled() {
		printTraceSummary(w, trace.Summarize(res.Trace))
	}

	fmt.Fprintf(w, "%-22s %8s %8s %8s %8s\n", "metric (min)", "mean", "p50", "p95", "max")
	for _, col := range metrics.CompareColumns {
		if !res.Containers.Has(col) {
			continue
		}
		s := metrics.Summarize(res.Containers, col)
		fmt.Fprintf(w, "%-22s %8s %8s %8s %8s\n", col, fmtMins(s.Mean), fmtMins(s.Median), fmtMins(s.P95), fmtMins(s.Max))
	}
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	headerColor.Fprintln(w, "--- decision trace ---")
	if ts.BerthDecisions > 0 {
		fmt.Fprintf(w, "%s %d (%s %d, %s %d), %d ties, mean margin %.2f\n", labelColor.Sprint("berth decisions:"),
			ts.BerthDecisions, port.Pier1, ts.PierDistribution[port.Pier1], port.Pier2, ts.PierDistribution[port.Pier2],
			ts.TieCount, ts.MeanMargin)
	}
	rules := make([]string, 0, len(ts.ClaimsByRule))
	for rule := range ts.ClaimsByRule {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	fmt.Fprintf(w, "%s %d for %d TEU, %d found the pool empty\n", labelColor.Sprint("claims:"), ts.Claims, ts.ClaimedTEU, ts.BlockingClaims)
	for _, rule := range rules {
		fmt.Fprintf(w, "  %-14s %d\n", rule, ts.ClaimsByRule[rule])
	}
	if ts.Bookings > 0 {
		fmt.Fprintf(w, "%s %d traced, %d dropped, %d rebooked (max %d missed slots)\n", labelColor.Sprint("bookings:"),
			ts.Bookings, ts.DroppedBookings, ts.RebookedTrucks, ts.MaxMissedSlots)
	}
}

// printComparison writes the per-metric deltas; a drop in any wait is better.
func printComparison(w io.Writer, baseName, afterName string, c metrics.Comparison) {
	headerColor.Fprintf(w, "=== %s vs %s ===\n", baseName, afterName)
	fmt.Fprintf(w, "rows: %d -> %d\n", c.BaseRows, c.AfterRows)
	fmt.Fprintf(w, "%-22s %10s %10s %10s %10s\n", "metric (min)", "base p50", "after p50", "d p50", "d p95")
	for _, m := range c.Metrics {
		fmt.Fprintf(w, "%-22s %10s %10s %s %s\n", m.Metric, fmtMins(m.Base.Median), fmtMins(m.After.Median),
			colorDelta(m.DeltaMedian()), colorDelta(m.DeltaP95()))
	}
}

func colorDelta(d float64) string {
	s := fmt.Sprintf("%+10.1f", d)
	switch {
	case math.IsNaN(d):
		return fmt.Sprintf("%10s", "-")
	case d < 0:
		return betterColor.Sprint(s)
	case d > 0:
		return worseColor.Sprint(s)
	}
	return s
}
