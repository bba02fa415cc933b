package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is the distribution of one column. Fields are NaN when Count is 0.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Median float64
	P90    float64
	P95    float64
	Max    float64
}

// Percentile returns the p-th percentile (0-100) of sorted data using linear
// interpolation between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	rank := p / 100.0 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if upper >= n {
		return sorted[n-1]
	}
	if lower == upper {
		return sorted[lower]
	}
	return sorted[lower] + (sorted[upper]-sorted[lower])*(rank-float64(lower))
}

// Summarize computes the distribution of col over the rows where it is
// present. An absent column yields Count 0.
func Summarize(t *Table, col string) Summary {
	vals := t.Values(col)
	if len(vals) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, StdDev: nan, Median: nan, P90: nan, P95: nan, Max: nan}
	}
	sort.Float64s(vals)
	s := Summary{
		Count:  len(vals),
		Mean:   stat.Mean(vals, nil),
		Median: Percentile(vals, 50),
		P90:    Percentile(vals, 90),
		P95:    Percentile(vals, 95),
		Max:    floats.Max(vals),
	}
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	return s
}

// MetricDelta compares one column across two runs.
type MetricDelta struct {
	Metric string
	Base   Summary
	After  Summary
}

// DeltaMean is After.Mean - Base.Mean.
func (d MetricDelta) DeltaMean() float64 { return d.After.Mean - d.Base.Mean }

// DeltaMedian is After.Median - Base.Median.
func (d MetricDelta) DeltaMedian() float64 { return d.After.Median - d.Base.Median }

// DeltaP90 is After.P90 - Base.P90.
func (d MetricDelta) DeltaP90() float64 { return d.After.P90 - d.Base.P90 }

// DeltaP95 is After.P95 - Base.P95.
func (d MetricDelta) DeltaP95() float64 { return d.After.P95 - d.Base.P95 }

// Comparison is the KPI comparison of two container tables.
type Comparison struct {
	BaseRows  int
	AfterRows int
	Metrics   []MetricDelta
}

// Compare summarizes each of CompareColumns in both tables. Columns missing
// from both runs are skipped.
func Compare(base, after *Table) Comparison {
	c := Comparison{BaseRows: base.Len(), AfterRows: after.Len()}
	for _, col := range CompareColumns {
		if !base.Has(col) && !after.Has(col) {
			continue
		}
		c.Metrics = append(c.Metrics, MetricDelta{
			Metric: col,
			Base:   Summarize(base, col),
			After:  Summarize(after, col),
		})
	}
	return c
}

// Table renders the comparison as a flat table, one row per metric.
func (c Comparison) Table() *Table {
	rows := make([]Row, 0, len(c.Metrics))
	for _, m := range c.Metrics {
		rows = append(rows, Row{
			"metric":          m.Metric,
			"baseline_mean":   m.Base.Mean,
			"after_mean":      m.After.Mean,
			"delta_mean":      m.DeltaMean(),
			"baseline_median": m.Base.Median,
			"after_median":    m.After.Median,
			"delta_median":    m.DeltaMedian(),
			"baseline_p90":    m.Base.P90,
			"after_p90":       m.After.P90,
			"delta_p90":       m.DeltaP90(),
			"baseline_p95":    m.Base.P95,
			"after_p95":       m.After.P95,
			"delta_p95":       m.DeltaP95(),
		})
	}
	return NewTable(rows, comparisonColumns)
}

var comparisonColumns = []string{
	"metric",
	"baseline_mean", "after_mean", "delta_mean",
	"baseline_median", "after_median", "delta_median",
	"baseline_p90", "after_p90", "delta_p90",
	"baseline_p95", "after_p95", "delta_p95",
}
