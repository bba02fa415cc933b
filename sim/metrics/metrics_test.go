package metrics

import (
	"bytes"
	"encoding/csv"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_ColumnOrder(t *testing.T) {
	rows := []Row{
		{"zeta": 1.0, "exit_time": 5.0},
		{"arrival_time": 1.0, "alpha": "x"},
	}
	tbl := NewTable(rows, ContainerColumns)
	assert.Equal(t, []string{"arrival_time", "exit_time", "alpha", "zeta"}, tbl.Columns)
}

func TestContainerTable_KeepsOnlyExited(t *testing.T) {
	// GIVEN one completed and one in-flight container
	rows := []Row{
		{"container_id": 1, "arrival_time": 0.0, "exit_time": 100.0},
		{"container_id": 2, "arrival_time": 10.0},
	}

	// WHEN the table is derived
	tbl := ContainerTable(rows)

	// THEN only the completed one remains, with total_time
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, 100.0, tbl.Rows[0]["total_time"])
}

func TestContainerTable_DerivedColumns(t *testing.T) {
	rows := []Row{{
		"arrival_time":              0.0,
		"yard_entry_time":           10.0,
		"pickup_request_time":       70.0,
		"yard_exit_time":            80.0,
		"yard_to_truck_queue_enter": 70.0,
		"yard_to_truck_start":       75.0,
		"loading_queue_enter":       80.0,
		"loading_start":             85.0,
		"gate_queue_enter":          90.0,
		"gate_start":                92.0,
		"exit_time":                 1450.0,
	}}
	tbl := ContainerTable(rows)
	r := tbl.Rows[0]

	assert.Equal(t, 1450.0, r["total_time"])
	assert.Equal(t, 70.0, r["yard_dwell"])
	assert.Equal(t, 1440.0, r["dwell_terminal"])
	assert.Equal(t, 1.0, r["dwell_terminal_days"])
	assert.Equal(t, 60.0, r["pre_pickup_wait"])
	assert.Equal(t, 1.0, r["pre_pickup_wait_hours"])
	assert.Equal(t, 5.0, r["yard_to_truck_wait"])
	assert.Equal(t, 5.0, r["loading_wait"])
	assert.Equal(t, 2.0, r["gate_wait"])
	// no yard-to-scan leg, so the composite is just the truck leg
	assert.Equal(t, 5.0, r["yard_equipment_wait"])
	assert.False(t, tbl.Has("scan_wait"))
}

func TestContainerTable_NegativeDiffClampedToZero(t *testing.T) {
	tbl := ContainerTable([]Row{{"arrival_time": 50.0, "exit_time": 40.0}})
	assert.Equal(t, 0.0, tbl.Rows[0]["total_time"])
}

func TestContainerTable_MissingValueLeavesCellAbsent(t *testing.T) {
	rows := []Row{
		{"arrival_time": 0.0, "exit_time": 10.0, "scan_queue_enter": 1.0, "scan_start": 3.0},
		{"arrival_time": 0.0, "exit_time": 10.0},
	}
	tbl := ContainerTable(rows)
	assert.Equal(t, 2.0, tbl.Rows[0]["scan_wait"])
	_, ok := tbl.Rows[1]["scan_wait"]
	assert.False(t, ok)
	assert.Equal(t, []float64{2}, tbl.Values("scan_wait"))
}

func TestContainerTable_YardEquipmentWaitFillsZero(t *testing.T) {
	rows := []Row{
		{"arrival_time": 0.0, "exit_time": 10.0, "yard_to_scan_queue_enter": 1.0, "yard_to_scan_start": 4.0},
		{"arrival_time": 0.0, "exit_time": 10.0},
	}
	tbl := ContainerTable(rows)
	assert.Equal(t, 3.0, tbl.Rows[0]["yard_equipment_wait"])
	assert.Equal(t, 0.0, tbl.Rows[1]["yard_equipment_wait"])
}

func TestVesselTable_EffectiveSWH(t *testing.T) {
	rows := []Row{
		{"vessel_arrival_time": 0.0, "berth_start_time": 30.0, "berth_end_time": 150.0, "moves_per_call": 60},
		{"vessel_arrival_time": 0.0, "berth_start_time": 30.0, "berth_end_time": 30.0, "moves_per_call": 60},
	}
	tbl := VesselTable(rows)
	assert.Equal(t, 30.0, tbl.Rows[0]["anchorage_wait"])
	assert.Equal(t, 120.0, tbl.Rows[0]["berth_duration"])
	assert.Equal(t, 30.0, tbl.Rows[0]["effective_swh"])
	_, ok := tbl.Rows[1]["effective_swh"]
	assert.False(t, ok, "zero berth duration has no rate")
}

func TestTruckTable_Waits(t *testing.T) {
	tbl := TruckTable([]Row{{
		"arrival_time":         0.0,
		"gate_in_queue_enter":  2.0,
		"gate_in_start":        5.0,
		"gate_out_queue_enter": 40.0,
		"gate_out_start":       41.0,
		"exit_time":            45.0,
	}})
	r := tbl.Rows[0]
	assert.Equal(t, 45.0, r["turnaround_time"])
	assert.Equal(t, 2.0, r["staging_wait"])
	assert.Equal(t, 3.0, r["gate_in_wait"])
	assert.Equal(t, 1.0, r["gate_out_wait"])
}

func TestEmptyTables(t *testing.T) {
	assert.Equal(t, 0, ContainerTable(nil).Len())
	assert.Equal(t, 0, TruckTable(nil).Len())
	assert.Equal(t, 0, VesselTable(nil).Len())
	assert.Empty(t, ContainerTable(nil).Columns)
}

func TestPercentile(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 3},
		{90, 4.6},
		{95, 4.8},
		{100, 5},
	}
	for _, tt := range tests {
		got := Percentile(data, tt.p)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestSummarize(t *testing.T) {
	tbl := NewTable([]Row{{"x": 4.0}, {"x": 1.0}, {"x": 3.0}, {"x": 2.0}, {}}, nil)
	s := Summarize(tbl, "x")
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 3.7, s.P90, 1e-12)

	empty := Summarize(tbl, "missing")
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}

func TestCompare(t *testing.T) {
	base := ContainerTable([]Row{
		{"arrival_time": 0.0, "exit_time": 100.0},
		{"arrival_time": 0.0, "exit_time": 200.0},
	})
	after := ContainerTable([]Row{
		{"arrival_time": 0.0, "exit_time": 50.0},
	})
	c := Compare(base, after)
	assert.Equal(t, 2, c.BaseRows)
	assert.Equal(t, 1, c.AfterRows)
	require.Len(t, c.Metrics, 1, "only total_time exists in either run")
	assert.Equal(t, "total_time", c.Metrics[0].Metric)
	assert.Equal(t, -100.0, c.Metrics[0].DeltaMean())

	tbl := c.Table()
	assert.Equal(t, "metric", tbl.Columns[0])
	assert.Equal(t, 1, tbl.Len())
}

func TestWriteCSV(t *testing.T) {
	tbl := NewTable([]Row{
		{"container_id": 1, "flow_type": "import", "exit_time": 12.5},
		{"container_id": 2, "flow_type": "export"},
	}, ContainerColumns)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"container_id", "flow_type", "exit_time"},
		{"1", "import", "12.5"},
		{"2", "export", ""},
	}, records)
}

func TestContainerTable_DerivedColumnsFollowCanonicalOrder(t *testing.T) {
	tbl := ContainerTable([]Row{{"arrival_time": 0.0, "exit_time": 10.0, "custom": 1.0}})
	assert.Equal(t, []string{"arrival_time", "exit_time", "total_time", "custom"}, tbl.Columns)
}
