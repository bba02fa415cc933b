package metrics

import "sort"

// Diff defines a derived column Name = max(0, End - Start).
type Diff struct {
	Name  string
	End   string
	Start string
}

// ContainerDiffs are the derived container columns, in output order.
var ContainerDiffs = []Diff{
	{"total_time", "exit_time", "arrival_time"},
	{"yard_dwell", "yard_exit_time", "yard_entry_time"},
	{"dwell_terminal", "exit_time", "yard_entry_time"},
	{"scan_wait", "scan_start", "scan_queue_enter"},
	{"yard_to_scan_wait", "yard_to_scan_start", "yard_to_scan_queue_enter"},
	{"yard_to_truck_wait", "yard_to_truck_start", "yard_to_truck_queue_enter"},
	{"ready_to_pickup_wait", "pickup_time", "ready_time"},
	{"loading_wait", "loading_start", "loading_queue_enter"},
	{"gate_wait", "gate_start", "gate_queue_enter"},
	{"pre_pickup_wait", "pickup_request_time", "yard_entry_time"},
}

// TruckDiffs are the derived truck columns.
var TruckDiffs = []Diff{
	{"turnaround_time", "exit_time", "arrival_time"},
	{"staging_wait", "gate_in_queue_enter", "arrival_time"},
	{"gate_in_wait", "gate_in_start", "gate_in_queue_enter"},
	{"claim_wait", "claim_end", "claim_start"},
	{"yard_to_truck_wait", "yard_to_truck_start", "yard_to_truck_queue_enter"},
	{"loading_wait", "loading_start", "loading_queue_enter"},
	{"gate_out_wait", "gate_out_start", "gate_out_queue_enter"},
}

// VesselDiffs are the derived vessel columns.
var VesselDiffs = []Diff{
	{"anchorage_wait", "berth_start_time", "vessel_arrival_time"},
	{"berth_duration", "berth_end_time", "berth_start_time"},
}

// ApplyDiffs adds each derived column to every row of t, provided both source
// columns exist somewhere in the table. Rows missing either value get no cell.
func ApplyDiffs(t *Table, diffs []Diff) {
	for _, d := range diffs {
		if !t.Has(d.End) || !t.Has(d.Start) {
			continue
		}
		for _, r := range t.Rows {
			end, okE := r.Float(d.End)
			start, okS := r.Float(d.Start)
			if okE && okS {
				r[d.Name] = clamp(end - start)
			}
		}
		t.addColumn(d.Name)
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func (t *Table) addColumn(col string) {
	if !t.Has(col) {
		t.Columns = append(t.Columns, col)
	}
}

// reorder puts columns named in order first, keeping the relative order of
// the rest.
func (t *Table) reorder(order []string) {
	rank := make(map[string]int, len(order))
	for i, c := range order {
		rank[c] = i
	}
	sort.SliceStable(t.Columns, func(i, j int) bool {
		ri, okI := rank[t.Columns[i]]
		rj, okJ := rank[t.Columns[j]]
		switch {
		case okI && okJ:
			return ri < rj
		case okI:
			return true
		}
		return false
	})
}

// scale adds dst = src / divisor wherever src is present.
func scale(t *Table, dst, src string, divisor float64) {
	if !t.Has(src) {
		return
	}
	for _, r := range t.Rows {
		if v, ok := r.Float(src); ok {
			r[dst] = v / divisor
		}
	}
	t.addColumn(dst)
}

// ContainerTable keeps completed container rows (those with exit_time) and
// adds the derived wait, dwell and unit-converted columns.
func ContainerTable(rows []Row) *Table {
	t := NewTable(rows, ContainerColumns).Filter(func(r Row) bool {
		_, ok := r.Float("exit_time")
		return ok
	}, ContainerColumns)
	if t.Len() == 0 {
		return t
	}
	ApplyDiffs(t, ContainerDiffs)

	hasScan, hasTruck := t.Has("yard_to_scan_wait"), t.Has("yard_to_truck_wait")
	if hasScan || hasTruck {
		for _, r := range t.Rows {
			total := 0.0
			if v, ok := r.Float("yard_to_scan_wait"); ok {
				total += v
			}
			if v, ok := r.Float("yard_to_truck_wait"); ok {
				total += v
			}
			r["yard_equipment_wait"] = total
		}
		t.addColumn("yard_equipment_wait")
	}
	scale(t, "dwell_terminal_days", "dwell_terminal", 1440)
	scale(t, "pre_pickup_wait_hours", "pre_pickup_wait", 60)
	t.reorder(ContainerColumns)
	return t
}

// TruckTable builds the truck table with derived waits.
func TruckTable(rows []Row) *Table {
	t := NewTable(rows, TruckColumns)
	if len(rows) > 0 {
		ApplyDiffs(t, TruckDiffs)
		t.reorder(TruckColumns)
	}
	return t
}

// VesselTable builds the vessel table with anchorage wait, berth duration and
// effective moves per berth hour.
func VesselTable(rows []Row) *Table {
	t := NewTable(rows, VesselColumns)
	if len(rows) == 0 {
		return t
	}
	ApplyDiffs(t, VesselDiffs)
	if t.Has("berth_duration") && t.Has("moves_per_call") {
		for _, r := range t.Rows {
			d, okD := r.Float("berth_duration")
			m, okM := r.Float("moves_per_call")
			if okD && okM && d > 0 {
				r["effective_swh"] = m / (d / 60)
			}
		}
		t.addColumn("effective_swh")
	}
	t.reorder(VesselColumns)
	return t
}
