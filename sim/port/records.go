package port

import "github.com/NkanyeziNgobese/PortSimulation/sim/metrics"

// Flow types carried in the flow_type column.
const (
	FlowImport    = "IMPORT"
	FlowExport    = "EXPORT"
	FlowTransship = "TRANSSHIP"
)

// ContainerRecord is the trajectory of one container. A nil timestamp means
// the container never reached that stage.
//
// The record is owned by one process at a time: the container process until
// it is put in the ready-pool, then the truck that claims it.
type ContainerRecord struct {
	ID       string
	FlowType string
	TEU      int
	VesselID *int
	Pier     string
	TruckID  *int

	ArrivalTime      *float64
	CraneStart       *float64
	CraneEnd         *float64
	GateInQueueEnter *float64
	GateInStart      *float64
	GateInEnd        *float64

	YardEntryTime           *float64
	PickupRequestTime       *float64
	ScannerQueueLenAtPickup *int
	LoaderQueueLenAtPickup  *int
	YardExitTime            *float64
	YardToScanQueueEnter    *float64
	YardToScanStart         *float64
	OccupancyAtYardToScan   *float64
	YardToScanEnd           *float64
	ScanQueueEnter          *float64
	ScanStart               *float64
	ScanEnd                 *float64
	ReadyTime               *float64
	PickupTime              *float64
	YardToTruckQueueEnter   *float64
	YardToTruckStart        *float64
	OccupancyAtYardToTruck  *float64
	YardToTruckEnd          *float64
	LoadingQueueEnter       *float64
	LoadingStart            *float64
	LoadingEnd              *float64
	GateQueueEnter          *float64
	GateStart               *float64
	GateOutExitTime         *float64
	ExitTime                *float64
}

// Done reports whether the container has left the terminal.
func (c *ContainerRecord) Done() bool { return c.ExitTime != nil }

// ToRow flattens the record into an output row, skipping unreached stages.
func (c *ContainerRecord) ToRow() metrics.Row {
	row := metrics.Row{
		"container_id": c.ID,
		"flow_type":    c.FlowType,
		"teu_size":     c.TEU,
	}
	putInt(row, "vessel_id", c.VesselID)
	if c.Pier != "" {
		row["pier"] = c.Pier
	}
	putInt(row, "truck_id", c.TruckID)
	putInt(row, "scanner_queue_len_at_pickup", c.ScannerQueueLenAtPickup)
	putInt(row, "loader_queue_len_at_pickup", c.LoaderQueueLenAtPickup)

	for _, f := range []struct {
		col string
		v   *float64
	}{
		{"arrival_time", c.ArrivalTime},
		{"crane_start", c.CraneStart},
		{"crane_end", c.CraneEnd},
		{"gate_in_queue_enter", c.GateInQueueEnter},
		{"gate_in_start", c.GateInStart},
		{"gate_in_end", c.GateInEnd},
		{"yard_entry_time", c.YardEntryTime},
		{"pickup_request_time", c.PickupRequestTime},
		{"yard_exit_time", c.YardExitTime},
		{"yard_to_scan_queue_enter", c.YardToScanQueueEnter},
		{"yard_to_scan_start", c.YardToScanStart},
		{"occupancy_at_yard_to_scan", c.OccupancyAtYardToScan},
		{"yard_to_scan_end", c.YardToScanEnd},
		{"scan_queue_enter", c.ScanQueueEnter},
		{"scan_start", c.ScanStart},
		{"scan_end", c.ScanEnd},
		{"ready_time", c.ReadyTime},
		{"pickup_time", c.PickupTime},
		{"yard_to_truck_queue_enter", c.YardToTruckQueueEnter},
		{"yard_to_truck_start", c.YardToTruckStart},
		{"occupancy_at_yard_to_truck", c.OccupancyAtYardToTruck},
		{"yard_to_truck_end", c.YardToTruckEnd},
		{"loading_queue_enter", c.LoadingQueueEnter},
		{"loading_start", c.LoadingStart},
		{"loading_end", c.LoadingEnd},
		{"gate_queue_enter", c.GateQueueEnter},
		{"gate_start", c.GateStart},
		{"gate_out_exit_time", c.GateOutExitTime},
		{"exit_time", c.ExitTime},
	} {
		putFloat(row, f.col, f.v)
	}
	return row
}

// TruckRecord is the trajectory of one truck visit.
type TruckRecord struct {
	ID          int
	Mode        string
	SlotStart   *float64
	MissedSlots *int

	ArrivalTime            *float64
	GateInQueueEnter       *float64
	GateInStart            *float64
	GateInEnd              *float64
	ClaimStart             *float64
	ClaimEnd               *float64
	PickedTEU              int
	PickedContainers       int
	YardToTruckQueueEnter  *float64
	YardToTruckStart       *float64
	OccupancyAtYardToTruck *float64
	YardToTruckEnd         *float64
	LoadingQueueEnter      *float64
	LoadingStart           *float64
	LoadingEnd             *float64
	GateOutQueueEnter      *float64
	GateOutStart           *float64
	GateOutEnd             *float64
	ExitTime               *float64
}

// ToRow flattens the record into an output row.
func (t *TruckRecord) ToRow() metrics.Row {
	row := metrics.Row{
		"truck_id":          t.ID,
		"truck_mode":        t.Mode,
		"picked_teu":        t.PickedTEU,
		"picked_containers": t.PickedContainers,
	}
	putInt(row, "missed_slot_count", t.MissedSlots)
	for _, f := range []struct {
		col string
		v   *float64
	}{
		{"slot_start", t.SlotStart},
		{"arrival_time", t.ArrivalTime},
		{"gate_in_queue_enter", t.GateInQueueEnter},
		{"gate_in_start", t.GateInStart},
		{"gate_in_end", t.GateInEnd},
		{"claim_start", t.ClaimStart},
		{"claim_end", t.ClaimEnd},
		{"yard_to_truck_queue_enter", t.YardToTruckQueueEnter},
		{"yard_to_truck_start", t.YardToTruckStart},
		{"occupancy_at_yard_to_truck", t.OccupancyAtYardToTruck},
		{"yard_to_truck_end", t.YardToTruckEnd},
		{"loading_queue_enter", t.LoadingQueueEnter},
		{"loading_start", t.LoadingStart},
		{"loading_end", t.LoadingEnd},
		{"gate_out_queue_enter", t.GateOutQueueEnter},
		{"gate_out_start", t.GateOutStart},
		{"gate_out_end", t.GateOutEnd},
		{"exit_time", t.ExitTime},
	} {
		putFloat(row, f.col, f.v)
	}
	return row
}

// VesselRecord is one vessel call.
type VesselRecord struct {
	ID                  int
	Pier                string
	ArrivalTime         float64
	MovesPerCall        float64
	ContainersGenerated int
	TEUPerMove          float64
	TEUTotal            float64
	TEUGenerated        float64

	BerthStartTime   *float64
	CranesRequested  int
	CranesAssigned   int
	CraneWait        *float64
	EfficiencyFactor float64
	EffectiveRateMPH *float64
	InterReleaseMins *float64
	ShiftLossMins    *float64
	BerthServiceMins *float64
	BerthEndTime     *float64
}

// ToRow flattens the record into an output row.
func (v *VesselRecord) ToRow() metrics.Row {
	row := metrics.Row{
		"vessel_id":              v.ID,
		"pier":                   v.Pier,
		"vessel_arrival_time":    v.ArrivalTime,
		"moves_per_call":         v.MovesPerCall,
		"containers_generated":   v.ContainersGenerated,
		"teu_per_move":           v.TEUPerMove,
		"teu_total":              v.TEUTotal,
		"teu_generated":          v.TEUGenerated,
		"cranes_requested":       v.CranesRequested,
		"efficiency_factor_used": v.EfficiencyFactor,
	}
	if v.CranesAssigned > 0 {
		row["cranes_assigned"] = v.CranesAssigned
	}
	for _, f := range []struct {
		col string
		v   *float64
	}{
		{"berth_start_time", v.BerthStartTime},
		{"crane_wait", v.CraneWait},
		{"effective_rate_mph", v.EffectiveRateMPH},
		{"inter_release_minutes", v.InterReleaseMins},
		{"shift_loss_minutes_applied", v.ShiftLossMins},
		{"berth_service_minutes", v.BerthServiceMins},
		{"berth_end_time", v.BerthEndTime},
	} {
		putFloat(row, f.col, f.v)
	}
	return row
}

func putFloat(row metrics.Row, col string, v *float64) {
	if v != nil {
		row[col] = *v
	}
}

func putInt(row metrics.Row, col string, v *int) {
	if v != nil {
		row[col] = *v
	}
}

func ptr[T any](v T) *T { return &v }
