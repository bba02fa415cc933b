package metrics

// ContainerColumns is the stable output order of the container table.
// Downstream tools read these columns by name.
var ContainerColumns = []string{
	"container_id",
	"vessel_id",
	"pier",
	"flow_type",
	"teu_size",
	"arrival_time",
	"crane_start",
	"crane_end",
	"gate_in_queue_enter",
	"gate_in_start",
	"gate_in_end",
	"yard_entry_time",
	"pickup_request_time",
	"scanner_queue_len_at_pickup",
	"loader_queue_len_at_pickup",
	"yard_exit_time",
	"yard_to_scan_queue_enter",
	"yard_to_scan_start",
	"occupancy_at_yard_to_scan",
	"yard_to_scan_end",
	"scan_queue_enter",
	"scan_start",
	"scan_end",
	"ready_time",
	"truck_id",
	"pickup_time",
	"yard_to_truck_queue_enter",
	"yard_to_truck_start",
	"occupancy_at_yard_to_truck",
	"yard_to_truck_end",
	"loading_queue_enter",
	"loading_start",
	"loading_end",
	"gate_queue_enter",
	"gate_start",
	"gate_out_exit_time",
	"exit_time",
	"total_time",
	"yard_dwell",
	"dwell_terminal",
	"scan_wait",
	"yard_to_scan_wait",
	"yard_to_truck_wait",
	"ready_to_pickup_wait",
	"loading_wait",
	"gate_wait",
	"pre_pickup_wait",
	"yard_equipment_wait",
	"dwell_terminal_days",
	"pre_pickup_wait_hours",
}

// TruckColumns is the output order of the truck table.
var TruckColumns = []string{
	"truck_id",
	"truck_mode",
	"arrival_time",
	"slot_start",
	"missed_slot_count",
	"gate_in_queue_enter",
	"gate_in_start",
	"gate_in_end",
	"claim_start",
	"claim_end",
	"picked_teu",
	"picked_containers",
	"yard_to_truck_queue_enter",
	"yard_to_truck_start",
	"occupancy_at_yard_to_truck",
	"yard_to_truck_end",
	"loading_queue_enter",
	"loading_start",
	"loading_end",
	"gate_out_queue_enter",
	"gate_out_start",
	"gate_out_end",
	"exit_time",
	"turnaround_time",
	"staging_wait",
	"gate_in_wait",
	"claim_wait",
	"yard_to_truck_wait",
	"loading_wait",
	"gate_out_wait",
}

// VesselColumns is the output order of the vessel table.
var VesselColumns = []string{
	"vessel_id",
	"pier",
	"vessel_arrival_time",
	"moves_per_call",
	"containers_generated",
	"teu_per_move",
	"teu_total",
	"teu_generated",
	"berth_start_time",
	"cranes_requested",
	"cranes_assigned",
	"crane_wait",
	"efficiency_factor_used",
	"effective_rate_mph",
	"inter_release_minutes",
	"shift_loss_minutes_applied",
	"berth_service_minutes",
	"berth_end_time",
	"anchorage_wait",
	"berth_duration",
	"effective_swh",
}

// CompareColumns are the container KPIs compared between two runs.
var CompareColumns = []string{
	"total_time",
	"scan_wait",
	"yard_to_scan_wait",
	"yard_to_truck_wait",
	"loading_wait",
	"gate_wait",
	"pre_pickup_wait",
	"ready_to_pickup_wait",
	"yard_equipment_wait",
}
