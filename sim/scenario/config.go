// Package scenario defines the parameter bundle that fully determines one
// terminal simulation run, the named presets, and the override rules used by
// tools that adjust a scenario.
package scenario

import (
	"errors"
	"math"

	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
)

// ErrInvalidConfig marks a configuration that cannot be simulated.
var ErrInvalidConfig = errors.New("invalid scenario config")

// Truck arrival modes.
const (
	TruckModeFreeFlow = "free_flow"
	TruckModeTAS      = "tas"
)

var validTruckModes = map[string]bool{
	TruckModeFreeFlow: true,
	TruckModeTAS:      true,
	"":                true, // empty defaults to free_flow
}

// IsValidTruckMode returns true if mode is a recognized truck arrival mode.
func IsValidTruckMode(mode string) bool {
	return validTruckModes[mode]
}

// Config is an immutable scenario. Pass it by value; every With* helper and
// override returns a fresh copy with its own slices.
//
// Times are simulated minutes. YAML keys double as override keys and output
// metadata keys, so they are part of the external contract.
type Config struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Demo        bool   `yaml:"demo"`

	// Horizon
	SimTimeMins           int `yaml:"sim_time_mins"`
	MaxDwellMins          int `yaml:"max_dwell_mins"`
	PostProcessBufferMins int `yaml:"post_process_buffer_mins"`

	// Flow mix
	PImport    float64 `yaml:"p_import"`
	PExport    float64 `yaml:"p_export"`
	PTransship float64 `yaml:"p_transship"`
	Pct40ft    float64 `yaml:"pct_40ft"`

	// Capacities
	NumCranes             int `yaml:"num_cranes"`
	YardCapacity          int `yaml:"yard_capacity"`
	YardEquipmentCapacity int `yaml:"yard_equipment_capacity"`
	NumScanners           int `yaml:"num_scanners"`
	NumLoaders            int `yaml:"num_loaders"`
	NumGateIn             int `yaml:"num_gate_in"`
	NumGateOut            int `yaml:"num_gate_out"`

	// Service times
	CraneMovesPerHour float64 `yaml:"crane_moves_per_hour"`
	ScanTimeMins      float64 `yaml:"scan_time_mins"`
	YardMoveMin       float64 `yaml:"yard_move_min"`
	YardMoveMode      float64 `yaml:"yard_move_mode"`
	YardMoveMax       float64 `yaml:"yard_move_max"`
	YardOccThreshold  float64 `yaml:"yard_occ_threshold"`
	RehandleAlpha     float64 `yaml:"rehandle_alpha"`
	LoadingTimeMin    float64 `yaml:"loading_time_min"`
	LoadingTimeMode   float64 `yaml:"loading_time_mode"`
	LoadingTimeMax    float64 `yaml:"loading_time_max"`
	GateInTimeMin     float64 `yaml:"gate_in_time_min"`
	GateInTimeMode    float64 `yaml:"gate_in_time_mode"`
	GateInTimeMax     float64 `yaml:"gate_in_time_max"`
	GateOutTimeMin    float64 `yaml:"gate_out_time_min"`
	GateOutTimeMode   float64 `yaml:"gate_out_time_mode"`
	GateOutTimeMax    float64 `yaml:"gate_out_time_max"`

	// Dwell rules
	OffsetAfterDischargeMins float64     `yaml:"offset_after_discharge_mins"`
	ImportDwellBands         []dist.Band `yaml:"import_dwell_bands"`
	TransshipDwellBands      []dist.Band `yaml:"transship_dwell_bands"`
	ExportDwellMin           float64     `yaml:"export_dwell_min"`
	ExportDwellMax           float64     `yaml:"export_dwell_max"`

	// Arrivals
	ShipInterarrivalMeanMins   float64   `yaml:"ship_interarrival_mean_mins"`
	ExportInterarrivalMeanMins float64   `yaml:"export_interarrival_mean_mins"`
	HourlyTruckTEURate         []float64 `yaml:"hourly_truck_teu_rate"`
	TruckCapacityTEU           int       `yaml:"truck_capacity_teu"`

	// Truck appointment system
	TruckMode              string    `yaml:"truck_mode"`
	TASTrucksPerDay        float64   `yaml:"tas_trucks_per_day"`
	TASHourlyMultipliers   []float64 `yaml:"tas_hourly_multipliers"`
	TASSlotMinutes         int       `yaml:"tas_slot_minutes"`
	TASLateToleranceMins   float64   `yaml:"tas_late_tolerance_mins"`
	TASNoShowProb          float64   `yaml:"tas_no_show_prob"`
	TASRebookDelayMeanMins float64   `yaml:"tas_rebook_delay_mean_mins"`
	TASRebookDelaySigma    float64   `yaml:"tas_rebook_delay_sigma_mins"`
	TASArrivalStdMins      float64   `yaml:"tas_arrival_std_mins"`
	TASMaxAttempts         int       `yaml:"tas_max_attempts"`

	// Vessel calls
	VesselMode                 bool          `yaml:"vessel_mode"`
	VesselInterarrivalMeanMins float64       `yaml:"vessel_interarrival_mean_mins"`
	VesselMovesPerCall         float64       `yaml:"vessel_moves_per_call"`
	VesselTEUPerMove           float64       `yaml:"vessel_teu_per_move"`
	VesselImportShare          float64       `yaml:"vessel_import_share"`
	EnableAnchorageQueue       bool          `yaml:"vessel_enable_anchorage_queue"`
	IncludeMarineDelays        bool          `yaml:"vessel_include_marine_delays"`
	Pier1Berths                int           `yaml:"pier1_berths"`
	Pier2Berths                int           `yaml:"pier2_berths"`
	Pier1CranePool             int           `yaml:"pier1_crane_pool"`
	Pier2CranePool             int           `yaml:"pier2_crane_pool"`
	MinCranesPerVessel         int           `yaml:"min_cranes_per_vessel"`
	Pier1GangDistribution      []dist.Weight `yaml:"pier1_gang_distribution"`
	Pier2GangMin               int           `yaml:"pier2_gang_min"`
	Pier2GangMode              int           `yaml:"pier2_gang_mode"`
	Pier2GangMax               int           `yaml:"pier2_gang_max"`
	GCHMovesPerHour            float64       `yaml:"gch_moves_per_hour"`
	NetEffectiveWorkFactor     float64       `yaml:"net_effective_work_factor"`
	Pier1Efficiency            float64       `yaml:"pier1_efficiency"`
	Pier2Efficiency            float64       `yaml:"pier2_efficiency"`
	ShiftLengthMins            float64       `yaml:"shift_length_mins"`
	ShiftHookLossMinMins       float64       `yaml:"shift_hook_loss_min_mins"`
	ShiftHookLossMaxMins       float64       `yaml:"shift_hook_loss_max_mins"`
	PilotageBerthingMins       float64       `yaml:"pilotage_berthing_mins"`
	SailingClearanceMins       float64       `yaml:"sailing_clearance_mins"`
}

// CraneTimeMins is the fixed per-container crane service time.
func (c Config) CraneTimeMins() float64 {
	return 60.0 / math.Max(c.CraneMovesPerHour, 1e-6)
}

// StopTime is when generators stop admitting new arrivals.
func (c Config) StopTime() float64 {
	return float64(c.SimTimeMins)
}

// RunUntil is the drain horizon: arrivals stop at SimTimeMins but entities
// already in the terminal get MaxDwellMins + PostProcessBufferMins to finish.
func (c Config) RunUntil() float64 {
	return float64(c.SimTimeMins + c.MaxDwellMins + c.PostProcessBufferMins)
}

// IsTAS reports whether trucks arrive through slot bookings.
func (c Config) IsTAS() bool {
	return c.TruckMode == TruckModeTAS
}

// Clone returns a deep copy so slice fields never alias.
func (c Config) Clone() Config {
	out := c
	out.ImportDwellBands = append([]dist.Band(nil), c.ImportDwellBands...)
	out.TransshipDwellBands = append([]dist.Band(nil), c.TransshipDwellBands...)
	out.HourlyTruckTEURate = append([]float64(nil), c.HourlyTruckTEURate...)
	out.TASHourlyMultipliers = append([]float64(nil), c.TASHourlyMultipliers...)
	out.Pier1GangDistribution = append([]dist.Weight(nil), c.Pier1GangDistribution...)
	return out
}

// WithName returns a copy with a new name and description.
func (c Config) WithName(name, description string) Config {
	out := c.Clone()
	out.Name = name
	out.Description = description
	return out
}

// WithSimTime returns a copy with a different arrival horizon.
func (c Config) WithSimTime(mins int) Config {
	out := c.Clone()
	out.SimTimeMins = mins
	return out
}
