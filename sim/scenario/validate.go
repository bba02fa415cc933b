package scenario

import (
	"fmt"

	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
)

// Validate checks every parameter a run depends on. It returns the first
// problem found, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, c.Name, err)
	}
	return nil
}

func (c Config) validate() error {
	if c.SimTimeMins <= 0 {
		return fmt.Errorf("sim_time_mins must be > 0, got %d", c.SimTimeMins)
	}
	if c.MaxDwellMins < 0 || c.PostProcessBufferMins < 0 {
		return fmt.Errorf("max_dwell_mins and post_process_buffer_mins must be >= 0")
	}

	for _, pc := range []struct {
		key string
		val float64
	}{
		{"p_import", c.PImport},
		{"p_export", c.PExport},
		{"p_transship", c.PTransship},
		{"pct_40ft", c.Pct40ft},
	} {
		if pc.val < 0 || pc.val > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %.4f", pc.key, pc.val)
		}
	}

	for _, rc := range []struct {
		key string
		val int
	}{
		{"num_cranes", c.NumCranes},
		{"yard_capacity", c.YardCapacity},
		{"yard_equipment_capacity", c.YardEquipmentCapacity},
		{"num_scanners", c.NumScanners},
		{"num_loaders", c.NumLoaders},
		{"num_gate_in", c.NumGateIn},
		{"num_gate_out", c.NumGateOut},
		{"truck_capacity_teu", c.TruckCapacityTEU},
	} {
		if rc.val < 1 {
			return fmt.Errorf("%s must be >= 1, got %d", rc.key, rc.val)
		}
	}
	if c.YardCapacity < 2 {
		return fmt.Errorf("yard_capacity must hold a 40ft container (>= 2 TEU), got %d", c.YardCapacity)
	}

	if c.CraneMovesPerHour <= 0 {
		return fmt.Errorf("crane_moves_per_hour must be > 0, got %.4f", c.CraneMovesPerHour)
	}
	if c.ScanTimeMins < 0 {
		return fmt.Errorf("scan_time_mins must be >= 0, got %.4f", c.ScanTimeMins)
	}
	for _, tri := range []struct {
		key            string
		min, mode, max float64
	}{
		{"yard_move", c.YardMoveMin, c.YardMoveMode, c.YardMoveMax},
		{"loading_time", c.LoadingTimeMin, c.LoadingTimeMode, c.LoadingTimeMax},
		{"gate_in_time", c.GateInTimeMin, c.GateInTimeMode, c.GateInTimeMax},
		{"gate_out_time", c.GateOutTimeMin, c.GateOutTimeMode, c.GateOutTimeMax},
	} {
		if err := validateTriangular(tri.key, tri.min, tri.mode, tri.max); err != nil {
			return err
		}
	}
	if c.YardOccThreshold < 0 || c.YardOccThreshold > 1 {
		return fmt.Errorf("yard_occ_threshold must be in [0, 1], got %.4f", c.YardOccThreshold)
	}
	if c.RehandleAlpha < 0 {
		return fmt.Errorf("rehandle_alpha must be >= 0, got %.4f", c.RehandleAlpha)
	}

	if c.OffsetAfterDischargeMins < 0 {
		return fmt.Errorf("offset_after_discharge_mins must be >= 0")
	}
	if err := dist.ValidateBands(c.ImportDwellBands); err != nil {
		return fmt.Errorf("import_dwell_bands: %w", err)
	}
	if err := dist.ValidateBands(c.TransshipDwellBands); err != nil {
		return fmt.Errorf("transship_dwell_bands: %w", err)
	}
	if c.ExportDwellMin < 0 || c.ExportDwellMax < c.ExportDwellMin {
		return fmt.Errorf("export dwell range [%.2f, %.2f] is invalid", c.ExportDwellMin, c.ExportDwellMax)
	}

	if c.ShipInterarrivalMeanMins <= 0 || c.ExportInterarrivalMeanMins <= 0 {
		return fmt.Errorf("interarrival means must be > 0")
	}
	if _, err := dist.HourlyRate(c.HourlyTruckTEURate); err != nil {
		return fmt.Errorf("hourly_truck_teu_rate: %w", err)
	}
	for i, r := range c.HourlyTruckTEURate {
		if r < 0 {
			return fmt.Errorf("hourly_truck_teu_rate[%d] must be >= 0, got %.4f", i, r)
		}
	}

	if !IsValidTruckMode(c.TruckMode) {
		return fmt.Errorf("unknown truck_mode %q; valid: %s, %s", c.TruckMode, TruckModeFreeFlow, TruckModeTAS)
	}
	if c.IsTAS() {
		if err := c.validateTAS(); err != nil {
			return err
		}
	}
	if c.VesselMode {
		if err := c.validateVessel(); err != nil {
			return err
		}
	}
	return nil
}

func validateTriangular(key string, min, mode, max float64) error {
	if min < 0 {
		return fmt.Errorf("%s_min must be >= 0, got %.4f", key, min)
	}
	if !(min <= mode && mode <= max) {
		return fmt.Errorf("%w: %s needs min <= mode <= max, got (%.4f, %.4f, %.4f)", dist.ErrInvalidDistribution, key, min, mode, max)
	}
	return nil
}

func (c Config) validateTAS() error {
	if c.TASTrucksPerDay < 0 {
		return fmt.Errorf("tas_trucks_per_day must be >= 0, got %.4f", c.TASTrucksPerDay)
	}
	if err := dist.ValidateHourlyMultipliers(c.TASHourlyMultipliers); err != nil {
		return fmt.Errorf("tas_hourly_multipliers: %w", err)
	}
	if c.TASSlotMinutes < 1 {
		return fmt.Errorf("tas_slot_minutes must be >= 1, got %d", c.TASSlotMinutes)
	}
	if c.TASNoShowProb < 0 || c.TASNoShowProb > 1 {
		return fmt.Errorf("tas_no_show_prob must be in [0, 1], got %.4f", c.TASNoShowProb)
	}
	if c.TASLateToleranceMins < 0 || c.TASArrivalStdMins < 0 {
		return fmt.Errorf("tas_late_tolerance_mins and tas_arrival_std_mins must be >= 0")
	}
	if c.TASRebookDelayMeanMins <= 0 || c.TASRebookDelaySigma < 0 {
		return fmt.Errorf("tas rebook delay needs mean > 0 and sigma >= 0")
	}
	if c.TASMaxAttempts < 1 {
		return fmt.Errorf("tas_max_attempts must be >= 1, got %d", c.TASMaxAttempts)
	}
	return nil
}

func (c Config) validateVessel() error {
	if c.VesselInterarrivalMeanMins <= 0 {
		return fmt.Errorf("vessel_interarrival_mean_mins must be > 0")
	}
	if c.VesselMovesPerCall < 1 {
		return fmt.Errorf("vessel_moves_per_call must be >= 1, got %.2f", c.VesselMovesPerCall)
	}
	if c.VesselImportShare > 1 {
		return fmt.Errorf("vessel_import_share must be <= 1, got %.4f", c.VesselImportShare)
	}
	if c.Pier1Berths < 1 || c.Pier2Berths < 1 {
		return fmt.Errorf("pier berths must be >= 1")
	}
	if c.MinCranesPerVessel < 1 {
		return fmt.Errorf("min_cranes_per_vessel must be >= 1, got %d", c.MinCranesPerVessel)
	}
	// A pool smaller than the gang minimum would park vessels forever.
	if c.Pier1CranePool < c.MinCranesPerVessel || c.Pier2CranePool < c.MinCranesPerVessel {
		return fmt.Errorf("crane pools (%d, %d) must be >= min_cranes_per_vessel (%d)",
			c.Pier1CranePool, c.Pier2CranePool, c.MinCranesPerVessel)
	}
	if len(c.Pier1GangDistribution) == 0 {
		return fmt.Errorf("pier1_gang_distribution is empty")
	}
	for _, w := range c.Pier1GangDistribution {
		if w.Value < 1 || w.Prob < 0 {
			return fmt.Errorf("pier1_gang_distribution entry [%d, %.4f] is invalid", w.Value, w.Prob)
		}
	}
	if !(c.Pier2GangMin <= c.Pier2GangMode && c.Pier2GangMode <= c.Pier2GangMax) || c.Pier2GangMin < 1 {
		return fmt.Errorf("pier2 gang triangle (%d, %d, %d) is invalid", c.Pier2GangMin, c.Pier2GangMode, c.Pier2GangMax)
	}
	if c.GCHMovesPerHour <= 0 {
		return fmt.Errorf("gch_moves_per_hour must be > 0")
	}
	if c.ShiftLengthMins <= 0 {
		return fmt.Errorf("shift_length_mins must be > 0")
	}
	if c.ShiftHookLossMaxMins < c.ShiftHookLossMinMins || c.ShiftHookLossMinMins < 0 {
		return fmt.Errorf("shift hook loss range [%.2f, %.2f] is invalid", c.ShiftHookLossMinMins, c.ShiftHookLossMaxMins)
	}
	if c.PilotageBerthingMins < 0 || c.SailingClearanceMins < 0 {
		return fmt.Errorf("marine delays must be >= 0")
	}
	return nil
}
