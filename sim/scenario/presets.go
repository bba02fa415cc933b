package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
)

// Preset names.
const (
	NameBaseline = "baseline"
	NameImproved = "improved"
	NameBerth    = "berth"
)

var presets = map[string]func() Config{
	NameBaseline: Baseline,
	NameImproved: Improved,
	NameBerth:    Berth,
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the named preset. Names are case-insensitive.
func Get(name string) (Config, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	build, ok := presets[key]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown scenario %q (valid: %s)", ErrInvalidConfig, name, strings.Join(Names(), ", "))
	}
	return build(), nil
}

func flatProfile() []float64 {
	m := make([]float64, dist.HoursPerDay)
	for i := range m {
		m[i] = 1
	}
	return m
}

// Baseline is the demo scenario: one eight-hour shift with scaled timings and
// synthetic arrivals.
func Baseline() Config {
	return Config{
		Name:        NameBaseline,
		Description: "Demo baseline scenario with scaled timings and synthetic arrivals. This does not use external datasets.",
		Demo:        true,

		SimTimeMins:           8 * 60,
		MaxDwellMins:          4 * 60,
		PostProcessBufferMins: 2 * 60,

		PImport:    0.6,
		PExport:    0.2,
		PTransship: 0.2,
		Pct40ft:    0.3,

		NumCranes:             2,
		YardCapacity:          250,
		YardEquipmentCapacity: 5,
		NumScanners:           1,
		NumLoaders:            2,
		NumGateIn:             1,
		NumGateOut:            1,

		CraneMovesPerHour: 30,
		ScanTimeMins:      5,
		YardMoveMin:       2,
		YardMoveMode:      3,
		YardMoveMax:       6,
		YardOccThreshold:  0.8,
		RehandleAlpha:     1.25,
		LoadingTimeMin:    6,
		LoadingTimeMode:   10,
		LoadingTimeMax:    18,
		GateInTimeMin:     0.5,
		GateInTimeMode:    1,
		GateInTimeMax:     2,
		GateOutTimeMin:    0.5,
		GateOutTimeMode:   1,
		GateOutTimeMax:    2,

		OffsetAfterDischargeMins: 10,
		ImportDwellBands: []dist.Band{
			{Start: 10, End: 30, Prob: 0.35},
			{Start: 30, End: 60, Prob: 0.35},
			{Start: 60, End: 120, Prob: 0.25},
			{Start: 120, End: 180, Prob: 0.05},
		},
		TransshipDwellBands: []dist.Band{
			{Start: 5, End: 20, Prob: 0.5},
			{Start: 20, End: 40, Prob: 0.3},
			{Start: 40, End: 90, Prob: 0.2},
		},
		ExportDwellMin: 20,
		ExportDwellMax: 120,

		ShipInterarrivalMeanMins:   6,
		ExportInterarrivalMeanMins: 12,
		HourlyTruckTEURate: []float64{
			2, 2, 2, 2, 3, 4,
			5, 6, 7, 7, 7, 6,
			6, 6, 6, 6, 6, 5,
			4, 3, 3, 3, 2, 2,
		},
		TruckCapacityTEU: 2,

		TruckMode:              TruckModeFreeFlow,
		TASTrucksPerDay:        52.5,
		TASHourlyMultipliers:   flatProfile(),
		TASSlotMinutes:         60,
		TASLateToleranceMins:   30,
		TASNoShowProb:          0.22,
		TASRebookDelayMeanMins: 360,
		TASRebookDelaySigma:    120,
		TASArrivalStdMins:      15,
		TASMaxAttempts:         10000,

		VesselMode:                 false,
		VesselInterarrivalMeanMins: 1053,
		VesselMovesPerCall:         2433,
		VesselTEUPerMove:           1.5,
		VesselImportShare:          0,
		EnableAnchorageQueue:       true,
		IncludeMarineDelays:        true,
		Pier1Berths:                2,
		Pier2Berths:                4,
		Pier1CranePool:             7,
		Pier2CranePool:             15,
		MinCranesPerVessel:         2,
		Pier1GangDistribution: []dist.Weight{
			{Value: 2, Prob: 0.25},
			{Value: 3, Prob: 0.55},
			{Value: 4, Prob: 0.20},
		},
		Pier2GangMin:           2,
		Pier2GangMode:          4,
		Pier2GangMax:           6,
		GCHMovesPerHour:        18,
		NetEffectiveWorkFactor: 21.83 / 24.0,
		Pier1Efficiency:        0.90,
		Pier2Efficiency:        0.75,
		ShiftLengthMins:        720,
		ShiftHookLossMinMins:   30,
		ShiftHookLossMaxMins:   60,
		PilotageBerthingMins:   120,
		SailingClearanceMins:   60,
	}
}

// Improved is the baseline with one extra scanner, loader, yard-equipment
// unit and gate-out lane.
func Improved() Config {
	base := Baseline()
	out := base.WithName(NameImproved, "Demo improved scenario with small capacity increases for comparison.")
	out.NumScanners = base.NumScanners + 1
	out.NumLoaders = base.NumLoaders + 1
	out.YardEquipmentCapacity = base.YardEquipmentCapacity + 1
	out.NumGateOut = base.NumGateOut + 1
	return out
}

// Berth drives ship-side arrivals through vessel calls and trucks through slot
// bookings. Call sizes are scaled down so a single twelve-hour shift sees
// several berthings, gang allocations and rebooked trucks.
func Berth() Config {
	out := Baseline().WithName(NameBerth, "Vessel calls with berth and crane-gang contention; trucks arrive through a slot-booking system.")
	out.SimTimeMins = 12 * 60
	out.YardCapacity = 400
	out.YardEquipmentCapacity = 6
	out.NumLoaders = 3
	out.VesselMode = true
	out.VesselInterarrivalMeanMins = 150
	out.VesselMovesPerCall = 90
	out.VesselImportShare = 0.8
	out.ShiftLengthMins = 240

	out.TruckMode = TruckModeTAS
	out.TASTrucksPerDay = 240
	total := 0.0
	for _, r := range out.HourlyTruckTEURate {
		total += r
	}
	for i, r := range out.HourlyTruckTEURate {
		out.TASHourlyMultipliers[i] = r * dist.HoursPerDay / total
	}
	return out
}
