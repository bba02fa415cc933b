package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/NkanyeziNgobese/PortSimulation/sim/metrics"
	"github.com/NkanyeziNgobese/PortSimulation/sim/port"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
)

// Output file names inside a run directory.
const (
	kpisFile       = "kpis.csv"
	trucksFile     = "trucks.csv"
	vesselsFile    = "vessels.csv"
	comparisonFile = "comparison.csv"
	metadataFile   = "metadata.json"
	traceFile      = "trace.json"
)

// Metadata describes one run for later inspection.
type Metadata struct {
	RunID               string             `json:"run_id"`
	ScenarioName        string             `json:"scenario_name"`
	ScenarioDescription string             `json:"scenario_description"`
	Seed                int64              `json:"seed"`
	Demo                bool               `json:"demo"`
	TimestampUTC        string             `json:"timestamp_utc"`
	RowCount            int                `json:"row_count"`
	EventsProcessed     int64              `json:"events_processed"`
	EventsPending       int                `json:"events_pending"`
	DroppedBookings     int                `json:"dropped_bookings"`
	InFlight            int                `json:"containers_in_flight"`
	ReadyPool           PoolSummary        `json:"ready_pool"`
	YardPeakTEU         int                `json:"yard_peak_teu"`
	CranePoolEmptyRatio map[string]float64 `json:"crane_pool_empty_ratio,omitempty"`
	Outputs             map[string]string  `json:"outputs"`
	ConfigSummary       map[string]any     `json:"config_summary"`
	Resources           []ResourceSummary  `json:"resources"`
	ConfigUsed          map[string]any     `json:"config_used"`
}

// PoolSummary is the ready-pool state when the run stopped.
type PoolSummary struct {
	Containers    int `json:"containers"`
	TEU           int `json:"teu"`
	TrucksWaiting int `json:"trucks_waiting"`
}

// ResourceSummary is the per-pool usage reported in metadata.
type ResourceSummary struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Grants    int    `json:"grants"`
	PeakInUse int    `json:"peak_in_use"`
	PeakQueue int    `json:"peak_queue"`
}

var summaryKeys = []string{"sim_time_mins", "truck_mode", "vessel_mode", "yard_capacity", "truck_capacity_teu"}

func newMetadata(res *port.Result, outputs map[string]string, now time.Time) Metadata {
	cfg := scenario.ToMap(res.Config)
	summary := make(map[string]any, len(summaryKeys)+len(scenario.ResourceKeys))
	for _, k := range append(append([]string(nil), scenario.ResourceKeys...), summaryKeys...) {
		summary[k] = cfg[k]
	}
	pool := PoolSummary{
		Containers:    res.Stats.ReadyPoolLeft,
		TEU:           res.Stats.ReadyPoolTEU,
		TrucksWaiting: res.Stats.TrucksWaitingOnPool,
	}
	md := Metadata{
		RunID:               uuid.NewString(),
		ScenarioName:        res.Config.Name,
		ScenarioDescription: res.Config.Description,
		Seed:                res.Seed,
		Demo:                res.Config.Demo,
		TimestampUTC:        now.UTC().Format(time.RFC3339),
		RowCount:            res.RowCount(),
		EventsProcessed:     res.Stats.EventsProcessed,
		EventsPending:       res.Stats.EventsPending,
		DroppedBookings:     res.Stats.BookingsDropped,
		InFlight:            res.Stats.ContainersInFlight,
		ReadyPool:           pool,
		YardPeakTEU:         res.Stats.YardPeakTEU,
		CranePoolEmptyRatio: res.Stats.CranePoolEmptyRatio,
		Outputs:             outputs,
		ConfigSummary:       summary,
		ConfigUsed:          cfg,
	}
	for _, s := range res.Stats.Resources {
		md.Resources = append(md.Resources, ResourceSummary(s))
	}
	return md
}

// writeRunOutputs writes the container KPI table, the truck and vessel tables
// when they have rows, trace.json when decisions were traced, and
// metadata.json. It returns output name to path.
func writeRunOutputs(dir string, res *port.Result, now time.Time) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	outputs := map[string]string{}
	tables := []struct {
		name, file string
		table      *metrics.Table
		always     bool
	}{
		{"kpis", kpisFile, res.Containers, true},
		{"trucks", trucksFile, res.Trucks, false},
		{"vessels", vesselsFile, res.Vessels, false},
	}
	for _, tb := range tables {
		if !tb.always && tb.table.Len() == 0 {
			continue
		}
		path := filepath.Join(dir, tb.file)
		if err := writeTable(path, tb.table); err != nil {
			return nil, err
		}
		outputs[tb.name] = path
	}
	if res.Trace.Enabled() {
		path := filepath.Join(dir, traceFile)
		if err := writeJSON(path, res.Trace); err != nil {
			return nil, err
		}
		outputs["trace"] = path
	}
	if _, err := os.Stat(filepath.Join(dir, "run.log")); err == nil {
		outputs["log"] = filepath.Join(dir, "run.log")
	}

	path := filepath.Join(dir, metadataFile)
	outputs["metadata"] = path
	if err := writeJSON(path, newMetadata(res, outputs, now)); err != nil {
		return nil, err
	}
	return outputs, nil
}

func writeTable(path string, t *metrics.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
