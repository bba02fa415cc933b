package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NkanyeziNgobese/PortSimulation/sim/port"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
	"github.com/NkanyeziNgobese/PortSimulation/sim/trace"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestResolveScenario(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "num_loaders: 4\nyard_capacity: 300\n")
	unknown := writeFile(t, dir, "unknown.yaml", "num_forklifts: 3\n")
	zero := writeFile(t, dir, "zero.yaml", "num_scanners: 0\n")

	// GIVEN a preset with a valid override file
	cfg, err := resolveScenario(scenario.NameBaseline, "", good)
	require.NoError(t, err)

	// THEN only the overridden keys change
	assert.Equal(t, 4, cfg.NumLoaders)
	assert.Equal(t, 300, cfg.YardCapacity)
	assert.Equal(t, scenario.Baseline().NumScanners, cfg.NumScanners)

	// unknown keys and resource values below one are rejected
	_, err = resolveScenario(scenario.NameBaseline, "", unknown)
	assert.True(t, errors.Is(err, scenario.ErrInvalidOverride), "err = %v", err)
	_, err = resolveScenario(scenario.NameBaseline, "", zero)
	assert.Error(t, err)

	// an unknown preset is a config error
	_, err = resolveScenario("harbour", "", "")
	assert.True(t, errors.Is(err, scenario.ErrInvalidConfig), "err = %v", err)
}

func TestResolveScenario_ConfigFileWins(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scenario.yaml", "name: custom\nnum_gate_in: 3\n")

	cfg, err := resolveScenario(scenario.NameImproved, path, "")
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, 3, cfg.NumGateIn)
}

func TestSetupLogging_RejectsUnknownLevel(t *testing.T) {
	_, err := setupLogging("loud", "")
	assert.Error(t, err)
}

func shortRun(t *testing.T, name string) *port.Result {
	t.Helper()
	cfg, err := scenario.Get(name)
	require.NoError(t, err)
	res, err := port.RunSimulation(cfg.WithSimTime(180), 123)
	require.NoError(t, err)
	return res
}

func TestWriteRunOutputs_Metadata(t *testing.T) {
	// GIVEN a completed baseline run
	res := shortRun(t, scenario.NameBaseline)
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// WHEN outputs are written
	outputs, err := writeRunOutputs(dir, res, now)
	require.NoError(t, err)

	// THEN the KPI table and metadata exist; free-flow runs have no vessel table
	assert.FileExists(t, outputs["kpis"])
	assert.FileExists(t, outputs["metadata"])
	assert.NotContains(t, outputs, "vessels")

	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	require.NoError(t, err)
	var md map[string]any
	require.NoError(t, json.Unmarshal(data, &md))

	_, err = uuid.Parse(md["run_id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, scenario.NameBaseline, md["scenario_name"])
	assert.Equal(t, 123.0, md["seed"])
	assert.Equal(t, true, md["demo"])
	assert.Equal(t, "2026-03-01T12:00:00Z", md["timestamp_utc"])
	assert.Equal(t, float64(res.RowCount()), md["row_count"])

	summary := md["config_summary"].(map[string]any)
	for _, k := range scenario.ResourceKeys {
		assert.Contains(t, summary, k)
	}
	used := md["config_used"].(map[string]any)
	assert.Equal(t, 180.0, used["sim_time_mins"])
	assert.NotEmpty(t, md["resources"])

	// end-of-run pool state is reported; crane ratios only exist with piers
	assert.Equal(t, float64(res.Stats.EventsPending), md["events_pending"])
	assert.Equal(t, float64(res.Stats.ContainersInFlight), md["containers_in_flight"])
	assert.Equal(t, float64(res.Stats.YardPeakTEU), md["yard_peak_teu"])
	pool := md["ready_pool"].(map[string]any)
	assert.Equal(t, float64(res.Stats.ReadyPoolTEU), pool["teu"])
	assert.Equal(t, float64(res.Stats.TrucksWaitingOnPool), pool["trucks_waiting"])
	assert.NotContains(t, md, "crane_pool_empty_ratio")

	// and no trace is written unless one was requested
	assert.NotContains(t, outputs, "trace")
	assert.NoFileExists(t, filepath.Join(dir, traceFile))
}

func TestWriteRunOutputs_BerthTables(t *testing.T) {
	res := shortRun(t, scenario.NameBerth)
	outputs, err := writeRunOutputs(t.TempDir(), res, time.Now())
	require.NoError(t, err)
	if res.Trucks.Len() > 0 {
		assert.FileExists(t, outputs["trucks"])
	}
	if res.Vessels.Len() > 0 {
		assert.FileExists(t, outputs["vessels"])
	}

	data, err := os.ReadFile(outputs["metadata"])
	require.NoError(t, err)
	var md Metadata
	require.NoError(t, json.Unmarshal(data, &md))
	require.Len(t, md.CranePoolEmptyRatio, 2)
	for _, pier := range []string{port.Pier1, port.Pier2} {
		ratio := md.CranePoolEmptyRatio[pier]
		assert.InDelta(t, res.Stats.CranePoolEmptyRatio[pier], ratio, 1e-12)
		assert.GreaterOrEqual(t, ratio, 0.0)
		assert.LessOrEqual(t, ratio, 1.0)
	}
}

func TestRunScenario_TraceWritesTraceFile(t *testing.T) {
	// GIVEN a short berth scenario run with decision tracing
	dir := t.TempDir()
	cfg := scenario.Berth().WithSimTime(600)
	var buf bytes.Buffer

	// WHEN it runs through the CLI path
	res, err := runScenario(&buf, cfg, 11, trace.TraceLevelDecisions, dir)
	require.NoError(t, err)

	// THEN trace.json holds every recorded decision
	data, err := os.ReadFile(filepath.Join(dir, traceFile))
	require.NoError(t, err)
	var got trace.SimulationTrace
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, trace.TraceLevelDecisions, got.Config.Level)
	assert.Len(t, got.Berths, len(res.Trace.Berths))
	assert.Len(t, got.Claims, len(res.Trace.Claims))
	assert.Len(t, got.Bookings, len(res.Trace.Bookings))
	assert.Equal(t, res.Stats.VesselsArrived, len(got.Berths))

	// and the summary reports the traced decisions
	out := buf.String()
	assert.Contains(t, out, "decision trace")
	assert.Contains(t, out, "claims:")
	assert.Contains(t, out, "all cranes busy:")
}

func TestRunScenario_NoTraceByDefault(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	_, err := runScenario(&buf, scenario.Baseline().WithSimTime(180), 11, trace.TraceLevelNone, dir)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, traceFile))
	assert.FileExists(t, filepath.Join(dir, metadataFile))
	assert.NotContains(t, buf.String(), "decision trace")
}

func TestRunComparison(t *testing.T) {
	// GIVEN the baseline and its capacity-bumped variant
	dir := t.TempDir()
	base := scenario.Baseline().WithSimTime(180)
	imp := scenario.Improved().WithSimTime(180)

	// WHEN compared under one seed
	cmp, err := runComparison(base, imp, 7, dir)
	require.NoError(t, err)

	// THEN both runs and the comparison table are written
	assert.NotEmpty(t, cmp.Metrics)
	assert.FileExists(t, filepath.Join(dir, comparisonFile))
	assert.FileExists(t, filepath.Join(dir, scenario.NameBaseline, kpisFile))
	assert.FileExists(t, filepath.Join(dir, scenario.NameImproved, kpisFile))

	// and the comparison is reproducible
	again, err := runComparison(base, imp, 7, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, cmp.BaseRows, again.BaseRows)
	assert.Equal(t, cmp.AfterRows, again.AfterRows)
}

func TestResolveVariant_OverrideRenames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "o.yaml", "num_loaders: 5\n")
	v, err := resolveVariant(scenario.Baseline(), scenario.NameImproved, path)
	require.NoError(t, err)
	assert.Equal(t, 5, v.NumLoaders)
	assert.Equal(t, "baseline_override", v.Name)

	v, err = resolveVariant(scenario.Baseline(), scenario.NameImproved, "")
	require.NoError(t, err)
	assert.Equal(t, scenario.NameImproved, v.Name)
}

func TestPrintSummary(t *testing.T) {
	res := shortRun(t, scenario.NameBaseline)
	var buf bytes.Buffer
	printSummary(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "baseline")
	assert.Contains(t, out, "total_time")
	assert.Contains(t, out, "ready pool:")
	assert.NotContains(t, out, "bookings:")
	assert.NotContains(t, out, "all cranes busy:")
}
