package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/NkanyeziNgobese/PortSimulation/sim/port"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
	"github.com/NkanyeziNgobese/PortSimulation/sim/trace"
)

var (
	seed         int64  // Seed for every random stream of the run
	scenarioName string // Preset scenario name
	configPath   string // Scenario YAML replacing the preset
	overridePath string // Flat YAML map of override keys
	outDir       string // Directory for tables, metadata and run.log
	logLevel     string // Log verbosity level
	traceLevel   string // Decision trace level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "portsim",
	Short: "Discrete-event simulator for container terminal operations",
}

// runCmd runs one scenario and writes its output tables
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one terminal scenario",
	Run: func(cmd *cobra.Command, args []string) {
		closeLog, err := setupLogging(logLevel, outDir)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer closeLog()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}
		cfg, err := resolveScenario(scenarioName, configPath, overridePath)
		if err != nil {
			logrus.Fatalf("Unable to load scenario: %v", err)
		}

		logrus.Infof("Starting scenario %q with seed %d, horizon=%dmin, truck mode %s, vessel mode %v",
			cfg.Name, seed, cfg.SimTimeMins, cfg.TruckMode, cfg.VesselMode)
		start := time.Now()

		res, err := runScenario(os.Stdout, cfg, seed, trace.TraceLevel(traceLevel), outDir)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Simulation complete in %s: %d containers, outputs in %s",
			time.Since(start).Round(time.Millisecond), res.RowCount(), outDir)
	},
}

// runScenario runs cfg, writes its outputs into dir and prints the summary
// to w. A trace level of decisions also writes trace.json.
func runScenario(w io.Writer, cfg scenario.Config, seed int64, level trace.TraceLevel, dir string) (*port.Result, error) {
	res, err := port.RunWithOptions(cfg, seed, port.Options{TraceLevel: level})
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}
	outputs, err := writeRunOutputs(dir, res, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("writing outputs failed: %w", err)
	}
	printSummary(w, res)
	for name, path := range outputs {
		logrus.Debugf("wrote %s to %s", name, path)
	}
	return res, nil
}

// setupLogging applies the level and tees log output into dir/run.log.
func setupLogging(level, dir string) (func(), error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	if dir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "run.log"))
	if err != nil {
		return nil, fmt.Errorf("creating run log: %w", err)
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	return func() {
		logrus.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// resolveScenario loads the preset or config file and applies overrides.
func resolveScenario(name, configFile, overridesFile string) (scenario.Config, error) {
	var (
		cfg scenario.Config
		err error
	)
	if configFile != "" {
		cfg, err = scenario.LoadFile(configFile)
	} else {
		cfg, err = scenario.Get(name)
	}
	if err != nil {
		return scenario.Config{}, err
	}
	if overridesFile == "" {
		return cfg, nil
	}
	ov, err := scenario.LoadOverridesFile(overridesFile)
	if err != nil {
		return scenario.Config{}, err
	}
	return cfg.WithOverrides(ov)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", 123, "Seed for all random streams")
	cmd.Flags().StringVar(&scenarioName, "scenario", scenario.NameBaseline, "Preset scenario name")
	cmd.Flags().StringVar(&configPath, "config", "", "Scenario YAML file (replaces --scenario)")
	cmd.Flags().StringVar(&outDir, "out", "outputs", "Output directory")
	cmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	addCommonFlags(runCmd)
	runCmd.Flags().StringVar(&overridePath, "override", "", "YAML map of config overrides")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")

	rootCmd.AddCommand(runCmd)
}
