package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NkanyeziNgobese/PortSimulation/sim/metrics"
	"github.com/NkanyeziNgobese/PortSimulation/sim/port"
	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
)

var variantName string // Preset the base is compared against

// compareCmd runs a base scenario and a variant with the same seed
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run a scenario and a variant with the same seed and compare KPIs",
	Run: func(cmd *cobra.Command, args []string) {
		closeLog, err := setupLogging(logLevel, outDir)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer closeLog()

		base, err := resolveScenario(scenarioName, configPath, "")
		if err != nil {
			logrus.Fatalf("Unable to load base scenario: %v", err)
		}
		variant, err := resolveVariant(base, variantName, overridePath)
		if err != nil {
			logrus.Fatalf("Unable to load variant: %v", err)
		}

		cmp, err := runComparison(base, variant, seed, outDir)
		if err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
		printComparison(os.Stdout, base.Name, variant.Name, cmp)
		logrus.Infof("Comparison written to %s", filepath.Join(outDir, comparisonFile))
	},
}

// resolveVariant applies an override file to base when one is given, and
// loads the named preset otherwise.
func resolveVariant(base scenario.Config, name, overridesFile string) (scenario.Config, error) {
	if overridesFile == "" {
		return scenario.Get(name)
	}
	ov, err := scenario.LoadOverridesFile(overridesFile)
	if err != nil {
		return scenario.Config{}, err
	}
	out, err := base.WithOverrides(ov)
	if err != nil {
		return scenario.Config{}, err
	}
	out.Name = base.Name + "_override"
	return out, nil
}

// runComparison runs both configs concurrently, writes each run's outputs
// into its own subdirectory of dir and the comparison table into dir.
func runComparison(base, variant scenario.Config, seed int64, dir string) (metrics.Comparison, error) {
	if base.Name == variant.Name {
		variant = variant.WithName(variant.Name+"_variant", variant.Description)
	}
	cfgs := []scenario.Config{base, variant}
	results := make([]*port.Result, len(cfgs))

	var g errgroup.Group
	for i, cfg := range cfgs {
		g.Go(func() error {
			res, err := port.RunSimulation(cfg, seed)
			if err != nil {
				return err
			}
			results[i] = res
			if _, err := writeRunOutputs(filepath.Join(dir, cfg.Name), res, time.Now().UTC()); err != nil {
				return fmt.Errorf("%s: %w", cfg.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return metrics.Comparison{}, err
	}

	cmp := metrics.Compare(results[0].Containers, results[1].Containers)
	if err := writeTable(filepath.Join(dir, comparisonFile), cmp.Table()); err != nil {
		return metrics.Comparison{}, err
	}
	return cmp, nil
}

func init() {
	addCommonFlags(compareCmd)
	compareCmd.Flags().StringVar(&variantName, "variant", scenario.NameImproved, "Preset to compare against")
	compareCmd.Flags().StringVar(&overridePath, "override", "", "YAML overrides applied to the base instead of --variant")

	rootCmd.AddCommand(compareCmd)
}
