package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/NkanyeziNgobese/PortSimulation/sim/scenario"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Inspect preset scenarios",
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List preset scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range scenario.Names() {
			c, _ := scenario.Get(name)
			fmt.Printf("%-10s %s\n", name, c.Description)
		}
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a preset scenario as YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := scenario.Get(args[0])
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		data, err := scenario.Marshal(c)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		_, _ = os.Stdout.Write(data)
	},
}

func init() {
	scenarioCmd.AddCommand(scenarioListCmd, scenarioShowCmd)
	rootCmd.AddCommand(scenarioCmd)
}
