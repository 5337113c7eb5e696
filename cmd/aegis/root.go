package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aegis",
	Short: "Aegis - runtime remediation decision pipeline",
	Long: `Aegis turns runtime events into remediation actions.

Each inbound event flows through a decision engine (a deterministic rule
table or an adaptive tabular policy) and an execution gateway that enforces
a per-environment action allowlist. Every downstream call is bounded by a
timeout and every failure degrades to a safe noop, so a caller always gets
a structured answer.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
