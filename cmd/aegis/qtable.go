package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/cli"
	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/remedy"
)

var qtableFlags struct {
	format string
}

var qtableCmd = &cobra.Command{
	Use:   "qtable",
	Short: "Inspect the learned policy",
	Long: `Print the persisted value table and the greedy policy derived from it.

Examples:
  # Human-readable summary
  aegis qtable

  # JSON dump
  aegis qtable --format json`,
	RunE: showQTable,
}

func init() {
	rootCmd.AddCommand(qtableCmd)

	qtableCmd.Flags().StringVar(&qtableFlags.format, "format", "text", "output format: text, json")
}

// qtableView is the command's output shape.
type qtableView struct {
	Algorithm   string                                       `json:"algorithm"`
	SavedAt     string                                       `json:"saved_at,omitempty"`
	Values      map[qtable.StateID]map[remedy.Action]float64 `json:"values"`
	BestActions map[qtable.StateID]remedy.Action             `json:"best_actions"`
}

func showQTable(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if cfg.Learning.Backend != "sqlite" {
		return cli.NewConfigError("learning.backend", "qtable inspection requires the sqlite backend")
	}

	storage, err := qtable.NewSQLiteStorage(qtable.SQLiteConfig{Path: cfg.Learning.StorePath})
	if err != nil {
		return cli.NewCommandError("qtable", err)
	}
	defer storage.Close()

	snapshot, err := storage.Load(context.Background())
	if err != nil {
		return cli.NewCommandError("qtable", err)
	}
	if snapshot == nil {
		fmt.Printf("No learned policy at %s\n", cfg.Learning.StorePath)
		return nil
	}

	table := qtable.New()
	table.Restore(snapshot)

	view := qtableView{
		Algorithm:   snapshot.Algorithm,
		Values:      snapshot.Values,
		BestActions: make(map[qtable.StateID]remedy.Action, len(snapshot.Values)),
	}
	if !snapshot.SavedAt.IsZero() {
		view.SavedAt = snapshot.SavedAt.Format("2006-01-02 15:04:05")
	}
	for state := range snapshot.Values {
		action, _ := table.BestAction(state)
		view.BestActions[state] = action
	}

	if cli.OutputFormat(qtableFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, view)
	}

	fmt.Printf("Algorithm: %s\n", view.Algorithm)
	if view.SavedAt != "" {
		fmt.Printf("Saved at:  %s\n", view.SavedAt)
	}
	fmt.Println()

	states := make([]qtable.StateID, 0, len(view.BestActions))
	for state := range view.BestActions {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	for _, state := range states {
		best := view.BestActions[state]
		fmt.Printf("%-22s -> %-12s (%.4f)\n", state, best, table.Value(state, best))
	}
	return nil
}
