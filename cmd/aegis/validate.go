package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/cli"
	"aegis-hq/aegis/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration without starting the server",
	Long: `Load the configuration, apply environment overrides, and run the same
validation the run command performs on startup.

Examples:
  # Validate the default config
  aegis validate

  # Validate a specific file
  aegis validate --config /etc/aegis/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	source := cfgFile
	if source == "" {
		source = "defaults"
	}
	fmt.Printf("Configuration valid (%s)\n", source)
	fmt.Printf("  listen:     %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  strategy:   %s\n", cfg.Decision.Strategy)
	fmt.Printf("  simulate:   %t\n", cfg.Gateway.Simulate)
	fmt.Printf("  learning:   %t (%s)\n", cfg.Learning.Enabled, cfg.Learning.Algorithm)
	return nil
}
