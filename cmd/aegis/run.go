package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/cli"
	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/decision"
	"aegis-hq/aegis/pkg/gateway"
	"aegis-hq/aegis/pkg/orchestrator"
	"aegis-hq/aegis/pkg/policy/allowlist"
	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/remedy"
	"aegis-hq/aegis/pkg/reward"
	"aegis-hq/aegis/pkg/server"
	"aegis-hq/aegis/pkg/server/handlers"
	"aegis-hq/aegis/pkg/telemetry/logging"
	"aegis-hq/aegis/pkg/telemetry/metrics"
	"aegis-hq/aegis/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	simulate      bool
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the aegis pipeline server",
	Long: `Start the aegis pipeline server with the specified configuration.

The server accepts runtime events on /v1/events and drives each one through
the decision engine and the execution gateway.

Examples:
  # Start with default config
  aegis run

  # Start with custom config
  aegis run --config /etc/aegis/config.yaml

  # Override listen address
  aegis run --listen 0.0.0.0:8080

  # Record actions instead of applying them
  aegis run --simulate

  # Validate config without starting the server
  aegis run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.simulate, "simulate", false, "record actions without applying them")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Flag overrides beat both the file and the environment.
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.simulate {
		cfg.Gateway.Simulate = true
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(&cfg.Telemetry.Logging)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)

	ctx := cli.SetupSignalHandler()

	// Allowlist policy, optionally hot-reloaded from file.
	policy := allowlist.Default()
	if cfg.Gateway.AllowlistPath != "" {
		loaded, err := allowlist.FromFile(cfg.Gateway.AllowlistPath)
		if err != nil {
			return cli.NewConfigError("gateway.allowlist_path", err.Error())
		}
		policy = loaded
		fmt.Printf("✓ Allowlist loaded from %s\n", cfg.Gateway.AllowlistPath)

		if cfg.Gateway.WatchAllowlist {
			watcher, err := allowlist.NewWatcher(allowlist.WatcherConfig{
				Path: cfg.Gateway.AllowlistPath,
			}, policy, logger)
			if err != nil {
				return cli.NewCommandError("run", err)
			}
			go func() {
				if err := watcher.Watch(ctx); err != nil {
					slog.Warn("allowlist watcher stopped", "error", err)
				}
			}()
		}
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Learned value table and its persistence.
	table := qtable.New()
	algorithm := cfg.Learning.Algorithm
	needTable := cfg.Learning.Enabled || cfg.Decision.Strategy == "rl"

	readiness := map[string]handlers.ReadinessCheck{}

	var storage qtable.Storage
	var checkpointer *qtable.Checkpointer
	if needTable {
		switch cfg.Learning.Backend {
		case "sqlite":
			sqliteStorage, err := qtable.NewSQLiteStorage(qtable.SQLiteConfig{Path: cfg.Learning.StorePath})
			if err != nil {
				return cli.NewCommandError("run", err)
			}
			storage = sqliteStorage
			readiness["qtable_storage"] = func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return sqliteStorage.Ping(pingCtx)
			}
		case "memory":
			storage = qtable.NewMemoryStorage()
		default:
			return cli.NewConfigError("learning.backend",
				fmt.Sprintf("unsupported backend %q", cfg.Learning.Backend))
		}
		defer storage.Close()

		snapshot, err := storage.Load(ctx)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		if snapshot != nil {
			table.Restore(snapshot)
			if snapshot.Algorithm != "" && snapshot.Algorithm != algorithm {
				slog.Warn("persisted table was trained by a different algorithm",
					"persisted", snapshot.Algorithm, "configured", algorithm)
			}
			fmt.Println("✓ Learned policy restored")
		}

		var cpOpts []qtable.CheckpointerOption
		if collector != nil {
			cpOpts = append(cpOpts, qtable.WithCheckpointObserver(collector.Learning.RecordCheckpoint))
		}
		checkpointer = qtable.NewCheckpointer(table, storage, algorithm, cfg.Learning.CheckpointSchedule, cpOpts...)
		if err := checkpointer.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer func() {
			checkpointer.Stop()
			// Final save so learning since the last checkpoint survives.
			if err := checkpointer.Checkpoint(context.Background()); err != nil {
				slog.Error("final checkpoint failed", "error", err)
			}
		}()
	}

	// Decision engine.
	thresholds := decision.Thresholds{
		ErrorCount: cfg.Decision.ErrorCountThreshold,
		LatencyMs:  cfg.Decision.LatencyThresholdMs,
	}
	var engine decision.Engine
	var rlEngine *decision.RLEngine
	switch cfg.Decision.Strategy {
	case "rl":
		rlEngine = decision.NewRLEngine(table, thresholds,
			decision.WithEpsilon(cfg.Learning.Epsilon),
			decision.WithTrainMode(cfg.Learning.TrainMode))
		engine = rlEngine
	default:
		engine = decision.NewRuleEngine(thresholds)
	}

	gw := gateway.New(policy, gateway.NewInfraExecutor(logger), cfg.Gateway.Simulate, logger)

	// Reward adapter.
	var learner *reward.Learner
	if cfg.Learning.Enabled {
		var learnerOpts []reward.LearnerOption
		if collector != nil {
			learnerOpts = append(learnerOpts, reward.WithLearningMetrics(collector.Learning))
		}
		learner, err = reward.NewLearner(table, algorithm,
			cfg.Learning.Alpha, cfg.Learning.Gamma, cfg.Learning.BufferSize,
			logger, learnerOpts...)
		if err != nil {
			return cli.NewConfigError("learning.algorithm", err.Error())
		}

		if rlEngine != nil {
			learner.Subscribe(func(reward.Update) {
				rlEngine.Decay()
				if collector != nil {
					collector.Decisions.SetEpsilon(rlEngine.Epsilon())
				}
			})
		}
	}

	orchOpts := []orchestrator.Option{}
	if collector != nil {
		orchOpts = append(orchOpts, orchestrator.WithMetrics(collector))
	}
	if tracer.Enabled() {
		orchOpts = append(orchOpts, orchestrator.WithTracer(tracer))
	}
	if learner != nil {
		orchOpts = append(orchOpts, orchestrator.WithOutcomeHook(
			func(obs *remedy.RuntimeObservation, d *remedy.Decision, result *remedy.ExecutionResult) {
				// Validation noops and degraded fallbacks carry zero
				// confidence; there is nothing to learn from them.
				if result == nil || d.Confidence == 0 {
					return
				}
				state := decision.MapState(obs, thresholds)
				if _, err := learner.LearnFromExecution(ctx, state, d.Action, result, reward.VerdictNone); err != nil {
					slog.Warn("outcome not learned", "error", err)
				}
			}))
	}

	orch := orchestrator.New(engine, gw,
		cfg.Pipeline.DecisionTimeout, cfg.Pipeline.ExecutionTimeout,
		cfg.Pipeline.MaxInFlight, logger, orchOpts...)

	srv := server.New(&cfg.Server, server.Dependencies{
		Orchestrator: orch,
		Engine:       engine,
		Gateway:      gw,
		Learner:      learner,
		Table:        table,
		Algorithm:    algorithm,
		Metrics:      collector,
		Readiness:    readiness,
	}, logger)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Println("✓ Server stopped")
	return nil
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Aegis v%s\n", Version)
	if cfgFile != "" {
		fmt.Printf("Loading configuration from: %s\n", cfgFile)
	}
	fmt.Println("✓ Configuration loaded")

	mode := "live"
	if cfg.Gateway.Simulate {
		mode = "simulate"
	}
	fmt.Printf("✓ Strategy: %s, gateway mode: %s\n", cfg.Decision.Strategy, mode)

	if cfg.Learning.Enabled {
		slog.Debug("learning enabled",
			"algorithm", cfg.Learning.Algorithm,
			"backend", cfg.Learning.Backend,
			"train_mode", cfg.Learning.TrainMode)
	}
}
