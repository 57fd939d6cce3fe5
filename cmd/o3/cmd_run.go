package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TheFoxDecoder/o3/internal/config"
	"github.com/TheFoxDecoder/o3/internal/logging"
	"github.com/TheFoxDecoder/o3/internal/neuron"
	"github.com/TheFoxDecoder/o3/internal/scenario"
	"github.com/TheFoxDecoder/o3/internal/stats"
	"github.com/TheFoxDecoder/o3/internal/visualization"
)

// loadConfig resolves the effective configuration from the --config and
// --log-level flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file",
		Long: `Build the network a scenario file describes, inject its signals, run
its propagation passes, and report the resulting graph and statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			trace := logging.NewTraceLogger(".o3", cfg.Logging.Level)
			defer trace.Close()

			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			tier, err := s.Build()
			if err != nil {
				return fmt.Errorf("building scenario: %w", err)
			}
			nw := tier.Graph()
			nw.SetLogger(logger)
			nw.SetMaxCascadeDepth(cfg.Cascade.MaxDepth)

			tracker := stats.New()
			nw.SetTracker(tracker)

			for _, n := range nw.Neurons() {
				n.OnFire(func(fired *neuron.Neuron) {
					trace.Fire(fired.ID(), fired.Potential())
				})
				n.OnStateChange(func(sc neuron.StateChange) {
					trace.StateChange(sc.Neuron.ID(), sc.From.String(), sc.To.String())
				})
			}

			passes := s.PassCount()
			logger.Info("running scenario",
				"name", s.Name, "passes", passes, "neurons", nw.NeuronCount())
			for i := 0; i < passes; i++ {
				tier.ProcessSignals()
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, visualization.RenderText(nw))

			snap := tracker.Snapshot()
			fmt.Fprintln(out, "\nStatistics:")
			fmt.Fprintf(out, "Signals created: %d\n", snap.SignalsCreated)
			fmt.Fprintf(out, "Deliveries: %d\n", snap.Deliveries)
			fmt.Fprintf(out, "Dropped at depth bound: %d\n", snap.DroppedDeliveries)
			fmt.Fprintf(out, "Fires: %d\n", snap.Fires)
			return nil
		},
	}
	return cmd
}
