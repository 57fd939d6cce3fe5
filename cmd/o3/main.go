package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "o3",
		Short: "Ozone - neuromorphic network simulation",
		Long: `o3 simulates signal propagation through networks of artificial neurons.

Networks are built from typed neurons connected by weighted edges; signals
carry keyed payloads through gates into threshold-driven firing cascades.
Scenarios describe networks declaratively in YAML.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity: info, debug, or trace")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default ~/.o3/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newInfoCmd(),
		newDemoCmd(),
		newRunCmd(),
		newGraphCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "o3 version %s\n", version)
			}
		},
	}
}
