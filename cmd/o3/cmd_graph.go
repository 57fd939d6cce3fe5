package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheFoxDecoder/o3/internal/scenario"
	"github.com/TheFoxDecoder/o3/internal/visualization"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <scenario.yaml>",
		Short: "Visualize a scenario's network",
		Long:  `Build the network a scenario file describes and output it in DOT (Graphviz) or text format.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			tier, err := s.Build()
			if err != nil {
				return fmt.Errorf("building scenario: %w", err)
			}

			rendered, err := visualization.Render(tier.Graph(), visualization.Format(format))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	cmd.Flags().String("format", "dot", "Output format: dot or text")
	return cmd
}
