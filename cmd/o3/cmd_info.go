package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

const architectureInfo = `=== Ozone (O3) Dynamic Neuromorphic Intelligence Architecture ===

This is a neuromorphic computing system that simulates biological neurons
and their communication pathways. Unlike traditional machine learning
approaches, this architecture replicates how individual neurons compute,
understand data, and communicate with each other.

Key components:
- Neurons: Simulate biological neurons with various specializations
- Signals: Handle data transfer between neurons
- Gates: Control signal processing within neurons
- Networks: Manage collections of neurons and their connections

The architecture is organized into three tiers:
1. Conscious: High-level cognitive functions with attention focus
2. Subconscious: Pattern recognition and routine processing
3. Unconscious: Basic functions, reflexes, and deep memory
`

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the architecture",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"name":       "Ozone (O3)",
					"version":    version,
					"components": []string{"neurons", "signals", "gates", "networks"},
					"tiers":      []string{"conscious", "subconscious", "unconscious"},
				})
				return
			}
			fmt.Fprint(cmd.OutOrStdout(), architectureInfo)
		},
	}
}
