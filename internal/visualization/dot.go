// Package visualization renders neuron graphs in various output formats.
package visualization

import (
	"fmt"
	"strings"

	"github.com/TheFoxDecoder/o3/internal/network"
	"github.com/TheFoxDecoder/o3/internal/neuron"
)

// Format specifies the output format for graph rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatText Format = "text"
)

// typeColors maps neuron types to DOT fill colors.
var typeColors = map[neuron.Type]string{
	neuron.Sensory:    "steelblue",
	neuron.Output:     "mediumseagreen",
	neuron.Memory:     "mediumpurple",
	neuron.Regulatory: "tomato",
}

// stateColors maps neuron states to DOT border colors.
var stateColors = map[neuron.State]string{
	neuron.Active:     "green",
	neuron.Inhibited:  "red",
	neuron.Refractory: "orange",
	neuron.Resting:    "gray",
}

// RenderDOT produces a Graphviz DOT representation of the network. Nodes
// are filled by type and outlined by current state; edges carry their
// weights as labels.
func RenderDOT(nw *network.Network) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", nw.ID())
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, n := range nw.Neurons() {
		fill := typeColors[n.Type()]
		if fill == "" {
			fill = "white"
		}
		outline := stateColors[n.State()]
		if outline == "" {
			outline = "gray"
		}
		fmt.Fprintf(&b, "  %q [label=%q, fillcolor=%q, color=%q, tooltip=\"type=%s threshold=%.2f\"];\n",
			n.ID(), n.ID(), fill, outline, n.Type(), n.Threshold())
	}
	b.WriteString("\n")

	for _, n := range nw.Neurons() {
		for _, target := range n.Outputs() {
			fmt.Fprintf(&b, "  %q -> %q [label=\"%.2f\"];\n",
				n.ID(), target.ID(), n.ConnectionWeight(target))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// RenderText produces a per-neuron state listing on top of the network's
// own connection dump.
func RenderText(nw *network.Network) string {
	var b strings.Builder
	b.WriteString(nw.Visualize())

	b.WriteString("\nStates:\n")
	for _, n := range nw.Neurons() {
		fmt.Fprintf(&b, "%s [%s] state=%s threshold=%.2f potential=%.2f\n",
			n.ID(), n.Type(), n.State(), n.Threshold(), n.Potential())
	}
	return b.String()
}

// Render dispatches on the format.
func Render(nw *network.Network, format Format) (string, error) {
	switch format {
	case FormatDOT:
		return RenderDOT(nw), nil
	case FormatText:
		return RenderText(nw), nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: dot, text)", format)
	}
}
