// Package network owns a graph of neurons and orchestrates propagation
// passes over it. A Network is the single ownership point for its
// neurons: creation, registration, connectivity by id, signal injection,
// and teardown all go through it. Tier variants with specialized pre-pass
// behavior live in tiers.go.
package network

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/TheFoxDecoder/o3/internal/neuron"
	"github.com/TheFoxDecoder/o3/internal/signal"
	"github.com/TheFoxDecoder/o3/internal/stats"
)

var (
	// ErrNotFound is returned when an id does not resolve to a neuron.
	ErrNotFound = errors.New("neuron not found")
	// ErrDuplicateID is returned by AddNeuron for an id already registered.
	ErrDuplicateID = errors.New("duplicate neuron id")
	// ErrNilNeuron is returned when a nil neuron is registered.
	ErrNilNeuron = errors.New("nil neuron")
)

// Network is a mutable graph of neurons with input and output membership
// views. The mutex guards the membership collections only; neuron
// internals follow the single-driver model, so a propagation pass must
// not run concurrently with itself (the processing flag rejects
// re-entrant passes, it is not a lock).
type Network struct {
	id string

	mu      sync.Mutex
	neurons map[string]*neuron.Neuron
	inputs  []*neuron.Neuron
	outputs []*neuron.Neuron

	processing atomic.Bool
	callbacks  []func(*Network)

	tracker  *stats.Tracker
	maxDepth int
	logger   *slog.Logger
}

// New creates an empty network.
func New(id string) *Network {
	return &Network{
		id:       id,
		neurons:  make(map[string]*neuron.Neuron),
		maxDepth: neuron.DefaultMaxCascadeDepth,
		logger:   slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
}

// ID returns the network id.
func (nw *Network) ID() string { return nw.id }

// SetLogger installs a logger for pass-level events.
func (nw *Network) SetLogger(l *slog.Logger) {
	if l != nil {
		nw.logger = l
	}
}

// SetTracker installs a stats tracker on the network and every neuron it
// currently owns; neurons created or added later inherit it.
func (nw *Network) SetTracker(t *stats.Tracker) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	nw.tracker = t
	for _, n := range nw.neurons {
		n.SetTracker(t)
	}
}

// SetMaxCascadeDepth sets the firing-cascade depth bound on the network
// and every neuron it currently owns; later neurons inherit it.
func (nw *Network) SetMaxCascadeDepth(d int) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	nw.maxDepth = d
	for _, n := range nw.neurons {
		n.SetMaxCascadeDepth(d)
	}
}

// CreateNeuron creates and registers a neuron. If the id is already
// taken the existing neuron is returned unchanged.
func (nw *Network) CreateNeuron(id string, typ neuron.Type) *neuron.Neuron {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	if existing, ok := nw.neurons[id]; ok {
		return existing
	}

	n := neuron.New(id, typ)
	nw.adopt(n)
	return n
}

// AddNeuron registers an externally constructed neuron.
func (nw *Network) AddNeuron(n *neuron.Neuron) error {
	if n == nil {
		return ErrNilNeuron
	}

	nw.mu.Lock()
	defer nw.mu.Unlock()

	if _, ok := nw.neurons[n.ID()]; ok {
		return fmt.Errorf("add neuron %q: %w", n.ID(), ErrDuplicateID)
	}
	nw.adopt(n)
	return nil
}

// adopt registers the neuron and propagates network-level settings.
// Caller holds the mutex.
func (nw *Network) adopt(n *neuron.Neuron) {
	n.SetTracker(nw.tracker)
	n.SetMaxCascadeDepth(nw.maxDepth)
	nw.neurons[n.ID()] = n
}

// GetNeuron looks up a neuron by id.
func (nw *Network) GetNeuron(id string) (*neuron.Neuron, bool) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	n, ok := nw.neurons[id]
	return n, ok
}

// RemoveNeuron severs the neuron's connections in both directions, drops
// it from the input/output views, and releases ownership.
func (nw *Network) RemoveNeuron(id string) error {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	n, ok := nw.neurons[id]
	if !ok {
		return fmt.Errorf("remove neuron %q: %w", id, ErrNotFound)
	}

	n.Detach()
	nw.inputs = withoutNeuron(nw.inputs, n)
	nw.outputs = withoutNeuron(nw.outputs, n)
	delete(nw.neurons, id)
	return nil
}

func withoutNeuron(list []*neuron.Neuron, n *neuron.Neuron) []*neuron.Neuron {
	out := list[:0]
	for _, m := range list {
		if m != n {
			out = append(out, m)
		}
	}
	return out
}

// ConnectNeurons creates or re-weights the edge source→target.
func (nw *Network) ConnectNeurons(sourceID, targetID string, weight float64) (updated bool, err error) {
	source, ok := nw.GetNeuron(sourceID)
	if !ok {
		return false, fmt.Errorf("connect %q -> %q: source: %w", sourceID, targetID, ErrNotFound)
	}
	target, ok := nw.GetNeuron(targetID)
	if !ok {
		return false, fmt.Errorf("connect %q -> %q: target: %w", sourceID, targetID, ErrNotFound)
	}
	return source.ConnectTo(target, weight)
}

// DisconnectNeurons removes the edge source→target.
func (nw *Network) DisconnectNeurons(sourceID, targetID string) error {
	source, ok := nw.GetNeuron(sourceID)
	if !ok {
		return fmt.Errorf("disconnect %q -> %q: source: %w", sourceID, targetID, ErrNotFound)
	}
	target, ok := nw.GetNeuron(targetID)
	if !ok {
		return fmt.Errorf("disconnect %q -> %q: target: %w", sourceID, targetID, ErrNotFound)
	}
	return source.DisconnectFrom(target)
}

// Neurons returns every neuron, sorted by id for deterministic
// iteration.
func (nw *Network) Neurons() []*neuron.Neuron {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	return nw.sortedNeurons()
}

// sortedNeurons snapshots the table ordered by id. Caller holds the
// mutex.
func (nw *Network) sortedNeurons() []*neuron.Neuron {
	ids := make([]string, 0, len(nw.neurons))
	for id := range nw.neurons {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*neuron.Neuron, len(ids))
	for i, id := range ids {
		out[i] = nw.neurons[id]
	}
	return out
}

// NeuronsByType returns every neuron of the given type, sorted by id.
func (nw *Network) NeuronsByType(typ neuron.Type) []*neuron.Neuron {
	var out []*neuron.Neuron
	for _, n := range nw.Neurons() {
		if n.Type() == typ {
			out = append(out, n)
		}
	}
	return out
}

// NeuronsByTag returns every neuron carrying the tag, sorted by id.
func (nw *Network) NeuronsByTag(tag string) []*neuron.Neuron {
	var out []*neuron.Neuron
	for _, n := range nw.Neurons() {
		if n.HasTag(tag) {
			out = append(out, n)
		}
	}
	return out
}

// AddInputNeuron marks the neuron as part of the input tier, registering
// it with the network first if needed. Idempotent.
func (nw *Network) AddInputNeuron(n *neuron.Neuron) {
	if n == nil {
		return
	}
	nw.mu.Lock()
	defer nw.mu.Unlock()

	for _, m := range nw.inputs {
		if m == n {
			return
		}
	}
	if _, ok := nw.neurons[n.ID()]; !ok {
		nw.adopt(n)
	}
	nw.inputs = append(nw.inputs, n)
}

// AddOutputNeuron marks the neuron as part of the output tier,
// registering it with the network first if needed. Idempotent.
func (nw *Network) AddOutputNeuron(n *neuron.Neuron) {
	if n == nil {
		return
	}
	nw.mu.Lock()
	defer nw.mu.Unlock()

	for _, m := range nw.outputs {
		if m == n {
			return
		}
	}
	if _, ok := nw.neurons[n.ID()]; !ok {
		nw.adopt(n)
	}
	nw.outputs = append(nw.outputs, n)
}

// InputNeurons returns the input tier in registration order.
func (nw *Network) InputNeurons() []*neuron.Neuron {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	return append([]*neuron.Neuron(nil), nw.inputs...)
}

// OutputNeurons returns the output tier in registration order.
func (nw *Network) OutputNeurons() []*neuron.Neuron {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	return append([]*neuron.Neuron(nil), nw.outputs...)
}

// InjectSignal delivers a signal into the network, buffering it for the
// next propagation pass. A non-empty targetID buffers into that neuron;
// an empty targetID broadcasts to the input tier. It reports whether the
// signal was buffered anywhere.
func (nw *Network) InjectSignal(sig *signal.Signal, targetID string) (bool, error) {
	if sig == nil {
		return false, nil
	}

	if targetID != "" {
		target, ok := nw.GetNeuron(targetID)
		if !ok {
			return false, fmt.Errorf("inject into %q: %w", targetID, ErrNotFound)
		}
		target.Enqueue(sig)
		return true, nil
	}

	inputs := nw.InputNeurons()
	for _, n := range inputs {
		n.Enqueue(sig)
	}
	return len(inputs) > 0, nil
}

// ProcessSignals runs one propagation pass: input tier in registration
// order, then interior neurons, then the output tier, then post-pass
// callbacks in registration order. A pass started while another is
// running is a no-op.
func (nw *Network) ProcessSignals() {
	if !nw.processing.CompareAndSwap(false, true) {
		return
	}
	defer nw.processing.Store(false)

	nw.mu.Lock()
	inputs := append([]*neuron.Neuron(nil), nw.inputs...)
	outputs := append([]*neuron.Neuron(nil), nw.outputs...)
	all := nw.sortedNeurons()
	nw.mu.Unlock()

	edge := make(map[*neuron.Neuron]bool, len(inputs)+len(outputs))
	for _, n := range inputs {
		edge[n] = true
	}
	for _, n := range outputs {
		edge[n] = true
	}

	for _, n := range inputs {
		n.ProcessSignals()
	}
	for _, n := range all {
		if !edge[n] {
			n.ProcessSignals()
		}
	}
	for _, n := range outputs {
		n.ProcessSignals()
	}

	nw.logger.Debug("propagation pass complete",
		slog.String("network", nw.id),
		slog.Int("neurons", len(all)))

	for _, cb := range nw.callbacks {
		cb(nw)
	}
}

// OnProcess registers a callback invoked after every propagation pass.
// Nil callbacks are ignored.
func (nw *Network) OnProcess(fn func(*Network)) {
	if fn == nil {
		return
	}
	nw.mu.Lock()
	defer nw.mu.Unlock()
	nw.callbacks = append(nw.callbacks, fn)
}

// IsProcessing reports whether a propagation pass is running.
func (nw *Network) IsProcessing() bool { return nw.processing.Load() }

// Reset returns every neuron to the resting state. Potentials and
// buffers are untouched; use the neuron's own Reset for a full clear.
func (nw *Network) Reset() {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	for _, n := range nw.neurons {
		n.SetState(neuron.Resting)
	}
}

// Close tears down every connection and releases ownership of all
// neurons. The network is empty but usable afterwards.
func (nw *Network) Close() {
	nw.processing.Store(false)

	nw.mu.Lock()
	defer nw.mu.Unlock()
	for _, n := range nw.neurons {
		n.Detach()
	}
	nw.neurons = make(map[string]*neuron.Neuron)
	nw.inputs = nil
	nw.outputs = nil
}

// NeuronCount returns the number of owned neurons.
func (nw *Network) NeuronCount() int {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	return len(nw.neurons)
}

// ConnectionCount returns the total number of directed edges.
func (nw *Network) ConnectionCount() int {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	count := 0
	for _, n := range nw.neurons {
		count += len(n.Outputs())
	}
	return count
}

// Visualize renders a human-readable dump of the graph. Debug output,
// not a stable serialization format.
func (nw *Network) Visualize() string {
	nw.mu.Lock()
	all := nw.sortedNeurons()
	inputs := append([]*neuron.Neuron(nil), nw.inputs...)
	outputs := append([]*neuron.Neuron(nil), nw.outputs...)
	nw.mu.Unlock()

	connections := 0
	for _, n := range all {
		connections += len(n.Outputs())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Network: %s\n", nw.id)
	fmt.Fprintf(&b, "Neurons: %d\n", len(all))
	fmt.Fprintf(&b, "Connections: %d\n", connections)

	b.WriteString("\nInput Neurons: ")
	for _, n := range inputs {
		b.WriteString(n.ID())
		b.WriteString(" ")
	}
	b.WriteString("\nOutput Neurons: ")
	for _, n := range outputs {
		b.WriteString(n.ID())
		b.WriteString(" ")
	}

	b.WriteString("\n\nConnections:\n")
	for _, n := range all {
		targets := n.Outputs()
		if len(targets) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s -> ", n.ID())
		for _, target := range targets {
			fmt.Fprintf(&b, "%s(%g) ", target.ID(), n.ConnectionWeight(target))
		}
		b.WriteString("\n")
	}

	return b.String()
}
