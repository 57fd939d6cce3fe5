// Package neuron implements the graph vertex of the simulation: a state
// machine with an activation threshold, a potential accumulator, owned
// outgoing weighted edges, an ordered gate list, and signal buffers.
//
// The package is single-threaded by design: nothing here locks a neuron's
// state, and concurrent delivery to the same neuron from multiple
// goroutines is not supported. Membership-level locking is the network's
// concern.
package neuron

import (
	"errors"
	"fmt"

	"github.com/TheFoxDecoder/o3/internal/event"
	"github.com/TheFoxDecoder/o3/internal/gate"
	"github.com/TheFoxDecoder/o3/internal/signal"
	"github.com/TheFoxDecoder/o3/internal/stats"
)

// Type specializes a neuron and selects its default threshold.
type Type int

const (
	Sensory Type = iota
	Processing
	Memory
	Integration
	Association
	Output
	Regulatory
)

// String returns the type name, which is also the tag added at
// construction.
func (t Type) String() string {
	switch t {
	case Sensory:
		return "sensory"
	case Memory:
		return "memory"
	case Integration:
		return "integration"
	case Association:
		return "association"
	case Output:
		return "output"
	case Regulatory:
		return "regulatory"
	default:
		return "processing"
	}
}

// ParseType maps a type name to a Type.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{Sensory, Processing, Memory, Integration, Association, Output, Regulatory} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("neuron: unknown type %q", s)
}

func (t Type) defaultThreshold() float64 {
	switch t {
	case Sensory:
		return 0.3
	case Memory:
		return 0.7
	case Regulatory:
		return 0.4
	default:
		return 0.5
	}
}

// State is a neuron's activation state.
type State int

const (
	Resting State = iota
	Active
	Refractory
	Inhibited
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Refractory:
		return "refractory"
	case Inhibited:
		return "inhibited"
	default:
		return "resting"
	}
}

// StateChange is published on every state transition.
type StateChange struct {
	Neuron *Neuron
	From   State
	To     State
}

// DefaultMaxCascadeDepth bounds how many hops a single firing cascade may
// travel. Deliveries beyond the bound are dropped, which guarantees
// termination on cyclic graphs with sustained gain.
const DefaultMaxCascadeDepth = 100

var (
	// ErrNilTarget is returned when connecting or disconnecting a nil neuron.
	ErrNilTarget = errors.New("neuron: nil target")
	// ErrSelfConnection is returned for attempted self-edges.
	ErrSelfConnection = errors.New("neuron: cannot connect to self")
	// ErrNotConnected is returned when no edge to the target exists.
	ErrNotConnected = errors.New("neuron: not connected")
)

type edge struct {
	target *Neuron
	weight float64
}

// Neuron is a single graph vertex. Create one with New; the zero value is
// not usable.
type Neuron struct {
	id        string
	typ       Type
	state     State
	threshold float64
	potential float64

	pending []*signal.Signal // inbound, cleared by every processing pass
	output  []*signal.Signal // processed signals; append-only across passes

	// Outgoing edges keyed by target id, with insertion order retained for
	// reproducible dispatch. Ids are assumed unique within a graph.
	edges     map[string]*edge
	edgeOrder []string

	// Non-owning back-references to upstream neurons, maintained in
	// lock-step with every connect/disconnect.
	upstream      map[string]*Neuron
	upstreamOrder []string

	gates    []gate.Gate
	tags     []string
	metadata map[string]string

	fireEvents  event.Stream[*Neuron]
	stateEvents event.Stream[StateChange]

	maxCascadeDepth int
	tracker         *stats.Tracker
}

// New creates a neuron of the given type. The type selects the default
// threshold (sensory 0.3, memory 0.7, regulatory 0.4, others 0.5) and is
// added as a tag.
func New(id string, typ Type) *Neuron {
	n := &Neuron{
		id:              id,
		typ:             typ,
		state:           Resting,
		threshold:       typ.defaultThreshold(),
		edges:           make(map[string]*edge),
		upstream:        make(map[string]*Neuron),
		metadata:        make(map[string]string),
		maxCascadeDepth: DefaultMaxCascadeDepth,
	}
	n.AddTag(typ.String())
	return n
}

// ID returns the neuron id.
func (n *Neuron) ID() string { return n.id }

// Type returns the neuron type.
func (n *Neuron) Type() Type { return n.typ }

// State returns the current activation state.
func (n *Neuron) State() State { return n.state }

// SetState transitions the neuron and publishes the change to state
// observers, even when the state is unchanged.
func (n *Neuron) SetState(st State) {
	old := n.state
	n.state = st
	n.stateEvents.Publish(StateChange{Neuron: n, From: old, To: st})
}

// Threshold returns the activation threshold.
func (n *Neuron) Threshold() float64 { return n.threshold }

// SetThreshold sets the activation threshold, clamped to [0,1].
func (n *Neuron) SetThreshold(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	n.threshold = v
}

// Potential returns the accumulated activation potential in [0,1].
func (n *Neuron) Potential() float64 { return n.potential }

// SetMaxCascadeDepth sets the firing-cascade depth bound. Values < 1
// restore the default.
func (n *Neuron) SetMaxCascadeDepth(d int) {
	if d < 1 {
		d = DefaultMaxCascadeDepth
	}
	n.maxCascadeDepth = d
}

// SetTracker wires a statistics tracker. A nil tracker disables counting.
func (n *Neuron) SetTracker(t *stats.Tracker) { n.tracker = t }

// AddTag adds a categorization tag; duplicates are ignored.
func (n *Neuron) AddTag(tag string) {
	for _, t := range n.tags {
		if t == tag {
			return
		}
	}
	n.tags = append(n.tags, tag)
}

// HasTag reports whether the neuron carries tag.
func (n *Neuron) HasTag(tag string) bool {
	for _, t := range n.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns the tags in first-added order.
func (n *Neuron) Tags() []string {
	out := make([]string, len(n.tags))
	copy(out, n.tags)
	return out
}

// SetMetadata stores a metadata value.
func (n *Neuron) SetMetadata(key, value string) { n.metadata[key] = value }

// Metadata returns the metadata value for key, or "" if absent.
func (n *Neuron) Metadata(key string) string { return n.metadata[key] }

// HasMetadata reports whether the metadata key exists.
func (n *Neuron) HasMetadata(key string) bool {
	_, ok := n.metadata[key]
	return ok
}

// CreateGate creates a gate of the given kind, appends it to the neuron's
// gate list, and returns it. Gate ids follow the pattern <id>_gate_<n>.
func (n *Neuron) CreateGate(kind gate.Kind) (gate.Gate, error) {
	g, err := gate.New(kind, fmt.Sprintf("%s_gate_%d", n.id, len(n.gates)))
	if err != nil {
		return nil, err
	}
	n.gates = append(n.gates, g)
	return g, nil
}

// AddGate appends an externally constructed gate (for CUSTOM processors
// or preconfigured modulators).
func (n *Neuron) AddGate(g gate.Gate) {
	if g != nil {
		n.gates = append(n.gates, g)
	}
}

// Gates returns the gate list in creation order.
func (n *Neuron) Gates() []gate.Gate {
	out := make([]gate.Gate, len(n.gates))
	copy(out, n.gates)
	return out
}

// OnFire registers fn to run after this neuron fires. It returns a token
// for OffFire.
func (n *Neuron) OnFire(fn func(*Neuron)) int { return n.fireEvents.Subscribe(fn) }

// OffFire removes a fire observer.
func (n *Neuron) OffFire(id int) bool { return n.fireEvents.Unsubscribe(id) }

// OnStateChange registers fn to run on every state transition. It returns
// a token for OffStateChange.
func (n *Neuron) OnStateChange(fn func(StateChange)) int { return n.stateEvents.Subscribe(fn) }

// OffStateChange removes a state observer.
func (n *Neuron) OffStateChange(id int) bool { return n.stateEvents.Unsubscribe(id) }

// ConnectTo creates a weighted edge to target, or updates the weight if
// the edge already exists (updated=true). The target's upstream list gains
// a back-reference in the same step. Self-edges and nil targets are
// rejected. Weights are deliberately unconstrained: values outside [0,1],
// including negative weights, are accepted as-is.
func (n *Neuron) ConnectTo(target *Neuron, weight float64) (updated bool, err error) {
	if target == nil {
		return false, ErrNilTarget
	}
	if target == n {
		return false, ErrSelfConnection
	}

	if e, ok := n.edges[target.id]; ok {
		e.weight = weight
		return true, nil
	}

	n.edges[target.id] = &edge{target: target, weight: weight}
	n.edgeOrder = append(n.edgeOrder, target.id)
	if _, ok := target.upstream[n.id]; !ok {
		target.upstream[n.id] = n
		target.upstreamOrder = append(target.upstreamOrder, n.id)
	}
	return false, nil
}

// DisconnectFrom removes the edge to target and the target's
// back-reference symmetrically.
func (n *Neuron) DisconnectFrom(target *Neuron) error {
	if target == nil {
		return ErrNilTarget
	}
	if _, ok := n.edges[target.id]; !ok {
		return ErrNotConnected
	}

	delete(n.edges, target.id)
	n.edgeOrder = removeString(n.edgeOrder, target.id)

	delete(target.upstream, n.id)
	target.upstreamOrder = removeString(target.upstreamOrder, n.id)
	return nil
}

// ConnectionWeight returns the weight of the edge to target, or 0 if none
// exists.
func (n *Neuron) ConnectionWeight(target *Neuron) float64 {
	if target == nil {
		return 0
	}
	if e, ok := n.edges[target.id]; ok {
		return e.weight
	}
	return 0
}

// SetConnectionWeight updates the weight of an existing edge.
func (n *Neuron) SetConnectionWeight(target *Neuron, weight float64) error {
	if target == nil {
		return ErrNilTarget
	}
	e, ok := n.edges[target.id]
	if !ok {
		return ErrNotConnected
	}
	e.weight = weight
	return nil
}

// Outputs returns the downstream neurons in connection order.
func (n *Neuron) Outputs() []*Neuron {
	out := make([]*Neuron, 0, len(n.edgeOrder))
	for _, id := range n.edgeOrder {
		out = append(out, n.edges[id].target)
	}
	return out
}

// Inputs returns the upstream neurons in connection order.
func (n *Neuron) Inputs() []*Neuron {
	out := make([]*Neuron, 0, len(n.upstreamOrder))
	for _, id := range n.upstreamOrder {
		out = append(out, n.upstream[id])
	}
	return out
}

// Detach severs every outgoing and incoming edge. Networks call this
// before dropping a neuron so that no peer retains a stale reference.
func (n *Neuron) Detach() {
	for _, t := range n.Outputs() {
		_ = n.DisconnectFrom(t)
	}
	for _, u := range n.Inputs() {
		_ = u.DisconnectFrom(n)
	}
}

// PendingCount returns the number of buffered, not yet processed signals.
func (n *Neuron) PendingCount() int { return len(n.pending) }

// OutputSignals returns a copy of the processed-signal buffer. The buffer
// is append-only across processing passes; only Reset clears it.
func (n *Neuron) OutputSignals() []*signal.Signal {
	out := make([]*signal.Signal, len(n.output))
	copy(out, n.output)
	return out
}

// Reset returns the neuron to its resting state and clears potential and
// both signal buffers. Connections, gates, tags, and metadata survive.
func (n *Neuron) Reset() {
	n.potential = 0
	n.SetState(Resting)
	n.pending = nil
	n.output = nil
}

func removeString(s []string, v string) []string {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
