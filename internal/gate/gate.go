// Package gate implements the signal transformers a neuron routes its
// inbound signals through before accumulating potential. Each gate kind is
// a small combinational rule over input strengths; gates are stateless
// apart from their adaptable threshold.
package gate

import (
	"fmt"
	"strconv"

	"github.com/TheFoxDecoder/o3/internal/signal"
)

// Kind identifies a gate variant.
type Kind string

const (
	AND       Kind = "AND"
	OR        Kind = "OR"
	NOT       Kind = "NOT"
	XOR       Kind = "XOR"
	THRESHOLD Kind = "THRESHOLD"
	MODULATOR Kind = "MODULATOR"
	CUSTOM    Kind = "CUSTOM"
)

const (
	defaultThreshold      = 0.5
	defaultAdaptationRate = 0.1

	// Adapt never pushes the threshold outside this band, regardless of
	// the SetThreshold clamp.
	adaptFloor   = 0.1
	adaptCeiling = 0.9
)

// Gate transforms a batch of input signals into at most one output signal.
// A nil return means the gate did not activate. Inactive gates are treated
// as absent by the neuron's routing.
type Gate interface {
	ID() string
	Kind() Kind
	Threshold() float64
	SetThreshold(float64)
	Active() bool
	SetActive(bool)
	// Adapt nudges the threshold: down on success (more permissive, floor
	// 0.1), up on failure (more restrictive, ceiling 0.9).
	Adapt(success bool)
	Process(inputs []*signal.Signal) *signal.Signal
}

// base carries the state shared by every gate kind.
type base struct {
	id             string
	kind           Kind
	threshold      float64
	active         bool
	adaptationRate float64
}

func newBase(id string, kind Kind) base {
	return base{
		id:             id,
		kind:           kind,
		threshold:      defaultThreshold,
		active:         true,
		adaptationRate: defaultAdaptationRate,
	}
}

func (b *base) ID() string         { return b.id }
func (b *base) Kind() Kind         { return b.kind }
func (b *base) Threshold() float64 { return b.threshold }
func (b *base) Active() bool       { return b.active }
func (b *base) SetActive(v bool)   { b.active = v }

func (b *base) SetThreshold(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	b.threshold = v
}

func (b *base) Adapt(success bool) {
	if success {
		b.threshold -= b.adaptationRate
		if b.threshold < adaptFloor {
			b.threshold = adaptFloor
		}
		return
	}
	b.threshold += b.adaptationRate
	if b.threshold > adaptCeiling {
		b.threshold = adaptCeiling
	}
}

// stamp marks an emission with the gate that produced it.
func (b *base) stamp(out *signal.Signal) *signal.Signal {
	out.SetData("gate_id", b.id)
	out.SetData("gate_type", string(b.kind))
	out.AddTag("gate_processed")
	return out
}

// Processor is the transformation function injected into a CUSTOM gate.
type Processor func(inputs []*signal.Signal) *signal.Signal

// registry maps gate kinds to constructors (tagged-variant dispatch
// instead of a type switch).
var registry = map[Kind]func(id string) Gate{
	AND:       func(id string) Gate { return &andGate{newBase(id, AND)} },
	OR:        func(id string) Gate { return &orGate{newBase(id, OR)} },
	NOT:       func(id string) Gate { return &notGate{newBase(id, NOT)} },
	XOR:       func(id string) Gate { return &xorGate{newBase(id, XOR)} },
	THRESHOLD: func(id string) Gate { return &thresholdGate{newBase(id, THRESHOLD)} },
	MODULATOR: func(id string) Gate { return NewModulator(id, 1.0) },
	CUSTOM: func(id string) Gate {
		// Default custom gate passes the first input through.
		return NewCustom(id, func(inputs []*signal.Signal) *signal.Signal {
			if len(inputs) == 0 || inputs[0] == nil {
				return nil
			}
			return inputs[0].Derive()
		})
	},
}

// New creates a gate of the given kind.
func New(kind Kind, id string) (Gate, error) {
	ctor, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("gate: unknown kind %q", kind)
	}
	return ctor(id), nil
}

// ParseKind maps a kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := registry[k]; !ok {
		return "", fmt.Errorf("gate: unknown kind %q", s)
	}
	return k, nil
}

// Modulator scales its input strength by a configurable factor.
type Modulator struct {
	base
	factor float64
}

// NewModulator creates a MODULATOR gate with the given scaling factor.
func NewModulator(id string, factor float64) *Modulator {
	return &Modulator{base: newBase(id, MODULATOR), factor: factor}
}

// Factor returns the scaling factor.
func (g *Modulator) Factor() float64 { return g.factor }

// SetFactor sets the scaling factor.
func (g *Modulator) SetFactor(f float64) { g.factor = f }

// Process scales the first input's strength by the factor, clamped to [0,1].
func (g *Modulator) Process(inputs []*signal.Signal) *signal.Signal {
	if len(inputs) == 0 || inputs[0] == nil {
		return nil
	}
	out := inputs[0].DeriveStrength(inputs[0].Strength() * g.factor)
	out.SetData("modulation_factor", strconv.FormatFloat(g.factor, 'g', -1, 64))
	return g.stamp(out)
}

// Custom delegates processing to an injected function.
type Custom struct {
	base
	processor Processor
}

// NewCustom creates a CUSTOM gate with the given processor.
func NewCustom(id string, processor Processor) *Custom {
	return &Custom{base: newBase(id, CUSTOM), processor: processor}
}

// SetProcessor replaces the transformation function.
func (g *Custom) SetProcessor(p Processor) { g.processor = p }

// Process applies the injected function; non-nil results are stamped like
// any other gate emission.
func (g *Custom) Process(inputs []*signal.Signal) *signal.Signal {
	if g.processor == nil {
		return nil
	}
	out := g.processor(inputs)
	if out == nil {
		return nil
	}
	return g.stamp(out)
}
