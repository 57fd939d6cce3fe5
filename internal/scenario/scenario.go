// Package scenario loads declarative YAML network descriptions and
// builds live tiers from them. A scenario is build-time configuration,
// not a persistence format: it describes structure and stimuli, never
// runtime state.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TheFoxDecoder/o3/internal/gate"
	"github.com/TheFoxDecoder/o3/internal/network"
	"github.com/TheFoxDecoder/o3/internal/neuron"
	"github.com/TheFoxDecoder/o3/internal/signal"
)

// Scenario describes a network, its wiring, and the signals to inject.
type Scenario struct {
	// Name identifies the scenario; used as the network id.
	Name string `yaml:"name"`

	// Tier selects the network variant: BASIC (default), CONSCIOUS,
	// SUBCONSCIOUS, or UNCONSCIOUS.
	Tier string `yaml:"tier,omitempty"`

	// Attention configures the conscious tier; ignored otherwise.
	Attention *Attention `yaml:"attention,omitempty"`

	// Patterns configures the subconscious tier; ignored otherwise.
	Patterns []Pattern `yaml:"patterns,omitempty"`

	// Filters configures the unconscious tier; ignored otherwise.
	Filters []Filter `yaml:"filters,omitempty"`

	Neurons     []NeuronSpec     `yaml:"neurons"`
	Connections []ConnectionSpec `yaml:"connections,omitempty"`

	// Inputs and Outputs name the neurons registered to those tiers.
	Inputs  []string `yaml:"inputs,omitempty"`
	Outputs []string `yaml:"outputs,omitempty"`

	Injections []InjectionSpec `yaml:"injections,omitempty"`

	// Passes is the number of propagation passes to run; defaults to 1.
	Passes int `yaml:"passes,omitempty"`
}

// Attention configures the conscious tier's focus.
type Attention struct {
	Focus    string  `yaml:"focus"`
	Strength float64 `yaml:"strength,omitempty"`
}

// Pattern is one subconscious (pattern, response) rule.
type Pattern struct {
	Keys     []string `yaml:"keys"`
	Response []string `yaml:"response"`
}

// Filter is one unconscious (key, value) filter rule.
type Filter struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// NeuronSpec describes one neuron.
type NeuronSpec struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`

	// Threshold overrides the type default when set.
	Threshold *float64 `yaml:"threshold,omitempty"`

	Tags     []string          `yaml:"tags,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`

	// Gates lists gate kinds created on the neuron in order.
	Gates []string `yaml:"gates,omitempty"`
}

// ConnectionSpec describes one weighted edge.
type ConnectionSpec struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Weight float64 `yaml:"weight"`
}

// InjectionSpec describes one signal injected before the passes run. An
// empty target broadcasts to the input tier.
type InjectionSpec struct {
	Target   string            `yaml:"target,omitempty"`
	Strength float64           `yaml:"strength"`
	Payload  map[string]string `yaml:"payload,omitempty"`
	Tags     []string          `yaml:"tags,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return &s, nil
}

// Validate checks internal consistency: known types, kinds and tier,
// and every referenced neuron id declared.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Neurons) == 0 {
		return fmt.Errorf("at least one neuron is required")
	}
	if s.Passes < 0 {
		return fmt.Errorf("passes must be non-negative, got %d", s.Passes)
	}

	if s.Tier != "" {
		if _, err := network.ParseTierKind(s.Tier); err != nil {
			return err
		}
	}

	declared := make(map[string]bool, len(s.Neurons))
	for _, n := range s.Neurons {
		if n.ID == "" {
			return fmt.Errorf("neuron id is required")
		}
		if declared[n.ID] {
			return fmt.Errorf("duplicate neuron id %q", n.ID)
		}
		declared[n.ID] = true

		if _, err := neuron.ParseType(n.Type); err != nil {
			return fmt.Errorf("neuron %q: %w", n.ID, err)
		}
		if n.Threshold != nil && (*n.Threshold < 0 || *n.Threshold > 1) {
			return fmt.Errorf("neuron %q: threshold must be between 0 and 1, got %f", n.ID, *n.Threshold)
		}
		for _, kind := range n.Gates {
			if _, err := gate.ParseKind(kind); err != nil {
				return fmt.Errorf("neuron %q: %w", n.ID, err)
			}
		}
	}

	for _, c := range s.Connections {
		if !declared[c.From] {
			return fmt.Errorf("connection from unknown neuron %q", c.From)
		}
		if !declared[c.To] {
			return fmt.Errorf("connection to unknown neuron %q", c.To)
		}
	}
	for _, id := range s.Inputs {
		if !declared[id] {
			return fmt.Errorf("input references unknown neuron %q", id)
		}
	}
	for _, id := range s.Outputs {
		if !declared[id] {
			return fmt.Errorf("output references unknown neuron %q", id)
		}
	}
	for _, inj := range s.Injections {
		if inj.Target != "" && !declared[inj.Target] {
			return fmt.Errorf("injection targets unknown neuron %q", inj.Target)
		}
	}

	if s.Attention != nil && s.Attention.Focus != "" && !declared[s.Attention.Focus] {
		return fmt.Errorf("attention focus references unknown neuron %q", s.Attention.Focus)
	}

	return nil
}

// PassCount returns the number of passes to run, defaulting to 1.
func (s *Scenario) PassCount() int {
	if s.Passes == 0 {
		return 1
	}
	return s.Passes
}

// Build constructs the live tier the scenario describes and applies its
// injections. The caller runs the passes.
func (s *Scenario) Build() (network.Tier, error) {
	kind := network.BASIC
	if s.Tier != "" {
		k, err := network.ParseTierKind(s.Tier)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	tier, err := network.NewTier(kind, s.Name)
	if err != nil {
		return nil, err
	}
	nw := tier.Graph()

	for _, spec := range s.Neurons {
		typ, err := neuron.ParseType(spec.Type)
		if err != nil {
			return nil, fmt.Errorf("neuron %q: %w", spec.ID, err)
		}
		n := nw.CreateNeuron(spec.ID, typ)
		if spec.Threshold != nil {
			n.SetThreshold(*spec.Threshold)
		}
		for _, tag := range spec.Tags {
			n.AddTag(tag)
		}
		for key, value := range spec.Metadata {
			n.SetMetadata(key, value)
		}
		for _, gateKind := range spec.Gates {
			kind, err := gate.ParseKind(gateKind)
			if err != nil {
				return nil, fmt.Errorf("neuron %q: %w", spec.ID, err)
			}
			if _, err := n.CreateGate(kind); err != nil {
				return nil, fmt.Errorf("neuron %q: %w", spec.ID, err)
			}
		}
	}

	for _, c := range s.Connections {
		if _, err := nw.ConnectNeurons(c.From, c.To, c.Weight); err != nil {
			return nil, err
		}
	}

	for _, id := range s.Inputs {
		n, _ := nw.GetNeuron(id)
		nw.AddInputNeuron(n)
	}
	for _, id := range s.Outputs {
		n, _ := nw.GetNeuron(id)
		nw.AddOutputNeuron(n)
	}

	switch v := tier.(type) {
	case *network.Conscious:
		if s.Attention != nil {
			v.SetAttentionFocus(s.Attention.Focus)
			if s.Attention.Strength != 0 {
				v.SetAttentionStrength(s.Attention.Strength)
			}
		}
	case *network.Subconscious:
		for _, p := range s.Patterns {
			v.AddPattern(p.Keys, p.Response)
		}
	case *network.Unconscious:
		for _, f := range s.Filters {
			v.AddFilterRule(f.Key, f.Value)
		}
	}

	for _, inj := range s.Injections {
		sig := signal.New(signal.Excitatory, inj.Strength)
		for key, value := range inj.Payload {
			sig.SetData(key, value)
		}
		for _, tag := range inj.Tags {
			sig.AddTag(tag)
		}
		if _, err := nw.InjectSignal(sig, inj.Target); err != nil {
			return nil, err
		}
	}

	return tier, nil
}
