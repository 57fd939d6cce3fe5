package network

import (
	"fmt"

	"github.com/TheFoxDecoder/o3/internal/signal"
)

// TierKind selects one of the specialized network behaviors.
type TierKind string

const (
	BASIC        TierKind = "BASIC"
	CONSCIOUS    TierKind = "CONSCIOUS"
	SUBCONSCIOUS TierKind = "SUBCONSCIOUS"
	UNCONSCIOUS  TierKind = "UNCONSCIOUS"
)

// Tier is a network with possibly specialized pre-pass behavior. All
// variants expose the underlying graph for construction and inspection.
type Tier interface {
	Graph() *Network
	ProcessSignals()
}

// NewTier constructs a tier of the given kind.
func NewTier(kind TierKind, id string) (Tier, error) {
	switch kind {
	case BASIC:
		return New(id), nil
	case CONSCIOUS:
		return NewConscious(id), nil
	case SUBCONSCIOUS:
		return NewSubconscious(id), nil
	case UNCONSCIOUS:
		return NewUnconscious(id), nil
	default:
		return nil, fmt.Errorf("unknown tier kind %q", kind)
	}
}

// ParseTierKind resolves a case-sensitive tier kind name.
func ParseTierKind(s string) (TierKind, error) {
	switch TierKind(s) {
	case BASIC, CONSCIOUS, SUBCONSCIOUS, UNCONSCIOUS:
		return TierKind(s), nil
	default:
		return "", fmt.Errorf("unknown tier kind %q", s)
	}
}

// Graph lets a plain Network satisfy Tier.
func (nw *Network) Graph() *Network { return nw }

// Conscious is a network with an attention mechanism: before each pass,
// a focused neuron receives a synthesized attention signal at the
// configured strength.
type Conscious struct {
	*Network
	focus             string
	attentionStrength float64
}

// NewConscious creates a conscious tier with attention strength 0.5.
func NewConscious(id string) *Conscious {
	return &Conscious{Network: New(id), attentionStrength: 0.5}
}

// SetAttentionFocus directs attention at the given neuron id. An empty
// id clears the focus.
func (c *Conscious) SetAttentionFocus(neuronID string) { c.focus = neuronID }

// AttentionFocus returns the focused neuron id.
func (c *Conscious) AttentionFocus() string { return c.focus }

// SetAttentionStrength sets the strength of synthesized attention
// signals.
func (c *Conscious) SetAttentionStrength(s float64) { c.attentionStrength = s }

// AttentionStrength returns the attention signal strength.
func (c *Conscious) AttentionStrength() float64 { return c.attentionStrength }

// ProcessSignals delivers an attention signal to the focused neuron, if
// one is set and live, then runs the base pass. Delivery is immediate:
// the focused neuron processes the attention signal on its own before any
// pass deliveries reach it, so attention and cascade input accumulate
// sequentially rather than being averaged together.
func (c *Conscious) ProcessSignals() {
	if c.IsProcessing() {
		return
	}

	if c.focus != "" {
		if focused, ok := c.GetNeuron(c.focus); ok {
			att := signal.NewWithID("attention_signal", signal.Excitatory, c.attentionStrength)
			att.SetData("type", "attention")
			att.SetData("source", "conscious_control")
			focused.ReceiveSignal(att)
		}
	}

	c.Network.ProcessSignals()
}

// patternRule pairs a set of pattern keys with the response values
// emitted when the pattern matches.
type patternRule struct {
	pattern  []string
	response []string
}

// Subconscious is a network with pattern-triggered responses: before
// each pass, every matching rule buffers a response signal into each
// output-tier neuron.
type Subconscious struct {
	*Network
	rules []patternRule
}

// NewSubconscious creates a subconscious tier with no rules.
func NewSubconscious(id string) *Subconscious {
	return &Subconscious{Network: New(id)}
}

// AddPattern appends a (pattern, response) rule. Rules are evaluated in
// registration order.
func (s *Subconscious) AddPattern(pattern, response []string) {
	s.rules = append(s.rules, patternRule{
		pattern:  append([]string(nil), pattern...),
		response: append([]string(nil), response...),
	})
}

// ProcessSignals evaluates the pattern rules, buffers responses for the
// matches, then runs the base pass.
func (s *Subconscious) ProcessSignals() {
	if s.IsProcessing() {
		return
	}

	for _, rule := range s.rules {
		if s.matchesPattern(rule.pattern) {
			s.generateResponse(rule.response)
		}
	}

	s.Network.ProcessSignals()
}

// matchesPattern reports whether every pattern key is present as a tag
// or metadata key on at least one neuron anywhere in the network.
func (s *Subconscious) matchesPattern(pattern []string) bool {
	neurons := s.Neurons()
	for _, key := range pattern {
		found := false
		for _, n := range neurons {
			if n.HasMetadata(key) || n.HasTag(key) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// generateResponse buffers one response signal per output-tier neuron,
// carrying the response values under indexed keys.
func (s *Subconscious) generateResponse(response []string) {
	for _, out := range s.OutputNeurons() {
		sig := signal.NewWithID("response_signal", signal.Excitatory, 0.8)
		for i, value := range response {
			sig.SetData(fmt.Sprintf("response_%d", i), value)
		}
		out.Enqueue(sig)
	}
}

// filterRule is one (key, value) pair a signal payload can match.
type filterRule struct {
	key   string
	value string
}

// Unconscious is a network that declares payload filter rules. The
// PassesFilters predicate is exposed for callers; the pass itself does
// not apply it.
type Unconscious struct {
	*Network
	rules []filterRule
}

// NewUnconscious creates an unconscious tier with no filter rules.
func NewUnconscious(id string) *Unconscious {
	return &Unconscious{Network: New(id)}
}

// AddFilterRule appends a (key, value) filter rule.
func (u *Unconscious) AddFilterRule(key, value string) {
	u.rules = append(u.rules, filterRule{key: key, value: value})
}

// PassesFilters reports whether the signal clears the filter rules: true
// when no rules are declared, or when any rule's key is present in the
// payload with the rule's value. Nil signals never pass.
func (u *Unconscious) PassesFilters(sig *signal.Signal) bool {
	if sig == nil {
		return false
	}
	if len(u.rules) == 0 {
		return true
	}
	for _, rule := range u.rules {
		if sig.HasData(rule.key) && sig.Data(rule.key) == rule.value {
			return true
		}
	}
	return false
}

// ProcessSignals runs the base pass. Filter rules are declared but not
// consulted here.
func (u *Unconscious) ProcessSignals() {
	if u.IsProcessing() {
		return
	}
	u.Network.ProcessSignals()
}
