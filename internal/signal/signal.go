// Package signal defines the message type exchanged between neurons.
// A signal carries a clamped strength scalar, a string key/value payload,
// and a set of tags. Payload values are stored as text and parsed on read.
package signal

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/TheFoxDecoder/o3/internal/ident"
)

// Kind classifies the effect a signal has on its receiver.
type Kind int

const (
	Excitatory Kind = iota // increases activation
	Inhibitory             // decreases activation
	Modulatory             // changes behavior
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Inhibitory:
		return "inhibitory"
	case Modulatory:
		return "modulatory"
	default:
		return "excitatory"
	}
}

// Signal is a discrete message passed along a connection. After construction
// it is only mutated through SetStrength, SetData, and AddTag, all of which
// happen before dispatch.
type Signal struct {
	id       string
	sourceID string
	targetID string
	kind     Kind
	strength float64
	payload  map[string]string
	tags     []string
}

// New creates a signal with a generated id. Strength is clamped to [0,1].
func New(kind Kind, strength float64) *Signal {
	return NewWithID(ident.New(), kind, strength)
}

// NewWithID creates a signal with an explicit id. Strength is clamped to [0,1].
func NewWithID(id string, kind Kind, strength float64) *Signal {
	return &Signal{
		id:       id,
		kind:     kind,
		strength: clamp01(strength),
		payload:  make(map[string]string),
	}
}

// ID returns the signal's unique identifier.
func (s *Signal) ID() string { return s.id }

// Kind returns the signal kind.
func (s *Signal) Kind() Kind { return s.kind }

// SourceID returns the id of the neuron that created this signal, or "".
func (s *Signal) SourceID() string { return s.sourceID }

// SetSourceID records the originating neuron.
func (s *Signal) SetSourceID(id string) { s.sourceID = id }

// TargetID returns the id of the neuron this signal is intended for, or "".
func (s *Signal) TargetID() string { return s.targetID }

// SetTargetID records the intended receiver.
func (s *Signal) SetTargetID(id string) { s.targetID = id }

// Strength returns the signal strength in [0,1].
func (s *Signal) Strength() float64 { return s.strength }

// SetStrength sets the strength, clamped to [0,1].
func (s *Signal) SetStrength(v float64) { s.strength = clamp01(v) }

// SetData stores a payload value under key.
func (s *Signal) SetData(key, value string) { s.payload[key] = value }

// Data returns the payload value for key, or "" if absent.
func (s *Signal) Data(key string) string { return s.payload[key] }

// HasData reports whether the payload contains key.
func (s *Signal) HasData(key string) bool {
	_, ok := s.payload[key]
	return ok
}

// Float parses the payload value for key as a float64. The second return
// is false when the key is absent or the value is not parseable; callers
// are expected to fall back to their own default in that case.
func (s *Signal) Float(key string) (float64, bool) {
	v, ok := s.payload[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Keys returns all payload keys in sorted order.
func (s *Signal) Keys() []string {
	keys := make([]string, 0, len(s.payload))
	for k := range s.payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddTag adds a categorization tag. Duplicates are ignored; first-added
// order is preserved.
func (s *Signal) AddTag(tag string) {
	for _, t := range s.tags {
		if t == tag {
			return
		}
	}
	s.tags = append(s.tags, tag)
}

// HasTag reports whether the signal carries tag.
func (s *Signal) HasTag(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns the tags in first-added order.
func (s *Signal) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Derive creates a new signal with a fresh id, the same kind, source,
// target, tags, and strength, and a payload containing only a
// "derived_from" entry naming this signal.
func (s *Signal) Derive() *Signal {
	return s.DeriveStrength(s.strength)
}

// DeriveStrength is Derive with an overridden strength.
func (s *Signal) DeriveStrength(strength float64) *Signal {
	d := New(s.kind, strength)
	d.sourceID = s.sourceID
	d.targetID = s.targetID
	for _, t := range s.tags {
		d.AddTag(t)
	}
	d.SetData("derived_from", s.id)
	return d
}

// Combine merges this signal with another into a new signal: strength is
// the arithmetic mean, source comes from the receiver, target from other,
// tags are the union, and payload keys are copied with "_1"/"_2" suffixes
// (the source/target/strength bookkeeping keys are skipped). A nil other
// degrades to Derive.
func (s *Signal) Combine(other *Signal) *Signal {
	if other == nil {
		return s.Derive()
	}

	c := New(s.kind, (s.strength+other.strength)/2)
	c.sourceID = s.sourceID
	c.targetID = other.targetID

	for _, t := range s.tags {
		c.AddTag(t)
	}
	for _, t := range other.tags {
		c.AddTag(t)
	}

	c.SetData("combined_from_1", s.id)
	c.SetData("combined_from_2", other.id)

	for _, k := range s.Keys() {
		if skipOnCombine(k) {
			continue
		}
		c.SetData(k+"_1", s.payload[k])
	}
	for _, k := range other.Keys() {
		if skipOnCombine(k) {
			continue
		}
		c.SetData(k+"_2", other.payload[k])
	}

	return c
}

func skipOnCombine(key string) bool {
	return key == "source" || key == "target" || key == "strength"
}

// Signature returns a deterministic FNV-1a hash over the signal's id,
// source, target, kind, strength, tags, and payload entries (sorted).
// It is an audit/debug equality check, not an integrity guarantee.
func (s *Signal) Signature() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s%s%s%d%g", s.id, s.sourceID, s.targetID, s.kind, s.strength)
	for _, t := range s.tags {
		fmt.Fprint(h, t)
	}
	for _, k := range s.Keys() {
		fmt.Fprint(h, k, s.payload[k])
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
