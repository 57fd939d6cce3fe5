package neuron

import (
	"strconv"

	"github.com/TheFoxDecoder/o3/internal/signal"
)

// payloadStrengthDefault is used when a signal's "strength" payload entry
// is missing or not parseable. The parse failure is absorbed, never
// surfaced.
const payloadStrengthDefault = 0.5

// delivery is one pending hand-off of a signal to a neuron within a
// cascade, at a given hop depth.
type delivery struct {
	target *Neuron
	sig    *signal.Signal
	depth  int
}

// cascade is the breadth-first work queue that drives a firing chain.
// Firing enqueues deliveries instead of recursing into the target, so a
// cyclic subgraph with sustained gain terminates at the depth bound
// instead of recursing unboundedly.
type cascade struct {
	queue    []delivery
	maxDepth int
}

func (c *cascade) push(d delivery) bool {
	if d.depth > c.maxDepth {
		d.target.tracker.Dropped()
		return false
	}
	c.queue = append(c.queue, d)
	return true
}

// run drains the queue. Each delivery lands in the target's pending
// buffer and is processed immediately at its own depth, which preserves
// the causally synchronous semantics of direct delivery while keeping the
// traversal iterative.
func (c *cascade) run() {
	for len(c.queue) > 0 {
		d := c.queue[0]
		c.queue = c.queue[1:]

		d.target.Enqueue(d.sig)
		d.target.tracker.Delivered()
		d.target.process(c, d.depth)
	}
}

// Enqueue appends a signal to the pending buffer without processing it.
// Network injection uses this so that the next propagation pass picks the
// signal up; nil signals are ignored.
func (n *Neuron) Enqueue(s *signal.Signal) {
	if s == nil {
		return
	}
	n.pending = append(n.pending, s)
}

// ReceiveSignal buffers the signal and immediately runs a processing
// pass, including any firing cascade it triggers, bounded by the neuron's
// cascade depth.
func (n *Neuron) ReceiveSignal(s *signal.Signal) {
	if s == nil {
		return
	}
	n.Enqueue(s)
	n.ProcessSignals()
}

// ProcessSignals drains the pending buffer through the gate list,
// accumulates potential, and fires when the threshold is reached. It is a
// no-op while the neuron is refractory or inhibited, or when nothing is
// pending.
func (n *Neuron) ProcessSignals() {
	c := &cascade{maxDepth: n.maxCascadeDepth}
	n.process(c, 0)
	c.run()
}

func (n *Neuron) process(c *cascade, depth int) {
	if n.state == Refractory || n.state == Inhibited {
		return
	}
	if len(n.pending) == 0 {
		return
	}

	// Route each pending signal through the gates in creation order. The
	// first active gate that claims it produces the processed form; an
	// unclaimed signal passes through unmodified.
	processed := make([]*signal.Signal, 0, len(n.pending))
	for _, sig := range n.pending {
		handled := false
		for _, g := range n.gates {
			if g == nil || !g.Active() {
				continue
			}
			if out := g.Process([]*signal.Signal{sig}); out != nil {
				processed = append(processed, out)
				handled = true
				break
			}
		}
		if !handled {
			processed = append(processed, sig)
		}
	}
	n.pending = nil

	// Accumulate the mean payload strength into the potential.
	var delta float64
	for _, sig := range processed {
		delta += payloadStrength(sig)
	}
	if len(processed) > 0 {
		n.potential += delta / float64(len(processed))
	}
	if n.potential < 0 {
		n.potential = 0
	}
	if n.potential > 1 {
		n.potential = 1
	}

	if n.potential >= n.threshold {
		n.fire(c, depth)
		n.SetState(Refractory)
		n.potential = 0
		// No timed recovery: the refractory window closes within the same
		// processing pass.
		n.SetState(Resting)
	}

	// The output buffer accumulates regardless of firing and is never
	// cleared here; see Reset.
	n.output = append(n.output, processed...)
}

// fire dispatches the output buffer along every outgoing edge. Each
// target receives a derived copy whose payload strength is the source
// signal's payload strength (default 0.5) scaled by the edge weight, with
// from/to routing entries stamped on. Fire observers run after dispatch.
func (n *Neuron) fire(c *cascade, depth int) {
	if len(n.output) == 0 {
		def := signal.NewWithID(n.id+"_output", signal.Excitatory, 1.0)
		def.SetData("source", n.id)
		def.SetData("strength", formatFloat(n.potential))
		n.tracker.SignalCreated()
		n.output = append(n.output, def)
	}

	for _, targetID := range n.edgeOrder {
		e := n.edges[targetID]
		for _, sig := range n.output {
			weighted := sig.Derive()
			strength := payloadStrength(sig) * e.weight
			weighted.SetData("strength", formatFloat(strength))
			weighted.SetData("from", n.id)
			weighted.SetData("to", e.target.id)
			n.tracker.SignalCreated()
			c.push(delivery{target: e.target, sig: weighted, depth: depth + 1})
		}
	}

	n.tracker.Fired()
	n.fireEvents.Publish(n)
}

func payloadStrength(s *signal.Signal) float64 {
	if v, ok := s.Float("strength"); ok {
		return v
	}
	return payloadStrengthDefault
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
