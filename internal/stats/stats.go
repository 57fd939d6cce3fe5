// Package stats tracks signal allocation and propagation counters. The
// tracker is an explicit object passed to whatever component needs it;
// there is no process-wide instance.
package stats

import "sync/atomic"

// Tracker counts propagation events. All methods are safe for concurrent
// use and are no-ops on a nil receiver, so wiring it in is optional
// everywhere.
type Tracker struct {
	signalsCreated atomic.Uint64
	deliveries     atomic.Uint64
	dropped        atomic.Uint64
	fires          atomic.Uint64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	SignalsCreated    uint64
	Deliveries        uint64
	DroppedDeliveries uint64
	Fires             uint64
}

// New creates a Tracker.
func New() *Tracker { return &Tracker{} }

// SignalCreated records one signal allocation during propagation.
func (t *Tracker) SignalCreated() {
	if t == nil {
		return
	}
	t.signalsCreated.Add(1)
}

// Delivered records one signal delivered to a neuron.
func (t *Tracker) Delivered() {
	if t == nil {
		return
	}
	t.deliveries.Add(1)
}

// Dropped records one delivery discarded at the cascade depth bound.
func (t *Tracker) Dropped() {
	if t == nil {
		return
	}
	t.dropped.Add(1)
}

// Fired records one neuron firing.
func (t *Tracker) Fired() {
	if t == nil {
		return
	}
	t.fires.Add(1)
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	return Snapshot{
		SignalsCreated:    t.signalsCreated.Load(),
		Deliveries:        t.deliveries.Load(),
		DroppedDeliveries: t.dropped.Load(),
		Fires:             t.fires.Load(),
	}
}

// Reset zeroes all counters.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}
	t.signalsCreated.Store(0)
	t.deliveries.Store(0)
	t.dropped.Store(0)
	t.fires.Store(0)
}
