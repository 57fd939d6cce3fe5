package neuron

import (
	"math"
	"strconv"
	"testing"

	"github.com/TheFoxDecoder/o3/internal/gate"
	"github.com/TheFoxDecoder/o3/internal/signal"
	"github.com/TheFoxDecoder/o3/internal/stats"
)

// stim builds a signal whose payload strength drives potential
// accumulation.
func stim(strength float64) *signal.Signal {
	s := signal.New(signal.Excitatory, strength)
	s.SetData("strength", strconv.FormatFloat(strength, 'g', -1, 64))
	return s
}

// connect is a test helper that fails on connection errors.
func connect(t *testing.T, from, to *Neuron, weight float64) {
	t.Helper()
	if _, err := from.ConnectTo(to, weight); err != nil {
		t.Fatalf("ConnectTo(%s->%s): %v", from.ID(), to.ID(), err)
	}
}

func TestDefaultThresholds(t *testing.T) {
	cases := []struct {
		typ  Type
		want float64
	}{
		{Sensory, 0.3},
		{Processing, 0.5},
		{Memory, 0.7},
		{Integration, 0.5},
		{Association, 0.5},
		{Output, 0.5},
		{Regulatory, 0.4},
	}
	for _, c := range cases {
		n := New("n", c.typ)
		if n.Threshold() != c.want {
			t.Errorf("%v threshold = %v, want %v", c.typ, n.Threshold(), c.want)
		}
		if !n.HasTag(c.typ.String()) {
			t.Errorf("%v: type tag missing", c.typ)
		}
	}
}

func TestConnectIdempotent(t *testing.T) {
	a := New("a", Processing)
	b := New("b", Processing)

	updated, err := a.ConnectTo(b, 0.4)
	if err != nil || updated {
		t.Fatalf("first connect: updated=%v err=%v", updated, err)
	}

	updated, err = a.ConnectTo(b, 0.9)
	if err != nil || !updated {
		t.Fatalf("second connect: updated=%v err=%v", updated, err)
	}

	if len(a.Outputs()) != 1 {
		t.Errorf("outputs = %d, want 1 distinct target", len(a.Outputs()))
	}
	if w := a.ConnectionWeight(b); w != 0.9 {
		t.Errorf("weight = %v, want latest 0.9", w)
	}
	if len(b.Inputs()) != 1 || b.Inputs()[0] != a {
		t.Error("upstream back-reference missing or duplicated")
	}
}

func TestConnectRejections(t *testing.T) {
	a := New("a", Processing)
	if _, err := a.ConnectTo(nil, 1); err != ErrNilTarget {
		t.Errorf("nil target: %v", err)
	}
	if _, err := a.ConnectTo(a, 1); err != ErrSelfConnection {
		t.Errorf("self edge: %v", err)
	}
}

func TestDisconnectSymmetric(t *testing.T) {
	a := New("a", Processing)
	b := New("b", Processing)
	connect(t, a, b, 0.5)

	if err := a.DisconnectFrom(b); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if len(a.Outputs()) != 0 {
		t.Error("source still holds the edge")
	}
	if len(b.Inputs()) != 0 {
		t.Error("target still holds the back-reference")
	}
	if err := a.DisconnectFrom(b); err != ErrNotConnected {
		t.Errorf("second disconnect: %v, want ErrNotConnected", err)
	}
}

func TestDetachSeversBothDirections(t *testing.T) {
	a := New("a", Processing)
	b := New("b", Processing)
	c := New("c", Processing)
	connect(t, a, b, 1)
	connect(t, c, a, 1)

	a.Detach()

	if len(b.Inputs()) != 0 {
		t.Error("downstream kept a stale upstream reference")
	}
	if len(c.Outputs()) != 0 {
		t.Error("upstream kept a stale edge")
	}
}

func TestPotentialStaysInRange(t *testing.T) {
	n := New("n", Memory)
	n.SetThreshold(1) // keep it from firing

	for i := 0; i < 5; i++ {
		n.ReceiveSignal(stim(0.9))
		if p := n.Potential(); p < 0 || p > 1 {
			t.Fatalf("potential %v out of [0,1]", p)
		}
	}
}

func TestRefractoryAndInhibitedBlockProcessing(t *testing.T) {
	for _, st := range []State{Refractory, Inhibited} {
		n := New("n", Sensory)
		n.SetState(st)
		n.ReceiveSignal(stim(0.9))
		if n.Potential() != 0 {
			t.Errorf("state %v: potential = %v, want 0", st, n.Potential())
		}
		if n.PendingCount() != 1 {
			t.Errorf("state %v: pending signal should remain buffered", st)
		}
	}
}

func TestMalformedStrengthDefaults(t *testing.T) {
	n := New("n", Processing)
	n.SetThreshold(1)

	s := signal.New(signal.Excitatory, 1)
	s.SetData("strength", "garbage")
	n.ReceiveSignal(s)

	if n.Potential() != 0.5 {
		t.Errorf("potential = %v, want default 0.5", n.Potential())
	}
}

func TestSimpleFireScenario(t *testing.T) {
	// A (threshold 0.3) --0.5--> B (threshold 0.5), no gates. One signal
	// of strength 0.9 into A: A fires, B receives ~0.45 and stays below
	// threshold.
	a := New("a", Sensory) // threshold 0.3
	b := New("b", Processing)
	connect(t, a, b, 0.5)

	var fired []string
	a.OnFire(func(n *Neuron) { fired = append(fired, n.ID()) })
	b.OnFire(func(n *Neuron) { fired = append(fired, n.ID()) })

	a.ReceiveSignal(stim(0.9))

	if len(fired) != 1 || fired[0] != "a" {
		t.Fatalf("fired = %v, want [a]", fired)
	}
	if a.Potential() != 0 {
		t.Errorf("a potential after firing = %v, want 0", a.Potential())
	}
	if a.State() != Resting {
		t.Errorf("a state = %v, want resting", a.State())
	}

	if math.Abs(b.Potential()-0.45) > 1e-9 {
		t.Errorf("b potential = %v, want 0.45", b.Potential())
	}

	// B's processed signal carries the weighted strength and routing data.
	outs := b.OutputSignals()
	if len(outs) != 1 {
		t.Fatalf("b outputs = %d, want 1", len(outs))
	}
	if v, ok := outs[0].Float("strength"); !ok || math.Abs(v-0.45) > 1e-9 {
		t.Errorf("delivered strength = %v, want 0.45", v)
	}
	if outs[0].Data("from") != "a" || outs[0].Data("to") != "b" {
		t.Error("from/to routing entries missing")
	}
}

func TestGateRoutingFirstActiveConsumes(t *testing.T) {
	n := New("n", Processing)
	n.SetThreshold(1)

	// First gate inactive, second never claims, third claims.
	g1, _ := n.CreateGate(gate.THRESHOLD)
	g1.SetActive(false)
	g2, _ := n.CreateGate(gate.THRESHOLD)
	g2.SetThreshold(0.99)
	n.AddGate(gate.NewCustom("claimer", func(in []*signal.Signal) *signal.Signal {
		return in[0].DeriveStrength(0.25)
	}))

	n.ReceiveSignal(stim(0.6))

	outs := n.OutputSignals()
	if len(outs) != 1 {
		t.Fatalf("outputs = %d, want 1", len(outs))
	}
	if outs[0].Data("gate_id") != "claimer" {
		t.Errorf("claimed by %q, want claimer", outs[0].Data("gate_id"))
	}
}

func TestUnclaimedSignalPassesThrough(t *testing.T) {
	n := New("n", Processing)
	n.SetThreshold(1)
	g, _ := n.CreateGate(gate.THRESHOLD)
	g.SetThreshold(0.99)

	s := stim(0.4)
	n.ReceiveSignal(s)

	outs := n.OutputSignals()
	if len(outs) != 1 || outs[0] != s {
		t.Error("unclaimed signal should pass through unmodified")
	}
}

func TestOutputBufferGrowsAcrossPasses(t *testing.T) {
	n := New("n", Memory) // threshold 0.7, low stimuli keep it silent
	for i := 1; i <= 3; i++ {
		n.ReceiveSignal(stim(0.1))
		if got := len(n.OutputSignals()); got != i {
			t.Fatalf("after pass %d: output buffer = %d, want %d", i, got, i)
		}
	}

	n.Reset()
	if len(n.OutputSignals()) != 0 || n.Potential() != 0 || n.State() != Resting {
		t.Error("Reset should clear buffers, potential, and state")
	}
}

func TestDefaultFireSignal(t *testing.T) {
	// A neuron with an empty output buffer synthesizes a default signal
	// when it fires.
	a := New("a", Sensory)
	b := New("b", Processing)
	connect(t, a, b, 1)

	// The buffer is appended to only after the fire block, so a
	// first-pass fire always sees it empty.
	a.ReceiveSignal(stim(0.9))

	outs := a.OutputSignals()
	// The synthesized default plus the processed stimulus.
	if len(outs) != 2 {
		t.Fatalf("a outputs = %d, want 2", len(outs))
	}
	if outs[0].ID() != "a_output" || outs[0].Data("source") != "a" {
		t.Errorf("default fire signal malformed: id=%q", outs[0].ID())
	}
}

func TestCycleTerminates(t *testing.T) {
	// A <-> B with gain > 1 would recurse forever without the depth
	// bound.
	a := New("a", Sensory)
	b := New("b", Sensory)
	a.SetThreshold(0.1)
	b.SetThreshold(0.1)
	connect(t, a, b, 2.0)
	connect(t, b, a, 2.0)

	tr := stats.New()
	a.SetTracker(tr)
	b.SetTracker(tr)
	a.SetMaxCascadeDepth(10)
	b.SetMaxCascadeDepth(10)

	a.ReceiveSignal(stim(0.9)) // must return

	if tr.Snapshot().DroppedDeliveries == 0 {
		t.Error("expected deliveries dropped at the depth bound")
	}
}

func TestStateChangeObservers(t *testing.T) {
	n := New("n", Processing)

	var transitions [][2]State
	id := n.OnStateChange(func(sc StateChange) {
		transitions = append(transitions, [2]State{sc.From, sc.To})
	})

	n.SetState(Inhibited)
	if len(transitions) != 1 || transitions[0] != [2]State{Resting, Inhibited} {
		t.Fatalf("transitions = %v", transitions)
	}

	if !n.OffStateChange(id) {
		t.Error("OffStateChange should report removal")
	}
	n.SetState(Resting)
	if len(transitions) != 1 {
		t.Error("observer called after removal")
	}
}

func TestFiringPublishesRefractoryThenResting(t *testing.T) {
	n := New("n", Sensory)

	var states []State
	n.OnStateChange(func(sc StateChange) { states = append(states, sc.To) })

	n.ReceiveSignal(stim(0.9))

	if len(states) != 2 || states[0] != Refractory || states[1] != Resting {
		t.Errorf("states = %v, want [refractory resting]", states)
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("memory")
	if err != nil || typ != Memory {
		t.Errorf("ParseType(memory) = %v, %v", typ, err)
	}
	if _, err := ParseType("bogus"); err == nil {
		t.Error("expected error for unknown type")
	}
}
