package gate

import (
	"math"

	"github.com/TheFoxDecoder/o3/internal/signal"
)

type andGate struct{ base }

// Process emits only when every input is at or above the threshold. The
// output derives from the first input with strength set to the mean of
// all input strengths.
func (g *andGate) Process(inputs []*signal.Signal) *signal.Signal {
	if len(inputs) == 0 {
		return nil
	}

	total := 0.0
	for _, in := range inputs {
		if in == nil || in.Strength() < g.threshold {
			return nil
		}
		total += in.Strength()
	}

	out := inputs[0].DeriveStrength(total / float64(len(inputs)))
	return g.stamp(out)
}

type orGate struct{ base }

// Process emits a derivation of the strongest input at or above the
// threshold (first-seen wins on ties), or nothing if no input qualifies.
// The scan starts from zero with a strict comparison, so a zero-strength
// input is never selected even under a zero threshold.
func (g *orGate) Process(inputs []*signal.Signal) *signal.Signal {
	var strongest *signal.Signal
	max := 0.0

	for _, in := range inputs {
		if in == nil || in.Strength() < g.threshold {
			continue
		}
		if in.Strength() > max {
			max = in.Strength()
			strongest = in
		}
	}

	if strongest == nil {
		return nil
	}
	return g.stamp(strongest.Derive())
}

type notGate struct{ base }

// Process inverts the first input: output strength = 1 - input strength.
func (g *notGate) Process(inputs []*signal.Signal) *signal.Signal {
	if len(inputs) == 0 || inputs[0] == nil {
		return nil
	}
	in := inputs[0]
	return g.stamp(in.DeriveStrength(1 - in.Strength()))
}

type xorGate struct{ base }

// Process requires exactly two inputs and emits only when exactly one is
// at or above the threshold. The output derives from the qualifying input
// with strength equal to the absolute strength difference.
func (g *xorGate) Process(inputs []*signal.Signal) *signal.Signal {
	if len(inputs) != 2 || inputs[0] == nil || inputs[1] == nil {
		return nil
	}

	s1, s2 := inputs[0].Strength(), inputs[1].Strength()
	above1, above2 := s1 >= g.threshold, s2 >= g.threshold
	if above1 == above2 {
		return nil
	}

	src := inputs[0]
	if above2 {
		src = inputs[1]
	}
	return g.stamp(src.DeriveStrength(math.Abs(s1 - s2)))
}

type thresholdGate struct{ base }

// Process passes the first input through unchanged when its strength is at
// or above the threshold.
func (g *thresholdGate) Process(inputs []*signal.Signal) *signal.Signal {
	if len(inputs) == 0 || inputs[0] == nil {
		return nil
	}
	in := inputs[0]
	if in.Strength() < g.threshold {
		return nil
	}
	return g.stamp(in.Derive())
}
