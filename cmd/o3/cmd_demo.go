package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/TheFoxDecoder/o3/internal/gate"
	"github.com/TheFoxDecoder/o3/internal/network"
	"github.com/TheFoxDecoder/o3/internal/neuron"
	"github.com/TheFoxDecoder/o3/internal/signal"
	"github.com/TheFoxDecoder/o3/internal/worker"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run built-in example networks",
	}
	cmd.AddCommand(newDemoSimpleCmd(), newDemoPathwayCmd())
	return cmd
}

// sensorNeuron wraps a sensory neuron that turns raw input values into
// signals.
type sensorNeuron struct {
	n          *neuron.Neuron
	sensorType string
}

func newSensorNeuron(n *neuron.Neuron, sensorType string) *sensorNeuron {
	n.AddTag("sensor")
	n.AddTag(sensorType)
	return &sensorNeuron{n: n, sensorType: sensorType}
}

func (s *sensorNeuron) receiveInput(w io.Writer, value float64) {
	sig := signal.NewWithID("sensor_signal", signal.Excitatory, value)
	sig.SetData("sensor_type", s.sensorType)
	sig.SetData("value", fmt.Sprintf("%g", value))
	s.n.ReceiveSignal(sig)
	fmt.Fprintf(w, "Sensor neuron %s received input: %g\n", s.n.ID(), value)
}

// motorNeuron wraps an output neuron and records its activations.
type motorNeuron struct {
	n              *neuron.Neuron
	lastActivation float64
}

func newMotorNeuron(w io.Writer, n *neuron.Neuron, motorType string) *motorNeuron {
	m := &motorNeuron{n: n}
	n.AddTag("motor")
	n.AddTag(motorType)
	n.OnFire(func(fired *neuron.Neuron) {
		m.lastActivation = fired.Potential()
		fmt.Fprintf(w, "Motor neuron %s activated with strength: %g\n", fired.ID(), m.lastActivation)
	})
	return m
}

func newDemoSimpleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simple",
		Short: "Simple reflex network with sensors, processors, and motors",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			nw := network.New("Simple_Reflex_Network")

			lightSensor := nw.CreateNeuron("light_sensor", neuron.Sensory)
			tempSensor := nw.CreateNeuron("temp_sensor", neuron.Sensory)
			touchSensor := nw.CreateNeuron("touch_sensor", neuron.Sensory)

			visualProc := nw.CreateNeuron("visual_processor", neuron.Processing)
			thermalProc := nw.CreateNeuron("thermal_processor", neuron.Processing)
			tactileProc := nw.CreateNeuron("tactile_processor", neuron.Processing)
			nw.CreateNeuron("integration", neuron.Integration)

			armMotor := nw.CreateNeuron("arm_motor", neuron.Output)
			legMotor := nw.CreateNeuron("leg_motor", neuron.Output)

			connections := []struct {
				from, to string
				weight   float64
			}{
				{"light_sensor", "visual_processor", 0.8},
				{"temp_sensor", "thermal_processor", 0.7},
				{"touch_sensor", "tactile_processor", 0.9},
				{"visual_processor", "integration", 0.6},
				{"thermal_processor", "integration", 0.6},
				{"tactile_processor", "integration", 0.8},
				{"integration", "arm_motor", 0.7},
				{"integration", "leg_motor", 0.5},
				// Direct reflex pathway for fast touch response.
				{"touch_sensor", "arm_motor", 0.95},
			}
			for _, c := range connections {
				if _, err := nw.ConnectNeurons(c.from, c.to, c.weight); err != nil {
					return err
				}
			}

			nw.AddInputNeuron(lightSensor)
			nw.AddInputNeuron(tempSensor)
			nw.AddInputNeuron(touchSensor)
			nw.AddOutputNeuron(armMotor)
			nw.AddOutputNeuron(legMotor)

			light := newSensorNeuron(lightSensor, "light")
			temp := newSensorNeuron(tempSensor, "temperature")
			touch := newSensorNeuron(touchSensor, "touch")

			// Processor specializations tune thresholds and add a gate.
			visualProc.AddTag("integrator")
			visualProc.SetThreshold(0.3)
			thermalProc.AddTag("threshold")
			thermalProc.SetThreshold(0.5)
			tactileProc.AddTag("differentiator")
			tactileProc.SetThreshold(0.7)
			for _, p := range []*neuron.Neuron{visualProc, thermalProc, tactileProc} {
				if _, err := p.CreateGate(gate.THRESHOLD); err != nil {
					return err
				}
			}

			arm := newMotorNeuron(out, armMotor, "arm")
			leg := newMotorNeuron(out, legMotor, "leg")

			fmt.Fprintln(out, nw.Visualize())
			fmt.Fprintln(out, "Starting simulation with inputs...")

			fmt.Fprintln(out, "\n--- Scenario 1: Low-intensity inputs ---")
			light.receiveInput(out, 0.3)
			temp.receiveInput(out, 0.2)
			touch.receiveInput(out, 0.1)
			nw.ProcessSignals()
			fmt.Fprintln(out, "Process results:")
			fmt.Fprintf(out, "Arm activation: %g\n", arm.lastActivation)
			fmt.Fprintf(out, "Leg activation: %g\n", leg.lastActivation)

			fmt.Fprintln(out, "\n--- Scenario 2: High touch input (reflex) ---")
			light.receiveInput(out, 0.3)
			temp.receiveInput(out, 0.2)
			touch.receiveInput(out, 0.9)
			nw.ProcessSignals()
			fmt.Fprintln(out, "Process results:")
			fmt.Fprintf(out, "Arm activation: %g\n", arm.lastActivation)
			fmt.Fprintf(out, "Leg activation: %g\n", leg.lastActivation)

			fmt.Fprintln(out, "\nSimple network demo completed.")
			return nil
		},
	}
}

func newDemoPathwayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pathway",
		Short: "Emotional learning with dynamically formed pathways",
		RunE: func(cmd *cobra.Command, args []string) error {
			trials, _ := cmd.Flags().GetInt("trials")
			workers, _ := cmd.Flags().GetInt("workers")
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "=== Pathway Generation Example ===")
			fmt.Fprintln(out, "This example demonstrates how neurons dynamically create connections based on stimuli")

			// Each trial runs an independent network, so they can execute
			// in parallel.
			buffers := make([]bytes.Buffer, trials)
			pool := worker.NewPool(cmd.Context(), workers)
			for i := 0; i < trials; i++ {
				i := i
				pool.Submit(func(context.Context) error {
					return runPathwayTrial(&buffers[i], i+1)
				})
			}
			if err := pool.Wait(); err != nil {
				return err
			}

			for i := range buffers {
				fmt.Fprint(out, buffers[i].String())
			}
			fmt.Fprintln(out, "\nPathway generation demo completed.")
			return nil
		},
	}
	cmd.Flags().Int("trials", 1, "Number of independent learning trials")
	cmd.Flags().Int("workers", 4, "Maximum trials running concurrently")
	return cmd
}

// runPathwayTrial runs one emotional-learning network: sensory stimuli
// are paired with externally activated emotions, and firing processors
// form or strengthen pathways to the active emotions.
func runPathwayTrial(out io.Writer, trial int) error {
	fmt.Fprintf(out, "\n--- Trial %d ---\n", trial)

	nw := network.New("Emotional_Learning_Network")

	visualSensor := nw.CreateNeuron("visual_sensor", neuron.Sensory)
	auditorySensor := nw.CreateNeuron("auditory_sensor", neuron.Sensory)

	visualProc := nw.CreateNeuron("visual_processor", neuron.Processing)
	nw.CreateNeuron("auditory_processor", neuron.Processing)
	toneAssoc := nw.CreateNeuron("tone_association", neuron.Association)

	happy := nw.CreateNeuron("happy_emotion", neuron.Memory)
	sad := nw.CreateNeuron("sad_emotion", neuron.Memory)
	angry := nw.CreateNeuron("angry_emotion", neuron.Memory)
	fear := nw.CreateNeuron("fear_emotion", neuron.Memory)
	emotions := []*neuron.Neuron{happy, sad, angry, fear}

	nw.CreateNeuron("emotion_processor", neuron.Integration)
	nw.CreateNeuron("emotion_output", neuron.Output)
	nw.CreateNeuron("behavior_output", neuron.Output)
	attention := nw.CreateNeuron("attention_regulator", neuron.Regulatory)

	static := []struct {
		from, to string
		weight   float64
	}{
		{"visual_sensor", "visual_processor", 0.8},
		{"auditory_sensor", "auditory_processor", 0.7},
		{"auditory_processor", "tone_association", 0.6},
		{"happy_emotion", "emotion_processor", 0.7},
		{"sad_emotion", "emotion_processor", 0.7},
		{"angry_emotion", "emotion_processor", 0.7},
		{"fear_emotion", "emotion_processor", 0.7},
		{"emotion_processor", "emotion_output", 0.9},
		{"emotion_processor", "behavior_output", 0.8},
		{"attention_regulator", "visual_processor", 0.5},
		{"attention_regulator", "auditory_processor", 0.5},
		{"attention_regulator", "tone_association", 0.5},
	}
	for _, c := range static {
		if _, err := nw.ConnectNeurons(c.from, c.to, c.weight); err != nil {
			return err
		}
	}

	// Hebbian-style learning: a firing processor connects to whatever
	// emotions are active, or strengthens an existing pathway.
	associate := func(step float64, initial float64) func(*neuron.Neuron) {
		return func(fired *neuron.Neuron) {
			for _, emotion := range emotions {
				if emotion.State() != neuron.Active {
					continue
				}
				current := fired.ConnectionWeight(emotion)
				if current > 0 {
					next := min(1.0, current+step)
					if err := fired.SetConnectionWeight(emotion, next); err == nil {
						fmt.Fprintf(out, "Strengthened connection from %s to %s (weight: %g)\n",
							fired.ID(), emotion.ID(), next)
					}
				} else {
					if _, err := fired.ConnectTo(emotion, initial); err == nil {
						fmt.Fprintf(out, "Formed new connection from %s to %s\n",
							fired.ID(), emotion.ID())
					}
				}
			}
		}
	}
	visualProc.OnFire(associate(0.1, 0.3))
	// Tones form stronger associations.
	toneAssoc.OnFire(associate(0.15, 0.4))

	lightSignal := func() *signal.Signal {
		s := signal.NewWithID("light_signal", signal.Excitatory, 0.9)
		s.SetData("type", "light")
		s.SetData("intensity", "high")
		s.SetData("strength", "0.9")
		return s
	}
	toneSignal := func() *signal.Signal {
		s := signal.NewWithID("tone_signal", signal.Excitatory, 0.85)
		s.SetData("type", "tone")
		s.SetData("frequency", "high")
		s.SetData("strength", "0.85")
		return s
	}

	fmt.Fprintln(out, "Scenario 1: Visual input (light) + happiness")
	happy.SetState(neuron.Active)
	visualSensor.ReceiveSignal(lightSignal())
	nw.ProcessSignals()

	fmt.Fprintln(out, "Scenario 2: Auditory input (tone) + fear")
	happy.SetState(neuron.Resting)
	fear.SetState(neuron.Active)
	auditorySensor.ReceiveSignal(toneSignal())
	nw.ProcessSignals()

	fmt.Fprintln(out, "Scenario 3: Visual + auditory inputs + anger (multimodal)")
	fear.SetState(neuron.Resting)
	angry.SetState(neuron.Active)
	att := signal.NewWithID("attention_signal", signal.Excitatory, 0.8)
	att.SetData("strength", "0.8")
	attention.ReceiveSignal(att)
	visualSensor.ReceiveSignal(lightSignal())
	auditorySensor.ReceiveSignal(toneSignal())
	nw.ProcessSignals()

	fmt.Fprintln(out, "\nTesting phase: visual stimulus alone")
	nw.Reset()
	angry.SetState(neuron.Resting)
	visualSensor.ReceiveSignal(lightSignal())
	nw.ProcessSignals()
	fmt.Fprintf(out, "happy_emotion potential: %g (pathway weight %g)\n",
		happy.Potential(), visualProc.ConnectionWeight(happy))

	return nil
}
