package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "o3",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file")
	return rootCmd
}

// isolateHome sets HOME to a temp directory to avoid touching real ~/.o3/
func isolateHome(t *testing.T, tmpDir string) {
	t.Helper()
	tmpHome := filepath.Join(tmpDir, "home")
	if err := os.MkdirAll(tmpHome, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
}

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

const testScenario = `
name: reflex
neurons:
  - id: sensor
    type: sensory
  - id: motor
    type: output
connections:
  - from: sensor
    to: motor
    weight: 0.9
inputs: [sensor]
outputs: [motor]
injections:
  - strength: 0.9
    payload:
      strength: "0.9"
`

func executeCmd(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(cmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return buf.String()
}

func TestVersionCmd(t *testing.T) {
	out := executeCmd(t, newVersionCmd(), "version")
	if !strings.Contains(out, "o3 version") {
		t.Errorf("unexpected output: %q", out)
	}

	out = executeCmd(t, newVersionCmd(), "version", "--json")
	if !strings.Contains(out, `"version"`) {
		t.Errorf("unexpected JSON output: %q", out)
	}
}

func TestInfoCmd(t *testing.T) {
	out := executeCmd(t, newInfoCmd(), "info")
	for _, want := range []string{"Ozone", "Conscious", "Subconscious", "Unconscious"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q", want)
		}
	}
}

func TestGraphCmdDOT(t *testing.T) {
	path := writeScenarioFile(t, testScenario)

	out := executeCmd(t, newGraphCmd(), "graph", path)
	for _, want := range []string{`digraph "reflex"`, `"sensor" -> "motor"`} {
		if !strings.Contains(out, want) {
			t.Errorf("graph output missing %q:\n%s", want, out)
		}
	}
}

func TestGraphCmdText(t *testing.T) {
	path := writeScenarioFile(t, testScenario)

	out := executeCmd(t, newGraphCmd(), "graph", path, "--format", "text")
	if !strings.Contains(out, "Network: reflex") || !strings.Contains(out, "States:") {
		t.Errorf("unexpected text output:\n%s", out)
	}
}

func TestGraphCmdBadFormat(t *testing.T) {
	path := writeScenarioFile(t, testScenario)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"graph", path, "--format", "svg"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunCmd(t *testing.T) {
	isolateHome(t, t.TempDir())
	path := writeScenarioFile(t, testScenario)

	out := executeCmd(t, newRunCmd(), "run", path)

	// The sensor fires on the first pass and its cascade fires the motor.
	for _, want := range []string{"Network: reflex", "Statistics:", "Fires: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCmdMissingScenario(t *testing.T) {
	isolateHome(t, t.TempDir())

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newRunCmd())
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"run", "/nonexistent/scenario.yaml"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for missing scenario")
	}
}

func TestDemoSimple(t *testing.T) {
	out := executeCmd(t, newDemoCmd(), "demo", "simple")

	for _, want := range []string{
		"Simple_Reflex_Network",
		"--- Scenario 2: High touch input (reflex) ---",
		"Simple network demo completed.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output missing %q", want)
		}
	}
}

func TestDemoPathway(t *testing.T) {
	out := executeCmd(t, newDemoCmd(), "demo", "pathway", "--trials", "2")

	if strings.Count(out, "--- Trial") != 2 {
		t.Errorf("expected 2 trials in output:\n%s", out)
	}
	if !strings.Contains(out, "Pathway generation demo completed.") {
		t.Errorf("demo did not complete:\n%s", out)
	}
}
