package scenario

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"strings"
	"testing"
)

func newTestRunner(t *testing.T, mode AssertionMode) (*Runner, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "center.db")
	cfg.Assertions = mode
	cfg.Logger = log.New(buf, "", 0)

	runner, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	t.Cleanup(func() {
		if err := runner.Close(); err != nil {
			t.Errorf("close runner: %v", err)
		}
	})
	return runner, buf
}

func TestRunScenarioConfiguresLayout(t *testing.T) {
	runner, _ := newTestRunner(t, AssertionStrict)

	scenario := &Scenario{
		Name: "two pools",
		Steps: []Step{
			{Kind: "center", Args: map[string]any{"name": "Thunder Alley"}},
			{Kind: "range", Args: map[string]any{"from": 1, "to": 10, "pins": "FF"}},
			{Kind: "range", Args: map[string]any{"from": 13, "to": 20, "pins": "SP"}},
			{Kind: "configure", Args: map[string]any{}},
			{Kind: "expect_pairs", Args: map[string]any{"total": 9}},
			{Kind: "rename", Args: map[string]any{"name": "Lightning Lanes"}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioReplacementMintsGrant(t *testing.T) {
	runner, _ := newTestRunner(t, AssertionStrict)

	scenario := &Scenario{
		Name: "replacement",
		Steps: []Step{
			{Kind: "center", Args: map[string]any{"name": "Pin Palace"}},
			{Kind: "range", Args: map[string]any{"from": 1, "to": 10, "pins": "FF"}},
			{Kind: "configure", Args: map[string]any{}},
			{Kind: "expect_pairs", Args: map[string]any{"total": 5}},
			{Kind: "range", Args: map[string]any{"from": 1, "to": 20, "pins": "SP"}},
			{Kind: "configure", Args: map[string]any{}},
			{Kind: "expect_pairs", Args: map[string]any{"total": 10}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioExpectedRejection(t *testing.T) {
	runner, _ := newTestRunner(t, AssertionStrict)

	scenario := &Scenario{
		Name: "even start",
		Steps: []Step{
			{Kind: "center", Args: map[string]any{"name": "Pin Palace"}},
			{Kind: "range", Args: map[string]any{"from": 2, "to": 10, "pins": "FF"}},
			{Kind: "configure", Args: map[string]any{"expect": "LaneRange.StartLane.MustBeOdd"}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioUnexpectedRejectionFailsStrict(t *testing.T) {
	runner, _ := newTestRunner(t, AssertionStrict)

	scenario := &Scenario{
		Name: "bad layout",
		Steps: []Step{
			{Kind: "center", Args: map[string]any{"name": "Pin Palace"}},
			{Kind: "range", Args: map[string]any{"from": 2, "to": 10, "pins": "FF"}},
			{Kind: "configure", Args: map[string]any{}},
		},
	}

	err := runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "configure layout") {
		t.Fatalf("error = %q, want configure layout failure", err.Error())
	}
}

func TestRunScenarioLogOnlyContinues(t *testing.T) {
	runner, buf := newTestRunner(t, AssertionLogOnly)

	scenario := &Scenario{
		Name: "bad layout",
		Steps: []Step{
			{Kind: "center", Args: map[string]any{"name": "Pin Palace"}},
			{Kind: "range", Args: map[string]any{"from": 2, "to": 10, "pins": "FF"}},
			{Kind: "configure", Args: map[string]any{}},
			{Kind: "rename", Args: map[string]any{"name": "Still Standing"}},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if !strings.Contains(buf.String(), "expectation failed") {
		t.Fatalf("log = %q, want expectation failure entry", buf.String())
	}
}

func TestRunScenarioRequiresCenterFirst(t *testing.T) {
	runner, _ := newTestRunner(t, AssertionStrict)

	scenario := &Scenario{
		Name: "no center",
		Steps: []Step{
			{Kind: "configure", Args: map[string]any{}},
		},
	}

	err := runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "configure requires a center step first") {
		t.Fatalf("error = %q, want center-first failure", err.Error())
	}
}

func TestRunScenarioRejectsUnknownStep(t *testing.T) {
	runner, _ := newTestRunner(t, AssertionStrict)

	scenario := &Scenario{
		Name:  "unknown",
		Steps: []Step{{Kind: "teleport", Args: map[string]any{}}},
	}

	err := runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `unknown step kind "teleport"`) {
		t.Fatalf("error = %q, want unknown step kind", err.Error())
	}
}

func TestRunFileExecutesScript(t *testing.T) {
	path := writeScenarioFixture(t, `local scene = Scenario.new("scripted")
scene:center({name = "Thunder Alley"})
scene:range({from = 1, to = 10, pins = "FF"})
scene:configure({expect = "ok"})
scene:expect_pairs({total = 5})
return scene
`)

	cfg := DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "center.db")
	if err := RunFile(context.Background(), cfg, path); err != nil {
		t.Fatalf("run file: %v", err)
	}
}
