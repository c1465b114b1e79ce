package automation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/genrel/internal/config"
	"github.com/san-kum/genrel/internal/gr"
	"github.com/san-kum/genrel/internal/sym"
)

const scenarioYAML = `name: vacuum and anisotropy
description: two quick runs
steps:
  - preset: flat/cartesian
  - preset: cosmology/bianchi-i
    stages: [ricci-scalar, einstein]
    save_as: kasner
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if len(sc.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(sc.Steps))
	}
	if sc.Steps[1].SaveAs != "kasner" {
		t.Errorf("expected save_as kasner, got %q", sc.Steps[1].SaveAs)
	}
}

func TestLoadScenario_Empty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	results, err := RunScenario(context.Background(), &out, sc, nil, nil)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !strings.Contains(out.String(), "Running step 2/2: kasner") {
		t.Errorf("unexpected progress output:\n%s", out.String())
	}
	if !results[0].Outcome.Result.Einstein.IsZero() {
		t.Error("flat space should have zero Einstein tensor")
	}
	if got := results[1].Outcome.Selected; len(got) != 2 || got[1] != gr.StageEinstein {
		t.Errorf("unexpected stage selection %v", got)
	}
}

func TestRunScenario_StopsOnError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "flat/cartesian"}, {Preset: "no-such-metric"}}}
	results, err := RunScenario(context.Background(), &bytes.Buffer{}, sc, nil, nil)
	if err == nil || !strings.HasPrefix(err.Error(), "step 2:") {
		t.Fatalf("expected step 2 error, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected partial results, got %d", len(results))
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{Preset: "cosmology/de-sitter", Param: "l", Values: []string{"1", "2"}}
	results, err := RunSweep(context.Background(), &bytes.Buffer{}, sweep, nil)
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}
	want := []sym.Expr{sym.N(12), sym.N(3)}
	for i, r := range results {
		if !r.RicciScalar.Equal(want[i]) {
			t.Errorf("l=%s: R = %s, want %s", r.Value, r.RicciScalar, want[i])
		}
		if r.EinsteinNonZero != 4 {
			t.Errorf("l=%s: %d nonzero Einstein components", r.Value, r.EinsteinNonZero)
		}
	}
}

func TestRunSweep_BadValue(t *testing.T) {
	sweep := &ParameterSweep{Preset: "cosmology/de-sitter", Param: "l", Values: []string{"0.5"}}
	if _, err := RunSweep(context.Background(), &bytes.Buffer{}, sweep, nil); err == nil {
		t.Error("expected parse error for decimal value")
	}
}

func TestPermutations(t *testing.T) {
	perms := Permutations(4)
	if len(perms) != 24 {
		t.Fatalf("expected 24 permutations, got %d", len(perms))
	}
	if first := perms[0]; first[0] != 0 || first[3] != 3 {
		t.Errorf("first permutation %v", first)
	}
	if last := perms[23]; last[0] != 3 || last[3] != 0 {
		t.Errorf("last permutation %v", last)
	}
}

func TestRunPermutations(t *testing.T) {
	m, err := config.GetPreset("cosmology", "bianchi-i").BuildMetric()
	if err != nil {
		t.Fatal(err)
	}
	results, err := RunPermutations(context.Background(), m, [][]int{{1, 0, 2, 3}, {0, 3, 2, 1}}, nil)
	if err != nil {
		t.Fatalf("RunPermutations: %v", err)
	}
	ok, bad := PermutationStats(results)
	if ok != 2 || bad != 0 {
		t.Errorf("consistent=%d inconsistent=%d", ok, bad)
	}

	if _, err := RunPermutations(context.Background(), m, [][]int{{0, 0, 1, 2}}, nil); err == nil {
		t.Error("expected error for invalid permutation")
	}
}
