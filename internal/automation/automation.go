package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/genrel/internal/config"
	"github.com/san-kum/genrel/internal/experiment"
	"github.com/san-kum/genrel/internal/gr"
	"github.com/san-kum/genrel/internal/metric"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

// Scenario is a batch of metric computations read from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep names a preset or a config file and optional overrides.
type ScenarioStep struct {
	Preset      string   `yaml:"preset"`
	Config      string   `yaml:"config"`
	Stages      []string `yaml:"stages"`
	Bianchi     bool     `yaml:"bianchi"`
	Kretschmann bool     `yaml:"kretschmann"`
	SaveAs      string   `yaml:"save_as"`
}

type StepResult struct {
	Step    ScenarioStep
	Outcome *experiment.Outcome
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

func (s ScenarioStep) resolve() (*config.Config, error) {
	src := s.Config
	if src == "" {
		src = s.Preset
	}
	cfg, err := config.Resolve(src)
	if err != nil {
		return nil, err
	}
	if len(s.Stages) > 0 {
		cfg.Stages = s.Stages
	}
	cfg.Bianchi = cfg.Bianchi || s.Bianchi
	cfg.Kretschmann = cfg.Kretschmann || s.Kretschmann
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, nil
}

// RunScenario executes every step in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, w io.Writer, scenario *Scenario, registry *experiment.Registry, logger *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), cfg.Name)

		exp := experiment.New(cfg, registry, logger)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Outcome: out})
	}

	return results, nil
}

// ParameterSweep substitutes a list of values for one metric parameter and
// reruns the pipeline for each.
type ParameterSweep struct {
	Preset string
	Param  string
	Values []string
}

type SweepResult struct {
	Value           sym.Expr
	RicciScalar     sym.Expr
	EinsteinNonZero int
}

func RunSweep(ctx context.Context, w io.Writer, sweep *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	cfg, err := config.Resolve(sweep.Preset)
	if err != nil {
		return nil, err
	}
	base, err := cfg.BuildMetric()
	if err != nil {
		return nil, err
	}
	calc := gr.Default(gr.WithLogger(orDiscard(logger)))

	results := make([]SweepResult, 0, len(sweep.Values))
	for i, s := range sweep.Values {
		v, err := sym.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("sweep value %d: %w", i+1, err)
		}
		m, err := substitute(base, sweep.Param, v)
		if err != nil {
			return nil, fmt.Errorf("%s=%s: %w", sweep.Param, v, err)
		}
		res, err := calc.Compute(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("%s=%s: %w", sweep.Param, v, err)
		}

		results = append(results, SweepResult{
			Value:           v,
			RicciScalar:     res.RicciScalar,
			EinsteinNonZero: res.Einstein.NonZero(),
		})

		fmt.Fprintf(w, "Sweep %d/%d: %s=%s\n", i+1, len(sweep.Values), sweep.Param, v)
	}

	return results, nil
}

func substitute(m *metric.Metric, name string, v sym.Expr) (*metric.Metric, error) {
	g := m.Matrix()
	for i := range tensor.Dim {
		for j := range tensor.Dim {
			g.Set(i, j, g.At(i, j).Subs(name, v))
		}
	}
	return metric.New(m.Name(), g, m.Key())
}

// PermutationResult reports whether the Einstein tensor of a relabelled
// metric is the relabelled Einstein tensor.
type PermutationResult struct {
	Perm       []int
	Consistent bool
}

// RunPermutations checks coordinate relabelling against the base metric.
// A nil perms list checks all 24 orderings.
func RunPermutations(ctx context.Context, m *metric.Metric, perms [][]int, logger *slog.Logger) ([]PermutationResult, error) {
	if perms == nil {
		perms = Permutations(tensor.Dim)
	}
	calc := gr.Default(gr.WithLogger(orDiscard(logger)))
	base, err := calc.EinsteinFromScratch(m)
	if err != nil {
		return nil, err
	}

	results := make([]PermutationResult, 0, len(perms))
	for _, perm := range perms {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		p, err := m.Permute(perm)
		if err != nil {
			return results, err
		}
		g, err := calc.EinsteinFromScratch(p)
		if err != nil {
			return results, err
		}
		ok := true
		g.Each(func(idx tensor.Index, e sym.Expr) {
			if !e.Equal(base.At(perm[idx[0]], perm[idx[1]])) {
				ok = false
			}
		})
		results = append(results, PermutationResult{Perm: perm, Consistent: ok})
	}
	return results, nil
}

// Permutations lists the orderings of 0..n-1 lexicographically.
func Permutations(n int) [][]int {
	var out [][]int
	cur := make([]int, 0, n)
	used := make([]bool, n)
	var rec func()
	rec = func() {
		if len(cur) == n {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for i := range n {
			if used[i] {
				continue
			}
			used[i] = true
			cur = append(cur, i)
			rec()
			cur = cur[:len(cur)-1]
			used[i] = false
		}
	}
	rec()
	return out
}

// PermutationStats counts consistent and inconsistent orderings.
func PermutationStats(results []PermutationResult) (consistent int, inconsistent int) {
	for _, r := range results {
		if r.Consistent {
			consistent++
		} else {
			inconsistent++
		}
	}
	return
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
