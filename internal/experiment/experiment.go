package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/genrel/internal/config"
	"github.com/san-kum/genrel/internal/gr"
	"github.com/san-kum/genrel/internal/metric"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

// Outcome is everything one run produced.
type Outcome struct {
	Config    *config.Config
	Result    *gr.Result
	Equations []sym.Expr
	Selected  []gr.Stage
}

type Experiment struct {
	cfg    *config.Config
	reg    *Registry
	logger *slog.Logger
	metric *metric.Metric
	stress tensor.Tensor
	calc   *gr.Calculator
}

func New(cfg *config.Config, reg *Registry, logger *slog.Logger) *Experiment {
	if reg == nil {
		reg = NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{cfg: cfg, reg: reg, logger: logger}
}

// Setup parses the metric and stress-energy tensor and builds the
// calculator with the optional stages the config asks for.
func (e *Experiment) Setup() error {
	m, err := e.cfg.BuildMetric()
	if err != nil {
		return err
	}
	stress, err := e.cfg.BuildStressEnergy()
	if err != nil {
		return err
	}
	opts := []gr.Option{gr.WithLogger(e.logger)}
	if e.cfg.Bianchi {
		opts = append(opts, gr.WithBianchi())
	}
	if e.cfg.Kretschmann {
		opts = append(opts, gr.WithKretschmann())
	}
	e.metric, e.stress = m, stress
	e.calc = gr.Default(opts...)
	return nil
}

// Stages resolves the config's stage list. An empty list selects every
// stage the calculator runs.
func (e *Experiment) Stages() ([]gr.Stage, error) {
	if len(e.cfg.Stages) == 0 {
		var out []gr.Stage
		for _, s := range gr.Stages {
			if (s == gr.StageBianchi && !e.cfg.Bianchi) || (s == gr.StageKretschmann && !e.cfg.Kretschmann) {
				continue
			}
			out = append(out, s)
		}
		return out, nil
	}
	out := make([]gr.Stage, 0, len(e.cfg.Stages))
	for _, name := range e.cfg.Stages {
		info, err := e.reg.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, info.Stage)
	}
	return out, nil
}

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if e.calc == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	selected, err := e.Stages()
	if err != nil {
		return nil, err
	}
	res, err := e.calc.Compute(ctx, e.metric)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.cfg.Name, err)
	}
	eqs, err := e.calc.EinsteinEquations(res.Einstein, e.stress)
	if err != nil {
		return nil, err
	}
	e.logger.Info("[EXPERIMENT] run complete", "metric", e.cfg.Name, "stages", len(res.Timings), "equations", len(eqs))
	return &Outcome{Config: e.cfg, Result: res, Equations: eqs, Selected: selected}, nil
}

func (e *Experiment) Metric() *metric.Metric { return e.metric }

// Calculator returns the underlying calculator, nil before Setup.
func (e *Experiment) Calculator() *gr.Calculator {
	return e.calc
}
