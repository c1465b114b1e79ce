package gr

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/genrel/internal/metric"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

// Stage names a step of the pipeline.
type Stage string

const (
	StageInverse     Stage = "inverse"
	StageChristoffel Stage = "christoffel"
	StageRiemann     Stage = "riemann"
	StageRicci       Stage = "ricci"
	StageRicciScalar Stage = "ricci-scalar"
	StageEinstein    Stage = "einstein"
	StageBianchi     Stage = "bianchi"
	StageKretschmann Stage = "kretschmann"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageInverse, StageChristoffel, StageRiemann, StageRicci,
	StageRicciScalar, StageEinstein, StageBianchi, StageKretschmann,
}

// ParseStage resolves a stage name.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage: %s", name)
}

// Timing records how long a stage took and how large its output was.
type Timing struct {
	Stage   Stage
	Elapsed time.Duration
	NonZero int
	Size    int
}

type Result struct {
	Metric      *metric.Metric
	Inverse     *sym.Matrix
	Christoffel tensor.Tensor
	Riemann     tensor.Tensor
	Ricci       tensor.Tensor
	RicciScalar sym.Expr
	Einstein    tensor.Tensor
	Bianchi     *tensor.Tensor
	Kretschmann *sym.Expr
	Timings     []Timing
}

// Stage returns the output of a stage as a tensor; scalars have rank 0.
// Optional stages that were not run report false.
func (r *Result) Stage(s Stage) (tensor.Tensor, bool) {
	switch s {
	case StageInverse:
		t, err := tensor.FromMatrix(r.Inverse)
		return t, err == nil
	case StageChristoffel:
		return r.Christoffel, true
	case StageRiemann:
		return r.Riemann, true
	case StageRicci:
		return r.Ricci, true
	case StageRicciScalar:
		return tensor.Scalar(r.RicciScalar), true
	case StageEinstein:
		return r.Einstein, true
	case StageBianchi:
		if r.Bianchi == nil {
			return tensor.Tensor{}, false
		}
		return *r.Bianchi, true
	case StageKretschmann:
		if r.Kretschmann == nil {
			return tensor.Tensor{}, false
		}
		return tensor.Scalar(*r.Kretschmann), true
	}
	return tensor.Tensor{}, false
}

func (r *Result) record(s Stage, elapsed time.Duration) Timing {
	t := Timing{Stage: s, Elapsed: elapsed}
	if out, ok := r.Stage(s); ok {
		t.NonZero = out.NonZero()
		out.Each(func(_ tensor.Index, e sym.Expr) { t.Size += e.Size() })
	}
	r.Timings = append(r.Timings, t)
	return t
}

type step struct {
	stage Stage
	fn    func() error
}

// Compute runs the whole pipeline, checking ctx before every stage.
func (c *Calculator) Compute(ctx context.Context, m *metric.Metric) (*Result, error) {
	res := &Result{Metric: m}
	c.logger.Debug("[GR] pipeline starting", "metric", m.Name(), "key", m.Key())

	run := func(s Stage, fn func() error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		start := time.Now()
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
		t := res.record(s, time.Since(start))
		c.logger.Debug("[GR] stage complete", "stage", s, "elapsed", t.Elapsed, "nonzero", t.NonZero, "size", t.Size)
		return nil
	}

	steps := []step{
		{StageInverse, func() (err error) {
			res.Inverse, err = c.InverseMetric(m)
			return err
		}},
		{StageChristoffel, func() error {
			res.Christoffel = c.christoffel(m, res.Inverse)
			return nil
		}},
		{StageRiemann, func() (err error) {
			res.Riemann, err = c.Riemann(res.Christoffel, m.Key())
			return err
		}},
		{StageRicci, func() (err error) {
			res.Ricci, err = c.Ricci(res.Riemann)
			return err
		}},
		{StageRicciScalar, func() error {
			res.RicciScalar = c.ricciScalar(res.Ricci, res.Inverse)
			return nil
		}},
		{StageEinstein, func() (err error) {
			res.Einstein, err = c.Einstein(res.Ricci, res.RicciScalar, m)
			return err
		}},
	}
	if c.bianchi {
		steps = append(steps, step{StageBianchi, func() error {
			div, err := c.Divergence(res.Einstein, res.Christoffel, m)
			res.Bianchi = &div
			return err
		}})
	}
	if c.kretschmann {
		steps = append(steps, step{StageKretschmann, func() error {
			k, err := c.kretschmannWith(res.Riemann, m, res.Inverse)
			res.Kretschmann = &k
			return err
		}})
	}

	for _, st := range steps {
		if err := run(st.stage, st.fn); err != nil {
			c.logger.Debug("[GR] pipeline stopped", "stage", st.stage, "error", err)
			return nil, err
		}
	}
	c.logger.Debug("[GR] pipeline complete", "metric", m.Name(), "stages", len(res.Timings))
	return res, nil
}
