// Package gr computes the curvature tensors of a spacetime metric:
// Christoffel symbols, the Riemann, Ricci and Einstein tensors, the Ricci
// scalar, and the field equations G - 8πG·T. Index convention: for rank 3
// and rank 4 results index 0 is upper and the rest are lower; Ricci and
// Einstein tensors carry two lower indices.
//
// Every operation is a pure function of its inputs. Symbolic work goes
// through the Algebra interface.
package gr

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/san-kum/genrel/internal/metric"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

// DefaultAxis is the axis RaiseIndex and LowerIndex act on by default.
const DefaultAxis = 1

var (
	// ErrShape indicates a tensor of the wrong rank for an operation.
	ErrShape = errors.New("gr: tensor shape mismatch")

	// ErrKey indicates a coordinate key not aligned with the index range.
	ErrKey = errors.New("gr: coordinate key must hold 4 symbols")
)

// NewtonG is the gravitational constant symbol used by EinsteinEquations.
var NewtonG = sym.S("G")

// Calculator runs the curvature computations through an Algebra.
type Calculator struct {
	alg         Algebra
	logger      *slog.Logger
	bianchi     bool
	kretschmann bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sends stage progress to l at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

// WithBianchi adds the divergence of the Einstein tensor to Compute.
func WithBianchi() Option {
	return func(c *Calculator) { c.bianchi = true }
}

// WithKretschmann adds the Kretschmann scalar to Compute.
func WithKretschmann() Option {
	return func(c *Calculator) { c.kretschmann = true }
}

// NewCalculator returns a calculator backed by alg. Logging is discarded
// unless WithLogger is given.
func NewCalculator(alg Algebra, opts ...Option) *Calculator {
	c := &Calculator{
		alg:    alg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Default returns a calculator backed by the built-in symbolic engine.
func Default(opts ...Option) *Calculator {
	return NewCalculator(sym.Engine{}, opts...)
}

func checkRank(t tensor.Tensor, rank int, what string) error {
	if t.Rank() != rank {
		return fmt.Errorf("%w: %s has rank %d, want %d", ErrShape, what, t.Rank(), rank)
	}
	return nil
}

func checkKey(key []sym.Symbol) error {
	if len(key) != tensor.Dim {
		return fmt.Errorf("%w: got %d", ErrKey, len(key))
	}
	return nil
}

// InverseMetric returns g^{-1}.
func (c *Calculator) InverseMetric(m *metric.Metric) (*sym.Matrix, error) {
	inv, err := c.alg.Invert(m.Matrix())
	if err != nil {
		return nil, fmt.Errorf("invert metric %s: %w", m.Name(), err)
	}
	return inv, nil
}

// Christoffel returns Γ^α_{βγ} = ½ Σ_δ g^{αδ}(∂_γ g_{δβ} + ∂_β g_{δγ} − ∂_δ g_{βγ}).
func (c *Calculator) Christoffel(m *metric.Metric) (tensor.Tensor, error) {
	ginv, err := c.InverseMetric(m)
	if err != nil {
		return tensor.Tensor{}, err
	}
	return c.christoffel(m, ginv), nil
}

func (c *Calculator) christoffel(m *metric.Metric, ginv *sym.Matrix) tensor.Tensor {
	key := m.Key()
	// dg[k][i][j] = ∂_k g_ij
	var dg [tensor.Dim][tensor.Dim][tensor.Dim]sym.Expr
	for k := range tensor.Dim {
		for i := range tensor.Dim {
			for j := range tensor.Dim {
				dg[k][i][j] = c.alg.Diff(m.At(i, j), key[k])
			}
		}
	}
	half := sym.F(1, 2)
	return tensor.Build(3, func(idx tensor.Index) sym.Expr {
		a, b, g := idx[0], idx[1], idx[2]
		var s sym.Expr
		for d := range tensor.Dim {
			inv := ginv.At(a, d)
			if c.alg.IsZero(inv) {
				continue
			}
			s = s.Add(inv.Mul(dg[g][d][b].Add(dg[b][d][g]).Sub(dg[d][b][g])))
		}
		return c.alg.Simplify(half.Mul(s))
	})
}

// Riemann returns R^α_{βγδ} = ∂_γ Γ^α_{βδ} − ∂_δ Γ^α_{βγ}
// + Σ_ε (Γ^α_{γε}Γ^ε_{βδ} − Γ^α_{δε}Γ^ε_{βγ}).
func (c *Calculator) Riemann(chris tensor.Tensor, key []sym.Symbol) (tensor.Tensor, error) {
	if err := checkRank(chris, 3, "christoffel"); err != nil {
		return tensor.Tensor{}, err
	}
	if err := checkKey(key); err != nil {
		return tensor.Tensor{}, err
	}
	return tensor.Build(4, func(idx tensor.Index) sym.Expr {
		a, b, g, d := idx[0], idx[1], idx[2], idx[3]
		s := c.alg.Diff(chris.At(a, b, d), key[g]).Sub(c.alg.Diff(chris.At(a, b, g), key[d]))
		for e := range tensor.Dim {
			s = s.Add(chris.At(a, g, e).Mul(chris.At(e, b, d)))
			s = s.Sub(chris.At(a, d, e).Mul(chris.At(e, b, g)))
		}
		return c.alg.Simplify(s)
	}), nil
}

// Ricci returns R_{αβ} = Σ_γ R^γ_{αγβ}.
func (c *Calculator) Ricci(riemann tensor.Tensor) (tensor.Tensor, error) {
	if err := checkRank(riemann, 4, "riemann"); err != nil {
		return tensor.Tensor{}, err
	}
	return tensor.Build(2, func(idx tensor.Index) sym.Expr {
		var s sym.Expr
		for g := range tensor.Dim {
			s = s.Add(riemann.At(g, idx[0], g, idx[1]))
		}
		return c.alg.Simplify(s)
	}), nil
}

// RicciScalar returns R = Σ g^{αβ} R_{αβ}.
func (c *Calculator) RicciScalar(ricci tensor.Tensor, m *metric.Metric) (sym.Expr, error) {
	if err := checkRank(ricci, 2, "ricci"); err != nil {
		return sym.Expr{}, err
	}
	ginv, err := c.InverseMetric(m)
	if err != nil {
		return sym.Expr{}, err
	}
	return c.ricciScalar(ricci, ginv), nil
}

func (c *Calculator) ricciScalar(ricci tensor.Tensor, ginv *sym.Matrix) sym.Expr {
	var s sym.Expr
	for a := range tensor.Dim {
		for b := range tensor.Dim {
			inv := ginv.At(a, b)
			if c.alg.IsZero(inv) {
				continue
			}
			s = s.Add(inv.Mul(ricci.At(a, b)))
		}
	}
	return c.alg.Simplify(s)
}

// Einstein returns G_{αβ} = R_{αβ} − ½ g_{αβ} R.
func (c *Calculator) Einstein(ricci tensor.Tensor, scalar sym.Expr, m *metric.Metric) (tensor.Tensor, error) {
	if err := checkRank(ricci, 2, "ricci"); err != nil {
		return tensor.Tensor{}, err
	}
	half := sym.F(1, 2).Mul(scalar)
	return tensor.Build(2, func(idx tensor.Index) sym.Expr {
		return c.alg.Simplify(ricci.At(idx[0], idx[1]).Sub(m.At(idx[0], idx[1]).Mul(half)))
	}), nil
}

// EinsteinFromScratch runs every stage from the metric to G_{αβ}.
func (c *Calculator) EinsteinFromScratch(m *metric.Metric) (tensor.Tensor, error) {
	ginv, err := c.InverseMetric(m)
	if err != nil {
		return tensor.Tensor{}, err
	}
	chris := c.christoffel(m, ginv)
	riemann, err := c.Riemann(chris, m.Key())
	if err != nil {
		return tensor.Tensor{}, err
	}
	ricci, err := c.Ricci(riemann)
	if err != nil {
		return tensor.Tensor{}, err
	}
	return c.Einstein(ricci, c.ricciScalar(ricci, ginv), m)
}

// EinsteinEquations returns the distinct nonzero residuals
// G_{αβ} − 8πG·T_{αβ} in row-major order of first occurrence. Residuals
// are merged only when their canonical forms are identical.
func (c *Calculator) EinsteinEquations(einstein, stress tensor.Tensor) ([]sym.Expr, error) {
	if err := checkRank(einstein, 2, "einstein"); err != nil {
		return nil, err
	}
	if err := checkRank(stress, 2, "stress-energy"); err != nil {
		return nil, err
	}
	coupling := sym.MulOf(sym.N(8), sym.Pi(), NewtonG)
	var out []sym.Expr
	einstein.Each(func(idx tensor.Index, g sym.Expr) {
		r := c.alg.Simplify(g.Sub(coupling.Mul(stress.At(idx...))))
		if c.alg.IsZero(r) {
			return
		}
		for _, seen := range out {
			if seen.Identical(r) {
				return
			}
		}
		out = append(out, r)
	})
	return out, nil
}

// RaiseIndex contracts g^{-1} into t along axis.
func (c *Calculator) RaiseIndex(t tensor.Tensor, m *metric.Metric, axis int) (tensor.Tensor, error) {
	ginv, err := c.InverseMetric(m)
	if err != nil {
		return tensor.Tensor{}, err
	}
	return c.contract(t, ginv, axis)
}

// LowerIndex contracts g into t along axis.
func (c *Calculator) LowerIndex(t tensor.Tensor, m *metric.Metric, axis int) (tensor.Tensor, error) {
	return c.contract(t, m.Matrix(), axis)
}

func (c *Calculator) contract(t tensor.Tensor, g *sym.Matrix, axis int) (tensor.Tensor, error) {
	out, err := tensor.Contract(t, g, axis)
	if err != nil {
		return tensor.Tensor{}, err
	}
	return out.Map(c.alg.Simplify), nil
}
