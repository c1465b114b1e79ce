package gr

import (
	"github.com/san-kum/genrel/internal/metric"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

// Divergence returns ∇_μ G^μ_ν for a rank-2 tensor with two lower indices,
// raising its first index with the metric. For an Einstein tensor the
// contracted Bianchi identity makes every component vanish.
func (c *Calculator) Divergence(g, chris tensor.Tensor, m *metric.Metric) (tensor.Tensor, error) {
	if err := checkRank(g, 2, "einstein"); err != nil {
		return tensor.Tensor{}, err
	}
	if err := checkRank(chris, 3, "christoffel"); err != nil {
		return tensor.Tensor{}, err
	}
	mixed, err := c.RaiseIndex(g, m, 0)
	if err != nil {
		return tensor.Tensor{}, err
	}
	key := m.Key()
	return tensor.Build(1, func(idx tensor.Index) sym.Expr {
		nu := idx[0]
		var s sym.Expr
		for mu := range tensor.Dim {
			s = s.Add(c.alg.Diff(mixed.At(mu, nu), key[mu]))
			for l := range tensor.Dim {
				s = s.Add(chris.At(mu, mu, l).Mul(mixed.At(l, nu)))
				s = s.Sub(chris.At(l, mu, nu).Mul(mixed.At(mu, l)))
			}
		}
		return c.alg.Simplify(s)
	}), nil
}

// Kretschmann returns the scalar R_{αβγδ} R^{αβγδ}.
func (c *Calculator) Kretschmann(riemann tensor.Tensor, m *metric.Metric) (sym.Expr, error) {
	if err := checkRank(riemann, 4, "riemann"); err != nil {
		return sym.Expr{}, err
	}
	ginv, err := c.InverseMetric(m)
	if err != nil {
		return sym.Expr{}, err
	}
	return c.kretschmannWith(riemann, m, ginv)
}

func (c *Calculator) kretschmannWith(riemann tensor.Tensor, m *metric.Metric, ginv *sym.Matrix) (sym.Expr, error) {
	lower, err := c.contract(riemann, m.Matrix(), 0)
	if err != nil {
		return sym.Expr{}, err
	}
	upper := riemann
	for axis := 1; axis < 4; axis++ {
		if upper, err = c.contract(upper, ginv, axis); err != nil {
			return sym.Expr{}, err
		}
	}
	var s sym.Expr
	lower.Each(func(idx tensor.Index, e sym.Expr) {
		if c.alg.IsZero(e) {
			return
		}
		s = s.Add(e.Mul(upper.At(idx...)))
	})
	return c.alg.Simplify(s), nil
}
