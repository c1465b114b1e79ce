// Package metric holds a spacetime metric together with its coordinate key.
package metric

import (
	"errors"
	"fmt"

	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

// Metric is a symmetric 4x4 symbolic matrix whose row and column i refer to
// the coordinate Key()[i].
type Metric struct {
	name string
	g    *sym.Matrix
	key  []sym.Symbol
}

// New validates g and key. The matrix is copied.
func New(name string, g *sym.Matrix, key []sym.Symbol) (*Metric, error) {
	if g == nil || g.Rows() != tensor.Dim || g.Cols() != tensor.Dim {
		return nil, ErrBadShape
	}
	if len(key) != tensor.Dim {
		return nil, fmt.Errorf("%w: got %d", ErrBadKey, len(key))
	}
	seen := make(map[sym.Symbol]bool, len(key))
	for _, s := range key {
		if s == "" || seen[s] {
			return nil, fmt.Errorf("%w: %q repeated or empty", ErrBadKey, s)
		}
		seen[s] = true
	}
	for i := range tensor.Dim {
		for j := i + 1; j < tensor.Dim; j++ {
			if !g.At(i, j).Equal(g.At(j, i)) {
				return nil, &EntryError{Row: i, Col: j, Wrapped: ErrAsymmetric}
			}
		}
	}
	return &Metric{name: name, g: g.Clone(), key: append([]sym.Symbol(nil), key...)}, nil
}

// FromRows parses a metric from expression strings.
func FromRows(name string, rows [][]string, coords []string) (*Metric, error) {
	if len(rows) != tensor.Dim {
		return nil, fmt.Errorf("%w: %d rows", ErrBadShape, len(rows))
	}
	g := sym.NewMatrix(tensor.Dim, tensor.Dim)
	for i, row := range rows {
		if len(row) != tensor.Dim {
			return nil, fmt.Errorf("%w: row %d has %d entries", ErrBadShape, i, len(row))
		}
		for j, s := range row {
			e, err := sym.Parse(s)
			if err != nil {
				return nil, &EntryError{Row: i, Col: j, Wrapped: err}
			}
			g.Set(i, j, e)
		}
	}
	key := make([]sym.Symbol, len(coords))
	for i, c := range coords {
		key[i] = sym.Symbol(c)
	}
	return New(name, g, key)
}

func (m *Metric) Name() string { return m.name }

// Matrix returns a copy of the components g_{ij}.
func (m *Metric) Matrix() *sym.Matrix { return m.g.Clone() }

func (m *Metric) At(i, j int) sym.Expr { return m.g.At(i, j) }

func (m *Metric) Key() []sym.Symbol { return append([]sym.Symbol(nil), m.key...) }

func (m *Metric) Coord(i int) sym.Symbol { return m.key[i] }

// Tensor returns g as a rank-2 tensor with both indices lower.
func (m *Metric) Tensor() tensor.Tensor {
	t, _ := tensor.FromMatrix(m.g)
	return t
}

// CheckInvertible returns ErrDegenerate when det g is zero.
func (m *Metric) CheckInvertible() error {
	det, err := m.g.Det()
	if err != nil {
		return err
	}
	if det.IsZero() {
		return ErrDegenerate
	}
	return nil
}

// Permute reorders the coordinates so that new index i is old index
// perm[i]. The geometry is unchanged.
func (m *Metric) Permute(perm []int) (*Metric, error) {
	if len(perm) != tensor.Dim {
		return nil, fmt.Errorf("%w: permutation of length %d", ErrBadKey, len(perm))
	}
	used := make([]bool, tensor.Dim)
	for _, p := range perm {
		if p < 0 || p >= tensor.Dim || used[p] {
			return nil, errors.New("metric: invalid permutation")
		}
		used[p] = true
	}
	g := sym.NewMatrix(tensor.Dim, tensor.Dim)
	key := make([]sym.Symbol, tensor.Dim)
	for i := range tensor.Dim {
		key[i] = m.key[perm[i]]
		for j := range tensor.Dim {
			g.Set(i, j, m.g.At(perm[i], perm[j]))
		}
	}
	return New(m.name, g, key)
}

func (m *Metric) String() string {
	return fmt.Sprintf("%s %v %s", m.name, m.key, m.g)
}
