// Package tensor stores dense symbolic tensors over the fixed four-dimensional
// index range. Entries live in one flat row-major buffer addressed by stride,
// and a tensor is never modified after Build returns it.
package tensor

import (
	"errors"
	"fmt"

	"github.com/san-kum/genrel/internal/sym"
)

// Dim is the extent of every axis.
const Dim = 4

// MaxRank is the highest supported rank.
const MaxRank = 4

var (
	ErrRank = errors.New("tensor: rank out of range")
	ErrAxis = errors.New("tensor: axis out of range")
)

// Index is a multi-index, one entry per axis.
type Index []int

func (i Index) String() string {
	b := make([]byte, 0, 2*len(i)+2)
	b = append(b, '[')
	for k, v := range i {
		if k > 0 {
			b = append(b, ',')
		}
		b = append(b, byte('0'+v))
	}
	return string(append(b, ']'))
}

type Tensor struct {
	rank int
	data []sym.Expr
}

func size(rank int) int {
	n := 1
	for range rank {
		n *= Dim
	}
	return n
}

// Build allocates a tensor of the given rank and fills every entry from fn
// in row-major order. It panics when rank is outside [0, MaxRank].
func Build(rank int, fn func(Index) sym.Expr) Tensor {
	if rank < 0 || rank > MaxRank {
		panic(fmt.Sprintf("%v: %d", ErrRank, rank))
	}
	t := Tensor{rank: rank, data: make([]sym.Expr, size(rank))}
	idx := make(Index, rank)
	for off := range t.data {
		decode(off, idx)
		t.data[off] = fn(idx)
	}
	return t
}

// New wraps a flat row-major buffer of length 4^rank.
func New(rank int, data []sym.Expr) (Tensor, error) {
	if rank < 0 || rank > MaxRank {
		return Tensor{}, fmt.Errorf("%w: %d", ErrRank, rank)
	}
	if len(data) != size(rank) {
		return Tensor{}, fmt.Errorf("%w: rank %d needs %d entries, got %d", ErrRank, rank, size(rank), len(data))
	}
	return Tensor{rank: rank, data: append([]sym.Expr(nil), data...)}, nil
}

func Scalar(e sym.Expr) Tensor {
	return Tensor{rank: 0, data: []sym.Expr{e}}
}

func (t Tensor) Rank() int { return t.rank }

func (t Tensor) Len() int { return len(t.data) }

// At returns the entry at idx. Scalars take no indices.
func (t Tensor) At(idx ...int) sym.Expr {
	if len(idx) != t.rank {
		panic(fmt.Sprintf("tensor: %d indices for rank %d", len(idx), t.rank))
	}
	off := 0
	for _, i := range idx {
		if i < 0 || i >= Dim {
			panic(fmt.Sprintf("tensor: index %d out of range", i))
		}
		off = off*Dim + i
	}
	return t.data[off]
}

func decode(off int, idx Index) {
	for k := len(idx) - 1; k >= 0; k-- {
		idx[k] = off % Dim
		off /= Dim
	}
}

// Each visits every entry in row-major order. The index slice is reused
// between calls.
func (t Tensor) Each(fn func(Index, sym.Expr)) {
	idx := make(Index, t.rank)
	for off, e := range t.data {
		decode(off, idx)
		fn(idx, e)
	}
}

func (t Tensor) Map(fn func(sym.Expr) sym.Expr) Tensor {
	out := Tensor{rank: t.rank, data: make([]sym.Expr, len(t.data))}
	for i, e := range t.data {
		out.data[i] = fn(e)
	}
	return out
}

// IsZero reports whether every entry is exactly zero.
func (t Tensor) IsZero() bool {
	for _, e := range t.data {
		if !e.IsZero() {
			return false
		}
	}
	return true
}

func (t Tensor) Equal(o Tensor) bool {
	if t.rank != o.rank {
		return false
	}
	for i := range t.data {
		if !t.data[i].Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// NonZero counts entries that are not exactly zero.
func (t Tensor) NonZero() int {
	n := 0
	for _, e := range t.data {
		if !e.IsZero() {
			n++
		}
	}
	return n
}

// FromMatrix converts a 4x4 matrix to a rank-2 tensor.
func FromMatrix(m *sym.Matrix) (Tensor, error) {
	if m.Rows() != Dim || m.Cols() != Dim {
		return Tensor{}, fmt.Errorf("%w: matrix is %dx%d, want %dx%d", ErrRank, m.Rows(), m.Cols(), Dim, Dim)
	}
	return Build(2, func(i Index) sym.Expr { return m.At(i[0], i[1]) }), nil
}

// Matrix converts a rank-2 tensor to a matrix.
func (t Tensor) Matrix() (*sym.Matrix, error) {
	if t.rank != 2 {
		return nil, fmt.Errorf("%w: rank %d is not a matrix", ErrRank, t.rank)
	}
	m := sym.NewMatrix(Dim, Dim)
	t.Each(func(i Index, e sym.Expr) { m.Set(i[0], i[1], e) })
	return m, nil
}
