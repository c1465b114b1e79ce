package tensor

import (
	"fmt"

	"github.com/san-kum/genrel/internal/sym"
)

// Contract multiplies m into t along axis:
//
//	out[..i..] = Σ_k m[i][k] t[..k..]
//
// With m the inverse metric this raises the index at axis; with the
// metric it lowers it.
func Contract(t Tensor, m *sym.Matrix, axis int) (Tensor, error) {
	if axis < 0 || axis >= t.rank {
		return Tensor{}, fmt.Errorf("%w: axis %d for rank %d", ErrAxis, axis, t.rank)
	}
	if m.Rows() != Dim || m.Cols() != Dim {
		return Tensor{}, fmt.Errorf("%w: contraction matrix is %dx%d", ErrRank, m.Rows(), m.Cols())
	}
	src := make([]int, t.rank)
	return Build(t.rank, func(idx Index) sym.Expr {
		copy(src, idx)
		var s sym.Expr
		for k := range Dim {
			c := m.At(idx[axis], k)
			if c.IsZero() {
				continue
			}
			src[axis] = k
			s = s.Add(c.Mul(t.At(src...)))
		}
		return sym.Simplify(s)
	}), nil
}

// Node is a nested view of a tensor: scalars are leaves and every other
// level holds Dim children.
type Node struct {
	Leaf     sym.Expr
	Children []Node
}

func (n Node) IsLeaf() bool { return n.Children == nil }

// Tree returns the nested view of t.
func (t Tensor) Tree() Node {
	return t.tree(0, t.rank)
}

func (t Tensor) tree(off, depth int) Node {
	if depth == 0 {
		return Node{Leaf: t.data[off]}
	}
	stride := size(depth - 1)
	children := make([]Node, Dim)
	for i := range children {
		children[i] = t.tree(off+i*stride, depth-1)
	}
	return Node{Children: children}
}
