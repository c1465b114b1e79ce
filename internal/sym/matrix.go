package sym

import (
	"fmt"
	"strings"
)

// Matrix is a dense row-major matrix of expressions.
type Matrix struct {
	rows, cols int
	data       []Expr
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]Expr, rows*cols)}
}

// MatrixFromRows builds a matrix from equally long rows.
func MatrixFromRows(rows [][]Expr) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrShape)
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrShape, i, len(row), m.cols)
		}
		copy(m.data[i*m.cols:], row)
	}
	return m, nil
}

func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := range n {
		m.data[i*n+i] = N(1)
	}
	return m
}

func Diagonal(entries ...Expr) *Matrix {
	n := len(entries)
	m := NewMatrix(n, n)
	for i, e := range entries {
		m.data[i*n+i] = e
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) checkBounds(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("sym: index (%d, %d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

func (m *Matrix) At(i, j int) Expr {
	m.checkBounds(i, j)
	return m.data[i*m.cols+j]
}

func (m *Matrix) Set(i, j int, e Expr) {
	m.checkBounds(i, j)
	m.data[i*m.cols+j] = e
}

func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

func (m *Matrix) Transpose() *Matrix {
	t := NewMatrix(m.cols, m.rows)
	for i := range m.rows {
		for j := range m.cols {
			t.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return t
}

func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, fmt.Errorf("%w: %dx%d times %dx%d", ErrShape, m.rows, m.cols, o.rows, o.cols)
	}
	out := NewMatrix(m.rows, o.cols)
	for i := range m.rows {
		for j := range o.cols {
			var s Expr
			for k := range m.cols {
				s = s.Add(m.data[i*m.cols+k].Mul(o.data[k*o.cols+j]))
			}
			out.data[i*o.cols+j] = s
		}
	}
	return out, nil
}

func (m *Matrix) IsSymmetric() bool {
	if m.rows != m.cols {
		return false
	}
	for i := range m.rows {
		for j := i + 1; j < m.cols; j++ {
			if !m.At(i, j).Equal(m.At(j, i)) {
				return false
			}
		}
	}
	return true
}

func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// Det computes the determinant by cofactor expansion, skipping zero entries.
func (m *Matrix) Det() (Expr, error) {
	if m.rows != m.cols {
		return Expr{}, ErrNonSquare
	}
	rows := make([]int, m.rows)
	cols := make([]int, m.cols)
	for i := range rows {
		rows[i] = i
		cols[i] = i
	}
	return m.minor(rows, cols), nil
}

func (m *Matrix) minor(rows, cols []int) Expr {
	switch len(rows) {
	case 0:
		return N(1)
	case 1:
		return m.At(rows[0], cols[0])
	}
	var det Expr
	sub := rows[1:]
	for k, c := range cols {
		a := m.At(rows[0], c)
		if a.IsZero() {
			continue
		}
		rest := make([]int, 0, len(cols)-1)
		rest = append(rest, cols[:k]...)
		rest = append(rest, cols[k+1:]...)
		term := a.Mul(m.minor(sub, rest))
		if k%2 == 1 {
			term = term.Neg()
		}
		det = det.Add(term)
	}
	return det
}

// Inverse returns the adjugate divided by the determinant.
func (m *Matrix) Inverse() (*Matrix, error) {
	det, err := m.Det()
	if err != nil {
		return nil, err
	}
	if det.IsZero() {
		return nil, ErrSingular
	}
	n := m.rows
	inv := NewMatrix(n, n)
	scale := det.Inv()
	for i := range n {
		for j := range n {
			c := m.minor(without(n, j), without(n, i))
			if (i+j)%2 == 1 {
				c = c.Neg()
			}
			inv.data[i*n+j] = c.Mul(scale)
		}
	}
	return inv, nil
}

func without(n, skip int) []int {
	out := make([]int, 0, n-1)
	for i := range n {
		if i != skip {
			out = append(out, i)
		}
	}
	return out
}

func (m *Matrix) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i := range m.rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("[")
		for j := range m.cols {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.At(i, j).String())
		}
		b.WriteString("]")
	}
	b.WriteString("]")
	return b.String()
}

func (m *Matrix) LaTeX() string {
	var b strings.Builder
	b.WriteString(`\begin{pmatrix}`)
	for i := range m.rows {
		if i > 0 {
			b.WriteString(` \\`)
		}
		for j := range m.cols {
			if j > 0 {
				b.WriteString(" &")
			}
			b.WriteString(" " + m.At(i, j).LaTeX())
		}
	}
	b.WriteString(` \end{pmatrix}`)
	return b.String()
}
