package gr

import "github.com/san-kum/genrel/internal/sym"

//go:generate mockgen -source=algebra.go -destination=grmock/algebra_mock.go -package=grmock

// Algebra is the symbolic capability the pipeline depends on. Any back end
// that differentiates, simplifies, inverts matrices and decides exact zero
// can drive the computation.
type Algebra interface {
	Diff(e sym.Expr, x sym.Symbol) sym.Expr
	Simplify(e sym.Expr) sym.Expr
	Invert(m *sym.Matrix) (*sym.Matrix, error)
	IsZero(e sym.Expr) bool
}
