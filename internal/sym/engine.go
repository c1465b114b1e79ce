package sym

// Engine is the default symbolic back end for the tensor pipeline.
type Engine struct{}

func (Engine) Diff(e Expr, x Symbol) Expr { return e.Diff(x.Name()) }

func (Engine) Simplify(e Expr) Expr { return Simplify(e) }

func (Engine) Invert(m *Matrix) (*Matrix, error) { return m.Inverse() }

func (Engine) IsZero(e Expr) bool { return e.IsZero() }
