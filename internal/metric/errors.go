package metric

import (
	"errors"
	"fmt"
)

// Validation errors for metric construction.
var (
	// ErrBadShape indicates a metric that is not 4x4.
	ErrBadShape = errors.New("metric: matrix must be 4x4")

	// ErrBadKey indicates a coordinate key without exactly four distinct symbols.
	ErrBadKey = errors.New("metric: coordinate key must hold 4 distinct symbols")

	// ErrAsymmetric indicates g[i][j] != g[j][i].
	ErrAsymmetric = errors.New("metric: matrix is not symmetric")

	// ErrDegenerate indicates a metric with vanishing determinant.
	ErrDegenerate = errors.New("metric: determinant is zero")
)

// EntryError wraps an error with the position of the offending entry.
type EntryError struct {
	Row, Col int
	Wrapped  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("g[%d][%d]: %v", e.Row, e.Col, e.Wrapped)
}

func (e *EntryError) Unwrap() error {
	return e.Wrapped
}
