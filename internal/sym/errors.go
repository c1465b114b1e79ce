package sym

import (
	"errors"
	"fmt"
)

var (
	ErrSingular       = errors.New("sym: singular matrix")
	ErrNonSquare      = errors.New("sym: matrix is not square")
	ErrShape          = errors.New("sym: matrix dimension mismatch")
	ErrParse          = errors.New("sym: parse error")
	ErrDivisionByZero = errors.New("sym: division by zero")
	ErrDomain         = errors.New("sym: argument outside function domain")
)

// ParseError reports the byte offset at which parsing failed.
type ParseError struct {
	Input   string
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sym: parse %q at %d: %s", e.Input, e.Pos, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
