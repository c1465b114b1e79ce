package sym

import (
	"math/big"
	"unicode"
	"unicode/utf8"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
)

type token struct {
	kind tokKind
	text string
	pos  int
}

var unary = map[string]func(Expr) Expr{
	"sin":  SinOf,
	"cos":  CosOf,
	"tan":  TanOf,
	"exp":  ExpOf,
	"ln":   LnOf,
	"log":  LnOf,
	"sqrt": SqrtOf,
	"sinh": SinhOf,
	"cosh": CoshOf,
	"tanh": TanhOf,
}

// Parse reads an infix expression. It accepts + - * / ^ (or **), unary
// minus, parentheses, integer literals, identifiers and function calls.
// Unknown functions become undefined functions of their arguments.
// Decimal literals are rejected; write exact fractions instead.
func Parse(input string) (e Expr, err error) {
	toks, err := lex(input)
	if err != nil {
		return Expr{}, err
	}
	p := &parser{input: input, toks: toks}
	defer func() {
		if r := recover(); r != nil {
			if r == ErrDivisionByZero || r == ErrDomain {
				e, err = Expr{}, &ParseError{Input: input, Pos: 0, Message: r.(error).Error()}
				return
			}
			panic(r)
		}
	}()
	e, err = p.expr()
	if err != nil {
		return Expr{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return Expr{}, p.fail(t, "unexpected "+quoteTok(t))
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

func lex(input string) ([]token, error) {
	var toks []token
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r >= '0' && r <= '9':
			j := i
			for j < len(input) && input[j] >= '0' && input[j] <= '9' {
				j++
			}
			if j < len(input) && input[j] == '.' {
				return nil, &ParseError{Input: input, Pos: j, Message: "decimal literals are not exact, use a fraction"}
			}
			toks = append(toks, token{kind: tokNum, text: input[i:j], pos: i})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i + size
			for j < len(input) {
				r2, s2 := utf8.DecodeRuneInString(input[j:])
				if !unicode.IsLetter(r2) && !unicode.IsDigit(r2) && r2 != '_' {
					break
				}
				j += s2
			}
			toks = append(toks, token{kind: tokIdent, text: input[i:j], pos: i})
			i = j
		case r == '*' && i+1 < len(input) && input[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^' || r == '(' || r == ')' || r == ',':
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i += size
		default:
			return nil, &ParseError{Input: input, Pos: i, Message: "unexpected character " + string(r)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(input)}), nil
}

type parser struct {
	input string
	toks  []token
	pos   int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(op string) bool {
	if t := p.peek(); t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

func (p *parser) fail(t token, msg string) error {
	return &ParseError{Input: p.input, Pos: t.pos, Message: msg}
}

func quoteTok(t token) string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return "'" + t.text + "'"
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return Expr{}, err
	}
	for {
		switch {
		case p.accept("+"):
			right, err := p.term()
			if err != nil {
				return Expr{}, err
			}
			left = left.Add(right)
		case p.accept("-"):
			right, err := p.term()
			if err != nil {
				return Expr{}, err
			}
			left = left.Sub(right)
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return Expr{}, err
	}
	for {
		switch {
		case p.accept("*"):
			right, err := p.unary()
			if err != nil {
				return Expr{}, err
			}
			left = left.Mul(right)
		case p.accept("/"):
			t := p.peek()
			right, err := p.unary()
			if err != nil {
				return Expr{}, err
			}
			if right.IsZero() {
				return Expr{}, p.fail(t, "division by zero")
			}
			left = left.Div(right)
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (Expr, error) {
	if p.accept("-") {
		e, err := p.unary()
		return e.Neg(), err
	}
	if p.accept("+") {
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return Expr{}, err
	}
	if !p.accept("^") {
		return base, nil
	}
	t := p.peek()
	exp, err := p.unary()
	if err != nil {
		return Expr{}, err
	}
	if base.IsZero() {
		if r, ok := exp.Number(); !ok || r.Sign() <= 0 {
			return Expr{}, p.fail(t, "zero raised to a non-positive power")
		}
	}
	return PowOf(base, exp), nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		n, ok := new(big.Int).SetString(t.text, 10)
		if !ok {
			return Expr{}, p.fail(t, "bad number "+t.text)
		}
		return R(new(big.Rat).SetInt(n)), nil
	case tokIdent:
		if !p.accept("(") {
			return S(t.text), nil
		}
		args, err := p.args()
		if err != nil {
			return Expr{}, err
		}
		if fn, ok := unary[t.text]; ok {
			if len(args) != 1 {
				return Expr{}, p.fail(t, t.text+" takes one argument")
			}
			return fn(args[0]), nil
		}
		return Func(t.text, args...), nil
	case tokOp:
		if t.text == "(" {
			e, err := p.expr()
			if err != nil {
				return Expr{}, err
			}
			if !p.accept(")") {
				return Expr{}, p.fail(p.peek(), "expected ')'")
			}
			return e, nil
		}
	}
	return Expr{}, p.fail(t, "unexpected "+quoteTok(t))
}

func (p *parser) args() ([]Expr, error) {
	var args []Expr
	if p.accept(")") {
		return args, nil
	}
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.accept(")") {
			return args, nil
		}
		if !p.accept(",") {
			return nil, p.fail(p.peek(), "expected ',' or ')'")
		}
	}
}
