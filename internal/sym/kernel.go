package sym

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// kernel is an indivisible factor of a monomial. Kernel keys are unique per
// value and order the monomial: pi, then symbols, undefined functions,
// elementary functions and radicals.
type kernel interface {
	key() string
	String() string
	LaTeX() string
	deriv(x string) Expr
	has(x string) bool
	subs(name string, v Expr) Expr
}

// rewriter is implemented by kernels obeying a polynomial identity k^q = base.
// A nil q means the kernel has no identity.
type rewriter interface {
	rule() (*big.Rat, poly)
}

func fromKernel(k kernel) Expr {
	return Expr{num: monoPoly(kernelMono(k, ratOne), ratOne)}
}

type symbolK struct {
	name string
}

func (k symbolK) key() string    { return "1" + k.name }
func (k symbolK) String() string { return k.name }
func (k symbolK) LaTeX() string  { return latexName(k.name) }
func (k symbolK) has(x string) bool {
	return k.name == x
}

func (k symbolK) deriv(x string) Expr {
	if k.name == x {
		return N(1)
	}
	return Expr{}
}

func (k symbolK) subs(name string, v Expr) Expr {
	if k.name == name {
		return v
	}
	return fromKernel(k)
}

type piK struct{}

func (piK) key() string              { return "0pi" }
func (piK) String() string           { return "pi" }
func (piK) LaTeX() string            { return `\pi` }
func (piK) deriv(string) Expr        { return Expr{} }
func (piK) has(string) bool          { return false }
func (k piK) subs(string, Expr) Expr { return fromKernel(k) }

// funcK is an undefined function applied to arguments, differentiated
// orders[i] times in its i-th slot.
type funcK struct {
	name   string
	args   []Expr
	orders []int
	k      string
}

func newFunc(name string, args []Expr, orders []int) funcK {
	var b strings.Builder
	b.WriteString("2")
	b.WriteString(name)
	b.WriteByte('[')
	for i, o := range orders {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(o))
	}
	b.WriteString("](")
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.key())
	}
	b.WriteByte(')')
	return funcK{name: name, args: args, orders: orders, k: b.String()}
}

func (k funcK) key() string { return k.k }

func (k funcK) total() int {
	n := 0
	for _, o := range k.orders {
		n += o
	}
	return n
}

func (k funcK) argString(tex bool) string {
	parts := make([]string, len(k.args))
	for i, a := range k.args {
		if tex {
			parts[i] = a.LaTeX()
		} else {
			parts[i] = a.String()
		}
	}
	return strings.Join(parts, ", ")
}

func (k funcK) String() string {
	n := k.total()
	switch {
	case n == 0:
		return k.name + "(" + k.argString(false) + ")"
	case len(k.args) == 1 && n <= 3:
		return k.name + strings.Repeat("'", n) + "(" + k.argString(false) + ")"
	case len(k.args) == 1:
		return fmt.Sprintf("%s^(%d)(%s)", k.name, n, k.argString(false))
	}
	orders := make([]string, len(k.orders))
	for i, o := range k.orders {
		orders[i] = strconv.Itoa(o)
	}
	return fmt.Sprintf("D[%s](%s)(%s)", strings.Join(orders, ","), k.name, k.argString(false))
}

func (k funcK) LaTeX() string {
	call := latexName(k.name) + `\left(` + k.argString(true) + `\right)`
	n := k.total()
	switch {
	case n == 0:
		return call
	case len(k.args) == 1 && n <= 3:
		return latexName(k.name) + strings.Repeat("'", n) + `\left(` + k.argString(true) + `\right)`
	}
	var b strings.Builder
	for i, o := range k.orders {
		if o == 0 {
			continue
		}
		slot := strconv.Itoa(i)
		if name, ok := k.args[i].symbolName(); ok {
			slot = latexName(name)
		}
		b.WriteString(`\partial_{` + slot + `}`)
		if o > 1 {
			b.WriteString("^{" + strconv.Itoa(o) + "}")
		}
		b.WriteByte(' ')
	}
	return b.String() + call
}

func (k funcK) has(x string) bool {
	for _, a := range k.args {
		if a.Has(x) {
			return true
		}
	}
	return false
}

func (k funcK) deriv(x string) Expr {
	var out Expr
	for i, a := range k.args {
		da := a.Diff(x)
		if da.IsZero() {
			continue
		}
		orders := append([]int(nil), k.orders...)
		orders[i]++
		out = out.Add(da.Mul(fromKernel(newFunc(k.name, k.args, orders))))
	}
	return out
}

func (k funcK) subs(name string, v Expr) Expr {
	args := make([]Expr, len(k.args))
	for i, a := range k.args {
		args[i] = a.Subs(name, v)
	}
	return fromKernel(newFunc(k.name, args, k.orders))
}

// elemK is an elementary function of one argument.
type elemK struct {
	name string
	arg  Expr
	k    string
	q    *big.Rat
	base poly
}

func newElem(name string, arg Expr) elemK {
	e := elemK{name: name, arg: arg, k: "3" + name + "(" + arg.key() + ")"}
	switch name {
	case "cos":
		e.q = big.NewRat(2, 1)
		e.base = square(newElem("sin", arg), -1)
	case "cosh":
		e.q = big.NewRat(2, 1)
		e.base = square(newElem("sinh", arg), 1)
	}
	return e
}

// square builds 1 + sign*k^2.
func square(k kernel, sign int64) poly {
	p := poly{
		{m: kernelMono(k, big.NewRat(2, 1)), c: big.NewRat(sign, 1)},
		{m: unit, c: ratOne},
	}
	sortPoly(p)
	return p
}

func (k elemK) key() string { return k.k }

func (k elemK) String() string {
	return k.name + "(" + k.arg.String() + ")"
}

func (k elemK) LaTeX() string {
	return `\` + k.name + `\left(` + k.arg.LaTeX() + `\right)`
}

func (k elemK) has(x string) bool { return k.arg.Has(x) }

func (k elemK) rule() (*big.Rat, poly) {
	return k.q, k.base
}

func (k elemK) deriv(x string) Expr {
	du := k.arg.Diff(x)
	if du.IsZero() {
		return Expr{}
	}
	var d Expr
	switch k.name {
	case "sin":
		d = CosOf(k.arg)
	case "cos":
		d = SinOf(k.arg).Neg()
	case "exp":
		d = fromKernel(k)
	case "ln":
		d = k.arg.Inv()
	case "sinh":
		d = CoshOf(k.arg)
	case "cosh":
		d = SinhOf(k.arg)
	}
	return d.Mul(du)
}

func (k elemK) subs(name string, v Expr) Expr {
	return apply(k.name, k.arg.Subs(name, v))
}

// rootK is the positive q-th root of a primitive polynomial or a constant.
type rootK struct {
	base poly
	q    int64
	k    string
}

func newRoot(base poly, q int64) rootK {
	return rootK{base: base, q: q, k: "4root" + strconv.FormatInt(q, 10) + "(" + base.key() + ")"}
}

func (k rootK) key() string { return k.k }

func (k rootK) rule() (*big.Rat, poly) {
	return big.NewRat(k.q, 1), k.base
}

func (k rootK) String() string {
	inner := Expr{num: k.base}.String()
	if k.q == 2 {
		return "sqrt(" + inner + ")"
	}
	return fmt.Sprintf("(%s)^(1/%d)", inner, k.q)
}

func (k rootK) LaTeX() string {
	inner := Expr{num: k.base}.LaTeX()
	if k.q == 2 {
		return `\sqrt{` + inner + `}`
	}
	return fmt.Sprintf(`\sqrt[%d]{%s}`, k.q, inner)
}

func (k rootK) has(x string) bool { return Expr{num: k.base}.Has(x) }

func (k rootK) deriv(x string) Expr {
	b := Expr{num: k.base}
	db := b.Diff(x)
	if db.IsZero() {
		return Expr{}
	}
	return F(1, k.q).Mul(fromKernel(k)).Mul(b.Inv()).Mul(db)
}

func (k rootK) subs(name string, v Expr) Expr {
	return PowRat(normalize(k.base, nil).Subs(name, v), big.NewRat(1, k.q))
}
