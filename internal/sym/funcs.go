package sym

import "math/big"

// Symbol names a coordinate or parameter.
type Symbol string

func (s Symbol) Name() string { return string(s) }

func (s Symbol) Expr() Expr { return S(string(s)) }

// S returns the symbol with the given name. The name "pi" is the constant.
func S(name string) Expr {
	if name == "pi" {
		return Pi()
	}
	return fromKernel(symbolK{name: name})
}

func Pi() Expr {
	return fromKernel(piK{})
}

// Func returns the undefined function name applied to args, such as a(t).
func Func(name string, args ...Expr) Expr {
	return fromKernel(newFunc(name, append([]Expr(nil), args...), make([]int, len(args))))
}

func AddOf(xs ...Expr) Expr {
	var out Expr
	for _, x := range xs {
		out = out.Add(x)
	}
	return out
}

func MulOf(xs ...Expr) Expr {
	out := N(1)
	for _, x := range xs {
		if out.IsZero() {
			return out
		}
		out = out.Mul(x)
	}
	return out
}

// Simplify returns e. Expressions are canonical on construction, so this
// exists for callers that treat simplification as a separate step.
func Simplify(e Expr) Expr {
	return e
}

func PowInt(e Expr, n int) Expr {
	return e.PowInt(n)
}

// PowOf raises b to e. Non-numeric exponents become exp(e*ln(b)).
func PowOf(b, e Expr) Expr {
	if r, ok := e.Number(); ok {
		return PowRat(b, r)
	}
	return ExpOf(e.Mul(LnOf(b)))
}

// PowRat raises e to a rational power. Symbols under a radical are taken
// to be positive, so (x^2)^(1/2) is x.
func PowRat(e Expr, r *big.Rat) Expr {
	if r.IsInt() {
		return e.PowInt(int(r.Num().Int64()))
	}
	if e.IsZero() {
		if r.Sign() > 0 {
			return Expr{}
		}
		panic(ErrDivisionByZero)
	}
	out := powPolyRat(e.num, r)
	for _, f := range e.den {
		out = out.Mul(powPolyRat(f.p, new(big.Rat).Mul(r, big.NewRat(int64(-f.m), 1))))
	}
	return out
}

func powPolyRat(p poly, r *big.Rat) Expr {
	if r.IsInt() {
		return fromPoly(p).PowInt(int(r.Num().Int64()))
	}
	c, m, prim := split(p)
	out := ratPow(c, r).Mul(fromPoly(monoPoly(scaleMono(m, r), ratOne)))
	if _, ok := prim.constant(); ok {
		return out
	}
	a, b := r.Num().Int64(), r.Denom().Int64()
	fl := a / b
	if a%b != 0 && a < 0 {
		fl--
	}
	out = out.Mul(fromPoly(prim).PowInt(int(fl)))
	if rem := a - fl*b; rem != 0 {
		out = out.Mul(fromPoly(monoPoly(kernelMono(newRoot(prim, b), big.NewRat(rem, 1)), ratOne)))
	}
	return out
}

// ratPow evaluates c^r exactly, keeping irrational parts as radicals of
// integers.
func ratPow(c, r *big.Rat) Expr {
	if c.Cmp(ratOne) == 0 {
		return N(1)
	}
	a, b := r.Num().Int64(), r.Denom().Int64()
	n := new(big.Int).Abs(c.Num())
	d := c.Denom()
	// c^(1/b) = (n*d^(b-1))^(1/b) / d
	whole := new(big.Int).Mul(n, new(big.Int).Exp(d, big.NewInt(b-1), nil))
	s, rest := extractRoot(whole, b)
	out := R(new(big.Rat).SetFrac(s, d))
	if rest.Cmp(big.NewInt(1)) != 0 {
		out = out.Mul(fromKernel(newRoot(constPoly(new(big.Rat).SetInt(rest)), b)))
	}
	if c.Sign() < 0 {
		if b%2 == 1 {
			out = out.Neg()
		} else {
			out = out.Mul(fromKernel(newRoot(constPoly(big.NewRat(-1, 1)), b)))
		}
	}
	return out.PowInt(int(a))
}

// extractRoot writes n = s^b * rest, pulling out small perfect powers.
func extractRoot(n *big.Int, b int64) (*big.Int, *big.Int) {
	if r, ok := iroot(n, b); ok {
		return r, big.NewInt(1)
	}
	s := big.NewInt(1)
	rest := new(big.Int).Set(n)
	mod := new(big.Int)
	for p := int64(2); p < 10000; p++ {
		pb := new(big.Int).Exp(big.NewInt(p), big.NewInt(b), nil)
		if pb.Cmp(rest) > 0 {
			break
		}
		for {
			q, m := new(big.Int).QuoRem(rest, pb, mod)
			if m.Sign() != 0 {
				break
			}
			rest = q
			s.Mul(s, big.NewInt(p))
		}
	}
	return s, rest
}

// iroot returns the integer b-th root of n and whether it is exact.
func iroot(n *big.Int, b int64) (*big.Int, bool) {
	if n.Sign() == 0 {
		return new(big.Int), true
	}
	lo := big.NewInt(0)
	hi := new(big.Int).Lsh(big.NewInt(1), uint(n.BitLen()/int(b)+1))
	exp := big.NewInt(b)
	one := big.NewInt(1)
	for lo.Cmp(hi) < 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Add(mid, one)
		mid.Rsh(mid, 1)
		if new(big.Int).Exp(mid, exp, nil).Cmp(n) <= 0 {
			lo = mid
		} else {
			hi = new(big.Int).Sub(mid, one)
		}
	}
	return lo, new(big.Int).Exp(lo, exp, nil).Cmp(n) == 0
}

func SqrtOf(e Expr) Expr { return PowRat(e, big.NewRat(1, 2)) }
func SinOf(e Expr) Expr  { return apply("sin", e) }
func CosOf(e Expr) Expr  { return apply("cos", e) }
func ExpOf(e Expr) Expr  { return apply("exp", e) }
func LnOf(e Expr) Expr   { return apply("ln", e) }
func SinhOf(e Expr) Expr { return apply("sinh", e) }
func CoshOf(e Expr) Expr { return apply("cosh", e) }
func TanOf(e Expr) Expr  { return SinOf(e).Div(CosOf(e)) }
func TanhOf(e Expr) Expr { return SinhOf(e).Div(CoshOf(e)) }

var (
	sinQuarter = [4]int64{0, 1, 0, -1}
	cosQuarter = [4]int64{1, 0, -1, 0}
)

func apply(name string, u Expr) Expr {
	switch name {
	case "sin", "sinh":
		if u.IsZero() {
			return Expr{}
		}
		if u.leadNegative() {
			return apply(name, u.Neg()).Neg()
		}
	case "cos", "cosh":
		if u.IsZero() {
			return N(1)
		}
		if u.leadNegative() {
			return apply(name, u.Neg())
		}
	case "exp":
		if u.IsZero() {
			return N(1)
		}
		if inner, ok := u.elemArg("ln"); ok {
			return inner
		}
	case "ln":
		if u.IsZero() {
			panic(ErrDomain)
		}
		if r, ok := u.Number(); ok && r.Cmp(ratOne) == 0 {
			return Expr{}
		}
		if inner, ok := u.elemArg("exp"); ok {
			return inner
		}
	}
	if name == "sin" || name == "cos" {
		if n, ok := u.halfPiMultiple(); ok {
			if name == "sin" {
				return N(sinQuarter[n])
			}
			return N(cosQuarter[n])
		}
	}
	return fromKernel(newElem(name, u))
}

// elemArg returns u's argument when u is exactly name(arg).
func (e Expr) elemArg(name string) (Expr, bool) {
	if len(e.den) > 0 || len(e.num) != 1 || e.num[0].c.Cmp(ratOne) != 0 {
		return Expr{}, false
	}
	pows := e.num[0].m.pows
	if len(pows) != 1 || pows[0].e.Cmp(ratOne) != 0 {
		return Expr{}, false
	}
	k, ok := pows[0].k.(elemK)
	if !ok || k.name != name {
		return Expr{}, false
	}
	return k.arg, true
}

// halfPiMultiple reports n mod 4 when e is n*pi/2 for a positive integer n.
func (e Expr) halfPiMultiple() (int, bool) {
	if len(e.den) > 0 || len(e.num) != 1 {
		return 0, false
	}
	pows := e.num[0].m.pows
	if len(pows) != 1 || pows[0].e.Cmp(ratOne) != 0 {
		return 0, false
	}
	if _, ok := pows[0].k.(piK); !ok {
		return 0, false
	}
	twice := new(big.Rat).Mul(e.num[0].c, big.NewRat(2, 1))
	if !twice.IsInt() {
		return 0, false
	}
	n := new(big.Int).Mod(twice.Num(), big.NewInt(4))
	return int(n.Int64()), true
}
