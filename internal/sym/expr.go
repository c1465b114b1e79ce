package sym

import (
	"math/big"
	"strconv"
	"strings"
)

const maxLift = 16

// factor is a primitive polynomial raised to a positive multiplicity.
type factor struct {
	p   poly
	m   int
	key string
}

func newFactor(p poly, m int) factor {
	return factor{p: p, m: m, key: p.key()}
}

// Expr is an immutable symbolic expression: num / Π den[i].p^den[i].m.
// The zero value is 0.
type Expr struct {
	num poly
	den []factor
}

// N returns the integer n.
func N(n int64) Expr {
	return Expr{num: constPoly(big.NewRat(n, 1))}
}

// F returns the fraction a/b.
func F(a, b int64) Expr {
	if b == 0 {
		panic(ErrDivisionByZero)
	}
	return Expr{num: constPoly(big.NewRat(a, b))}
}

// R returns the rational r.
func R(r *big.Rat) Expr {
	return Expr{num: constPoly(new(big.Rat).Set(r))}
}

func fromPoly(p poly) Expr {
	return normalize(reduce(p), nil)
}

func (e Expr) IsZero() bool {
	return len(e.num) == 0
}

// Number returns the value of e when it is a rational constant.
func (e Expr) Number() (*big.Rat, bool) {
	if len(e.den) > 0 {
		return nil, false
	}
	c, ok := e.num.constant()
	if !ok {
		return nil, false
	}
	return new(big.Rat).Set(c), true
}

func (e Expr) IsNumber() bool {
	_, ok := e.Number()
	return ok
}

// Equal reports whether e and o have the same value. Denominators are not
// factored, so (x-y)^2 and x^2-2*x*y+y^2 can hold the same value in
// different forms; those are compared through their difference.
func (e Expr) Equal(o Expr) bool {
	if e.Identical(o) {
		return true
	}
	return e.Sub(o).IsZero()
}

// Identical reports whether e and o have the same canonical form.
func (e Expr) Identical(o Expr) bool {
	return e.key() == o.key()
}

// Size counts the terms in the numerator and in every denominator factor.
func (e Expr) Size() int {
	n := len(e.num)
	for _, f := range e.den {
		n += len(f.p)
	}
	return n
}

// Has reports whether e depends on the symbol x.
func (e Expr) Has(x string) bool {
	for _, t := range e.num {
		for _, p := range t.m.pows {
			if p.k.has(x) {
				return true
			}
		}
	}
	for _, f := range e.den {
		if (Expr{num: f.p}).Has(x) {
			return true
		}
	}
	return false
}

func (e Expr) key() string {
	if len(e.den) == 0 {
		return e.num.key()
	}
	var b strings.Builder
	b.WriteString(e.num.key())
	for _, f := range e.den {
		b.WriteString("|")
		b.WriteString(f.key)
		b.WriteByte('^')
		b.WriteString(strconv.Itoa(f.m))
	}
	return b.String()
}

func (e Expr) symbolName() (string, bool) {
	if len(e.den) > 0 || len(e.num) != 1 || e.num[0].c.Cmp(ratOne) != 0 {
		return "", false
	}
	pows := e.num[0].m.pows
	if len(pows) != 1 || pows[0].e.Cmp(ratOne) != 0 {
		return "", false
	}
	s, ok := pows[0].k.(symbolK)
	return s.name, ok
}

func (e Expr) leadNegative() bool {
	return len(e.num) > 0 && e.num[0].c.Sign() < 0
}

func (e Expr) Neg() Expr {
	return Expr{num: negPoly(e.num), den: e.den}
}

func (e Expr) Add(o Expr) Expr {
	switch {
	case e.IsZero():
		return o
	case o.IsZero():
		return e
	case len(e.den) == 0 && len(o.den) == 0:
		return Expr{num: addPoly(e.num, o.num)}
	case sameFactors(e.den, o.den):
		return normalize(addPoly(e.num, o.num), e.den)
	}
	l := lcmFactors(e.den, o.den)
	a := mulPoly(e.num, cofactor(l, e.den))
	b := mulPoly(o.num, cofactor(l, o.den))
	return normalize(addPoly(a, b), l)
}

func (e Expr) Sub(o Expr) Expr {
	return e.Add(o.Neg())
}

func (e Expr) Mul(o Expr) Expr {
	if e.IsZero() || o.IsZero() {
		return Expr{}
	}
	num := mulPoly(e.num, o.num)
	if len(e.den) == 0 && len(o.den) == 0 {
		return Expr{num: num}
	}
	return normalize(num, mergeFactors(e.den, o.den))
}

// Inv returns 1/e. It panics with ErrDivisionByZero when e is zero.
func (e Expr) Inv() Expr {
	if e.IsZero() {
		panic(ErrDivisionByZero)
	}
	num := constPoly(ratOne)
	for _, f := range e.den {
		num = mulPoly(num, powPoly(f.p, f.m))
	}
	scale, mono, den := withFactor(nil, e.num, 1)
	return normalize(reduce(mulTerm(num, scale, mono)), den)
}

func (e Expr) Div(o Expr) Expr {
	return e.Mul(o.Inv())
}

func (e Expr) PowInt(n int) Expr {
	switch {
	case n == 0:
		return N(1)
	case n == 1:
		return e
	case n < 0:
		return e.Inv().PowInt(-n)
	case e.IsZero():
		return Expr{}
	}
	num := powPoly(e.num, n)
	if len(e.den) == 0 {
		return Expr{num: num}
	}
	den := make([]factor, len(e.den))
	for i, f := range e.den {
		den[i] = factor{p: f.p, m: f.m * n, key: f.key}
	}
	return normalize(num, den)
}

// normalize lifts negative powers of rewriting kernels into the
// denominator and cancels every denominator factor that divides num.
func normalize(num poly, den []factor) Expr {
	if len(num) == 0 {
		return Expr{}
	}
	num, den = lift(num, den)
	var out []factor
	for _, f := range den {
		m := f.m
		for m > 0 {
			q, ok := divExact(num, f.p)
			if !ok {
				break
			}
			num = q
			m--
		}
		if m > 0 {
			out = append(out, factor{p: f.p, m: m, key: f.key})
		}
	}
	return Expr{num: num, den: out}
}

func lift(num poly, den []factor) (poly, []factor) {
	for range maxLift {
		k, q, base, lowest, ok := negativeRewrite(num)
		if !ok {
			break
		}
		steps := ceilRat(new(big.Rat).Quo(new(big.Rat).Neg(lowest), q))
		shift := new(big.Rat).Mul(q, big.NewRat(steps, 1))
		num = reduce(mulTerm(num, ratOne, kernelMono(k, shift)))
		var scale *big.Rat
		var mono monomial
		scale, mono, den = withFactor(den, base, int(steps))
		num = reduce(mulTerm(num, scale, mono))
	}
	return num, den
}

func negativeRewrite(p poly) (kernel, *big.Rat, poly, *big.Rat, bool) {
	for _, t := range p {
		for _, pw := range t.m.pows {
			rw, ok := pw.k.(rewriter)
			if !ok || pw.e.Sign() >= 0 {
				continue
			}
			q, base := rw.rule()
			if q == nil {
				continue
			}
			lowest := pw.e
			key := pw.k.key()
			for _, u := range p {
				if e := u.m.exponent(key); e.Cmp(lowest) < 0 {
					lowest = e
				}
			}
			return pw.k, q, base, lowest, true
		}
	}
	return nil, nil, nil, nil, false
}

func ceilRat(x *big.Rat) int64 {
	n, d := x.Num(), x.Denom()
	q, r := new(big.Int).QuoRem(n, d, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}

// withFactor places p^m in the denominator and returns the coefficient and
// monomial the numerator must be multiplied by.
func withFactor(den []factor, p poly, m int) (*big.Rat, monomial, []factor) {
	c, mono, prim := split(p)
	cm := new(big.Rat).SetInt64(1)
	for range m {
		cm.Mul(cm, c)
	}
	scale := cm.Inv(cm)
	inv := scaleMono(mono, big.NewRat(int64(-m), 1))
	if _, ok := prim.constant(); ok {
		return scale, inv, den
	}
	return scale, inv, mergeFactors(den, []factor{newFactor(prim, m)})
}

func sameFactors(a, b []factor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].key != b[i].key || a[i].m != b[i].m {
			return false
		}
	}
	return true
}

func combineFactors(a, b []factor, join func(x, y int) int) []factor {
	out := make([]factor, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].key < b[j].key:
			out = append(out, a[i])
			i++
		case a[i].key > b[j].key:
			out = append(out, b[j])
			j++
		default:
			out = append(out, factor{p: a[i].p, m: join(a[i].m, b[j].m), key: a[i].key})
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func mergeFactors(a, b []factor) []factor {
	return combineFactors(a, b, func(x, y int) int { return x + y })
}

func lcmFactors(a, b []factor) []factor {
	return combineFactors(a, b, func(x, y int) int { return max(x, y) })
}

// cofactor is the product of l divided by the product of d, where every
// factor of d appears in l with at least its multiplicity.
func cofactor(l, d []factor) poly {
	out := constPoly(ratOne)
	j := 0
	for _, f := range l {
		m := f.m
		if j < len(d) && d[j].key == f.key {
			m -= d[j].m
			j++
		}
		if m > 0 {
			out = mulPoly(out, powPoly(f.p, m))
		}
	}
	return out
}

// Subs replaces the symbol name by v everywhere in e.
func (e Expr) Subs(name string, v Expr) Expr {
	if !e.Has(name) {
		return e
	}
	return e.mapKernels(func(k kernel) Expr { return k.subs(name, v) })
}

func (e Expr) mapKernels(fn func(kernel) Expr) Expr {
	memo := make(map[string]Expr)
	eval := func(p poly) Expr {
		var s Expr
		for _, t := range p {
			v := R(t.c)
			for _, pw := range t.m.pows {
				kv, ok := memo[pw.k.key()]
				if !ok {
					kv = fn(pw.k)
					memo[pw.k.key()] = kv
				}
				v = v.Mul(PowRat(kv, pw.e))
			}
			s = s.Add(v)
		}
		return s
	}
	out := eval(e.num)
	for _, f := range e.den {
		out = out.Mul(eval(f.p).PowInt(-f.m))
	}
	return out
}
