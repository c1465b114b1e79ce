package sym

import (
	"math/big"
	"sort"
	"strings"
)

// maxDivSteps bounds exact division so a failed cancellation stays cheap.
const maxDivSteps = 1 << 16

type term struct {
	m monomial
	c *big.Rat
}

// poly is a sum of terms with distinct monomials, sorted in descending
// monomial order, with no zero coefficients.
type poly []term

func constPoly(c *big.Rat) poly {
	if c.Sign() == 0 {
		return nil
	}
	return poly{{m: unit, c: c}}
}

func monoPoly(m monomial, c *big.Rat) poly {
	if c.Sign() == 0 {
		return nil
	}
	return poly{{m: m, c: c}}
}

func sortPoly(p poly) {
	sort.Slice(p, func(i, j int) bool { return cmpMono(p[i].m, p[j].m) > 0 })
}

func (p poly) key() string {
	var b strings.Builder
	for i, t := range p {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(t.c.RatString())
		b.WriteByte('*')
		b.WriteString(t.m.key)
	}
	return b.String()
}

func (p poly) constant() (*big.Rat, bool) {
	switch {
	case len(p) == 0:
		return ratZero, true
	case len(p) == 1 && p[0].m.isUnit():
		return p[0].c, true
	}
	return nil, false
}

// accum collects terms by monomial key.
type accum struct {
	idx   map[string]int
	terms []term
}

func (a *accum) add(m monomial, c *big.Rat) {
	if a.idx == nil {
		a.idx = make(map[string]int)
	}
	if i, ok := a.idx[m.key]; ok {
		a.terms[i].c = new(big.Rat).Add(a.terms[i].c, c)
		return
	}
	a.idx[m.key] = len(a.terms)
	a.terms = append(a.terms, term{m: m, c: new(big.Rat).Set(c)})
}

func (a *accum) poly() poly {
	out := make(poly, 0, len(a.terms))
	for _, t := range a.terms {
		if t.c.Sign() != 0 {
			out = append(out, t)
		}
	}
	sortPoly(out)
	return out
}

func addPoly(a, b poly) poly {
	out := make(poly, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := cmpMono(a[i].m, b[j].m); {
		case c > 0:
			out = append(out, a[i])
			i++
		case c < 0:
			out = append(out, b[j])
			j++
		default:
			s := new(big.Rat).Add(a[i].c, b[j].c)
			if s.Sign() != 0 {
				out = append(out, term{m: a[i].m, c: s})
			}
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// mulTerm multiplies every term by c*m. Order is preserved.
func mulTerm(p poly, c *big.Rat, m monomial) poly {
	if c.Sign() == 0 {
		return nil
	}
	out := make(poly, len(p))
	for i, t := range p {
		out[i] = term{m: mulMono(t.m, m), c: new(big.Rat).Mul(t.c, c)}
	}
	return out
}

func negPoly(p poly) poly {
	return mulTerm(p, big.NewRat(-1, 1), unit)
}

func mulRaw(a, b poly) poly {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	if len(a) == 1 {
		return mulTerm(b, a[0].c, a[0].m)
	}
	if len(b) == 1 {
		return mulTerm(a, b[0].c, b[0].m)
	}
	var acc accum
	for _, x := range a {
		for _, y := range b {
			acc.add(mulMono(x.m, y.m), new(big.Rat).Mul(x.c, y.c))
		}
	}
	return acc.poly()
}

func mulPoly(a, b poly) poly {
	return reduce(mulRaw(a, b))
}

func powPoly(p poly, n int) poly {
	out := constPoly(ratOne)
	base := p
	for n > 0 {
		if n&1 == 1 {
			out = mulPoly(out, base)
		}
		n >>= 1
		if n > 0 {
			base = mulPoly(base, base)
		}
	}
	return out
}

// reduce applies the kernel identities k^q = base to every power with
// exponent at least q.
func reduce(p poly) poly {
	dirty := false
	for _, t := range p {
		if _, _, _, ok := findRewrite(t.m); ok {
			dirty = true
			break
		}
	}
	if !dirty {
		return p
	}
	var acc accum
	work := append(poly(nil), p...)
	for len(work) > 0 {
		t := work[len(work)-1]
		work = work[:len(work)-1]
		i, q, base, ok := findRewrite(t.m)
		if !ok {
			acc.add(t.m, t.c)
			continue
		}
		rest := t.m.with(i, new(big.Rat).Sub(t.m.pows[i].e, q))
		for _, b := range base {
			work = append(work, term{m: mulMono(rest, b.m), c: new(big.Rat).Mul(t.c, b.c)})
		}
	}
	return acc.poly()
}

func findRewrite(m monomial) (int, *big.Rat, poly, bool) {
	for i, p := range m.pows {
		rw, ok := p.k.(rewriter)
		if !ok {
			continue
		}
		q, base := rw.rule()
		if q != nil && p.e.Cmp(q) >= 0 {
			return i, q, base, true
		}
	}
	return 0, nil, nil, false
}

// split factors p as c * m * prim where prim has coprime integer
// coefficients, a positive leading coefficient and no monomial content.
func split(p poly) (*big.Rat, monomial, poly) {
	g := new(big.Int)
	l := big.NewInt(1)
	for _, t := range p {
		g.GCD(nil, nil, g, t.c.Num())
		d := t.c.Denom()
		gd := new(big.Int).GCD(nil, nil, l, d)
		l = new(big.Int).Div(new(big.Int).Mul(l, d), gd)
	}
	c := new(big.Rat).SetFrac(g, l)
	if p[0].c.Sign() < 0 {
		c.Neg(c)
	}

	type low struct {
		k     kernel
		e     *big.Rat
		count int
	}
	lows := make(map[string]*low)
	for _, t := range p {
		for _, pw := range t.m.pows {
			key := pw.k.key()
			if l, ok := lows[key]; ok {
				if pw.e.Cmp(l.e) < 0 {
					l.e = pw.e
				}
				l.count++
				continue
			}
			lows[key] = &low{k: pw.k, e: pw.e, count: 1}
		}
	}
	var pows []power
	for _, l := range lows {
		e := l.e
		if l.count < len(p) && e.Sign() > 0 {
			e = ratZero
		}
		if e.Sign() != 0 {
			pows = append(pows, power{k: l.k, e: e})
		}
	}
	content := monoFrom(pows)

	cinv := new(big.Rat).Inv(c)
	minv := invMono(content)
	prim := make(poly, len(p))
	for i, t := range p {
		prim[i] = term{m: mulMono(t.m, minv), c: new(big.Rat).Mul(t.c, cinv)}
	}
	return c, content, prim
}

// divExact divides a by the primitive factor b, reporting false when b
// does not divide a.
func divExact(a, b poly) (poly, bool) {
	if len(a) == 0 {
		return nil, true
	}
	c, m, ap := split(a)
	if _, ok := quoMono(ap[0].m, b[0].m); !ok {
		return nil, false
	}
	if _, ok := quoMono(ap[len(ap)-1].m, b[len(b)-1].m); !ok {
		return nil, false
	}

	var q accum
	r := ap
	for n := 0; len(r) > 0; n++ {
		if n > maxDivSteps {
			return nil, false
		}
		qm, ok := quoMono(r[0].m, b[0].m)
		if !ok {
			return nil, false
		}
		qc := new(big.Rat).Quo(r[0].c, b[0].c)
		q.add(qm, qc)
		r = addPoly(r, mulTerm(b, new(big.Rat).Neg(qc), qm))
	}
	return reduce(mulTerm(q.poly(), c, m)), true
}
