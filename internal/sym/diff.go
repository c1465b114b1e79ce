package sym

import "math/big"

// Diff returns the partial derivative of e with respect to the symbol x.
func (e Expr) Diff(x string) Expr {
	if !e.Has(x) {
		return Expr{}
	}
	d := diffPoly(e.num, x)
	if len(e.den) == 0 {
		return d
	}
	// (N/D)' = N'/D - (N/D) * Σ m p'/p
	out := d.Mul(Expr{num: constPoly(ratOne), den: e.den})
	var s Expr
	for _, f := range e.den {
		dp := diffPoly(f.p, x)
		if dp.IsZero() {
			continue
		}
		inv := Expr{num: constPoly(ratOne), den: []factor{{p: f.p, m: 1, key: f.key}}}
		s = s.Add(N(int64(f.m)).Mul(dp).Mul(inv))
	}
	return out.Sub(e.Mul(s))
}

func diffPoly(p poly, x string) Expr {
	var acc accum
	var rest Expr
	for _, t := range p {
		for i, pw := range t.m.pows {
			if !pw.k.has(x) {
				continue
			}
			dk := pw.k.deriv(x)
			if dk.IsZero() {
				continue
			}
			m := t.m.with(i, new(big.Rat).Sub(pw.e, ratOne))
			c := new(big.Rat).Mul(t.c, pw.e)
			if len(dk.den) == 0 {
				for _, u := range mulTerm(dk.num, c, m) {
					acc.add(u.m, u.c)
				}
				continue
			}
			rest = rest.Add(fromPoly(monoPoly(m, c)).Mul(dk))
		}
	}
	return fromPoly(acc.poly()).Add(rest)
}

// DiffN differentiates e n times with respect to x.
func (e Expr) DiffN(x string, n int) Expr {
	for range n {
		e = e.Diff(x)
	}
	return e
}
