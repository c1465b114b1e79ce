package sym

import (
	"math/big"
	"sort"
	"strings"
)

var (
	ratZero = new(big.Rat)
	ratOne  = big.NewRat(1, 1)
)

// power is a kernel raised to a nonzero rational exponent.
type power struct {
	k kernel
	e *big.Rat
}

// monomial is a product of powers sorted by kernel key. Exponents are never
// mutated once a monomial is built.
type monomial struct {
	pows []power
	key  string
}

var unit = monomial{}

func makeMono(pows []power) monomial {
	if len(pows) == 0 {
		return unit
	}
	var b strings.Builder
	for i, p := range pows {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(p.k.key())
		b.WriteByte('^')
		b.WriteString(p.e.RatString())
	}
	return monomial{pows: pows, key: b.String()}
}

func kernelMono(k kernel, e *big.Rat) monomial {
	if e.Sign() == 0 {
		return unit
	}
	return makeMono([]power{{k: k, e: e}})
}

// monoFrom sorts and merges an unordered list of powers.
func monoFrom(pows []power) monomial {
	sort.SliceStable(pows, func(i, j int) bool { return pows[i].k.key() < pows[j].k.key() })
	out := make([]power, 0, len(pows))
	for _, p := range pows {
		if n := len(out); n > 0 && out[n-1].k.key() == p.k.key() {
			out[n-1].e = new(big.Rat).Add(out[n-1].e, p.e)
			continue
		}
		out = append(out, power{k: p.k, e: p.e})
	}
	kept := out[:0]
	for _, p := range out {
		if p.e.Sign() != 0 {
			kept = append(kept, p)
		}
	}
	return makeMono(kept)
}

func (m monomial) isUnit() bool {
	return len(m.pows) == 0
}

func (m monomial) exponent(key string) *big.Rat {
	for _, p := range m.pows {
		if p.k.key() == key {
			return p.e
		}
	}
	return ratZero
}

// with returns m with the exponent of pows[i] replaced by e.
func (m monomial) with(i int, e *big.Rat) monomial {
	out := make([]power, 0, len(m.pows))
	out = append(out, m.pows[:i]...)
	if e.Sign() != 0 {
		out = append(out, power{k: m.pows[i].k, e: e})
	}
	out = append(out, m.pows[i+1:]...)
	return makeMono(out)
}

func mulMono(a, b monomial) monomial {
	if a.isUnit() {
		return b
	}
	if b.isUnit() {
		return a
	}
	out := make([]power, 0, len(a.pows)+len(b.pows))
	i, j := 0, 0
	for i < len(a.pows) && j < len(b.pows) {
		ka, kb := a.pows[i].k.key(), b.pows[j].k.key()
		switch {
		case ka < kb:
			out = append(out, a.pows[i])
			i++
		case ka > kb:
			out = append(out, b.pows[j])
			j++
		default:
			e := new(big.Rat).Add(a.pows[i].e, b.pows[j].e)
			if e.Sign() != 0 {
				out = append(out, power{k: a.pows[i].k, e: e})
			}
			i++
			j++
		}
	}
	out = append(out, a.pows[i:]...)
	out = append(out, b.pows[j:]...)
	return makeMono(out)
}

func invMono(m monomial) monomial {
	return scaleMono(m, big.NewRat(-1, 1))
}

func scaleMono(m monomial, r *big.Rat) monomial {
	if r.Sign() == 0 {
		return unit
	}
	out := make([]power, len(m.pows))
	for i, p := range m.pows {
		out[i] = power{k: p.k, e: new(big.Rat).Mul(p.e, r)}
	}
	return makeMono(out)
}

// quoMono divides a by b and reports whether every exponent of the
// quotient is non-negative.
func quoMono(a, b monomial) (monomial, bool) {
	q := mulMono(a, invMono(b))
	for _, p := range q.pows {
		if p.e.Sign() < 0 {
			return unit, false
		}
	}
	return q, true
}

// cmpMono is the lexicographic order with the smallest kernel key most
// significant. It is compatible with multiplication.
func cmpMono(a, b monomial) int {
	i, j := 0, 0
	for i < len(a.pows) || j < len(b.pows) {
		switch {
		case j == len(b.pows) || (i < len(a.pows) && a.pows[i].k.key() < b.pows[j].k.key()):
			return a.pows[i].e.Sign()
		case i == len(a.pows) || b.pows[j].k.key() < a.pows[i].k.key():
			return -b.pows[j].e.Sign()
		}
		if c := a.pows[i].e.Cmp(b.pows[j].e); c != 0 {
			return c
		}
		i++
		j++
	}
	return 0
}
