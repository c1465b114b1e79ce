package sym

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

var greek = map[string]string{
	"alpha": `\alpha`, "beta": `\beta`, "gamma": `\gamma`, "delta": `\delta`,
	"epsilon": `\epsilon`, "zeta": `\zeta`, "eta": `\eta`, "theta": `\theta`,
	"iota": `\iota`, "kappa": `\kappa`, "lambda": `\lambda`, "mu": `\mu`,
	"nu": `\nu`, "xi": `\xi`, "rho": `\rho`, "sigma": `\sigma`, "tau": `\tau`,
	"phi": `\phi`, "chi": `\chi`, "psi": `\psi`, "omega": `\omega`,
	"Gamma": `\Gamma`, "Delta": `\Delta`, "Theta": `\Theta`, "Lambda": `\Lambda`,
	"Xi": `\Xi`, "Sigma": `\Sigma`, "Phi": `\Phi`, "Psi": `\Psi`, "Omega": `\Omega`,
	"α": `\alpha`, "β": `\beta`, "γ": `\gamma`, "δ": `\delta`, "ε": `\epsilon`,
	"ζ": `\zeta`, "η": `\eta`, "θ": `\theta`, "κ": `\kappa`, "λ": `\lambda`,
	"μ": `\mu`, "ν": `\nu`, "ξ": `\xi`, "ρ": `\rho`, "σ": `\sigma`, "τ": `\tau`,
	"φ": `\phi`, "χ": `\chi`, "ψ": `\psi`, "ω": `\omega`, "Λ": `\Lambda`, "Ω": `\Omega`,
}

func latexName(name string) string {
	if g, ok := greek[name]; ok {
		return g
	}
	if base, sub, ok := strings.Cut(name, "_"); ok && base != "" {
		return latexName(base) + "_{" + latexName(sub) + "}"
	}
	if utf8.RuneCountInString(name) > 1 {
		return `\mathrm{` + name + `}`
	}
	return name
}

func (e Expr) String() string { return render(e, false) }

func (e Expr) LaTeX() string { return render(e, true) }

func render(e Expr, tex bool) string {
	if e.IsZero() {
		return "0"
	}
	num, low := properPart(e.num)
	if low.isUnit() && len(e.den) == 0 {
		return renderPoly(num, tex)
	}

	sign := ""
	if len(num) == 1 && num[0].c.Sign() < 0 {
		sign = "-"
		num = negPoly(num)
	}
	top := renderPoly(num, tex)
	var parts []string
	if !low.isUnit() {
		parts = append(parts, renderMono(low, tex))
	}
	for _, f := range e.den {
		parts = append(parts, renderFactor(f, tex))
	}

	if tex {
		return sign + `\frac{` + top + "}{" + strings.Join(parts, " ") + "}"
	}
	if len(num) > 1 {
		top = "(" + top + ")"
	}
	bottom := strings.Join(parts, "*")
	if len(parts) > 1 || len(low.pows) > 1 {
		bottom = "(" + bottom + ")"
	}
	return sign + top + "/" + bottom
}

// properPart moves negative exponents out of p, returning the proper
// numerator and the positive monomial it was divided by.
func properPart(p poly) (poly, monomial) {
	lows := make(map[string]power)
	for _, t := range p {
		for _, pw := range t.m.pows {
			if pw.e.Sign() >= 0 {
				continue
			}
			key := pw.k.key()
			if l, ok := lows[key]; !ok || pw.e.Cmp(l.e) < 0 {
				lows[key] = pw
			}
		}
	}
	if len(lows) == 0 {
		return p, unit
	}
	pows := make([]power, 0, len(lows))
	for _, pw := range lows {
		pows = append(pows, power{k: pw.k, e: new(big.Rat).Neg(pw.e)})
	}
	low := monoFrom(pows)
	return mulTerm(p, ratOne, low), low
}

func renderPoly(p poly, tex bool) string {
	var b strings.Builder
	for i, t := range p {
		c := t.c
		if c.Sign() < 0 {
			c = new(big.Rat).Neg(c)
			if i == 0 {
				b.WriteString("-")
			} else {
				b.WriteString(" - ")
			}
		} else if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(renderTerm(c, t.m, tex))
	}
	return b.String()
}

func renderTerm(c *big.Rat, m monomial, tex bool) string {
	if m.isUnit() {
		return renderRat(c, tex)
	}
	mono := renderMono(m, tex)
	if c.Cmp(ratOne) == 0 {
		return mono
	}
	if tex {
		return renderRat(c, tex) + " " + mono
	}
	return c.RatString() + "*" + mono
}

func renderRat(c *big.Rat, tex bool) string {
	if tex && !c.IsInt() {
		return `\frac{` + c.Num().String() + "}{" + c.Denom().String() + "}"
	}
	return c.RatString()
}

func renderMono(m monomial, tex bool) string {
	parts := make([]string, len(m.pows))
	for i, pw := range m.pows {
		parts[i] = renderPower(pw, tex)
	}
	if tex {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, "*")
}

func renderPower(pw power, tex bool) string {
	base := pw.k.String()
	if tex {
		base = pw.k.LaTeX()
	}
	if pw.e.Cmp(ratOne) == 0 {
		return base
	}
	if tex {
		return base + "^{" + renderRat(pw.e, false) + "}"
	}
	if pw.e.IsInt() && pw.e.Sign() > 0 {
		return base + "^" + pw.e.RatString()
	}
	return base + "^(" + pw.e.RatString() + ")"
}

func renderFactor(f factor, tex bool) string {
	inner := renderPoly(f.p, tex)
	if tex {
		inner = `\left(` + inner + `\right)`
		if f.m > 1 {
			inner += "^{" + strconv.Itoa(f.m) + "}"
		}
		return inner
	}
	inner = "(" + inner + ")"
	if f.m > 1 {
		inner += "^" + strconv.Itoa(f.m)
	}
	return inner
}
