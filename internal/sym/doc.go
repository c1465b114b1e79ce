// Package sym provides the exact symbolic back end used by the tensor pipeline.
//
// Expressions are immutable values held in a canonical rational form:
//
//   - numerator: an expanded Laurent polynomial over kernels (symbols, pi,
//     undefined functions such as a(t) and their derivatives, elementary
//     functions, radicals) with exact [big.Rat] coefficients
//   - denominator: a product of primitive polynomial factors with multiplicities
//
// Sums are brought to a common denominator and exact multivariate division
// cancels shared factors, so [Expr.IsZero] is exact for rational functions of
// independent kernels. The rewrite rules cos² → 1 − sin², cosh² → 1 + sinh²
// and (u^(p/q))^q → u^p are applied during expansion.
//
// # Example
//
//	t := sym.S("t")
//	a := sym.Func("a", t)
//	g := sym.PowInt(a, 2)
//	dg := g.Diff("t") // 2*a(t)*a'(t)
//
// The zero value of [Expr] is the number 0.
//
// # Limitations
//
// Denominator factors are never factored further, so (r-2M)^2 entered in
// expanded form does not cancel against r-2M. One value can then have more
// than one form: [Expr.Equal] compares values, [Expr.Identical] compares forms. Radicals assume positive bases:
// (x^2)^(1/2) = x.
package sym
