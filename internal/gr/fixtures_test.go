package gr_test

import (
	. "github.com/onsi/gomega"

	"github.com/san-kum/genrel/internal/metric"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

func mustMetric(name string, coords []string, diag ...string) *metric.Metric {
	rows := make([][]string, tensor.Dim)
	for i := range rows {
		rows[i] = []string{"0", "0", "0", "0"}
		rows[i][i] = diag[i]
	}
	m, err := metric.FromRows(name, rows, coords)
	Expect(err).NotTo(HaveOccurred())
	return m
}

func minkowski() *metric.Metric {
	return mustMetric("minkowski", []string{"t", "x", "y", "z"}, "-1", "1", "1", "1")
}

func bianchiI() *metric.Metric {
	return mustMetric("bianchi-i", []string{"t", "x", "y", "z"}, "-1", "a(t)^2", "b(t)^2", "c(t)^2")
}

func flrw() *metric.Metric {
	return mustMetric("flrw", []string{"t", "x", "y", "z"}, "-1", "a(t)^2", "a(t)^2", "a(t)^2")
}

func schwarzschild() *metric.Metric {
	return mustMetric("schwarzschild", []string{"t", "r", "theta", "phi"},
		"-(1 - 2*M/r)", "1/(1 - 2*M/r)", "r^2", "r^2*sin(theta)^2")
}

func staticSpherical() *metric.Metric {
	return mustMetric("static", []string{"t", "r", "theta", "phi"},
		"-exp(2*nu(r))", "exp(2*lambda(r))", "r^2", "r^2*sin(theta)^2")
}

func deSitter() *metric.Metric {
	return mustMetric("de-sitter", []string{"t", "r", "theta", "phi"},
		"-(1 - r^2/l^2)", "1/(1 - r^2/l^2)", "r^2", "r^2*sin(theta)^2")
}

func symbolic(prefix string) tensor.Tensor {
	return tensor.Build(2, func(i tensor.Index) sym.Expr {
		return sym.S(prefix + i.String()[1:2] + i.String()[3:4])
	})
}
