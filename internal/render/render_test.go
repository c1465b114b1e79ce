package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

func diag(entries ...sym.Expr) tensor.Tensor {
	return tensor.Build(2, func(i tensor.Index) sym.Expr {
		if i[0] != i[1] {
			return sym.Expr{}
		}
		return entries[i[0]]
	})
}

func TestRPrintSkipsZeros(t *testing.T) {
	var buf bytes.Buffer
	g := diag(sym.N(-1), sym.N(1), sym.N(1), sym.N(1))
	require.NoError(t, RPrint(&buf, g, WithName("g")))
	require.Equal(t, "g[0,0] = -1\ng[1,1] = 1\ng[2,2] = 1\ng[3,3] = 1\n", buf.String())
}

func TestRPrintAlignsUnicode(t *testing.T) {
	var buf bytes.Buffer
	r := sym.S("r")
	g := diag(sym.N(-1), sym.N(1), r.PowInt(2), r.PowInt(2))
	key := []sym.Symbol{"t", "r", "θ", "phi"}
	require.NoError(t, RPrint(&buf, g, WithName("g"), WithCoordinates(key)))
	want := "" +
		"g[t,t]     = -1\n" +
		"g[r,r]     = 1\n" +
		"g[θ,θ]     = r^2\n" +
		"g[phi,phi] = r^2\n"
	require.Equal(t, want, buf.String())
}

func TestRPrintScalar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RPrint(&buf, tensor.Scalar(sym.MustParse("12/l^2")), WithName("R")))
	require.Equal(t, "R = 12/l^2\n", buf.String())

	buf.Reset()
	require.NoError(t, RPrint(&buf, tensor.Scalar(sym.N(0))))
	require.Empty(t, buf.String())
}

func TestRPrintOrder(t *testing.T) {
	var buf bytes.Buffer
	tt := tensor.Build(3, func(i tensor.Index) sym.Expr {
		if i[0] == 1 && i[1] == i[2] {
			return sym.N(int64(i[1] + 1))
		}
		if i[0] == 0 && i[2] == 3 {
			return sym.S("x")
		}
		return sym.Expr{}
	})
	require.NoError(t, RPrint(&buf, tt))
	want := "" +
		"[0,0,3] = x\n" +
		"[0,1,3] = x\n" +
		"[0,2,3] = x\n" +
		"[0,3,3] = x\n" +
		"[1,0,0] = 1\n" +
		"[1,1,1] = 2\n" +
		"[1,2,2] = 3\n" +
		"[1,3,3] = 4\n"
	require.Equal(t, want, buf.String())
}

func TestLPrint(t *testing.T) {
	var buf bytes.Buffer
	tt := tensor.Build(3, func(i tensor.Index) sym.Expr {
		if i[0] == 2 && i[1] == 1 && i[2] == 2 {
			return sym.N(1).Div(sym.S("r"))
		}
		return sym.Expr{}
	})
	key := []sym.Symbol{"t", "r", "theta", "phi"}
	require.NoError(t, LPrint(&buf, tt, WithName("Γ"), WithCoordinates(key)))
	require.Equal(t, `\Gamma^{\theta}_{r \theta} = \frac{1}{r}`+"\n", buf.String())

	buf.Reset()
	g := diag(sym.N(-1), sym.N(1), sym.N(1), sym.N(1))
	require.NoError(t, LPrint(&buf, g, WithName("g")))
	require.Contains(t, buf.String(), "g_{0 0} = -1\n")
}
