package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/genrel/internal/config"
	"github.com/san-kum/genrel/internal/experiment"
	"github.com/san-kum/genrel/internal/storage"
)

func outcome(t *testing.T, family, name string) *experiment.Outcome {
	t.Helper()
	exp := experiment.New(config.GetPreset(family, name), nil, nil)
	require.NoError(t, exp.Setup())
	out, err := exp.Run(context.Background())
	require.NoError(t, err)
	return out
}

func TestLaTeXDocument(t *testing.T) {
	doc, err := LaTeXDocument(outcome(t, "flat", "spherical"), nil)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(doc, `\documentclass{article}`))
	require.True(t, strings.HasSuffix(doc, "\\end{document}\n"))
	require.Contains(t, doc, `\subsection*{Christoffel symbols}`)
	require.Contains(t, doc, `\Gamma^{r}_{\theta \theta} &= -r`)
	require.Contains(t, doc, `\subsection*{Riemann tensor}`)
	require.Contains(t, doc, "All components vanish.")
	require.Contains(t, doc, "Satisfied identically.")
	require.Equal(t, strings.Count(doc, `\begin{align*}`), strings.Count(doc, `\end{align*}`))
}

func TestLaTeXDocumentEquations(t *testing.T) {
	doc, err := LaTeXDocument(outcome(t, "cosmology", "flrw"), nil)
	require.NoError(t, err)
	require.Contains(t, doc, `\subsection*{Field equations}`)
	require.Equal(t, 2, strings.Count(doc[strings.Index(doc, "Field equations"):], "= 0"))
}

func TestEscape(t *testing.T) {
	require.Equal(t, `a\_b \& 50\%`, escape("a_b & 50%"))
}

func TestWriteJSON(t *testing.T) {
	meta := storage.RunMetadata{ID: "abc", Name: "flrw"}
	comps := []storage.Component{
		{Stage: "christoffel", Index: "[0,1,1]", Expr: "a(t)*a'(t)", LaTeX: "a"},
		{Stage: "christoffel", Index: "[1,0,1]", Expr: "a'(t)/a(t)", LaTeX: "b"},
		{Stage: "einstein", Index: "[0,0]", Expr: "3*a'(t)^2/a(t)^2", LaTeX: "c"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewDocument(meta, comps)))

	var got Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "abc", got.Run.ID)
	require.Len(t, got.Components["christoffel"], 2)
	require.Equal(t, "[0,0]", got.Components["einstein"][0].Index)
}

func TestProfileSVG(t *testing.T) {
	require.Empty(t, ProfileSVG([]int{3}, 100, 50, "#fff"))

	svg := ProfileSVG([]int{1, 4, 2}, 100, 50, "#00ff00")
	require.True(t, strings.HasPrefix(svg, "<?xml"))
	require.Contains(t, svg, `stroke="#00ff00"`)
	require.Contains(t, svg, "M0.0,")
	require.Equal(t, 2, strings.Count(svg, " L"))
}
