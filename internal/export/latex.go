package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/genrel/internal/experiment"
	"github.com/san-kum/genrel/internal/render"
)

// LaTeXDocument renders every selected stage of an outcome, plus the field
// equations, as a standalone article.
func LaTeXDocument(out *experiment.Outcome, reg *experiment.Registry) (string, error) {
	if reg == nil {
		reg = experiment.NewRegistry()
	}
	res := out.Result
	key := res.Metric.Key()

	var sb strings.Builder

	sb.WriteString(`\documentclass{article}
\usepackage{amsmath}
\usepackage[margin=2cm]{geometry}
\allowdisplaybreaks
\begin{document}
`)
	sb.WriteString(fmt.Sprintf("\\section*{%s}\n", escape(out.Config.Name)))
	if out.Config.Description != "" {
		sb.WriteString(escape(out.Config.Description) + "\n\n")
	}

	coords := make([]string, len(key))
	for i, k := range key {
		coords[i] = k.Expr().LaTeX()
	}
	sb.WriteString(fmt.Sprintf("Coordinates $(%s)$, metric\n\\[\n  g = %s\n\\]\n", strings.Join(coords, ", "), res.Metric.Matrix().LaTeX()))

	for _, st := range out.Selected {
		t, ok := res.Stage(st)
		if !ok {
			continue
		}
		info, err := reg.Get(string(st))
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("\\subsection*{%s}\n", info.Title))
		if t.IsZero() {
			sb.WriteString("All components vanish.\n")
			continue
		}
		var body strings.Builder
		if err := render.LPrint(&body, t, reg.RenderOptions(st, key)...); err != nil {
			return "", err
		}
		writeAlign(&sb, strings.Split(strings.TrimRight(body.String(), "\n"), "\n"))
	}

	sb.WriteString("\\subsection*{Field equations}\n")
	if len(out.Equations) == 0 {
		sb.WriteString("Satisfied identically.\n")
	} else {
		lines := make([]string, len(out.Equations))
		for i, eq := range out.Equations {
			lines[i] = eq.LaTeX() + " = 0"
		}
		writeAlign(&sb, lines)
	}

	sb.WriteString("\\end{document}\n")
	return sb.String(), nil
}

// writeAlign puts each "lhs = rhs" line into an align* row, aligned on
// the first equals sign.
func writeAlign(sb *strings.Builder, lines []string) {
	sb.WriteString("\\begin{align*}\n")
	for i, l := range lines {
		if lhs, rhs, ok := strings.Cut(l, " = "); ok {
			l = lhs + " &= " + rhs
		}
		sb.WriteString("  " + l)
		if i < len(lines)-1 {
			sb.WriteString(` \\`)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\\end{align*}\n")
}

var latexEscaper = strings.NewReplacer(`\`, `\textbackslash{}`, "_", `\_`, "&", `\&`, "%", `\%`, "#", `\#`, "$", `\$`, "{", `\{`, "}", `\}`)

func escape(s string) string { return latexEscaper.Replace(s) }

