// Package render prints the nonzero components of a tensor, one per line,
// in row-major order. RPrint writes plain text and LPrint writes LaTeX.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

type options struct {
	name   string
	coords []sym.Symbol
	upper  int
}

type Option func(*options)

// WithName sets the symbol printed before each index, such as "Γ".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithCoordinates labels indices by coordinate instead of by number.
func WithCoordinates(key []sym.Symbol) Option {
	return func(o *options) { o.coords = key }
}

// WithUpper sets how many leading indices are contravariant in LaTeX
// output. By default rank 3 and 4 tensors have one.
func WithUpper(n int) Option {
	return func(o *options) { o.upper = n }
}

func newOptions(t tensor.Tensor, opts []Option) options {
	o := options{upper: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.upper < 0 {
		o.upper = 0
		if t.Rank() >= 3 {
			o.upper = 1
		}
	}
	return o
}

func (o options) label(i int) string {
	if o.coords != nil && i < len(o.coords) {
		return o.coords[i].Name()
	}
	return fmt.Sprint(i)
}

type entry struct {
	idx tensor.Index
	e   sym.Expr
}

// nonzero walks the tree view of t and collects entries that are not
// exactly zero.
func nonzero(t tensor.Tensor) []entry {
	var out []entry
	var walk func(n tensor.Node, prefix tensor.Index)
	walk = func(n tensor.Node, prefix tensor.Index) {
		if n.IsLeaf() {
			if !n.Leaf.IsZero() {
				out = append(out, entry{idx: append(tensor.Index(nil), prefix...), e: n.Leaf})
			}
			return
		}
		for i, child := range n.Children {
			walk(child, append(prefix, i))
		}
	}
	walk(t.Tree(), make(tensor.Index, 0, t.Rank()))
	return out
}

// RPrint writes "name[i,j,...] = expr" for every nonzero entry, with the
// labels padded to a common display width.
func RPrint(w io.Writer, t tensor.Tensor, opts ...Option) error {
	o := newOptions(t, opts)
	entries := nonzero(t)
	labels := make([]string, len(entries))
	width := 0
	for k, en := range entries {
		parts := make([]string, len(en.idx))
		for i, v := range en.idx {
			parts[i] = o.label(v)
		}
		switch {
		case len(parts) > 0:
			labels[k] = o.name + "[" + strings.Join(parts, ",") + "]"
		case o.name != "":
			labels[k] = o.name
		}
		width = max(width, runewidth.StringWidth(labels[k]))
	}
	for k, en := range entries {
		var err error
		if labels[k] == "" {
			_, err = fmt.Fprintln(w, en.e.String())
		} else {
			_, err = fmt.Fprintf(w, "%s = %s\n", runewidth.FillRight(labels[k], width), en.e.String())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// LPrint writes one LaTeX equation per nonzero entry.
func LPrint(w io.Writer, t tensor.Tensor, opts ...Option) error {
	o := newOptions(t, opts)
	name := o.name
	if name == "" {
		name = "T"
	}
	name = latexSymbol(name)
	for _, en := range nonzero(t) {
		if _, err := fmt.Fprintf(w, "%s = %s\n", o.latexLabel(name, en.idx), en.e.LaTeX()); err != nil {
			return err
		}
	}
	return nil
}

func (o options) latexLabel(name string, idx tensor.Index) string {
	if len(idx) == 0 {
		return name
	}
	up := min(o.upper, len(idx))
	var b strings.Builder
	b.WriteString(name)
	if up > 0 {
		b.WriteString("^{" + o.latexIndices(idx[:up]) + "}")
	}
	if up < len(idx) {
		b.WriteString("_{" + o.latexIndices(idx[up:]) + "}")
	}
	return b.String()
}

func (o options) latexIndices(idx tensor.Index) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		if o.coords != nil && v < len(o.coords) {
			parts[i] = o.coords[v].Expr().LaTeX()
		} else {
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, " ")
}

var latexNames = map[string]string{
	"Γ":  `\Gamma`,
	"∇":  `\nabla`,
	"∇G": `\nabla_{\mu} G^{\mu}`,
}

func latexSymbol(name string) string {
	if s, ok := latexNames[name]; ok {
		return s
	}
	return name
}
