// Package repl is an interactive calculator over the symbolic back end.
package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/chzyer/readline"

	"github.com/san-kum/genrel/internal/config"
	"github.com/san-kum/genrel/internal/experiment"
	"github.com/san-kum/genrel/internal/gr"
	"github.com/san-kum/genrel/internal/render"
	"github.com/san-kum/genrel/internal/sym"
)

// ErrQuit is returned by Eval for the quit command.
var ErrQuit = errors.New("repl: quit")

const help = `expressions:
  <expr>                    simplify and print
  let <name> = <expr>       define a variable substituted into later input
  diff <expr>, <x>[, <n>]   n-th derivative with respect to x
  subs <expr>, <x>, <v>     substitute v for x
  latex <expr>              print LaTeX
  vars                      list variables
metrics:
  show <stage> <preset>     print one stage of a preset metric
  presets                   list presets
  help, quit`

// Session holds variables between lines.
type Session struct {
	vars  map[string]sym.Expr
	order []string
	reg   *experiment.Registry
}

func NewSession() *Session {
	return &Session{vars: make(map[string]sym.Expr), reg: experiment.NewRegistry()}
}

// Eval runs one line and returns what to print.
func (s *Session) Eval(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return "", nil
	case "quit", "exit":
		return "", ErrQuit
	case "help":
		return help, nil
	case "vars":
		return s.listVars(), nil
	case "presets":
		return listPresets(), nil
	case "let":
		return s.let(rest)
	case "latex":
		e, err := s.parse(rest)
		if err != nil {
			return "", err
		}
		return e.LaTeX(), nil
	case "diff":
		return s.diff(rest)
	case "subs":
		return s.subs(rest)
	case "show":
		return s.show(ctx, rest)
	}
	e, err := s.parse(line)
	if err != nil {
		return "", err
	}
	return e.String(), nil
}

func (s *Session) parse(input string) (sym.Expr, error) {
	if input == "" {
		return sym.Expr{}, errors.New("missing expression")
	}
	e, err := sym.Parse(input)
	if err != nil {
		return sym.Expr{}, err
	}
	for _, name := range s.order {
		e = e.Subs(name, s.vars[name])
	}
	return sym.Simplify(e), nil
}

func (s *Session) let(rest string) (string, error) {
	name, body, ok := strings.Cut(rest, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", errors.New("usage: let <name> = <expr>")
	}
	if !isIdent(name) || name == "pi" {
		return "", fmt.Errorf("invalid variable name %q", name)
	}
	e, err := s.parse(strings.TrimSpace(body))
	if err != nil {
		return "", err
	}
	if e.Has(name) {
		return "", fmt.Errorf("%s is defined in terms of itself", name)
	}
	if _, exists := s.vars[name]; !exists {
		s.order = append(s.order, name)
	}
	s.vars[name] = e
	return name + " = " + e.String(), nil
}

func (s *Session) listVars() string {
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = n + " = " + s.vars[n].String()
	}
	return strings.Join(lines, "\n")
}

func (s *Session) diff(rest string) (string, error) {
	args := splitArgs(rest)
	if len(args) < 2 || len(args) > 3 {
		return "", errors.New("usage: diff <expr>, <x>[, <n>]")
	}
	e, err := s.parse(args[0])
	if err != nil {
		return "", err
	}
	n := 1
	if len(args) == 3 {
		if n, err = strconv.Atoi(args[2]); err != nil || n < 0 {
			return "", fmt.Errorf("invalid order %q", args[2])
		}
	}
	return e.DiffN(args[1], n).String(), nil
}

func (s *Session) subs(rest string) (string, error) {
	args := splitArgs(rest)
	if len(args) != 3 {
		return "", errors.New("usage: subs <expr>, <x>, <v>")
	}
	e, err := s.parse(args[0])
	if err != nil {
		return "", err
	}
	v, err := s.parse(args[2])
	if err != nil {
		return "", err
	}
	return e.Subs(args[1], v).String(), nil
}

func (s *Session) show(ctx context.Context, rest string) (string, error) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return "", errors.New("usage: show <stage> <preset>")
	}
	stage, err := gr.ParseStage(fields[0])
	if err != nil {
		return "", err
	}
	cfg, err := config.Resolve(fields[1])
	if err != nil {
		return "", err
	}
	cfg.Bianchi = cfg.Bianchi || stage == gr.StageBianchi
	cfg.Kretschmann = cfg.Kretschmann || stage == gr.StageKretschmann

	exp := experiment.New(cfg, s.reg, nil)
	if err := exp.Setup(); err != nil {
		return "", err
	}
	out, err := exp.Run(ctx)
	if err != nil {
		return "", err
	}
	t, _ := out.Result.Stage(stage)
	var buf bytes.Buffer
	if err := render.RPrint(&buf, t, s.reg.RenderOptions(stage, exp.Metric().Key())...); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "all components vanish", nil
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func listPresets() string {
	var lines []string
	for _, f := range config.ListFamilies() {
		for _, v := range config.ListPresets(f) {
			lines = append(lines, f+"/"+v)
		}
	}
	return strings.Join(lines, "\n")
}

func isIdent(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}

// splitArgs splits on commas outside parentheses.
func splitArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" || len(out) > 0 {
		out = append(out, rest)
	}
	return out
}

func completer() *readline.PrefixCompleter {
	stages := make([]readline.PrefixCompleterInterface, len(gr.Stages))
	for i, st := range gr.Stages {
		stages[i] = readline.PcItem(string(st))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("let"),
		readline.PcItem("diff"),
		readline.PcItem("subs"),
		readline.PcItem("latex"),
		readline.PcItem("vars"),
		readline.PcItem("show", stages...),
		readline.PcItem("presets"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Run reads lines until EOF or quit. historyFile may be empty.
func Run(ctx context.Context, historyFile string, stdout io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "genrel> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	s := NewSession()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		out, err := s.Eval(ctx, line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(stdout, "error:", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(stdout, out)
		}
	}
}
