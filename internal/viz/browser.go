package viz

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/genrel/internal/experiment"
	"github.com/san-kum/genrel/internal/render"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

const (
	stateStages = iota
	stateComponents
	stateDetail
)

type component struct {
	human, latex string
	size         int
}

type stageView struct {
	info  experiment.StageInfo
	comps []component
}

// Browser is a bubbletea model over the stages of one outcome.
type Browser struct {
	title         string
	stages        []stageView
	state         int
	cursor        int
	compCursor    int
	offset        int
	latex         bool
	theme         int
	width, height int
}

func NewBrowser(out *experiment.Outcome, reg *experiment.Registry) (Browser, error) {
	if reg == nil {
		reg = experiment.NewRegistry()
	}
	b := Browser{title: out.Config.Name, theme: themeIndex(CurrentTheme.Name), width: 80, height: 24}
	key := out.Result.Metric.Key()
	for _, st := range out.Selected {
		t, ok := out.Result.Stage(st)
		if !ok {
			continue
		}
		info, err := reg.Get(string(st))
		if err != nil {
			return Browser{}, err
		}
		comps, err := components(t, reg.RenderOptions(st, key))
		if err != nil {
			return Browser{}, err
		}
		b.stages = append(b.stages, stageView{info: info, comps: comps})
	}
	return b, nil
}

// components pairs the RPrint and LPrint lines of t, which list the same
// nonzero entries in the same order.
func components(t tensor.Tensor, opts []render.Option) ([]component, error) {
	var human, latex bytes.Buffer
	if err := render.RPrint(&human, t, opts...); err != nil {
		return nil, err
	}
	if err := render.LPrint(&latex, t, opts...); err != nil {
		return nil, err
	}
	hl, ll := lines(human.String()), lines(latex.String())
	var sizes []int
	t.Each(func(_ tensor.Index, e sym.Expr) {
		if !e.IsZero() {
			sizes = append(sizes, e.Size())
		}
	})
	if len(hl) != len(ll) || len(hl) != len(sizes) {
		return nil, fmt.Errorf("viz: printer output out of step (%d, %d, %d)", len(hl), len(ll), len(sizes))
	}
	out := make([]component, len(hl))
	for i := range hl {
		out[i] = component{human: hl[i], latex: ll[i], size: sizes[i]}
	}
	return out, nil
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	}
	return b, nil
}

func (b Browser) handleKey(msg tea.KeyMsg) (Browser, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return b, tea.Quit
	case "t":
		b.theme = (b.theme + 1) % len(Themes)
		return b, nil
	case "l":
		b.latex = !b.latex
		return b, nil
	}
	switch b.state {
	case stateStages:
		switch msg.String() {
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.stages)-1 {
				b.cursor++
			}
		case "enter", " ":
			if len(b.stages) > 0 {
				b.state, b.compCursor, b.offset = stateComponents, 0, 0
			}
		}
	case stateComponents:
		comps := b.stages[b.cursor].comps
		switch msg.String() {
		case "esc", "backspace":
			b.state = stateStages
		case "up", "k":
			if b.compCursor > 0 {
				b.compCursor--
			}
		case "down", "j":
			if b.compCursor < len(comps)-1 {
				b.compCursor++
			}
		case "enter", " ":
			if len(comps) > 0 {
				b.state = stateDetail
			}
		}
		b.scroll()
	case stateDetail:
		switch msg.String() {
		case "esc", "backspace", "enter":
			b.state = stateComponents
		}
	}
	return b, nil
}

func (b *Browser) visibleRows() int {
	return max(b.height-8, 3)
}

func (b *Browser) scroll() {
	rows := b.visibleRows()
	if b.compCursor < b.offset {
		b.offset = b.compCursor
	}
	if b.compCursor >= b.offset+rows {
		b.offset = b.compCursor - rows + 1
	}
}

func (b Browser) View() string {
	st := NewStyles(Themes[b.theme])
	switch b.state {
	case stateComponents:
		return b.viewComponents(st)
	case stateDetail:
		return b.viewDetail(st)
	}
	return b.viewStages(st)
}

func (b Browser) header(st Styles, title, sub string) string {
	return "\n  " + st.Title.Render(title) + "\n  " + st.Subtitle.Render(sub) + "\n  " + st.Subtitle.Render("─────────────────────────") + "\n\n"
}

func (b Browser) hints(st Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, st.Key.Render(pairs[i])+st.Muted.Render(" "+pairs[i+1]))
	}
	return "\n  " + strings.Join(parts, "  ") + "\n"
}

func (b Browser) viewStages(st Styles) string {
	var sb strings.Builder
	sb.WriteString(b.header(st, strings.ToUpper(b.title), "computed stages"))
	largest := 0
	for _, s := range b.stages {
		largest = max(largest, len(s.comps))
	}
	for i, s := range b.stages {
		name := fmt.Sprintf("%-22s", s.info.Title)
		count := fmt.Sprintf("%3d nonzero", len(s.comps))
		if i == b.cursor {
			sb.WriteString(fmt.Sprintf("  %s %s %s %s\n", st.Key.Render("▸"), st.Selected.Render(name), st.Value.Render(count), SizeBar(len(s.comps), largest, 16)))
		} else {
			sb.WriteString(fmt.Sprintf("    %s %s\n", st.Item.Render(name), st.Muted.Render(count)))
		}
	}
	if len(b.stages) == 0 {
		sb.WriteString("  " + st.Muted.Render("no stages selected") + "\n")
	}
	sb.WriteString(b.hints(st, "j/k", "navigate", "enter", "open", "t", "theme", "q", "quit"))
	return sb.String()
}

func (b Browser) viewComponents(st Styles) string {
	s := b.stages[b.cursor]
	var sb strings.Builder
	sb.WriteString(b.header(st, s.info.Title, s.info.Description))
	if len(s.comps) == 0 {
		sb.WriteString("  " + st.Muted.Render("all components vanish") + "\n")
	}
	end := min(b.offset+b.visibleRows(), len(s.comps))
	width := max(b.width-6, 20)
	for i := b.offset; i < end; i++ {
		line := b.text(s.comps[i])
		if len(line) > width {
			line = line[:width-3] + "..."
		}
		if i == b.compCursor {
			sb.WriteString("  " + st.Key.Render("▸") + " " + st.Selected.Render(line) + "\n")
		} else {
			sb.WriteString("    " + st.Item.Render(line) + "\n")
		}
	}
	sb.WriteString(b.hints(st, "j/k", "navigate", "enter", "expand", "l", "latex", "esc", "back"))
	return sb.String()
}

func (b Browser) viewDetail(st Styles) string {
	s := b.stages[b.cursor]
	c := s.comps[b.compCursor]
	var sb strings.Builder
	sb.WriteString(b.header(st, s.info.Title, fmt.Sprintf("component %d of %d, size %d", b.compCursor+1, len(s.comps), c.size)))
	panel := st.Panel.Width(max(b.width-8, 20)).Render(b.text(c))
	sb.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(panel) + "\n")
	sb.WriteString(b.hints(st, "l", "latex", "esc", "back", "q", "quit"))
	return sb.String()
}

func (b Browser) text(c component) string {
	if b.latex {
		return c.latex
	}
	return c.human
}

// RunBrowser opens the browser in the alternate screen.
func RunBrowser(out *experiment.Outcome, reg *experiment.Registry) error {
	b, err := NewBrowser(out, reg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}
