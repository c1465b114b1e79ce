package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/genrel/internal/config"
	"github.com/san-kum/genrel/internal/experiment"
)

func newBrowser(t *testing.T) Browser {
	t.Helper()
	exp := experiment.New(config.GetPreset("flat", "spherical"), nil, nil)
	require.NoError(t, exp.Setup())
	out, err := exp.Run(context.Background())
	require.NoError(t, err)
	b, err := NewBrowser(out, nil)
	require.NoError(t, err)
	return b
}

func press(b Browser, keys ...string) Browser {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := b.Update(msg)
		b = m.(Browser)
	}
	return b
}

func TestBrowserStages(t *testing.T) {
	b := newBrowser(t)
	require.Len(t, b.stages, 2)
	require.Equal(t, "Christoffel symbols", b.stages[0].info.Title)
	require.Len(t, b.stages[0].comps, 9)
	require.Empty(t, b.stages[1].comps)

	view := b.View()
	require.Contains(t, view, "MINKOWSKI-SPHERICAL")
	require.Contains(t, view, "Riemann tensor")
}

func TestBrowserNavigation(t *testing.T) {
	b := newBrowser(t)

	b = press(b, "enter")
	require.Equal(t, stateComponents, b.state)
	require.Contains(t, b.View(), "Γ[")

	b = press(b, "j", "j", "enter")
	require.Equal(t, stateDetail, b.state)
	require.Equal(t, 2, b.compCursor)
	require.Contains(t, b.View(), "component 3 of 9")

	b = press(b, "esc", "esc")
	require.Equal(t, stateStages, b.state)

	b = press(b, "k", "k", "j", "j", "j")
	require.Equal(t, 1, b.cursor)
	b = press(b, "enter")
	require.Contains(t, b.View(), "all components vanish")
	b = press(b, "enter")
	require.Equal(t, stateComponents, b.state)
}

func TestBrowserToggles(t *testing.T) {
	b := newBrowser(t)
	b = press(b, "enter", "l")
	require.True(t, b.latex)
	require.Contains(t, b.View(), `\Gamma`)

	before := b.theme
	b = press(b, "t")
	require.Equal(t, (before+1)%len(Themes), b.theme)

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}

func TestBrowserScroll(t *testing.T) {
	b := newBrowser(t)
	m, _ := b.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	b = press(m.(Browser), "enter")
	for range 8 {
		b = press(b, "j")
	}
	require.Equal(t, 8, b.compCursor)
	require.Equal(t, 8-b.visibleRows()+1, b.offset)
	require.Contains(t, b.View(), "▸")
}

func TestSizeBarAndSparkline(t *testing.T) {
	require.Equal(t, 10, len([]rune(stripANSI(SizeBar(3, 10, 10)))))
	require.Equal(t, "▁█", Sparkline([]int{0, 5}, 10))
	require.Equal(t, "───", Sparkline(nil, 3))
	require.Equal(t, "nebula", GetTheme("missing").Name)
	require.Len(t, ThemeNames(), len(Themes))
}

func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
