package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles bundles the lipgloss styles derived from one theme.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Muted    lipgloss.Style
	Key      lipgloss.Style
	Value    lipgloss.Style
	Header   lipgloss.Style
	Panel    lipgloss.Style
	High     lipgloss.Style
	Mid      lipgloss.Style
	Low      lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Subtitle: lipgloss.NewStyle().Foreground(t.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Item:     lipgloss.NewStyle().Foreground(t.Muted),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Value:    lipgloss.NewStyle().Foreground(t.Secondary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		High: lipgloss.NewStyle().Foreground(t.Error),
		Mid:  lipgloss.NewStyle().Foreground(t.Warning),
		Low:  lipgloss.NewStyle().Foreground(t.Success),
	}
}

// Heading renders a CLI section title in the current theme.
func Heading(text string) string {
	return NewStyles(CurrentTheme).Header.Render(text)
}

// SizeBar renders size relative to largest as a bar of the given width. Large
// expressions are drawn in the warning colors.
func SizeBar(size, largest, width int) string {
	if largest <= 0 {
		largest = 1
	}
	frac := float64(size) / float64(largest)
	filled := min(max0(int(frac*float64(width)+0.5)), width)
	if size > 0 && filled == 0 {
		filled = 1
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	st := NewStyles(CurrentTheme)
	if frac > 0.7 {
		return st.High.Render(bar)
	} else if frac > 0.3 {
		return st.Mid.Render(bar)
	}
	return st.Low.Render(bar)
}

// Sparkline renders one block character per value, scaled to the largest.
func Sparkline(values []int, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	hi := values[0]
	for _, v := range values {
		hi = max(hi, v)
	}
	if hi == 0 {
		hi = 1
	}

	step := max(len(values)/width, 1)

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		idx := v * (len(chars) - 1) / hi
		result.WriteRune(chars[idx])
	}
	return result.String()
}

// Separator draws a muted rule with a centred diamond.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max0(mid-3))
	right := strings.Repeat("─", max0(width-mid-3))
	return NewStyles(CurrentTheme).Muted.Render(left + " ◆ " + right)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
