package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Canvas  lipgloss.Style
	Panel   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Graph   lipgloss.Style
	Help    lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Record  lipgloss.Style
	Cursor  lipgloss.Style
}

const panelWidth = 40

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(1, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(panelWidth),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted).
			MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Graph:   lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Record:  lipgloss.NewStyle().Bold(true).Foreground(t.Error).Blink(true),
		Cursor:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
	}
}

// GradientText colors each rune along a Lab blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(Blend(start, end, t)).Render(string(r)))
	}
	return b.String()
}

// Meter renders used/capacity as a bar, shading from ok to warn.
func Meter(used, capacity, width int, t Theme) string {
	if capacity <= 0 || width <= 0 {
		return ""
	}
	frac := min(max(float64(used)/float64(capacity), 0), 1)
	filled := int(frac * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(Blend(t.Success, t.Warning, frac)).Render(bar) +
		fmt.Sprintf(" %d/%d", used, capacity)
}

// Sparkline renders the last width values as block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		b.WriteRune(chars[min(max(idx, 0), len(chars)-1)])
	}
	return b.String()
}
