package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme colors the TUI chrome. Particles and wells bring their own colors.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   "#ff00ff",
		Secondary: "#00ffff",
		Accent:    "#ffff00",
		Text:      "#ffffff",
		Muted:     "#666666",
		Success:   "#00ff00",
		Warning:   "#ff8800",
		Error:     "#ff0000",
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   "#00ff00",
		Secondary: "#00cc00",
		Accent:    "#88ff88",
		Text:      "#00ff00",
		Muted:     "#005500",
		Success:   "#88ff88",
		Warning:   "#ffff00",
		Error:     "#ff0000",
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   "#ffffff",
		Secondary: "#cccccc",
		Accent:    "#0088ff",
		Text:      "#ffffff",
		Muted:     "#888888",
		Success:   "#00ff00",
		Warning:   "#ffaa00",
		Error:     "#ff0000",
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   "#0077be",
		Secondary: "#00a8cc",
		Accent:    "#ffd700",
		Text:      "#e0f0ff",
		Muted:     "#4488aa",
		Success:   "#00ff88",
		Warning:   "#ffcc00",
		Error:     "#ff4444",
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   "#ff6b6b",
		Secondary: "#feca57",
		Accent:    "#ff9ff3",
		Text:      "#fff5f5",
		Muted:     "#8b6b8c",
		Success:   "#5fd068",
		Warning:   "#ffc048",
		Error:     "#ff4757",
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetro, ThemeMinimal, ThemeOcean, ThemeSunset}
)

// GetTheme returns the named theme, or cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// Next cycles to the following theme.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Blend mixes two theme colors in Lab space; t=0 is a.
func Blend(a, b lipgloss.Color, t float64) lipgloss.Color {
	ca, errA := colorful.Hex(string(a))
	cb, errB := colorful.Hex(string(b))
	if errA != nil || errB != nil {
		return a
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}
