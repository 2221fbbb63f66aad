package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LaunchItem is one entry in the launcher menu.
type LaunchItem struct {
	Name        string
	Description string
}

// BuildFunc creates the live model for the chosen item.
type BuildFunc func(name string) (*Model, error)

const (
	stateMenu = iota
	stateSim
)

// Launcher shows a menu of presets and then hands the terminal to the
// live model built for the selection.
type Launcher struct {
	state  int
	cursor int
	items  []LaunchItem
	build  BuildFunc
	live   *Model
	err    error
	styles Styles
	size   *tea.WindowSizeMsg
}

func NewLauncher(items []LaunchItem, build BuildFunc) *Launcher {
	return &Launcher{items: items, build: build, styles: NewStyles(ThemeCyberpunk)}
}

func (l *Launcher) Init() tea.Cmd { return nil }

// Selected is the highlighted item name.
func (l *Launcher) Selected() string {
	if len(l.items) == 0 {
		return ""
	}
	return l.items[l.cursor].Name
}

func (l *Launcher) Live() *Model { return l.live }

func (l *Launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.state == stateSim {
		_, cmd := l.live.Update(msg)
		return l, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.size = &msg
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return l, tea.Quit
		case "up", "k":
			if l.cursor > 0 {
				l.cursor--
			}
		case "down", "j":
			if l.cursor < len(l.items)-1 {
				l.cursor++
			}
		case "enter", " ":
			return l, l.start()
		}
	}
	return l, nil
}

func (l *Launcher) start() tea.Cmd {
	if len(l.items) == 0 {
		return nil
	}
	live, err := l.build(l.Selected())
	if err != nil {
		l.err = err
		return nil
	}
	l.live, l.state, l.err = live, stateSim, nil
	if l.size != nil {
		l.live.Update(*l.size)
	}
	return l.live.Init()
}

func (l *Launcher) View() string {
	if l.state == stateSim {
		return l.live.View()
	}

	st := l.styles
	var b strings.Builder
	b.WriteString(st.Header.Render(GradientText("GRAVWELL", ThemeCyberpunk.Primary, ThemeCyberpunk.Secondary)) + "\n")
	b.WriteString(st.Label.UnsetWidth().Render("choose a preset") + "\n\n")
	for i, item := range l.items {
		line := lipgloss.NewStyle().Width(10).Render(item.Name) + " " + item.Description
		if i == l.cursor {
			b.WriteString(st.Cursor.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.Label.UnsetWidth().Render(line) + "\n")
		}
	}
	if l.err != nil {
		b.WriteString("\n" + st.Record.UnsetBlink().Render(l.err.Error()) + "\n")
	}
	b.WriteString(st.Help.Render("↑↓:select  enter:start  q:quit"))
	return st.Canvas.Render(b.String())
}
