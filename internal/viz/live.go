package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/vecmath"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	historyCapacity = 120
	countStep       = 50
	minCount        = 10
)

// canvasPadX and canvasPadY mirror Styles.Canvas padding, for mapping
// mouse cells back onto the canvas.
const (
	canvasPadX = 2
	canvasPadY = 1
)

type TickMsg time.Time

// FrameSink receives canvas frames while recording.
type FrameSink interface {
	Capture(c *Canvas)
	Save() (string, error)
}

// Model hosts an engine in the terminal.
type Model struct {
	eng     *engine.Engine
	surface *Surface
	theme   Theme
	styles  Styles
	fps     int
	log     *slog.Logger

	cols, rows int
	lastTick   time.Time

	fpsHistory   []float64
	speedHistory []float64
	stats        engine.FrameStats

	governor  Governor
	sink      FrameSink
	recording bool
	status    string
	showHelp  bool
}

// Governor picks a particle count from the observed frame rate.
type Governor interface {
	Observe(dt time.Duration, fps float64, count int) (int, bool)
	Reset()
}

type frameTap struct{ m *Model }

func (t frameTap) Name() string                { return "tui" }
func (t frameTap) Observe(f engine.FrameStats) { t.m.stats = f }
func (t frameTap) Value() float64              { return t.m.stats.MeanSpeed }
func (t frameTap) Reset()                      {}

type Option func(*Model)

func WithTheme(name string) Option     { return func(m *Model) { m.setTheme(GetTheme(name)) } }
func WithFPS(fps int) Option           { return func(m *Model) { m.fps = fps } }
func WithRecorder(s FrameSink) Option  { return func(m *Model) { m.sink = s } }
func WithGovernor(g Governor) Option   { return func(m *Model) { m.governor = g } }
func WithLogger(l *slog.Logger) Option { return func(m *Model) { m.log = l } }
func WithCanvasSize(cols, rows int) Option {
	return func(m *Model) { m.cols, m.rows = cols, rows }
}

// NewModel wraps e. The engine's bounds are kept; the canvas stretches to
// fit them.
func NewModel(e *engine.Engine, opts ...Option) *Model {
	m := &Model{
		eng:          e,
		fps:          60,
		cols:         defaultCols,
		rows:         defaultRows,
		fpsHistory:   make([]float64, 0, historyCapacity),
		speedHistory: make([]float64, 0, historyCapacity),
	}
	m.setTheme(ThemeCyberpunk)
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	m.surface = NewSurface(m.cols, m.rows, e.Bounds())
	e.AddMetric(frameTap{m})
	return m
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.styles = NewStyles(t)
}

func (m *Model) Theme() Theme      { return m.theme }
func (m *Model) Surface() *Surface { return m.surface }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(m.fps, 1)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		cols := max(msg.Width-panelWidth-2*canvasPadX-2, 10)
		rows := max(msg.Height-2*canvasPadY, 4)
		m.cols, m.rows = CanvasForBounds(m.eng.Bounds(), cols, rows)
		m.surface.Resize(m.cols, m.rows)
	case TickMsg:
		now := time.Time(msg)
		dt := time.Second / time.Duration(max(m.fps, 1))
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick)
		}
		m.lastTick = now
		m.step(dt)
		return m, m.tick()
	}
	return m, nil
}

// step advances and draws one frame.
func (m *Model) step(dt time.Duration) {
	m.eng.Update(dt)
	if m.governor != nil && !m.eng.IsPaused() {
		if next, ok := m.governor.Observe(dt, m.eng.PerformanceMetrics().FPS, m.eng.Config().ParticleCount); ok {
			m.eng.UpdateConfig(engine.Patch{ParticleCount: &next})
			m.log.Debug("particle count adjusted", "count", next)
		}
	}
	if err := m.eng.Render(m.surface); err != nil {
		m.log.Debug("render skipped", "error", err)
		return
	}
	if m.eng.IsPaused() {
		return
	}
	m.fpsHistory = pushBounded(m.fpsHistory, m.eng.PerformanceMetrics().FPS)
	m.speedHistory = pushBounded(m.speedHistory, m.stats.MeanSpeed)
	if m.recording && m.sink != nil {
		m.sink.Capture(m.surface.Canvas())
	}
}

func pushBounded(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case " ":
		m.eng.TogglePause()
	case "t":
		m.eng.ToggleTrails()
	case "c":
		m.eng.ClearGravityWells()
	case "r":
		m.eng.Reset()
		if m.governor != nil {
			m.governor.Reset()
		}
	case "+", "=":
		n := m.eng.Config().ParticleCount + countStep
		m.eng.UpdateConfig(engine.Patch{ParticleCount: &n})
	case "-", "_":
		n := max(m.eng.Config().ParticleCount-countStep, minCount)
		m.eng.UpdateConfig(engine.Patch{ParticleCount: &n})
	case "T":
		m.setTheme(m.theme.Next())
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) toggleRecording() {
	if m.sink == nil {
		m.status = "recording unavailable"
		return
	}
	if !m.recording {
		m.recording = true
		m.status = ""
		return
	}
	m.recording = false
	path, err := m.sink.Save()
	if err != nil {
		m.status = "save failed: " + err.Error()
		m.log.Warn("gif save failed", "error", err)
		return
	}
	m.status = "saved " + path
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	var button engine.Button
	switch msg.Button {
	case tea.MouseButtonLeft:
		button = engine.ButtonLeft
	case tea.MouseButtonRight:
		button = engine.ButtonRight
	default:
		return
	}
	col, row := msg.X-canvasPadX, msg.Y-canvasPadY
	if col < 0 || row < 0 || col >= m.cols || row >= m.rows {
		return
	}
	m.eng.HandleMouseInteraction(engine.Interaction{Position: m.surface.CellToSim(col, row), Button: button})
}

func (m *Model) View() string {
	canvasView := m.styles.Canvas.Render(m.surface.Canvas().Styled())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.panel())
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func (m *Model) panel() string {
	st := m.styles
	perf := m.eng.PerformanceMetrics()
	cfg := m.eng.Config()

	var s strings.Builder
	s.WriteString(st.Header.Render(GradientText("GRAVWELL", m.theme.Primary, m.theme.Secondary)) + "\n")

	switch {
	case m.recording:
		s.WriteString(st.Record.Render("● REC") + "  ")
	case cfg.IsPaused:
		s.WriteString(st.Paused.Render("PAUSED") + "  ")
	default:
		s.WriteString(st.Running.Render("RUNNING") + "  ")
	}
	if m.status != "" {
		s.WriteString(st.Label.UnsetWidth().Render(m.status))
	}
	s.WriteString("\n")

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory, asciigraph.Height(4), asciigraph.Width(panelWidth-12), asciigraph.Caption("mean speed"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("FPS", fmt.Sprintf("%.1f %s", perf.FPS, Sparkline(m.fpsHistory, 12)))
	row("Frame", fmt.Sprintf("%d", perf.Frames))
	row("Particles", fmt.Sprintf("%d", perf.ParticleCount))
	row("Wells", Meter(perf.WellCount, engine.MaxWells, 12, m.theme))
	row("Peak", fmt.Sprintf("%.2f", m.stats.MaxSpeed))
	row("Energy", fmt.Sprintf("%.1f", m.stats.KineticEnergy))
	row("Resets", fmt.Sprintf("%d", perf.ParticleResets))
	row("Trails", onOff(cfg.ShowTrails))
	row("Theme", m.theme.Name)

	s.WriteString(st.Help.Render("click:attract  right:repel\nSP:pause T:theme t:trails\nc:clear r:reset +/-:count\ng:record ?:help q:quit"))
	return st.Panel.Render(s.String())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Click    - Attracting well          ║
║  R-Click  - Repelling well           ║
║  Space    - Pause/Resume             ║
║  t        - Toggle trails            ║
║  c        - Clear wells              ║
║  r        - Reset particles          ║
║  + / -    - More/fewer particles     ║
║  T        - Cycle themes             ║
║  g        - Toggle GIF recording     ║
║  q        - Quit                     ║
╚══════════════════════════════════════╝
`

// CanvasForBounds picks the canvas size matching b's aspect, assuming
// square dots, within cols x rows cells.
func CanvasForBounds(b vecmath.Bounds, cols, rows int) (int, int) {
	if b.Validate() != nil || cols <= 0 || rows <= 0 {
		return cols, rows
	}
	if float64(cols*2)*b.Height > float64(rows*4)*b.Width {
		return max(int(float64(rows*4)*b.Width/b.Height/2), 1), rows
	}
	return cols, max(int(float64(cols*2)*b.Height/b.Width/4), 1)
}
