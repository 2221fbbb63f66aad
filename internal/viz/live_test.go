package viz

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravwell/internal/control"
	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/vecmath"
)

func newTestModel(t *testing.T, opts ...Option) *Model {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.ParticleCount = 20
	e, err := engine.New(cfg, vecmath.Bounds{Width: 800, Height: 600}, engine.WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(e, append([]Option{WithCanvasSize(40, 15)}, opts...)...)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)
	e := m.eng

	m.Update(key(" "))
	if !e.IsPaused() {
		t.Error("space should pause")
	}
	m.Update(key("t"))
	if e.Config().ShowTrails {
		t.Error("t should toggle trails")
	}
	m.Update(key("+"))
	if n := len(e.Particles()); n != 70 {
		t.Errorf("+ should add %d particles, got %d", countStep, n)
	}
	for i := 0; i < 5; i++ {
		m.Update(key("-"))
	}
	if n := len(e.Particles()); n != minCount {
		t.Errorf("- should stop at %d, got %d", minCount, n)
	}
	m.Update(key("T"))
	if m.Theme().Name != "retro" {
		t.Errorf("T should cycle theme, got %s", m.Theme().Name)
	}

	e.SpawnWell(vecmath.Vec2{X: 1, Y: 1}, false)
	m.Update(key("c"))
	if len(e.Wells()) != 0 {
		t.Error("c should clear wells")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelMouse(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.MouseMsg{X: canvasPadX, Y: canvasPadY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: canvasPadX + 39, Y: canvasPadY + 14, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonMiddle})

	ws := m.eng.Wells()
	if len(ws) != 2 {
		t.Fatalf("expected 2 wells, got %d", len(ws))
	}
	if ws[0].Repulsive || !ws[1].Repulsive {
		t.Error("wrong polarity")
	}
	if ws[0].Position.X != 10 || ws[0].Position.Y != 20 {
		t.Errorf("first well at %v", ws[0].Position)
	}
}

func TestModelTick(t *testing.T) {
	m := newTestModel(t)
	now := time.Now()
	for i := 0; i < 3; i++ {
		_, cmd := m.Update(TickMsg(now.Add(time.Duration(i) * 16 * time.Millisecond)))
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}
	if m.eng.PerformanceMetrics().Frames != 3 {
		t.Errorf("frames = %d", m.eng.PerformanceMetrics().Frames)
	}
	if len(m.speedHistory) != 3 || m.stats.Particles != 20 {
		t.Errorf("history %d, stats %+v", len(m.speedHistory), m.stats)
	}

	view := m.View()
	for _, want := range []string{"RUNNING", "Particles", "20"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelGovernor(t *testing.T) {
	m := newTestModel(t, WithGovernor(control.NewGovernor(60, 10, 1000)))
	// One frame taking a full second measures 1 FPS.
	m.step(time.Second)
	if n := m.eng.Config().ParticleCount; n != 10 {
		t.Errorf("particle count = %d, want 10", n)
	}
	if n := len(m.eng.Particles()); n != 10 {
		t.Errorf("particles rebuilt to %d, want 10", n)
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.cols != 74 || m.rows != 27 {
		t.Errorf("canvas %dx%d", m.cols, m.rows)
	}
	if c := m.Surface().Canvas(); c.Width != m.cols || c.Height != m.rows {
		t.Error("surface not resized")
	}
}

type fakeSink struct {
	frames int
	err    error
}

func (f *fakeSink) Capture(*Canvas) { f.frames++ }
func (f *fakeSink) Save() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "out.gif", nil
}

func TestModelRecording(t *testing.T) {
	sink := &fakeSink{}
	m := newTestModel(t, WithRecorder(sink))

	m.Update(key("g"))
	m.step(time.Millisecond)
	m.step(time.Millisecond)
	m.Update(key("g"))
	m.step(time.Millisecond)

	if sink.frames != 2 {
		t.Errorf("captured %d frames", sink.frames)
	}
	if m.status != "saved out.gif" {
		t.Errorf("status = %q", m.status)
	}

	sink.err = errors.New("disk full")
	m.Update(key("g"))
	m.Update(key("g"))
	if !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q", m.status)
	}
}

func TestModelRecordingUnavailable(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("g"))
	if m.recording {
		t.Error("recording without a sink")
	}
}

func TestLauncher(t *testing.T) {
	items := []LaunchItem{{"calm", "slow"}, {"storm", "fast"}}
	var built string
	l := NewLauncher(items, func(name string) (*Model, error) {
		built = name
		if name == "calm" {
			return nil, errors.New("nope")
		}
		return newTestModel(t), nil
	})

	l.Update(key("k"))
	if l.Selected() != "calm" {
		t.Error("cursor moved above the first item")
	}
	l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if l.Live() != nil || l.err == nil || !strings.Contains(l.View(), "nope") {
		t.Error("build error should keep the menu")
	}

	l.Update(key("j"))
	l.Update(key("j"))
	if l.Selected() != "storm" {
		t.Errorf("selected %s", l.Selected())
	}
	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if built != "storm" || l.Live() == nil || cmd == nil {
		t.Fatal("enter should start the live model")
	}

	l.Update(key(" "))
	if !l.Live().eng.IsPaused() {
		t.Error("keys should reach the live model")
	}
}
