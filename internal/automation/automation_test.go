package automation

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/metrics"
	"github.com/san-kum/gravwell/internal/vecmath"
)

const demo = `
name: demo
description: attract then repel
ticks: 20
dt: 0.02
actions:
  - tick: 10
    action: right_click
    x: 300
    y: 300
  - tick: 0
    action: click
    x: 100
    y: 200
  - tick: 15
    action: resize
    width: 400
    height: 300
`

func newEngine(t *testing.T, seed int64) *engine.Engine {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.ParticleCount = 20
	e, err := engine.New(cfg, vecmath.Bounds{Width: 800, Height: 600}, engine.WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(demo))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "demo" || sc.Ticks != 20 || len(sc.Actions) != 3 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Actions[0].Type != ActionClick || sc.Actions[2].Type != ActionResize {
		t.Errorf("actions not sorted by tick: %+v", sc.Actions)
	}
	if sc.FrameTime() != 20*time.Millisecond {
		t.Errorf("frame time = %v", sc.FrameTime())
	}
}

func TestParseScenarioRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown action", "ticks: 1\nactions:\n  - action: explode\n"},
		{"bad resize", "ticks: 1\nactions:\n  - action: resize\n    width: 0\n    height: 10\n"},
		{"bad count", "ticks: 1\nactions:\n  - action: particles\n"},
		{"negative ticks", "ticks: -1\n"},
		{"malformed", "ticks: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScenario([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(demo), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Description != "attract then repel" {
		t.Errorf("description = %q", sc.Description)
	}
}

func TestRun(t *testing.T) {
	sc, err := ParseScenario([]byte(demo))
	if err != nil {
		t.Fatal(err)
	}
	e := newEngine(t, 1)

	var ticks []int
	var wells []int
	err = Run(context.Background(), e, sc, nil, func(tick int, e *engine.Engine) {
		ticks = append(ticks, tick)
		wells = append(wells, len(e.Wells()))
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(ticks) != 20 || ticks[19] != 20 {
		t.Fatalf("expected 20 tick callbacks, got %v", ticks)
	}
	if wells[0] != 1 || wells[10] != 2 {
		t.Errorf("wells per tick = %v", wells)
	}
	ws := e.Wells()
	if ws[0].Repulsive || !ws[1].Repulsive {
		t.Errorf("unexpected polarity: %+v", ws)
	}
	if e.Bounds().Width != 400 {
		t.Error("resize not applied")
	}
	if e.PerformanceMetrics().Frames != 20 {
		t.Errorf("frames = %d", e.PerformanceMetrics().Frames)
	}
}

func TestRunCancelled(t *testing.T) {
	sc := &Scenario{Ticks: 100}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, newEngine(t, 1), sc, nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestApply(t *testing.T) {
	e := newEngine(t, 2)

	steps := []struct {
		action Action
		check  func() bool
	}{
		{Action{Type: ActionSpawn, X: 5, Y: 5}, func() bool { return len(e.Wells()) == 1 }},
		{Action{Type: ActionSpawnRepel, X: 5, Y: 5}, func() bool { return e.Wells()[1].Repulsive }},
		{Action{Type: ActionClear}, func() bool { return len(e.Wells()) == 0 }},
		{Action{Type: ActionToggleTrails}, func() bool { return !e.Config().ShowTrails }},
		{Action{Type: ActionTogglePause}, func() bool { return e.IsPaused() }},
		{Action{Type: ActionParticles, Count: 7}, func() bool { return len(e.Particles()) == 7 }},
		{Action{Type: ActionReset}, func() bool { return len(e.Particles()) == 7 }},
	}
	for _, s := range steps {
		if err := Apply(e, s.action); err != nil {
			t.Fatalf("%s: %v", s.action.Type, err)
		}
		if !s.check() {
			t.Errorf("%s had no effect", s.action.Type)
		}
	}

	if err := Apply(e, Action{Type: ActionResize}); !errors.Is(err, engine.ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}
}

func TestRunTrials(t *testing.T) {
	sc, err := ParseScenario([]byte(demo))
	if err != nil {
		t.Fatal(err)
	}
	build := func(seed int64) (*engine.Engine, []engine.Metric, error) {
		ms, err := metrics.New("well_activity", "peak_speed")
		if err != nil {
			return nil, nil, err
		}
		return newEngine(t, seed), ms, nil
	}

	results, err := RunTrials(context.Background(), sc, 10, 3, build, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || results[2].Seed != 12 {
		t.Fatalf("unexpected results %+v", results)
	}

	summary := Summarize(results)
	wa := summary["well_activity"]
	// One well for ticks 0-9, two for ticks 10-19.
	if wa.Mean != 1.5 || wa.Min != 1.5 || wa.Max != 1.5 {
		t.Errorf("well_activity summary = %+v", wa)
	}
	if summary["peak_speed"].Max <= 0 {
		t.Error("expected positive peak speed")
	}
}

func TestRunTrialsFactoryError(t *testing.T) {
	boom := errors.New("boom")
	build := func(int64) (*engine.Engine, []engine.Metric, error) { return nil, nil, boom }
	if _, err := RunTrials(context.Background(), &Scenario{Ticks: 1}, 0, 2, build, nil); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

type particleGauge struct{ last int }

func (g *particleGauge) Name() string                { return "particles" }
func (g *particleGauge) Observe(f engine.FrameStats) { g.last = f.Particles }
func (g *particleGauge) Value() float64              { return float64(g.last) }
func (g *particleGauge) Reset()                      { g.last = 0 }

func TestParseAxis(t *testing.T) {
	ax, err := ParseAxis("well_strength=20, 50,80")
	if err != nil {
		t.Fatal(err)
	}
	if ax.Name != "well_strength" || len(ax.Values) != 3 || ax.Values[1] != 50 {
		t.Errorf("unexpected axis %+v", ax)
	}

	for _, bad := range []string{"well_strength", "well_strength=", "gravity=1,2", "max_speed=1,x"} {
		if _, err := ParseAxis(bad); err == nil {
			t.Errorf("ParseAxis(%q) should fail", bad)
		}
	}
}

func TestSweep(t *testing.T) {
	sc := &Scenario{Name: "sweep", Ticks: 5}
	axes := []Axis{
		{Name: "particle_count", Values: []float64{10, 20, 30}},
		{Name: "max_speed", Values: []float64{1, 3}},
	}
	boom := errors.New("boom")
	build := func(cfg engine.Config) (*engine.Engine, []engine.Metric, error) {
		if cfg.ParticleCount == 30 {
			return nil, nil, boom
		}
		e, err := engine.New(cfg, vecmath.Bounds{Width: 800, Height: 600}, engine.WithRand(rand.New(rand.NewSource(1))))
		if err != nil {
			return nil, nil, err
		}
		return e, []engine.Metric{&particleGauge{}}, nil
	}

	points, err := Sweep(context.Background(), sc, engine.DefaultConfig(), axes, build)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if p := points[1].Params; p["particle_count"] != 10 || p["max_speed"] != 3 {
		t.Errorf("points out of grid order: %+v", p)
	}
	if points[0].Metrics["particles"] != 10 {
		t.Errorf("first point ran %v particles", points[0].Metrics["particles"])
	}
	if !errors.Is(points[4].Err, boom) || !errors.Is(points[5].Err, boom) {
		t.Error("expected build errors recorded on the last row")
	}

	best, ok := Best(points, "particles", true)
	if !ok || best.Params["particle_count"] != 20 {
		t.Errorf("best = %+v, %v", best, ok)
	}
	least, ok := Best(points, "particles", false)
	if !ok || least.Params["particle_count"] != 10 {
		t.Errorf("least = %+v, %v", least, ok)
	}
	if _, ok := Best(points, "missing", false); ok {
		t.Error("unknown metric should find nothing")
	}
}

func TestSweepUnknownParam(t *testing.T) {
	_, err := Sweep(context.Background(), &Scenario{Ticks: 1}, engine.DefaultConfig(), []Axis{{Name: "gravity", Values: []float64{1}}}, nil)
	if err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestSweepRejectsOutOfRangePoints(t *testing.T) {
	ax, err := ParseAxis("trail_length=-1,5")
	if err != nil {
		t.Fatal(err)
	}
	built := 0
	build := func(cfg engine.Config) (*engine.Engine, []engine.Metric, error) {
		built++
		e, err := engine.New(cfg, vecmath.Bounds{Width: 800, Height: 600}, engine.WithRand(rand.New(rand.NewSource(1))))
		if err != nil {
			return nil, nil, err
		}
		return e, []engine.Metric{&particleGauge{}}, nil
	}

	points, err := Sweep(context.Background(), &Scenario{Name: "trails", Ticks: 5}, engine.DefaultConfig(), []Axis{ax}, build)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Err == nil || points[0].Metrics != nil {
		t.Errorf("negative trail length should fail validation, got %+v", points[0])
	}
	if points[1].Err != nil {
		t.Errorf("valid point failed: %v", points[1].Err)
	}
	if built != 1 {
		t.Errorf("factory called %d times, want only for the valid point", built)
	}
}
