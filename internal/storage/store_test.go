package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/vecmath"
)

func sampleFrames() []engine.FrameStats {
	return []engine.FrameStats{
		{Tick: 0, Particles: 200, Wells: 1, MeanSpeed: 1.25, MaxSpeed: 3.5, KineticEnergy: 210.5},
		{Tick: 1, Particles: 200, Wells: 1, MeanSpeed: 1.5, MaxSpeed: 4, KineticEnergy: 260, Resets: 1},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Scenario: "demo",
		Seed:     42,
		Ticks:    2,
		Config:   engine.DefaultConfig(),
		Metrics:  map[string]float64{"peak_speed": 4},
	}
	runID, err := st.Save(meta, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "demo_") {
		t.Errorf("unexpected run id %q", runID)
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.ID != runID || got.Seed != 42 || got.Timestamp.IsZero() {
		t.Errorf("metadata = %+v", got)
	}
	if got.Metrics["peak_speed"] != 4 {
		t.Errorf("expected peak_speed 4, got %f", got.Metrics["peak_speed"])
	}
	if got.Config != engine.DefaultConfig() {
		t.Errorf("config not preserved: %+v", got.Config)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	want := sampleFrames()
	if len(frames) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(frames))
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, frames[i], want[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	first, _ := st.Save(RunMetadata{Scenario: "a"}, nil)
	time.Sleep(time.Millisecond)
	second, _ := st.Save(RunMetadata{}, nil)
	os.Mkdir(filepath.Join(st.baseDir, "junk"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}
	if !strings.HasPrefix(second, "run_") {
		t.Errorf("unnamed run id %q", second)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	frames, err := st.LoadFrames(runID)
	if err != nil || len(frames) != 0 {
		t.Errorf("empty run: frames=%v err=%v", frames, err)
	}
}

func TestLoadFramesSkipsMalformedRows(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runID, _ := st.Save(RunMetadata{}, sampleFrames())

	path := filepath.Join(tmpDir, runID, "frames.csv")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("x,1,1,1,1,1,1\n3,1\n")
	f.Close()

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Errorf("expected 2 valid frames, got %d", len(frames))
	}
}

func TestRecorderWithEngine(t *testing.T) {
	e, err := engine.New(engine.DefaultConfig(), vecmath.Bounds{Width: 200, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecorder()
	e.AddMetric(rec)
	for i := 0; i < 5; i++ {
		e.Update(0)
	}

	if rec.Value() != 5 || rec.Frames[4].Tick != 4 {
		t.Errorf("recorded %d frames, last tick %d", len(rec.Frames), rec.Frames[len(rec.Frames)-1].Tick)
	}

	particles := Series(rec.Frames, func(f engine.FrameStats) float64 { return float64(f.Particles) })
	if particles[0] != 200 {
		t.Errorf("series = %v", particles)
	}

	var buf bytes.Buffer
	if err := WriteFrames(&buf, rec.Frames); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 6 {
		t.Errorf("expected header + 5 rows, got %d lines", lines)
	}

	rec.Reset()
	if rec.Value() != 0 {
		t.Error("reset did not clear frames")
	}
}
