package storage

import "github.com/san-kum/gravwell/internal/engine"

// Recorder is an engine.Metric that keeps every frame it observes, for
// persisting with Store.Save.
type Recorder struct {
	Frames []engine.FrameStats
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Name() string                { return "frames" }
func (r *Recorder) Observe(f engine.FrameStats) { r.Frames = append(r.Frames, f) }
func (r *Recorder) Value() float64              { return float64(len(r.Frames)) }
func (r *Recorder) Reset()                      { r.Frames = nil }

// Series extracts one column from frames for plotting.
func Series(frames []engine.FrameStats, pick func(engine.FrameStats) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = pick(f)
	}
	return out
}
