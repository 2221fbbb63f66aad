package metrics

import (
	"math"

	"github.com/san-kum/gravwell/internal/engine"
)

type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(f engine.FrameStats) {
	m.sum += f.MeanSpeed
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// PeakSpeed is the fastest particle seen in any frame.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string                { return p.name }
func (p *PeakSpeed) Observe(f engine.FrameStats) { p.peak = math.Max(p.peak, f.MaxSpeed) }
func (p *PeakSpeed) Value() float64              { return p.peak }
func (p *PeakSpeed) Reset()                      { p.peak = 0 }

// WellActivity is the mean number of live wells per frame.
type WellActivity struct {
	name    string
	sum     int
	samples int
}

func NewWellActivity() *WellActivity {
	return &WellActivity{name: "well_activity"}
}

func (w *WellActivity) Name() string {
	return w.name
}

func (w *WellActivity) Observe(f engine.FrameStats) {
	w.sum += f.Wells
	w.samples++
}

func (w *WellActivity) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return float64(w.sum) / float64(w.samples)
}

func (w *WellActivity) Reset() {
	w.sum = 0
	w.samples = 0
}
