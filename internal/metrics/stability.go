package metrics

import "github.com/san-kum/gravwell/internal/engine"

// Stability is the fraction of frames in which no particle had to be
// respawned after a numeric fault.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f engine.FrameStats) {
	s.samples++
	if f.Resets > 0 {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
