package control

import (
	"math"
	"time"
)

const (
	governorInterval = time.Second
	governorStep     = 10
)

// Governor adjusts the particle count so the frame rate tracks a target.
// It acts at most once per second and only in multiples of ten particles,
// since every count change rebuilds the particle collection.
type Governor struct {
	pid      *PID
	Min, Max int
	elapsed  time.Duration
}

// NewGovernor targets fps frames per second with counts in [lo, hi].
func NewGovernor(fps float64, lo, hi int) *Governor {
	pid := NewPID(5, 1, 0, fps)
	pid.Limit = 50
	return &Governor{pid: pid, Min: lo, Max: hi}
}

// Observe feeds one frame. It returns the new particle count and true when
// the count should change.
func (g *Governor) Observe(dt time.Duration, fps float64, count int) (int, bool) {
	g.elapsed += dt
	if g.elapsed < governorInterval || fps <= 0 {
		return count, false
	}
	u := g.pid.Update(fps, g.elapsed.Seconds())
	g.elapsed = 0

	// A frame rate below target gives a positive output and fewer particles.
	next := count - int(math.Round(u/governorStep))*governorStep
	next = min(max(next, g.Min), g.Max)
	return next, next != count
}

func (g *Governor) Reset() {
	g.pid.Reset()
	g.elapsed = 0
}
