package engine

// FrameStats summarises one non-paused update.
type FrameStats struct {
	Tick          uint64
	Particles     int
	Wells         int
	MeanSpeed     float64
	MaxSpeed      float64
	KineticEnergy float64
	Resets        int
}

// Metric accumulates a value over the frames it observes. A panic in
// Observe is recovered by the engine and counted in MetricFaults.
type Metric interface {
	Name() string
	Observe(f FrameStats)
	Value() float64
	Reset()
}

// PerformanceMetrics is a read-only snapshot of engine bookkeeping.
type PerformanceMetrics struct {
	FPS            float64
	Frames         uint64
	ParticleCount  int
	WellCount      int
	ParticleResets uint64
	SkippedFrames  uint64
	DroppedInputs  uint64
	MetricFaults   uint64
}
