package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/gravwell/internal/particle"
	"github.com/san-kum/gravwell/internal/render"
	"github.com/san-kum/gravwell/internal/vecmath"
	"github.com/san-kum/gravwell/internal/well"
)

// fpsWindow is how much frame time is averaged into one FPS estimate.
const fpsWindow = time.Second

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

func (b Button) String() string {
	if b == ButtonRight {
		return "right"
	}
	return "left"
}

// Interaction is a pointer event already mapped to simulation units.
type Interaction struct {
	Position vecmath.Vec2
	Button   Button
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }
func WithRand(r *rand.Rand) Option     { return func(e *Engine) { e.rng = r } }

// WithSpawner overrides the spawner chosen by Config.Spawn.
func WithSpawner(s Spawner) Option { return func(e *Engine) { e.spawner = s } }

type Engine struct {
	cfg       Config
	bounds    vecmath.Bounds
	particles []*particle.Particle
	wells     []*well.Well

	rng     *rand.Rand
	spawner Spawner
	log     *slog.Logger
	metrics []Metric

	tick        uint64
	frameCount  int
	frameTime   time.Duration
	fps         float64
	resets      uint64
	skipped     uint64
	dropped     uint64
	faults      uint64
	customSpawn bool
}

// New builds an engine and its initial particles. Only bounds can make
// construction fail.
func New(cfg Config, bounds vecmath.Bounds, opts ...Option) (*Engine, error) {
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}
	e := &Engine{
		cfg:    cfg,
		bounds: bounds,
		wells:  make([]*well.Well, 0, MaxWells+1),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	if e.spawner == nil {
		e.spawner = newSpawner(cfg.Spawn, e.rng)
	} else {
		e.customSpawn = true
	}
	e.InitializeParticles()
	return e, nil
}

func (e *Engine) AddMetric(m Metric) { e.metrics = append(e.metrics, m) }

// InitializeParticles replaces the particle collection with
// Config.ParticleCount fresh particles. Particles that fail construction
// are left out.
func (e *Engine) InitializeParticles() {
	n := max(e.cfg.ParticleCount, 0)
	e.particles = make([]*particle.Particle, 0, n)
	for i := 0; i < n; i++ {
		pos, vel := e.spawner.Spawn(e.bounds, e.cfg.Particle)
		p, err := particle.New(pos, vel, e.cfg.Particle, e.rng)
		if err != nil {
			e.log.Debug("particle omitted", "index", i, "error", err)
			continue
		}
		e.particles = append(e.particles, p)
	}
}

// Update advances the simulation by one tick. dt is the wall time since
// the previous frame and only feeds FPS accounting.
func (e *Engine) Update(dt time.Duration) {
	if e.cfg.IsPaused {
		return
	}
	e.trackFrame(dt)
	e.cullWells()

	stats := FrameStats{Tick: e.tick, Wells: len(e.wells)}
	for i, p := range e.particles {
		for _, w := range e.wells {
			w.ApplyForceToParticle(p)
		}
		if err := p.Update(e.bounds); err != nil {
			stats.Resets++
			e.log.Debug("particle reset", "particle", i, "error", err)
		}
		speed := p.Speed()
		stats.MeanSpeed += speed
		stats.MaxSpeed = max(stats.MaxSpeed, speed)
		stats.KineticEnergy += 0.5 * speed * speed
	}
	stats.Particles = len(e.particles)
	if stats.Particles > 0 {
		stats.MeanSpeed /= float64(stats.Particles)
	}
	e.resets += uint64(stats.Resets)
	e.tick++

	for _, m := range e.metrics {
		e.observe(m, stats)
	}
}

// observe feeds one metric. A panicking metric is counted and logged and
// the tick carries on.
func (e *Engine) observe(m Metric, stats FrameStats) {
	defer func() {
		if r := recover(); r != nil {
			e.faults++
			e.log.Warn("metric fault", "error", fmt.Errorf("%w: %s: %v", ErrMetricFault, m.Name(), r))
		}
	}()
	m.Observe(stats)
}

// cullWells ages every well and drops the dead ones, preserving order.
// Wells culled here apply no force this tick.
func (e *Engine) cullWells() {
	live := e.wells[:0]
	for _, w := range e.wells {
		w.Update()
		if !w.IsDead() {
			live = append(live, w)
		}
	}
	clear(e.wells[len(live):])
	e.wells = live
}

func (e *Engine) trackFrame(dt time.Duration) {
	e.frameCount++
	e.frameTime += dt
	if e.frameTime >= fpsWindow {
		e.fps = float64(e.frameCount) / e.frameTime.Seconds()
		e.frameCount = 0
		e.frameTime = 0
	}
}

// Render draws the current frame. It is read-only with respect to
// simulation state. A nil error means the frame was fully drawn.
func (e *Engine) Render(s render.Surface) (err error) {
	if s == nil || !s.Ready() {
		e.skipped++
		e.log.Debug("frame skipped", "error", ErrSurfaceUnavailable)
		return ErrSurfaceUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			e.skipped++
			err = fmt.Errorf("%w: %v", ErrRenderFault, r)
			e.log.Debug("frame aborted", "error", err)
		}
	}()

	size := s.Size()
	s.SetSmoothing(true)
	if e.cfg.ShowTrails {
		s.FillRect(0, 0, size.Width, size.Height, render.RGBA(0, 0, 0, 0.1))
	} else {
		s.FillRect(0, 0, size.Width, size.Height, render.RGBA(0, 0, 0, 1))
	}
	for _, w := range e.wells {
		w.Draw(s)
	}
	for _, p := range e.particles {
		p.Draw(s, e.cfg.ShowTrails)
	}
	return nil
}

// HandleMouseInteraction spawns a well at the pointer: repulsive for the
// right button, attractive otherwise. Out-of-bounds or non-finite
// positions are dropped.
func (e *Engine) HandleMouseInteraction(in Interaction) {
	if !in.Position.IsFinite() || !e.bounds.Contains(in.Position) {
		e.dropped++
		e.log.Debug("interaction dropped", "x", in.Position.X, "y", in.Position.Y)
		return
	}
	if in.Button == ButtonRight {
		e.addWell(in.Position, RepelStrength, true)
		return
	}
	e.addWell(in.Position, AttractStrength, false)
}

// SpawnWell adds a well with the configured strength.
func (e *Engine) SpawnWell(pos vecmath.Vec2, repulsive bool) {
	e.addWell(pos, e.cfg.GravityWell.Strength, repulsive)
}

func (e *Engine) addWell(pos vecmath.Vec2, strength float64, repulsive bool) {
	w, err := well.New(pos, strength, repulsive, e.cfg.GravityWell)
	if err != nil {
		e.dropped++
		e.log.Debug("well omitted", "error", err)
		return
	}
	e.wells = append(e.wells, w)
	if len(e.wells) > MaxWells {
		n := copy(e.wells, e.wells[len(e.wells)-TrimWellsTo:])
		clear(e.wells[n:])
		e.wells = e.wells[:n]
	}
}

func (e *Engine) ClearGravityWells() {
	clear(e.wells)
	e.wells = e.wells[:0]
}

func (e *Engine) ToggleTrails()  { e.cfg.ShowTrails = !e.cfg.ShowTrails }
func (e *Engine) TogglePause()   { e.cfg.IsPaused = !e.cfg.IsPaused }
func (e *Engine) IsPaused() bool { return e.cfg.IsPaused }

// Reset rebuilds the particles and clears all wells.
func (e *Engine) Reset() {
	e.ClearGravityWells()
	e.InitializeParticles()
}

// UpdateCanvasBounds takes effect on the next wrap check. Existing
// particles are not moved.
func (e *Engine) UpdateCanvasBounds(b vecmath.Bounds) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}
	e.bounds = b
	return nil
}

func (e *Engine) Bounds() vecmath.Bounds { return e.bounds }

// UpdateConfig merges p. A changed particle count rebuilds every particle.
func (e *Engine) UpdateConfig(p Patch) {
	spawn := e.cfg.Spawn
	countChanged := p.apply(&e.cfg)
	if e.cfg.Spawn != spawn && !e.customSpawn {
		e.spawner = newSpawner(e.cfg.Spawn, e.rng)
	}
	if countChanged {
		e.InitializeParticles()
	}
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) PerformanceMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		FPS:            e.fps,
		Frames:         e.tick,
		ParticleCount:  len(e.particles),
		WellCount:      len(e.wells),
		ParticleResets: e.resets,
		SkippedFrames:  e.skipped,
		DroppedInputs:  e.dropped,
		MetricFaults:   e.faults,
	}
}

// Particles returns deep copies of the current particles.
func (e *Engine) Particles() []particle.Particle {
	out := make([]particle.Particle, len(e.particles))
	for i, p := range e.particles {
		out[i] = p.Clone()
	}
	return out
}

// Wells returns copies of the live wells, oldest first.
func (e *Engine) Wells() []well.Well {
	out := make([]well.Well, len(e.wells))
	for i, w := range e.wells {
		out[i] = *w
	}
	return out
}
