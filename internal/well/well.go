package well

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravwell/internal/particle"
	"github.com/san-kum/gravwell/internal/vecmath"
)

// Force curve constants.
const (
	MinDistance     = 2.0
	Softening       = 100.0
	MinFalloff      = 5.0
	AttractFactor   = 0.06
	RepulsionFactor = -0.1
)

var (
	ErrInvalidPosition = errors.New("well: invalid position")
	ErrInvalidStrength = errors.New("well: invalid strength")
)

type Config struct {
	Strength float64 `yaml:"strength" env:"STRENGTH"`
	MaxLife  int     `yaml:"max_life" env:"MAX_LIFE"`
	MaxRange float64 `yaml:"max_range" env:"MAX_RANGE"`
}

func DefaultConfig() Config {
	return Config{
		Strength: 50,
		MaxLife:  600,
		MaxRange: 250,
	}
}

// Well is a transient point source that pulls or pushes particles.
type Well struct {
	Position  vecmath.Vec2
	Strength  float64
	Repulsive bool
	Age       int

	cfg Config
}

// New stores the absolute value of strength; polarity is carried by
// repulsive alone.
func New(pos vecmath.Vec2, strength float64, repulsive bool, cfg Config) (*Well, error) {
	if !pos.IsFinite() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}
	if !vecmath.IsFinite(strength) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStrength, strength)
	}
	return &Well{
		Position:  pos,
		Strength:  math.Abs(strength),
		Repulsive: repulsive,
		cfg:       cfg,
	}, nil
}

func (w *Well) Config() Config { return w.cfg }

// Update ages the well by one tick.
func (w *Well) Update() { w.Age++ }

// IsDead reports whether the well has outlived MaxLife.
func (w *Well) IsDead() bool { return w.Age > w.cfg.MaxLife }

// Alpha fades linearly from 1 at birth to 0 at MaxLife.
func (w *Well) Alpha() float64 {
	if w.cfg.MaxLife <= 0 {
		return 0
	}
	return math.Max(0, 1-float64(w.Age)/float64(w.cfg.MaxLife))
}

// Force returns the force the well exerts on a point at pos. Points
// closer than MinDistance or at MaxRange and beyond get nothing.
func (w *Well) Force(pos vecmath.Vec3) vecmath.Vec3 {
	d := w.Position.Vec3(0).Sub(pos)
	dist := d.Length()
	if dist <= MinDistance || dist >= w.cfg.MaxRange {
		return vecmath.Vec3{}
	}
	r := math.Max(dist, MinFalloff)
	mag := w.Strength * 100 / (r*r + Softening)
	factor := AttractFactor
	if w.Repulsive {
		factor = RepulsionFactor
	}
	return d.Normalize().Scale(mag * factor)
}

// ApplyForceToParticle adds the well's force to p's acceleration.
func (w *Well) ApplyForceToParticle(p *particle.Particle) {
	p.ApplyForce(w.Force(p.Position))
}
