package particle

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/san-kum/gravwell/internal/vecmath"
)

// TrailSpacing is the minimum distance between consecutive trail points.
const TrailSpacing = 2.0

var (
	ErrInvalidPosition = errors.New("particle: invalid position")
	ErrInvalidVelocity = errors.New("particle: invalid velocity")

	// ErrNumericFault reports that an integration step produced a
	// non-finite state and the particle was respawned.
	ErrNumericFault = errors.New("particle: non-finite state, respawned")
)

type Config struct {
	MaxTrailLength int     `yaml:"max_trail_length" env:"MAX_TRAIL_LENGTH"`
	MaxSpeed       float64 `yaml:"max_speed" env:"MAX_SPEED"`
	MinLifespan    int     `yaml:"min_lifespan" env:"MIN_LIFESPAN"`
	MaxLifespan    int     `yaml:"max_lifespan" env:"MAX_LIFESPAN"`
	Size           float64 `yaml:"size" env:"SIZE"`
	Use3D          bool    `yaml:"use_3d" env:"USE_3D"`
}

func DefaultConfig() Config {
	return Config{
		MaxTrailLength: 20,
		MaxSpeed:       4.0,
		MinLifespan:    300,
		MaxLifespan:    600,
		Size:           2.0,
		Use3D:          true,
	}
}

type Particle struct {
	Position     vecmath.Vec3
	Velocity     vecmath.Vec3
	Acceleration vecmath.Vec3
	Trail        []vecmath.Vec3
	Age          int
	// Life is a per-particle period, in frames, used only for coloring.
	Life int

	cfg Config
	rng *rand.Rand
}

// New validates the initial state and returns a particle holding its own
// copy of cfg. rng is used for life sampling and fault respawns.
func New(pos, vel vecmath.Vec3, cfg Config, rng *rand.Rand) (*Particle, error) {
	if !pos.IsFinite() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}
	if !vel.IsFinite() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVelocity, vel)
	}
	if !cfg.Use3D {
		pos.Z, vel.Z = 0, 0
	}
	return &Particle{
		Position: pos,
		Velocity: vel,
		Trail:    make([]vecmath.Vec3, 0, max(cfg.MaxTrailLength, 0)+1),
		Life:     vecmath.RandomInt(rng, cfg.MinLifespan, cfg.MaxLifespan),
		cfg:      cfg,
		rng:      rng,
	}, nil
}

func (p *Particle) Config() Config { return p.cfg }
func (p *Particle) Speed() float64 { return p.Velocity.Length() }

// ApplyForce accumulates f into the acceleration. Non-finite forces are
// ignored.
func (p *Particle) ApplyForce(f vecmath.Vec3) {
	if !f.IsFinite() {
		return
	}
	p.Acceleration = p.Acceleration.Add(f)
}

// Update advances the particle one tick inside b. It never leaves the
// particle in a non-finite state: on a numeric fault the particle is
// respawned and ErrNumericFault is returned.
func (p *Particle) Update(b vecmath.Bounds) error {
	if err := p.step(b); err != nil {
		p.Respawn(b)
		return err
	}
	return nil
}

func (p *Particle) step(b vecmath.Bounds) error {
	vel := p.Velocity.Add(p.Acceleration)
	if speed := vel.Length(); speed > p.cfg.MaxSpeed {
		vel = vel.Scale(p.cfg.MaxSpeed / speed)
	}
	pos := p.Position.Add(vel)
	if !vel.IsFinite() || !pos.IsFinite() {
		return fmt.Errorf("%w: pos=%v vel=%v", ErrNumericFault, pos, vel)
	}

	p.Velocity = vel
	p.Position = pos
	p.Acceleration = vecmath.Vec3{}

	if n := len(p.Trail); n == 0 || vecmath.Distance(p.Trail[n-1], pos) > TrailSpacing {
		p.Trail = append(p.Trail, pos)
	}
	if over := len(p.Trail) - max(p.cfg.MaxTrailLength, 0); over > 0 {
		n := copy(p.Trail, p.Trail[over:])
		p.Trail = p.Trail[:n]
	}

	if p.wrap(b) {
		p.Trail = p.Trail[:0]
	}
	p.Age++
	return nil
}

// wrap moves the particle to the opposite face of every boundary it
// crossed and reports whether it moved.
func (p *Particle) wrap(b vecmath.Bounds) bool {
	wrapped := false
	if p.Position.X < 0 {
		p.Position.X, wrapped = b.Width, true
	} else if p.Position.X > b.Width {
		p.Position.X, wrapped = 0, true
	}
	if p.Position.Y < 0 {
		p.Position.Y, wrapped = b.Height, true
	} else if p.Position.Y > b.Height {
		p.Position.Y, wrapped = 0, true
	}
	// The far plane is exclusive: z == MinDepth would divide by zero in
	// the projection, so the near face wraps to one unit inside it.
	if p.Position.Z <= vecmath.MinDepth {
		p.Position.Z, wrapped = vecmath.MaxDepth, true
	} else if p.Position.Z > vecmath.MaxDepth {
		p.Position.Z, wrapped = vecmath.MinDepth+1, true
	}
	return wrapped
}

// Respawn puts the particle at a random in-bounds position at rest with an
// empty trail.
func (p *Particle) Respawn(b vecmath.Bounds) {
	p.Position = RandomPosition(p.rng, b, p.cfg.Use3D)
	p.Velocity = vecmath.Vec3{}
	p.Acceleration = vecmath.Vec3{}
	p.Trail = p.Trail[:0]
}

// RandomPosition draws a point uniformly inside the simulation volume.
func RandomPosition(rng *rand.Rand, b vecmath.Bounds, use3D bool) vecmath.Vec3 {
	pos := vecmath.Vec3{
		X: vecmath.Random(rng, 0, b.Width),
		Y: vecmath.Random(rng, 0, b.Height),
	}
	if use3D {
		pos.Z = vecmath.Random(rng, vecmath.MinDepth+1, vecmath.MaxDepth)
	}
	return pos
}

// Clone returns a deep copy that shares nothing mutable with p.
func (p *Particle) Clone() Particle {
	c := *p
	c.Trail = make([]vecmath.Vec3, len(p.Trail))
	copy(c.Trail, p.Trail)
	return c
}
