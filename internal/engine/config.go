package engine

import (
	"github.com/san-kum/gravwell/internal/particle"
	"github.com/san-kum/gravwell/internal/well"
)

type SpawnMode string

const (
	SpawnUniform SpawnMode = "uniform"
	SpawnFlow    SpawnMode = "flow"
)

// Well collection cap: above MaxWells the oldest are dropped until
// TrimWellsTo remain.
const (
	MaxWells    = 100
	TrimWellsTo = 50
)

// Interaction strengths for pointer-spawned wells.
const (
	AttractStrength = 50.0
	RepelStrength   = 80.0
)

type Config struct {
	ParticleCount int             `yaml:"particle_count" env:"PARTICLE_COUNT"`
	ShowTrails    bool            `yaml:"show_trails" env:"SHOW_TRAILS"`
	IsPaused      bool            `yaml:"is_paused" env:"IS_PAUSED"`
	Spawn         SpawnMode       `yaml:"spawn" env:"SPAWN"`
	Particle      particle.Config `yaml:"particle" envPrefix:"PARTICLE_"`
	GravityWell   well.Config     `yaml:"gravity_well" envPrefix:"WELL_"`
}

func DefaultConfig() Config {
	return Config{
		ParticleCount: 200,
		ShowTrails:    true,
		Spawn:         SpawnUniform,
		Particle:      particle.DefaultConfig(),
		GravityWell:   well.DefaultConfig(),
	}
}

// Patch is a partial Config. Nil fields are left unchanged.
type Patch struct {
	ParticleCount *int
	ShowTrails    *bool
	IsPaused      *bool
	Spawn         *SpawnMode
	Particle      *particle.Config
	GravityWell   *well.Config
}

// apply merges p into c and reports whether the particle count changed.
func (p Patch) apply(c *Config) (countChanged bool) {
	if p.ParticleCount != nil && *p.ParticleCount != c.ParticleCount {
		c.ParticleCount = *p.ParticleCount
		countChanged = true
	}
	if p.ShowTrails != nil {
		c.ShowTrails = *p.ShowTrails
	}
	if p.IsPaused != nil {
		c.IsPaused = *p.IsPaused
	}
	if p.Spawn != nil {
		c.Spawn = *p.Spawn
	}
	if p.Particle != nil {
		c.Particle = *p.Particle
	}
	if p.GravityWell != nil {
		c.GravityWell = *p.GravityWell
	}
	return countChanged
}
