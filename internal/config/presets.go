package config

import (
	"sort"

	"github.com/san-kum/gravwell/internal/engine"
)

// Themes are the palettes the terminal host knows about.
var Themes = map[string]struct{}{
	"cyberpunk": {},
	"retro":     {},
	"minimal":   {},
	"ocean":     {},
	"sunset":    {},
}

var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Simulation.ParticleCount = 120
		c.Simulation.Particle.MaxSpeed = 2
		c.Simulation.GravityWell.MaxRange = 180
	},
	"storm": func(c *Config) {
		c.Simulation.ParticleCount = 400
		c.Simulation.Particle.MaxSpeed = 8
		c.Simulation.Particle.MaxTrailLength = 30
		c.Simulation.GravityWell.MaxRange = 350
	},
	"flat": func(c *Config) {
		c.Simulation.Particle.Use3D = false
	},
	"swarm": func(c *Config) {
		c.Simulation.ParticleCount = 300
		c.Simulation.Spawn = engine.SpawnFlow
		c.Simulation.GravityWell.MaxLife = 900
	},
	"dense": func(c *Config) {
		c.Simulation.ParticleCount = 1000
		c.Simulation.ShowTrails = false
		c.Simulation.Particle.Size = 1.2
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListThemes() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
