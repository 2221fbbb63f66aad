package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/vecmath"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "GRAVWELL_"

const (
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultFPS      = 60
	DefaultTheme    = "cyberpunk"
	DefaultLogLevel = "info"
)

// Config is the on-disk document: host settings plus the engine config.
type Config struct {
	Seed       int64         `yaml:"seed" env:"SEED"`
	Width      float64       `yaml:"width" env:"WIDTH"`
	Height     float64       `yaml:"height" env:"HEIGHT"`
	FPS        int           `yaml:"fps" env:"FPS"`
	Theme      string        `yaml:"theme" env:"THEME"`
	LogLevel   string        `yaml:"log_level" env:"LOG_LEVEL"`
	Simulation engine.Config `yaml:"simulation"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FPS:        DefaultFPS,
		Theme:      DefaultTheme,
		LogLevel:   DefaultLogLevel,
		Simulation: engine.DefaultConfig(),
	}
}

// Load reads path over the defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays GRAVWELL_* variables. A nil environ reads the process
// environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return nil
}

func (c *Config) Bounds() vecmath.Bounds {
	return vecmath.Bounds{Width: c.Width, Height: c.Height}
}

// Validate range-checks host input before it reaches the engine, which
// only rejects non-finite values.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("config: "+format, args...))
		}
	}

	if err := c.Bounds().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	check(c.FPS > 0, "fps must be positive, got %d", c.FPS)
	if _, ok := Themes[c.Theme]; !ok {
		errs = append(errs, fmt.Errorf("config: unknown theme %q", c.Theme))
	}

	if err := ValidateSimulation(c.Simulation); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateSimulation range-checks the engine half of a config. Sweeps call
// it on every generated point.
func ValidateSimulation(s engine.Config) error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("config: "+format, args...))
		}
	}

	check(s.ParticleCount > 0, "particle_count must be positive, got %d", s.ParticleCount)
	check(s.Spawn == engine.SpawnUniform || s.Spawn == engine.SpawnFlow, "unknown spawn mode %q", s.Spawn)

	p := s.Particle
	check(p.MaxTrailLength > 0, "particle.max_trail_length must be positive, got %d", p.MaxTrailLength)
	check(positive(p.MaxSpeed), "particle.max_speed must be positive, got %g", p.MaxSpeed)
	check(p.MinLifespan > 0, "particle.min_lifespan must be positive, got %d", p.MinLifespan)
	check(p.MaxLifespan >= p.MinLifespan, "particle.max_lifespan %d below min_lifespan %d", p.MaxLifespan, p.MinLifespan)
	check(positive(p.Size), "particle.size must be positive, got %g", p.Size)

	w := s.GravityWell
	check(positive(w.Strength), "gravity_well.strength must be positive, got %g", w.Strength)
	check(w.MaxLife > 0, "gravity_well.max_life must be positive, got %d", w.MaxLife)
	check(positive(w.MaxRange), "gravity_well.max_range must be positive, got %g", w.MaxRange)

	return errors.Join(errs...)
}

func positive(x float64) bool { return vecmath.IsFinite(x) && x > 0 }
