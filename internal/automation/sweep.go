package automation

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/engine"
)

// Setter writes one swept value into an engine config.
type Setter func(c *engine.Config, v float64)

// Params are the config fields a sweep can vary.
var Params = map[string]Setter{
	"particle_count": func(c *engine.Config, v float64) { c.ParticleCount = int(v) },
	"max_speed":      func(c *engine.Config, v float64) { c.Particle.MaxSpeed = v },
	"trail_length":   func(c *engine.Config, v float64) { c.Particle.MaxTrailLength = int(v) },
	"particle_size":  func(c *engine.Config, v float64) { c.Particle.Size = v },
	"well_strength":  func(c *engine.Config, v float64) { c.GravityWell.Strength = v },
	"well_range":     func(c *engine.Config, v float64) { c.GravityWell.MaxRange = v },
	"well_life":      func(c *engine.Config, v float64) { c.GravityWell.MaxLife = int(v) },
}

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis reads "name=v1,v2,...".
func ParseAxis(spec string) (Axis, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || list == "" {
		return Axis{}, fmt.Errorf("sweep axis %q: want name=v1,v2", spec)
	}
	if _, known := Params[name]; !known {
		return Axis{}, fmt.Errorf("sweep axis %q: unknown parameter (available: %v)", spec, slices.Sorted(maps.Keys(Params)))
	}
	ax := Axis{Name: name}
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("sweep axis %q: %w", spec, err)
		}
		ax.Values = append(ax.Values, v)
	}
	return ax, nil
}

// ConfigFactory builds an engine and its metrics for one swept config.
type ConfigFactory func(cfg engine.Config) (*engine.Engine, []engine.Metric, error)

// SweepPoint is one grid cell and the metrics its run produced.
type SweepPoint struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

// Sweep runs s once for every combination of axis values applied over
// base. A point whose config is out of range, or cannot be built or run,
// carries its error and the sweep continues.
func Sweep(ctx context.Context, s *Scenario, base engine.Config, axes []Axis, build ConfigFactory) ([]SweepPoint, error) {
	for _, ax := range axes {
		if _, ok := Params[ax.Name]; !ok {
			return nil, fmt.Errorf("sweep: unknown parameter %q", ax.Name)
		}
	}
	var points []SweepPoint
	err := sweep(ctx, s, base, axes, 0, map[string]float64{}, build, &points)
	return points, err
}

func sweep(ctx context.Context, s *Scenario, cfg engine.Config, axes []Axis, depth int, current map[string]float64, build ConfigFactory, out *[]SweepPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(axes) {
		*out = append(*out, runPoint(ctx, s, cfg, maps.Clone(current), build))
		return nil
	}

	ax := axes[depth]
	for _, v := range ax.Values {
		next := cfg
		Params[ax.Name](&next, v)
		current[ax.Name] = v
		if err := sweep(ctx, s, next, axes, depth+1, current, build, out); err != nil {
			return err
		}
	}
	delete(current, ax.Name)
	return nil
}

func runPoint(ctx context.Context, s *Scenario, cfg engine.Config, params map[string]float64, build ConfigFactory) SweepPoint {
	pt := SweepPoint{Params: params}
	if err := config.ValidateSimulation(cfg); err != nil {
		pt.Err = err
		return pt
	}
	e, ms, err := build(cfg)
	if err != nil {
		pt.Err = err
		return pt
	}
	for _, m := range ms {
		e.AddMetric(m)
	}
	if err := Run(ctx, e, s, nil, nil); err != nil {
		pt.Err = err
		return pt
	}
	pt.Metrics = make(map[string]float64, len(ms))
	for _, m := range ms {
		pt.Metrics[m.Name()] = m.Value()
	}
	return pt
}

// Best returns the successful point with the lowest metric value, or the
// highest when maximize is set.
func Best(points []SweepPoint, metric string, maximize bool) (SweepPoint, bool) {
	var best SweepPoint
	bestVal := math.Inf(1)
	if maximize {
		bestVal = math.Inf(-1)
	}
	found := false
	for _, pt := range points {
		v, ok := pt.Metrics[metric]
		if pt.Err != nil || !ok {
			continue
		}
		if (maximize && v > bestVal) || (!maximize && v < bestVal) {
			best, bestVal, found = pt, v, true
		}
	}
	return best, found
}
