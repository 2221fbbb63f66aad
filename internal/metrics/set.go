package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravwell/internal/engine"
)

var constructors = map[string]func() engine.Metric{
	"kinetic_energy": func() engine.Metric { return NewKineticEnergy() },
	"energy_drift":   func() engine.Metric { return NewEnergyDrift() },
	"stability":      func() engine.Metric { return NewStability() },
	"mean_speed":     func() engine.Metric { return NewMeanSpeed() },
	"peak_speed":     func() engine.Metric { return NewPeakSpeed() },
	"well_activity":  func() engine.Metric { return NewWellActivity() },
}

// Names lists every known metric, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the named metrics. An empty list selects all of them.
func New(names ...string) ([]engine.Metric, error) {
	if len(names) == 0 {
		names = Names()
	}
	out := make([]engine.Metric, 0, len(names))
	for _, n := range names {
		ctor, ok := constructors[n]
		if !ok {
			return nil, fmt.Errorf("metrics: unknown metric %q", n)
		}
		out = append(out, ctor())
	}
	return out, nil
}

// Values collects the current value of each metric by name.
func Values(ms []engine.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
