package metrics

import (
	"math"

	"github.com/san-kum/gravwell/internal/engine"
)

// KineticEnergy is the mean total kinetic energy per frame, with unit
// particle mass.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f engine.FrameStats) {
	e.total += f.KineticEnergy
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative departure from the first observed
// kinetic energy. Wells pump energy in and the speed clamp bleeds it out,
// so this tracks how far a run strays from its starting temperature.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f engine.FrameStats) {
	if e.samples == 0 {
		e.initial = f.KineticEnergy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(f.KineticEnergy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
