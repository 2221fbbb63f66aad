package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumRemovesMean(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 5
	}
	ps := PowerSpectrum(data)
	if len(ps) != 32 {
		t.Fatalf("expected 32 bins, got %d", len(ps))
	}
	for k, v := range ps {
		if v > 1e-9 {
			t.Errorf("bin %d = %v, want 0", k, v)
		}
	}
}

func TestDominantPeriod(t *testing.T) {
	const n, cycle = 200, 20
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*float64(i)/cycle)
	}

	period, power := DominantPeriod(data, 0.5)
	if math.Abs(period-cycle*0.5) > 1e-9 {
		t.Errorf("period = %v, want %v", period, cycle*0.5)
	}
	if power <= 0 {
		t.Error("expected positive power")
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	if p, _ := DominantPeriod([]float64{1, 1, 1, 1}, 1); p != 0 {
		t.Errorf("flat series period = %v", p)
	}
	if p, _ := DominantPeriod([]float64{1}, 1); p != 0 {
		t.Errorf("single sample period = %v", p)
	}
}
