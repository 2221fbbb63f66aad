package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the FFT of data
// after removing its mean. Bin k corresponds to k cycles over the series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod finds the strongest non-constant frequency in data sampled
// every dt seconds and returns its period in seconds. A flat series has no
// period and returns zeros.
func DominantPeriod(data []float64, dt float64) (period, power float64) {
	ps := PowerSpectrum(data)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > power {
			best, power = k, ps[k]
		}
	}
	if best == 0 || power < 1e-9 {
		return 0, 0
	}
	return float64(len(data)) * dt / float64(best), power
}
