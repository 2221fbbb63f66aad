// Package analysis inspects recorded frame series.
//
// A steady swarm orbiting a well shows up as a peak in the power spectrum
// of its mean speed:
//
//	period, power := analysis.DominantPeriod(series, dt)
package analysis
