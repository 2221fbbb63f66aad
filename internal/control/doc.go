// Package control keeps a measured quantity near a setpoint.
//
//   - [PID]: Proportional-Integral-Derivative controller
//   - [Governor]: trades particle count for frame rate
//
// # Usage
//
//	g := control.NewGovernor(60, 50, 2000)
//	if next, ok := g.Observe(dt, perf.FPS, cfg.ParticleCount); ok {
//	    e.UpdateConfig(engine.Patch{ParticleCount: &next})
//	}
package control
