// Package engine runs the gravity-well particle simulation.
//
// An [Engine] owns a fixed-size particle collection and a capped,
// insertion-ordered collection of gravity wells. The host drives it once
// per animation frame:
//
//	e.Update(dt)     // age/cull wells, apply forces, integrate particles
//	e.Render(surf)   // clear or fade, draw wells, draw particles
//
// Input arrives through [Engine.HandleMouseInteraction] and the toggle
// and configuration methods.
//
// # Fault Policy
//
// The engine never stops animating. Entities that fail construction are
// omitted, particles that hit a numeric fault are respawned, and frames
// drawn to an unusable surface are skipped. Each case is logged at debug
// level and surfaced to the caller only as a returned error or a counter
// in [PerformanceMetrics].
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. The host calls Update and Render
// from a single goroutine without overlap.
package engine
