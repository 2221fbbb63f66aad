package engine

import "errors"

var (
	// ErrInvalidBounds indicates non-finite or non-positive canvas bounds.
	ErrInvalidBounds = errors.New("engine: invalid canvas bounds")

	// ErrSurfaceUnavailable indicates Render skipped a frame because the
	// surface was nil or not ready.
	ErrSurfaceUnavailable = errors.New("engine: surface unavailable")

	// ErrRenderFault indicates the surface panicked mid-frame. The frame
	// is left partially drawn.
	ErrRenderFault = errors.New("engine: render fault")

	// ErrMetricFault indicates a metric panicked while observing a frame.
	ErrMetricFault = errors.New("engine: metric fault")
)
