package vecmath

// FocalLength places z=0 at unit magnification.
const FocalLength = 100.0

// Project maps a point to screen space with a pinhole camera centred on
// the bounds. Callers keep z above MinDepth.
func Project(p Vec3, b Bounds) Vec2 {
	scale := FocalLength / (p.Z - MinDepth)
	c := b.Center()
	return Vec2{
		X: (p.X-c.X)*scale + c.X,
		Y: (p.Y-c.Y)*scale + c.Y,
	}
}

// DepthFactor is 0 at the far plane and 1 at the near plane.
func DepthFactor(z float64) float64 {
	return Clamp((z-MinDepth)/(MaxDepth-MinDepth), 0, 1)
}
