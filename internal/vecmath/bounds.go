package vecmath

import "fmt"

// Depth limits of the simulation volume on the z axis.
const (
	MinDepth = -100.0
	MaxDepth = 100.0
)

// Bounds is the drawable area, in the same unit as particle positions.
type Bounds struct {
	Width, Height float64
}

// Validate rejects non-finite or non-positive extents.
func (b Bounds) Validate() error {
	if !IsFinite(b.Width) || !IsFinite(b.Height) {
		return fmt.Errorf("bounds %gx%g: %w", b.Width, b.Height, ErrNonFinite)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("bounds %gx%g must be positive", b.Width, b.Height)
	}
	return nil
}

func (b Bounds) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

func (b Bounds) Center() Vec2 { return Vec2{b.Width / 2, b.Height / 2} }
