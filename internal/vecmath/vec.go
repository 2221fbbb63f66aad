package vecmath

import (
	"errors"
	"math"
	"math/rand"
)

// ErrNonFinite is returned when a numeric input is NaN or infinite.
var ErrNonFinite = errors.New("vecmath: non-finite value")

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Length() float64      { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsFinite() bool       { return IsFinite(v.X) && IsFinite(v.Y) }

// Normalize returns the zero vector for zero-length input.
func (v Vec2) Normalize() Vec2 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec2{}
}

// Vec3 lifts v into 3D at the given depth.
func (v Vec2) Vec3(z float64) Vec3 { return Vec3{v.X, v.Y, z} }

type Vec3 struct {
	X, Y, Z float64
}

// Vec3 methods.
func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) XY() Vec2             { return Vec2{v.X, v.Y} }
func (v Vec3) IsFinite() bool       { return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Vec3) float64 { return b.Sub(a).Length() }

// Distance2 is Distance in the plane.
func Distance2(a, b Vec2) float64 { return b.Sub(a).Length() }

func IsFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp interpolates from a to b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	t = Clamp(t, 0, 1)
	return a + (b-a)*t
}

// Map remaps x from [inMin, inMax] to [outMin, outMax]. The input range
// must not be empty.
func Map(x, inMin, inMax, outMin, outMax float64) float64 {
	return outMin + (x-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Random draws uniformly from [lo, hi).
func Random(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// RandomInt draws uniformly from [lo, hi] inclusive.
func RandomInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
