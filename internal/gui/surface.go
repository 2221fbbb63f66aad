package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gravwell/internal/render"
	"github.com/san-kum/gravwell/internal/vecmath"
)

// Surface paints into an offscreen render texture that survives between
// frames, so translucent clears leave fading trails. Draw calls are only
// valid between BeginFrame and EndFrame.
type Surface struct {
	target    rl.RenderTexture2D
	bounds    vecmath.Bounds
	smoothing bool
	loaded    bool
}

func NewSurface(width, height int32) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

// Resize reallocates the texture. Previous contents are lost.
func (s *Surface) Resize(width, height int32) {
	s.Unload()
	if width <= 0 || height <= 0 {
		return
	}
	s.target = rl.LoadRenderTexture(width, height)
	s.bounds = vecmath.Bounds{Width: float64(width), Height: float64(height)}
	s.loaded = s.target.ID != 0
	s.applyFilter()
}

func (s *Surface) Unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
	}
	s.loaded = false
}

func (s *Surface) Ready() bool          { return s.loaded && rl.IsWindowReady() }
func (s *Surface) Size() vecmath.Bounds { return s.bounds }

func (s *Surface) SetSmoothing(enabled bool) {
	if s.smoothing == enabled {
		return
	}
	s.smoothing = enabled
	s.applyFilter()
}

func (s *Surface) applyFilter() {
	if !s.loaded {
		return
	}
	filter := rl.FilterPoint
	if s.smoothing {
		filter = rl.FilterBilinear
	}
	rl.SetTextureFilter(s.target.Texture, filter)
}

func (s *Surface) BeginFrame() { rl.BeginTextureMode(s.target) }
func (s *Surface) EndFrame()   { rl.EndTextureMode() }

// Blit draws the texture to the screen at the origin. Render textures are
// stored bottom-up, hence the negative source height.
func (s *Surface) Blit() {
	if !s.loaded {
		return
	}
	w, h := float32(s.target.Texture.Width), float32(s.target.Texture.Height)
	rl.DrawTextureRec(s.target.Texture, rl.NewRectangle(0, 0, w, -h), rl.NewVector2(0, 0), rl.White)
}

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), rlColor(c))
}

func (s *Surface) FillCircle(center vecmath.Vec2, radius float64, c color.NRGBA) {
	rl.DrawCircleV(vec(center), float32(radius), rlColor(c))
}

func (s *Surface) StrokeCircle(center vecmath.Vec2, radius float64, st render.Stroke) {
	half := st.Width / 2
	inner := max(radius-half, 0)
	rl.DrawRing(vec(center), float32(inner), float32(radius+half), 0, 360, ringSegments(radius), rlColor(st.Color))
}

func (s *Surface) StrokePolyline(points []vecmath.Vec2, st render.Stroke) {
	if len(points) < 2 {
		return
	}
	c := rlColor(st.Color)
	thick := float32(st.Width)
	for i := 1; i < len(points); i++ {
		rl.DrawLineEx(vec(points[i-1]), vec(points[i]), thick, c)
	}
	if st.Join == render.JoinRound && st.Width > 1 {
		for _, p := range points[1 : len(points)-1] {
			rl.DrawCircleV(vec(p), thick/2, c)
		}
	}
	if st.Cap == render.CapRound && st.Width > 1 {
		rl.DrawCircleV(vec(points[0]), thick/2, c)
		rl.DrawCircleV(vec(points[len(points)-1]), thick/2, c)
	}
}

func rlColor(c color.NRGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func vec(p vecmath.Vec2) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func ringSegments(radius float64) int32 {
	return int32(max(16, math.Ceil(radius*math.Pi/2)))
}
