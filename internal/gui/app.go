package gui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravwell/internal/control"
	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/vecmath"
	"github.com/san-kum/gravwell/internal/viz"
)

const (
	countStep    = 50
	minCount     = 10
	maxAutoCount = 5000
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

// Options configures the window. Zero values fall back to defaults.
type Options struct {
	Title     string
	FPS       int32
	Theme     string
	Logger    *slog.Logger
	// AutoCount lets a governor trade particles for frame rate.
	AutoCount bool
}

// App hosts an engine in a native window. The engine's bounds follow the
// window size, so simulation units are pixels.
type App struct {
	eng     *engine.Engine
	surface *Surface
	font    rl.Font
	log     *slog.Logger
	gov     *control.Governor

	text    rl.Color
	muted   rl.Color
	accent  rl.Color
	warning rl.Color

	showHelp bool
	quit     bool
}

// Run opens a window sized to the engine's bounds and blocks until it is
// closed.
func Run(e *engine.Engine, opts Options) error {
	if opts.Title == "" {
		opts.Title = "gravwell"
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	b := e.Bounds()
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(b.Width), int32(b.Height), opts.Title)
	defer rl.CloseWindow()
	if !rl.IsWindowReady() {
		return fmt.Errorf("gui: window did not open")
	}
	rl.SetTargetFPS(opts.FPS)
	rl.SetExitKey(0)

	app := newApp(e, opts)
	defer app.close()
	app.loop()
	return nil
}

func newApp(e *engine.Engine, opts Options) *App {
	t := viz.GetTheme(opts.Theme)
	a := &App{
		eng:     e,
		surface: NewSurface(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())),
		font:    loadFont(),
		log:     opts.Logger,
		text:    themeColor(string(t.Text)),
		muted:   themeColor(string(t.Muted)),
		accent:  themeColor(string(t.Primary)),
		warning: themeColor(string(t.Warning)),
	}
	if opts.AutoCount {
		a.gov = control.NewGovernor(float64(opts.FPS), minCount, maxAutoCount)
	}
	a.syncBounds()
	return a
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func themeColor(hex string) rl.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return rl.White
	}
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255)
}

func (a *App) close() {
	a.surface.Unload()
}

func (a *App) loop() {
	for !rl.WindowShouldClose() && !a.quit {
		if rl.IsWindowResized() {
			a.syncBounds()
		}
		a.handleKeys()
		a.handleMouse()

		dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		a.eng.Update(dt)
		a.govern(dt)

		a.surface.BeginFrame()
		if err := a.eng.Render(a.surface); err != nil {
			a.log.Debug("render skipped", "error", err)
		}
		a.surface.EndFrame()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		a.surface.Blit()
		a.drawHUD()
		rl.EndDrawing()
	}
}

func (a *App) govern(dt time.Duration) {
	if a.gov == nil || a.eng.IsPaused() {
		return
	}
	if next, ok := a.gov.Observe(dt, a.eng.PerformanceMetrics().FPS, a.eng.Config().ParticleCount); ok {
		a.eng.UpdateConfig(engine.Patch{ParticleCount: &next})
		a.log.Debug("particle count adjusted", "count", next)
	}
}

// syncBounds matches the render texture and engine bounds to the window.
func (a *App) syncBounds() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w <= 0 || h <= 0 {
		return
	}
	a.surface.Resize(w, h)
	if err := a.eng.UpdateCanvasBounds(vecmath.Bounds{Width: float64(w), Height: float64(h)}); err != nil {
		a.log.Warn("resize rejected", "width", w, "height", h, "error", err)
	}
}

func (a *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.eng.TogglePause()
	case rl.IsKeyPressed(rl.KeyT):
		a.eng.ToggleTrails()
	case rl.IsKeyPressed(rl.KeyC):
		a.eng.ClearGravityWells()
	case rl.IsKeyPressed(rl.KeyR):
		a.eng.Reset()
		if a.gov != nil {
			a.gov.Reset()
		}
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		n := a.eng.Config().ParticleCount + countStep
		a.eng.UpdateConfig(engine.Patch{ParticleCount: &n})
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		n := max(a.eng.Config().ParticleCount-countStep, minCount)
		a.eng.UpdateConfig(engine.Patch{ParticleCount: &n})
	case rl.IsKeyPressed(rl.KeySlash), rl.IsKeyPressed(rl.KeyH):
		a.showHelp = !a.showHelp
	}
}

func (a *App) handleMouse() {
	var button engine.Button
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		button = engine.ButtonLeft
	case rl.IsMouseButtonPressed(rl.MouseRightButton):
		button = engine.ButtonRight
	default:
		return
	}
	p := rl.GetMousePosition()
	a.eng.HandleMouseInteraction(engine.Interaction{
		Position: vecmath.Vec2{X: float64(p.X), Y: float64(p.Y)},
		Button:   button,
	})
}

func (a *App) drawHUD() {
	perf := a.eng.PerformanceMetrics()
	cfg := a.eng.Config()

	a.drawText("GRAVWELL", 20, 16, 24, a.accent)
	status, statusColor := "RUNNING", a.text
	if cfg.IsPaused {
		status, statusColor = "PAUSED", a.warning
	}
	a.drawText(status, 20, 46, 16, statusColor)
	a.drawText(fmt.Sprintf("%5.1f FPS", perf.FPS), 20, 68, 14, a.muted)
	a.drawText(fmt.Sprintf("particles %d  wells %d/%d", perf.ParticleCount, perf.WellCount, engine.MaxWells), 20, 86, 14, a.muted)
	if cfg.ShowTrails {
		a.drawText("trails on", 20, 104, 14, a.muted)
	}

	if !a.showHelp {
		a.drawText("H: HELP", 20, int32(rl.GetScreenHeight())-28, 14, a.muted)
		return
	}
	lines := []string{
		"LMB  attract well",
		"RMB  repel well",
		"SPACE pause   T trails",
		"C clear wells   R reset",
		"+/- particles   Q quit",
	}
	y := int32(rl.GetScreenHeight()) - int32(len(lines))*18 - 16
	for _, l := range lines {
		a.drawText(l, 20, y, 14, a.text)
		y += 18
	}
}

func (a *App) drawText(text string, x, y int32, size float32, c rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), size, 1, c)
}
