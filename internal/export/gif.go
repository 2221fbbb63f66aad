package export

import (
	"errors"
	"image"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/gravwell/internal/viz"
)

// Cell size in pixels when rasterising a Braille canvas.
const (
	CellWidth  = 8
	CellHeight = 16
)

var ErrNoFrames = errors.New("export: no frames captured")

// GIFRecorder collects canvas frames into an animated GIF.
type GIFRecorder struct {
	Path     string
	Delay    int
	MaxFrame int

	frames []*image.Paletted
}

// NewGIFRecorder records to path at delay hundredths of a second per
// frame. maxFrames <= 0 means unbounded.
func NewGIFRecorder(path string, delay, maxFrames int) *GIFRecorder {
	return &GIFRecorder{Path: path, Delay: delay, MaxFrame: maxFrames}
}

// Capture appends a frame. Beyond MaxFrame the oldest frame is dropped.
func (g *GIFRecorder) Capture(c *viz.Canvas) {
	g.frames = append(g.frames, c.Image(CellWidth, CellHeight))
	if g.MaxFrame > 0 && len(g.frames) > g.MaxFrame {
		g.frames = g.frames[1:]
	}
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

// Encode writes the animation and keeps the captured frames.
func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, g.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the animation to Path and clears the frames.
func (g *GIFRecorder) Save() (string, error) {
	f, err := os.Create(g.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := g.Encode(f); err != nil {
		return "", err
	}
	g.frames = nil
	return g.Path, nil
}
