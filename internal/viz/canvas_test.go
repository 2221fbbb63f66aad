package viz

import (
	"image/color"
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != 0x2800|0x1|0x80 {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	if !c.Lit(1, 3) || c.Lit(1, 2) {
		t.Error("Lit disagrees with Set")
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800|0x80 {
		t.Errorf("unset left %U", c.Grid[0][0])
	}
	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800|0x80 {
		t.Error("double unset changed cell")
	}
}

func TestCanvasOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 8}} {
		c.Set(p[0], p[1])
	}
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r > 0x2800 }) {
		t.Error("out-of-range set lit a dot")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 3)
	for _, p := range [][2]int{{0, 0}, {7, 3}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("endpoint %v not lit", p)
		}
	}
	lit := 0
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			if c.Lit(x, y) {
				lit++
			}
		}
	}
	if lit != 8 {
		t.Errorf("expected 8 dots on a shallow line, got %d", lit)
	}
}

func TestCanvasStyled(t *testing.T) {
	c := NewCanvas(3, 1)
	c.SetColored(0, 0, color.NRGBA{255, 0, 0, 255})
	out := c.Styled()
	if !strings.Contains(out, "⠁") || !strings.HasSuffix(out, "\n") {
		t.Errorf("unexpected styled output %q", out)
	}
	if strings.Count(c.String(), "\n") != 1 {
		t.Error("expected one row")
	}
}

func TestCanvasImage(t *testing.T) {
	c := NewCanvas(2, 1)
	red := color.NRGBA{255, 0, 0, 255}
	c.SetColored(0, 0, red)

	img := c.Image(8, 16)
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("unexpected size %v", b)
	}
	r, g, _, _ := img.At(1, 1).RGBA()
	if r>>8 < 200 || g>>8 > 50 {
		t.Errorf("dot pixel not red: %v", img.At(1, 1))
	}
	r, _, _, _ = img.At(12, 12).RGBA()
	if r != 0 {
		t.Errorf("background not black: %v", img.At(12, 12))
	}
}
