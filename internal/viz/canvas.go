package viz

import (
	"image"
	"image/color"
	"image/color/palette"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells, each with one foreground color.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.NRGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.NRGBA, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.NRGBA, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set lights the dot at (x, y) in sub-pixel coordinates. Out of range
// dots are ignored.
func (c *Canvas) Set(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// SetColored lights the dot and sets its cell color.
func (c *Canvas) SetColored(x, y int, clr color.NRGBA) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][col] = clr
}

func (c *Canvas) Unset(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) cell(x, y int) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return col, row, true
}

func (c *Canvas) Clear() {
	white := color.NRGBA{255, 255, 255, 255}
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Colors[i][j] = white
		}
	}
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	col, row, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	bresenham(x0, y0, x1, y1, c.Set)
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Styled renders the canvas with per-cell foreground colors. Runs of cells
// sharing a color share one style.
func (c *Canvas) Styled() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if blankRun(row[start:j]) {
				b.WriteString(run)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(hexOf(c.Colors[i][start])).Render(run))
			}
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func blankRun(rs []rune) bool {
	for _, r := range rs {
		if r != brailleBase {
			return false
		}
	}
	return true
}

func hexOf(c color.NRGBA) lipgloss.Color {
	cf, _ := colorful.MakeColor(color.NRGBA{c.R, c.G, c.B, 255})
	return lipgloss.Color(cf.Hex())
}

// Image rasterises the canvas, drawing each dot as a charW/2 x charH/4
// block in its cell color.
func (c *Canvas) Image(charW, charH int) *image.Paletted {
	imgW, imgH := c.Width*charW, c.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.Plan9)
	black := uint8(img.Palette.Index(color.Black))
	for i := range img.Pix {
		img.Pix[i] = black
	}

	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - brailleBase)
			if pattern == 0 {
				continue
			}
			idx := uint8(img.Palette.Index(c.Colors[row][col]))
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	return img
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
