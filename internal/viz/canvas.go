package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/phasekit/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	mask := ^rune(pixelMap[subY][subX])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

const blank = rune(0x2800)

// Viewport maps a phase-space rectangle onto the sub-pixels of a canvas.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
}

// FitViewport returns a square viewport around the origin that contains
// every finite point, with 10% margin.
func FitViewport(points ...[]dynamo.Point) Viewport {
	r := 0.0
	for _, pts := range points {
		for _, p := range pts {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				continue
			}
			r = math.Max(r, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	if r == 0 {
		r = 1
	}
	r *= 1.1
	return Viewport{MinX: -r, MaxX: r, MinY: -r, MaxY: r}
}

// Project returns sub-pixel coordinates on c; ok is false off-screen.
func (v Viewport) Project(c *Canvas, p dynamo.Point) (x, y int, ok bool) {
	fx := (p.X - v.MinX) / (v.MaxX - v.MinX)
	fy := (v.MaxY - p.Y) / (v.MaxY - v.MinY)
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 || math.IsNaN(fx) || math.IsNaN(fy) {
		return 0, 0, false
	}
	return int(fx * float64(c.Width*2-1)), int(fy * float64(c.Height*4-1)), true
}

// Polyline connects consecutive visible points.
func (c *Canvas) Polyline(v Viewport, pts []dynamo.Point) {
	px, py, prev := 0, 0, false
	for _, p := range pts {
		x, y, ok := v.Project(c, p)
		if !ok {
			prev = false
			continue
		}
		if prev {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, prev = x, y, true
	}
}

// Compose overlays same-sized canvases cell by cell. Dots are merged and
// the cell takes the style of the last layer that touches it.
func Compose(layers []*Canvas, styles []lipgloss.Style) string {
	if len(layers) == 0 {
		return ""
	}
	w, h := layers[0].Width, layers[0].Height

	var b strings.Builder
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			cell, owner := blank, -1
			for i, l := range layers {
				if r := l.Grid[row][col]; r != blank {
					cell |= r
					owner = i
				}
			}
			if owner < 0 || owner >= len(styles) {
				b.WriteRune(cell)
				continue
			}
			b.WriteString(styles[owner].Render(string(cell)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}
