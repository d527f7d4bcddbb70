package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/physics"
)

// Grid describes a square sampling lattice over phase space.
type Grid struct {
	Min, Max  float64
	Step      float64
	MinRadius float64 // points closer to the origin are skipped
	Scale     float64 // arrow length
}

func DefaultGrid() Grid {
	return Grid{Min: -2.5, Max: 2.5, Step: 0.4, MinRadius: 0.3, Scale: 0.15}
}

// Arrow is one sample of the flow: From plus a fixed-length step along it.
type Arrow struct {
	From, To dynamo.Point
}

// Len is the number of lattice coordinates per axis.
func (g Grid) Len() int {
	if g.Step <= 0 || g.Max < g.Min {
		return 0
	}
	return int(math.Floor((g.Max-g.Min)/g.Step+1e-9)) + 1
}

// VectorField samples the direction of the exact flow on g.
func VectorField(osc *physics.Oscillator, g Grid) []Arrow {
	n := g.Len()
	arrows := make([]Arrow, 0, n*n)

	for i := 0; i < n; i++ {
		q := g.Min + float64(i)*g.Step
		for j := 0; j < n; j++ {
			v := g.Min + float64(j)*g.Step
			x := dynamo.State{Q: q, V: v}
			if x.Norm() < g.MinRadius {
				continue
			}

			d := osc.Derive(x)
			norm := d.Norm()
			if norm == 0 {
				continue
			}
			arrows = append(arrows, Arrow{
				From: x.Point(),
				To:   dynamo.Point{X: q + d.Q/norm*g.Scale, Y: v + d.V/norm*g.Scale},
			})
		}
	}

	return arrows
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(points []dynamo.Point, width, height int) string {
	points = finitePoints(points)
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := range canvas {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func finitePoints(points []dynamo.Point) []dynamo.Point {
	out := make([]dynamo.Point, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		out = append(out, p)
	}
	return out
}
