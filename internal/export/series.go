package export

import (
	"math"

	"github.com/san-kum/phasekit/internal/dynamo"
)

// Series is one named curve in phase space.
type Series struct {
	Name   string
	Points []dynamo.Point
}

func FromTrajectory(traj *dynamo.Trajectory) Series {
	return Series{Name: traj.Method(), Points: traj.Points()}
}

var palette = []string{"#ff5f5f", "#5fafff", "#5fff87", "#ffd75f", "#d787ff"}

func colorFor(i int) string {
	return palette[i%len(palette)]
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

// boundsOf spans every finite point, padded by 10% on each side.
func boundsOf(series []Series) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	found := false
	for _, s := range series {
		for _, p := range s.Points {
			if !finite(p) {
				continue
			}
			found = true
			b.minX = math.Min(b.minX, p.X)
			b.maxX = math.Max(b.maxX, p.X)
			b.minY = math.Min(b.minY, p.Y)
			b.maxY = math.Max(b.maxY, p.Y)
		}
	}
	if !found {
		return b, false
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b, true
}

func finite(p dynamo.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
