package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/phasekit/internal/analysis"
)

// PhaseSVG draws each series as a polyline over an optional field of flow
// arrows. It returns "" when there is nothing finite to draw.
func PhaseSVG(series []Series, arrows []analysis.Arrow, width, height int) string {
	b, ok := boundsOf(series)
	if !ok {
		return ""
	}
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	px := func(x float64) float64 { return (x - b.minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-b.minY)/rangeY*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(arrows) > 0 {
		sb.WriteString(`<g stroke="#444444" stroke-width="1">` + "\n")
		for _, a := range arrows {
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
				px(a.From.X), py(a.From.Y), px(a.To.X), py(a.To.Y)))
		}
		sb.WriteString("</g>\n")
	}

	for i, s := range series {
		started := false
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, colorFor(i)))
		for _, p := range s.Points {
			if !finite(p) {
				continue
			}
			cmd := " L"
			if !started {
				cmd = "M"
				started = true
			}
			sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, px(p.X), py(p.Y)))
		}
		sb.WriteString(`"/>` + "\n")
		sb.WriteString(fmt.Sprintf(`<text x="10" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>`+"\n",
			20+16*i, colorFor(i), s.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
