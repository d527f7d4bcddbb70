package export

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/phasekit/internal/analysis"
	"github.com/san-kum/phasekit/internal/dynamo"
)

// PhasePNG renders the series and arrows as a PNG of the given size.
func PhasePNG(w io.Writer, title string, series []Series, arrows []analysis.Arrow, width, height vg.Length) error {
	if _, ok := boundsOf(series); !ok {
		return fmt.Errorf("%w: no finite points to plot", dynamo.ErrDegenerate)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "q"
	p.Y.Label.Text = "v"
	p.Add(plotter.NewGrid())

	arrowColor := color.RGBA{R: 160, G: 160, B: 160, A: 255}
	for _, a := range arrows {
		l, err := plotter.NewLine(plotter.XYs{{X: a.From.X, Y: a.From.Y}, {X: a.To.X, Y: a.To.Y}})
		if err != nil {
			return err
		}
		l.Color = arrowColor
		p.Add(l)
	}

	for i, s := range series {
		xys := make(plotter.XYs, 0, len(s.Points))
		for _, pt := range s.Points {
			if finite(pt) {
				xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
			}
		}
		if len(xys) == 0 {
			continue
		}

		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		l.Color = hexColor(colorFor(i))
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}

	c := vgimg.New(width, height)
	p.Draw(draw.New(c))
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

func hexColor(s string) color.RGBA {
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
