package export

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/san-kum/phasekit/internal/analysis"
	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
	"github.com/san-kum/phasekit/internal/physics"
	"github.com/san-kum/phasekit/internal/sim"
)

func compareSeries(t *testing.T) []Series {
	t.Helper()
	series := make([]Series, 0, 3)
	for _, m := range integrators.Methods() {
		traj, err := sim.GenerateTrajectory(m, 2, 0, 0.2, 1, 60)
		if err != nil {
			t.Fatal(err)
		}
		series = append(series, FromTrajectory(traj))
	}
	return series
}

func TestPhaseSVG(t *testing.T) {
	series := compareSeries(t)
	arrows := analysis.VectorField(physics.NewOscillator(1), analysis.DefaultGrid())

	svg := PhaseSVG(series, arrows, 400, 400)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("output is not an svg document")
	}
	if n := strings.Count(svg, "<path "); n != 3 {
		t.Errorf("expected 3 paths, got %d", n)
	}
	if n := strings.Count(svg, "<line "); n != len(arrows) {
		t.Errorf("expected %d arrows, got %d", len(arrows), n)
	}
	for _, s := range series {
		if !strings.Contains(svg, ">"+s.Name+"<") {
			t.Errorf("missing legend entry %s", s.Name)
		}
	}
}

func TestPhaseSVG_Empty(t *testing.T) {
	if PhaseSVG(nil, nil, 100, 100) != "" {
		t.Error("expected empty output without series")
	}
	bad := []Series{{Name: "nan", Points: []dynamo.Point{{X: math.NaN(), Y: 0}}}}
	if PhaseSVG(bad, nil, 100, 100) != "" {
		t.Error("expected empty output without finite points")
	}
}

func TestPhasePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := PhasePNG(&buf, "comparison", compareSeries(t), nil, 4*vg.Inch, 4*vg.Inch); err != nil {
		t.Fatalf("png export failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a png")
	}

	if err := PhasePNG(&buf, "empty", nil, nil, vg.Inch, vg.Inch); !errors.Is(err, dynamo.ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestHexColor(t *testing.T) {
	c := hexColor("#5fafff")
	if c.R != 0x5f || c.G != 0xaf || c.B != 0xff || c.A != 255 {
		t.Errorf("unexpected colour %+v", c)
	}
}
