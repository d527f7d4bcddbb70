package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/phasekit/internal/dynamo"
)

func TestAnalytic_InitialCondition(t *testing.T) {
	for _, k := range []float64{0, 0.25, 1, 9} {
		for _, q0 := range []float64{-3, 0, 2} {
			osc := NewOscillator(k)
			x := osc.Analytic(q0, 0)
			if x.Q != q0 {
				t.Errorf("k=%g q0=%g: q(0) = %f, want %f", k, q0, x.Q, q0)
			}
			if x.V != 0 {
				t.Errorf("k=%g q0=%g: v(0) = %f, want 0", k, q0, x.V)
			}
		}
	}
}

func TestAnalytic_QuarterPeriod(t *testing.T) {
	osc := NewOscillator(4.0)
	quarter := math.Pi / 2 / osc.Omega()

	x := osc.Analytic(2.0, quarter)
	if math.Abs(x.Q) > 1e-12 {
		t.Errorf("expected q=0 at quarter period, got %f", x.Q)
	}
	if math.Abs(x.V-(-4.0)) > 1e-12 {
		t.Errorf("expected v=-4 at quarter period, got %f", x.V)
	}
}

func TestAnalytic_InvariantConserved(t *testing.T) {
	osc := NewOscillator(2.5)
	x0 := osc.Analytic(1.5, 0)
	want := osc.Invariant(x0)

	for i := 0; i < 200; i++ {
		x := osc.Analytic(1.5, float64(i)*0.037)
		if got := osc.Invariant(x); math.Abs(got-want) > 1e-9 {
			t.Fatalf("invariant drifted at sample %d: %f vs %f", i, got, want)
		}
	}
}

func TestAnalyticFrom_MatchesAnalyticAtRest(t *testing.T) {
	osc := NewOscillator(1.0)
	for _, tm := range []float64{0, 0.3, 1.7, 5.0} {
		a := osc.Analytic(2.0, tm)
		b := osc.AnalyticFrom(dynamo.State{Q: 2.0}, tm)
		if math.Abs(a.Q-b.Q) > 1e-12 || math.Abs(a.V-b.V) > 1e-12 {
			t.Errorf("t=%f: %+v != %+v", tm, a, b)
		}
	}
}

func TestAnalyticFrom_FreeParticle(t *testing.T) {
	osc := NewOscillator(0)
	x := osc.AnalyticFrom(dynamo.State{Q: 1, V: 2}, 3)
	if x.Q != 7 || x.V != 2 {
		t.Errorf("expected uniform motion (7, 2), got %+v", x)
	}
}

func TestDerive(t *testing.T) {
	osc := NewOscillator(3.0)
	dx := osc.Derive(dynamo.State{Q: 2, V: -1})
	if dx.Q != -1 || dx.V != -6 {
		t.Errorf("expected (-1, -6), got %+v", dx)
	}
}

func TestEnergy(t *testing.T) {
	osc := NewOscillator(1.0)

	pe := osc.Energy(dynamo.State{Q: 1})
	ke := osc.Energy(dynamo.State{V: 1})
	if pe != 0.5 || ke != 0.5 {
		t.Errorf("expected PE=KE=0.5, got PE=%f KE=%f", pe, ke)
	}
}

func TestSetParam(t *testing.T) {
	osc := NewOscillator(1.0)
	if err := osc.SetParam("k_over_m", 4); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if osc.Omega() != 2 {
		t.Errorf("expected omega 2, got %f", osc.Omega())
	}
	if err := osc.SetParam("k_over_m", -1); !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if err := osc.SetParam("mass", 1); !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for unknown param, got %v", err)
	}
}
