package integrators_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/integrators"
)

func iterate(step integrators.Stepper, x dynamo.State, p dynamo.Params, n int) []dynamo.State {
	out := []dynamo.State{x}
	for i := 0; i < n; i++ {
		x = step(x, p)
		out = append(out, x)
	}
	return out
}

var _ = Describe("Euler steppers", func() {
	x0 := dynamo.State{Q: 2, V: 0}

	Describe("forward Euler", func() {
		p := dynamo.Params{KOverM: 1, Dt: 0.3}

		It("uses the old velocity for the position update", func() {
			x := integrators.StepForwardEuler(dynamo.State{Q: 1, V: 1}, p)
			Expect(x.Q).To(BeNumerically("~", 1.3, 1e-12))
			Expect(x.V).To(BeNumerically("~", 0.7, 1e-12))
		})

		It("strictly increases q^2+v^2 at every step", func() {
			states := iterate(integrators.StepForwardEuler, x0, p, 40)
			for i := 1; i < len(states); i++ {
				Expect(states[i].Radius2()).To(BeNumerically(">", states[i-1].Radius2()), "step %d", i)
				Expect(states[i].Radius2() / states[i-1].Radius2()).To(BeNumerically("~", 1.09, 1e-9))
			}
		})
	})

	Describe("backward Euler", func() {
		p := dynamo.Params{KOverM: 1, Dt: 0.3}

		It("satisfies the implicit equations", func() {
			x := dynamo.State{Q: 0.7, V: -1.2}
			next := integrators.StepBackwardEuler(x, p)
			Expect(next.V).To(BeNumerically("~", x.V-p.Dt*p.KOverM*next.Q, 1e-12))
			Expect(next.Q).To(BeNumerically("~", x.Q+p.Dt*next.V, 1e-12))
		})

		It("strictly decreases q^2+v^2 at every step", func() {
			states := iterate(integrators.StepBackwardEuler, x0, p, 40)
			for i := 1; i < len(states); i++ {
				Expect(states[i].Radius2()).To(BeNumerically("<", states[i-1].Radius2()), "step %d", i)
				Expect(states[i-1].Radius2() / states[i].Radius2()).To(BeNumerically("~", 1.09, 1e-9))
			}
		})
	})

	Describe("symplectic Euler", func() {
		p := dynamo.Params{KOverM: 1, Dt: 0.2}

		It("uses the new velocity for the position update", func() {
			x := integrators.StepSymplecticEuler(dynamo.State{Q: 1, V: 1}, p)
			Expect(x.V).To(BeNumerically("~", 0.8, 1e-12))
			Expect(x.Q).To(BeNumerically("~", 1.16, 1e-12))
		})

		It("keeps q^2+v^2 in a fixed band around the initial value", func() {
			states := iterate(integrators.StepSymplecticEuler, x0, p, 60)
			r0 := x0.Radius2()
			for i, s := range states {
				Expect(math.Abs(s.Radius2()-r0) / r0).To(BeNumerically("<", 0.12), "step %d", i)
			}
		})

		It("conserves its modified invariant exactly", func() {
			states := iterate(integrators.StepSymplecticEuler, x0, p, 5000)
			want := integrators.ModifiedInvariant(x0, p)
			for _, s := range states {
				Expect(integrators.ModifiedInvariant(s, p)).To(BeNumerically("~", want, 1e-9))
			}
		})

		It("shows no secular drift over many periods", func() {
			states := iterate(integrators.StepSymplecticEuler, x0, p, 6000)
			window := 32
			early, late := 0.0, 0.0
			for i := 0; i < window; i++ {
				early = math.Max(early, states[i].Radius2())
				late = math.Max(late, states[len(states)-1-i].Radius2())
			}
			Expect(late).To(BeNumerically("~", early, 0.05))
		})
	})

	It("is deterministic", func() {
		p := dynamo.Params{KOverM: 2.5, Dt: 0.05}
		for _, m := range integrators.Methods() {
			a := iterate(m.Stepper(), x0, p, 100)
			b := iterate(m.Stepper(), x0, p, 100)
			Expect(a).To(Equal(b))
		}
	})

	It("leaves the equilibrium fixed", func() {
		p := dynamo.Params{KOverM: 3, Dt: 0.1}
		for _, m := range integrators.Methods() {
			Expect(m.Stepper()(dynamo.State{}, p)).To(Equal(dynamo.State{}))
		}
	})
})

var _ = Describe("Method", func() {
	DescribeTable("ParseMethod",
		func(name string, want integrators.Method) {
			m, err := integrators.ParseMethod(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(want))
		},
		Entry("canonical forward", "forward_euler", integrators.ForwardEuler),
		Entry("alias euler", "euler", integrators.ForwardEuler),
		Entry("dashed backward", "Backward-Euler", integrators.BackwardEuler),
		Entry("alias implicit", "implicit", integrators.BackwardEuler),
		Entry("alias symplectic", " symplectic ", integrators.SymplecticEuler),
		Entry("alias semi-implicit", "semi-implicit", integrators.SymplecticEuler),
	)

	It("rejects unknown names", func() {
		_, err := integrators.ParseMethod("rk4")
		Expect(err).To(MatchError(integrators.ErrUnknownMethod))
	})

	It("round-trips canonical names", func() {
		for _, m := range integrators.Methods() {
			parsed, err := integrators.ParseMethod(m.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(m))
			Expect(m.Valid()).To(BeTrue())
		}
	})

	It("has no stepper for invalid values", func() {
		Expect(integrators.Method(0).Valid()).To(BeFalse())
		Expect(integrators.Method(0).Stepper()).To(BeNil())
		Expect(integrators.Method(42).String()).To(Equal("method(42)"))
	})
})

var _ = Describe("AmplificationFactor", func() {
	DescribeTable("per-step growth",
		func(m integrators.Method, p dynamo.Params, want float64) {
			Expect(integrators.AmplificationFactor(m, p)).To(BeNumerically("~", want, 1e-12))
		},
		Entry("forward", integrators.ForwardEuler, dynamo.Params{KOverM: 1, Dt: 0.3}, math.Sqrt(1.09)),
		Entry("backward", integrators.BackwardEuler, dynamo.Params{KOverM: 1, Dt: 0.3}, 1/math.Sqrt(1.09)),
		Entry("symplectic stable", integrators.SymplecticEuler, dynamo.Params{KOverM: 1, Dt: 0.2}, 1.0),
		Entry("symplectic at the edge", integrators.SymplecticEuler, dynamo.Params{KOverM: 1, Dt: 2}, 1.0),
		Entry("symplectic unstable", integrators.SymplecticEuler, dynamo.Params{KOverM: 1, Dt: 2.5}, (4.25+math.Sqrt(4.25*4.25-4))/2),
		Entry("free particle", integrators.ForwardEuler, dynamo.Params{KOverM: 0, Dt: 1}, 1.0),
	)

	It("matches the measured growth of forward Euler", func() {
		p := dynamo.Params{KOverM: 4, Dt: 0.1}
		x := dynamo.State{Q: 1, V: 0.5}
		next := integrators.StepForwardEuler(x, p)
		norm := func(s dynamo.State) float64 { return math.Sqrt(s.Q*s.Q + s.V*s.V/p.KOverM) }
		Expect(norm(next) / norm(x)).To(BeNumerically("~", integrators.AmplificationFactor(integrators.ForwardEuler, p), 1e-12))
	})
})
