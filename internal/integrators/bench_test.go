package integrators

import (
	"testing"

	"github.com/san-kum/phasekit/internal/dynamo"
)

var benchParams = dynamo.Params{KOverM: 1, Dt: 0.01}

func benchmarkStepper(b *testing.B, step Stepper) {
	x := dynamo.State{Q: 1.0, V: 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = step(x, benchParams)
	}
	_ = x
}

func BenchmarkForwardEuler(b *testing.B) {
	benchmarkStepper(b, StepForwardEuler)
}

func BenchmarkBackwardEuler(b *testing.B) {
	benchmarkStepper(b, StepBackwardEuler)
}

func BenchmarkSymplecticEuler(b *testing.B) {
	benchmarkStepper(b, StepSymplecticEuler)
}

func BenchmarkMethodDispatch(b *testing.B) {
	methods := Methods()
	x := dynamo.State{Q: 1.0, V: 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = methods[i%len(methods)].Stepper()(x, benchParams)
	}
	_ = x
}
