package integrators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/phasekit/internal/dynamo"
)

var ErrUnknownMethod = errors.New("integrators: unknown method")

// Method selects one of the fixed-step Euler variants.
type Method int

const (
	ForwardEuler Method = iota + 1
	BackwardEuler
	SymplecticEuler
)

// Stepper advances a state by one fixed step. Implementations are pure.
type Stepper func(x dynamo.State, p dynamo.Params) dynamo.State

var names = map[Method]string{
	ForwardEuler:    "forward_euler",
	BackwardEuler:   "backward_euler",
	SymplecticEuler: "symplectic_euler",
}

var aliases = map[string]Method{
	"forward_euler":    ForwardEuler,
	"forward":          ForwardEuler,
	"euler":            ForwardEuler,
	"explicit":         ForwardEuler,
	"backward_euler":   BackwardEuler,
	"backward":         BackwardEuler,
	"implicit":         BackwardEuler,
	"symplectic_euler": SymplecticEuler,
	"symplectic":       SymplecticEuler,
	"semi_implicit":    SymplecticEuler,
}

func (m Method) String() string {
	if name, ok := names[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

func (m Method) Valid() bool {
	_, ok := names[m]
	return ok
}

// Stepper returns the update rule for m, or nil for an invalid method.
func (m Method) Stepper() Stepper {
	switch m {
	case ForwardEuler:
		return StepForwardEuler
	case BackwardEuler:
		return StepBackwardEuler
	case SymplecticEuler:
		return StepSymplecticEuler
	default:
		return nil
	}
}

// ParseMethod resolves a canonical name or alias; case and dashes are ignored.
func ParseMethod(name string) (Method, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	m, ok := aliases[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m, nil
}

// Methods lists every method in a fixed order.
func Methods() []Method {
	return []Method{ForwardEuler, BackwardEuler, SymplecticEuler}
}

// StepForwardEuler updates position with the old velocity. Energy grows by
// a factor (1 + dt^2 k/m) every step.
func StepForwardEuler(x dynamo.State, p dynamo.Params) dynamo.State {
	return dynamo.State{
		Q: x.Q + p.Dt*x.V,
		V: x.V - p.Dt*p.KOverM*x.Q,
	}
}

// StepBackwardEuler solves the implicit pair
//
//	v' = v - dt k q'
//	q' = q + dt v'
//
// in closed form. Energy shrinks by (1 + dt^2 k/m) every step.
func StepBackwardEuler(x dynamo.State, p dynamo.Params) dynamo.State {
	v := (x.V - p.Dt*p.KOverM*x.Q) / (1 + p.Dt*p.Dt*p.KOverM)
	return dynamo.State{
		Q: x.Q + p.Dt*v,
		V: v,
	}
}

// StepSymplecticEuler updates position with the new velocity.
func StepSymplecticEuler(x dynamo.State, p dynamo.Params) dynamo.State {
	v := x.V - p.Dt*p.KOverM*x.Q
	return dynamo.State{
		Q: x.Q + p.Dt*v,
		V: v,
	}
}
