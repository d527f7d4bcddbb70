package dynamo

import "math"

// State is a point in the (q, v) phase plane.
type State struct {
	Q float64 `json:"q"`
	V float64 `json:"v"`
}

func (s State) IsValid() bool {
	return isFinite(s.Q) && isFinite(s.V)
}

// Radius2 returns q^2 + v^2.
func (s State) Radius2() float64 {
	return s.Q*s.Q + s.V*s.V
}

func (s State) Norm() float64 {
	return math.Hypot(s.Q, s.V)
}

func (s State) Sub(other State) State {
	return State{Q: s.Q - other.Q, V: s.V - other.V}
}

// Point is a generic 2-D plotting coordinate.
type Point struct {
	X, Y float64
}

func (s State) Point() Point {
	return Point{X: s.Q, Y: s.V}
}

// Params are fixed for the whole run.
type Params struct {
	KOverM float64 `json:"k_over_m" yaml:"k_over_m"`
	Dt     float64 `json:"dt" yaml:"dt"`
}

// Validate rejects non-positive or non-finite timesteps and negative or
// non-finite stiffness ratios.
func (p Params) Validate() error {
	if !isFinite(p.Dt) || p.Dt <= 0 {
		return &ParameterError{Name: "dt", Value: p.Dt, Reason: "must be positive and finite"}
	}
	if !isFinite(p.KOverM) || p.KOverM < 0 {
		return &ParameterError{Name: "k_over_m", Value: p.KOverM, Reason: "must be non-negative and finite"}
	}
	return nil
}

// ValidateSteps rejects negative step counts.
func ValidateSteps(steps int) error {
	if steps < 0 {
		return &ParameterError{Name: "steps", Value: float64(steps), Reason: "must be non-negative"}
	}
	return nil
}

// ValidateInitial rejects non-finite initial states.
func ValidateInitial(x0 State) error {
	if !isFinite(x0.Q) {
		return &ParameterError{Name: "q0", Value: x0.Q, Reason: "must be finite"}
	}
	if !isFinite(x0.V) {
		return &ParameterError{Name: "v0", Value: x0.V, Reason: "must be finite"}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Trajectory is an ordered sequence of states indexed by step number.
// It is read-only once constructed.
type Trajectory struct {
	method string
	params Params
	states []State
}

// NewTrajectory takes ownership of states; callers must not modify the
// slice afterwards.
func NewTrajectory(method string, p Params, states []State) *Trajectory {
	return &Trajectory{method: method, params: p, states: states}
}

func (t *Trajectory) Method() string { return t.method }
func (t *Trajectory) Params() Params { return t.params }
func (t *Trajectory) Len() int       { return len(t.states) }

// Steps is the number of integration steps, one less than Len.
func (t *Trajectory) Steps() int {
	if len(t.states) == 0 {
		return 0
	}
	return len(t.states) - 1
}

func (t *Trajectory) At(i int) State { return t.states[i] }

func (t *Trajectory) First() State { return t.states[0] }

func (t *Trajectory) Last() State { return t.states[len(t.states)-1] }

// States returns a copy of the underlying sequence.
func (t *Trajectory) States() []State {
	out := make([]State, len(t.states))
	copy(out, t.states)
	return out
}

// Times returns step*dt for every state.
func (t *Trajectory) Times() []float64 {
	times := make([]float64, len(t.states))
	for i := range times {
		times[i] = float64(i) * t.params.Dt
	}
	return times
}

func (t *Trajectory) Positions() []float64 {
	out := make([]float64, len(t.states))
	for i, s := range t.states {
		out[i] = s.Q
	}
	return out
}

func (t *Trajectory) Velocities() []float64 {
	out := make([]float64, len(t.states))
	for i, s := range t.states {
		out[i] = s.V
	}
	return out
}

func (t *Trajectory) Points() []Point {
	out := make([]Point, len(t.states))
	for i, s := range t.states {
		out[i] = s.Point()
	}
	return out
}

// Metric accumulates a scalar over every state a run produces.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Observer is notified of every state a run produces, the initial one included.
type Observer interface {
	OnStep(step int, x State, t float64)
}

type Result struct {
	Trajectory  *Trajectory
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}
