package physics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/phasekit/internal/dynamo"
)

const DefaultStiffness = 1.0

// Spring joins two mesh nodes.
type Spring struct {
	A, B      int
	Stiffness float64
}

// Entry is one (row, col) cell of the global stiffness matrix.
type Entry struct {
	Row, Col int
	Value    float64
}

// Mesh is a rectangular mass-spring grid with one degree of freedom per
// node. Node (i, j) has index j*Width + i.
type Mesh struct {
	Width, Height int
	Springs       []Spring
	pinned        map[int]bool
}

// NewGridMesh connects every node to its right and lower neighbour.
// All horizontal springs come first in row-major order, then all vertical ones.
func NewGridMesh(width, height int, stiffness float64) (*Mesh, error) {
	if width < 1 {
		return nil, &dynamo.ParameterError{Name: "width", Value: float64(width), Reason: "must be at least 1"}
	}
	if height < 1 {
		return nil, &dynamo.ParameterError{Name: "height", Value: float64(height), Reason: "must be at least 1"}
	}
	if stiffness <= 0 || math.IsNaN(stiffness) || math.IsInf(stiffness, 0) {
		return nil, &dynamo.ParameterError{Name: "stiffness", Value: stiffness, Reason: "must be positive and finite"}
	}

	m := &Mesh{Width: width, Height: height, pinned: make(map[int]bool)}

	for j := 0; j < height; j++ {
		for i := 0; i < width-1; i++ {
			a := j*width + i
			m.Springs = append(m.Springs, Spring{A: a, B: a + 1, Stiffness: stiffness})
		}
	}
	for j := 0; j < height-1; j++ {
		for i := 0; i < width; i++ {
			a := j*width + i
			m.Springs = append(m.Springs, Spring{A: a, B: a + width, Stiffness: stiffness})
		}
	}

	return m, nil
}

func (m *Mesh) NumNodes() int { return m.Width * m.Height }

func (m *Mesh) checkNode(n int) error {
	if n < 0 || n >= m.NumNodes() {
		return &dynamo.ParameterError{Name: "node", Value: float64(n), Reason: fmt.Sprintf("outside mesh of %d nodes", m.NumNodes())}
	}
	return nil
}

// Pin fixes nodes in place, removing their degrees of freedom.
func (m *Mesh) Pin(nodes ...int) error {
	for _, n := range nodes {
		if err := m.checkNode(n); err != nil {
			return err
		}
	}
	for _, n := range nodes {
		m.pinned[n] = true
	}
	return nil
}

func (m *Mesh) Pinned() []int {
	out := make([]int, 0, len(m.pinned))
	for n := range m.pinned {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// FreeDOFs lists unpinned node indices in ascending order.
func (m *Mesh) FreeDOFs() []int {
	out := make([]int, 0, m.NumNodes()-len(m.pinned))
	for n := 0; n < m.NumNodes(); n++ {
		if !m.pinned[n] {
			out = append(out, n)
		}
	}
	return out
}

// Contribution returns the four global entries spring idx adds to K:
// +k on both diagonals and -k on both off-diagonals.
func (m *Mesh) Contribution(idx int) ([]Entry, error) {
	if idx < 0 || idx >= len(m.Springs) {
		return nil, &dynamo.ParameterError{Name: "spring", Value: float64(idx), Reason: fmt.Sprintf("outside %d springs", len(m.Springs))}
	}
	s := m.Springs[idx]
	return []Entry{
		{Row: s.A, Col: s.A, Value: s.Stiffness},
		{Row: s.A, Col: s.B, Value: -s.Stiffness},
		{Row: s.B, Col: s.A, Value: -s.Stiffness},
		{Row: s.B, Col: s.B, Value: s.Stiffness},
	}, nil
}

// Assemble builds the global stiffness matrix K = sum_j E_j^T K_j E_j.
func (m *Mesh) Assemble() *mat.SymDense {
	n := m.NumNodes()
	k := mat.NewSymDense(n, nil)
	for _, s := range m.Springs {
		k.SetSym(s.A, s.A, k.At(s.A, s.A)+s.Stiffness)
		k.SetSym(s.B, s.B, k.At(s.B, s.B)+s.Stiffness)
		k.SetSym(s.A, s.B, k.At(s.A, s.B)-s.Stiffness)
	}
	return k
}

// Reduced drops the rows and columns of pinned nodes from K.
func (m *Mesh) Reduced() (*mat.SymDense, error) {
	free := m.FreeDOFs()
	if len(free) == 0 {
		return nil, &dynamo.ParameterError{Name: "pinned", Value: float64(len(m.pinned)), Reason: "no free degrees of freedom left"}
	}
	full := m.Assemble()
	r := mat.NewSymDense(len(free), nil)
	for i, a := range free {
		for j := i; j < len(free); j++ {
			r.SetSym(i, j, full.At(a, free[j]))
		}
	}
	return r, nil
}

// NaturalFrequencies returns the angular frequencies sqrt(lambda/mass) of
// the constrained mesh in ascending order, one per free degree of freedom.
func (m *Mesh) NaturalFrequencies(mass float64) ([]float64, error) {
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return nil, &dynamo.ParameterError{Name: "mass", Value: mass, Reason: "must be positive and finite"}
	}
	k, err := m.Reduced()
	if err != nil {
		return nil, err
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(k, false); !ok {
		return nil, fmt.Errorf("physics: eigen decomposition of stiffness matrix failed")
	}
	values := eig.Values(nil)

	freqs := make([]float64, len(values))
	for i, lambda := range values {
		// round-off can leave the rigid-body mode slightly negative
		freqs[i] = math.Sqrt(math.Max(lambda, 0) / mass)
	}
	return freqs, nil
}
