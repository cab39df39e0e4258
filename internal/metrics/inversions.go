package metrics

import (
	"github.com/san-kum/algosim/internal/sequence"
	"github.com/san-kum/algosim/internal/sim"
)

// Inversions tracks the inversion count of the visible buffer: the value
// at the latest frame and the peak seen during the run.
type Inversions struct {
	name    string
	current int
	peak    int
}

func NewInversions() *Inversions {
	return &Inversions{name: "inversions"}
}

func (m *Inversions) Name() string {
	return m.name
}

func (m *Inversions) Observe(f sim.Frame) {
	m.current = sequence.Inversions(f.Values)
	if m.current > m.peak {
		m.peak = m.current
	}
}

func (m *Inversions) Value() float64 {
	return float64(m.current)
}

func (m *Inversions) Peak() int {
	return m.peak
}

func (m *Inversions) Reset() {
	m.current = 0
	m.peak = 0
}
