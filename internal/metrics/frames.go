package metrics

import (
	"github.com/san-kum/algosim/internal/sim"
)

// Suspensions counts frames published while the run waited on the step
// gate.
type Suspensions struct {
	name  string
	count int
}

func NewSuspensions() *Suspensions {
	return &Suspensions{name: "suspensions"}
}

func (s *Suspensions) Name() string {
	return s.name
}

func (s *Suspensions) Observe(f sim.Frame) {
	if f.State == sim.AwaitingStep {
		s.count++
	}
}

func (s *Suspensions) Value() float64 {
	return float64(s.count)
}

func (s *Suspensions) Reset() {
	s.count = 0
}

// Highlights counts frames carrying a highlight, one per visual step.
type Highlights struct {
	name  string
	count int
}

func NewHighlights() *Highlights {
	return &Highlights{name: "highlights"}
}

func (h *Highlights) Name() string {
	return h.name
}

func (h *Highlights) Observe(f sim.Frame) {
	if f.Highlight != nil {
		h.count++
	}
}

func (h *Highlights) Value() float64 {
	return float64(h.count)
}

func (h *Highlights) Reset() {
	h.count = 0
}

// Default returns a fresh set of the per-run metrics.
func Default() []sim.Metric {
	return []sim.Metric{
		NewInversions(),
		NewSortedness(),
		NewHighlights(),
		NewSuspensions(),
	}
}
