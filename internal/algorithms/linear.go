package algorithms

import (
	"context"

	"github.com/san-kum/algosim/internal/sim"
)

type Linear struct{}

func NewLinear() *Linear { return &Linear{} }

func (l *Linear) Info() sim.Info {
	return sim.Info{Name: "linear", Title: "Linear Search", Kind: sim.KindSearch, WriteLabel: "writes"}
}

func (l *Linear) Validate(seq sim.Sequence, target *float64) error {
	return validateSearch(seq, target)
}

func (l *Linear) Run(ctx context.Context, r *sim.Run) (sim.SearchResult, error) {
	target, ok := r.Target()
	if !ok {
		return unresolved(), sim.ErrTargetUnset
	}
	a := r.Array()

	for i := 0; i < a.Len(); i++ {
		if err := r.Show(sim.PhaseScan, sim.LinearHighlight{Current: i, Found: sim.NoIndex}); err != nil {
			return unresolved(), err
		}
		hit := a.CompareTo(i, target) == 0
		if err := r.Pause(ctx, sim.PhaseScan); err != nil {
			return unresolved(), err
		}
		if hit {
			if err := r.Show(sim.PhaseScan, sim.LinearHighlight{Current: sim.NoIndex, Found: i}); err != nil {
				return unresolved(), err
			}
			return sim.FoundAt(i), nil
		}
	}
	return sim.Missing(), nil
}
