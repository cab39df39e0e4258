package algorithms

import (
	"context"

	"github.com/san-kum/algosim/internal/sim"
)

// Binary searches an ascending sequence. Each probe counts as one
// comparison regardless of the three-way outcome.
type Binary struct{}

func NewBinary() *Binary { return &Binary{} }

func (b *Binary) Info() sim.Info {
	return sim.Info{
		Name:           "binary",
		Title:          "Binary Search",
		Kind:           sim.KindSearch,
		RequiresSorted: true,
		WriteLabel:     "writes",
	}
}

func (b *Binary) Validate(seq sim.Sequence, target *float64) error {
	return validateSearch(seq, target)
}

func (b *Binary) Run(ctx context.Context, r *sim.Run) (sim.SearchResult, error) {
	target, ok := r.Target()
	if !ok {
		return unresolved(), sim.ErrTargetUnset
	}
	a := r.Array()

	lo, hi := 0, a.Len()-1
	for lo <= hi {
		mid := (lo + hi) / 2
		h := sim.BinaryHighlight{Left: lo, Right: hi, Mid: mid}
		if err := r.Step(ctx, sim.PhaseProbe, h); err != nil {
			return unresolved(), err
		}
		switch a.CompareTo(mid, target) {
		case 0:
			h.Found = true
			if err := r.Show(sim.PhaseProbe, h); err != nil {
				return unresolved(), err
			}
			return sim.FoundAt(mid), nil
		case -1:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return sim.Missing(), nil
}

