package algorithms

import (
	"context"

	"github.com/san-kum/algosim/internal/sim"
)

// Quick is Lomuto-partition quick sort. Ranges are kept on an explicit
// stack; the left range is always finished before the right one.
type Quick struct{}

func NewQuick() *Quick { return &Quick{} }

func (q *Quick) Info() sim.Info {
	return sim.Info{Name: "quick", Title: "Quick Sort", Kind: sim.KindSort, WriteLabel: "swaps"}
}

func (q *Quick) Validate(seq sim.Sequence, _ *float64) error { return validateSort(seq) }

type span struct{ lo, hi int }

func (q *Quick) Run(ctx context.Context, r *sim.Run) (sim.SearchResult, error) {
	stack := []span{{0, r.Array().Len() - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.lo >= s.hi {
			continue
		}
		p, err := q.partition(ctx, r, s.lo, s.hi)
		if err != nil {
			return unresolved(), err
		}
		// pushed right first so the left range pops next
		stack = append(stack, span{p + 1, s.hi}, span{s.lo, p - 1})
	}
	return unresolved(), nil
}

func (q *Quick) partition(ctx context.Context, r *sim.Run, lo, hi int) (int, error) {
	a := r.Array()
	if err := r.Step(ctx, sim.PhasePivot, sim.PivotOnly(hi)); err != nil {
		return 0, err
	}

	i := lo - 1
	for j := lo; j < hi; j++ {
		if err := r.Show(sim.PhaseScan, sim.QuickHighlight{Pivot: hi, Left: sim.NoIndex, Right: j}); err != nil {
			return 0, err
		}
		less := a.Less(j, hi)
		if err := r.Pause(ctx, sim.PhaseScan); err != nil {
			return 0, err
		}
		if !less {
			continue
		}
		i++
		if err := a.Swap(i, j); err != nil {
			return 0, err
		}
		if err := r.Step(ctx, sim.PhasePartitionSwap, sim.QuickHighlight{Pivot: hi, Left: i, Right: j}); err != nil {
			return 0, err
		}
	}

	if err := a.Swap(i+1, hi); err != nil {
		return 0, err
	}
	if err := r.Step(ctx, sim.PhasePivotPlace, sim.PivotOnly(i+1)); err != nil {
		return 0, err
	}
	return i + 1, nil
}
