package algorithms

import (
	"context"

	"github.com/san-kum/algosim/internal/sim"
)

// Merge is top-down merge sort. Merged output is staged in the array's
// scratch buffer, which is what observers see, and copied back afterwards.
type Merge struct{}

func NewMerge() *Merge { return &Merge{} }

func (m *Merge) Info() sim.Info {
	return sim.Info{Name: "merge", Title: "Merge Sort", Kind: sim.KindSort, WriteLabel: "writes"}
}

func (m *Merge) Validate(seq sim.Sequence, _ *float64) error { return validateSort(seq) }

func (m *Merge) Run(ctx context.Context, r *sim.Run) (sim.SearchResult, error) {
	if err := m.sort(ctx, r, 0, r.Array().Len()-1); err != nil {
		return unresolved(), err
	}
	return unresolved(), nil
}

func (m *Merge) sort(ctx context.Context, r *sim.Run, lo, hi int) error {
	if lo >= hi {
		return nil
	}
	mid := (lo + hi) / 2
	if err := m.sort(ctx, r, lo, mid); err != nil {
		return err
	}
	if err := m.sort(ctx, r, mid+1, hi); err != nil {
		return err
	}
	return m.merge(ctx, r, lo, mid, hi)
}

func (m *Merge) merge(ctx context.Context, r *sim.Run, lo, mid, hi int) error {
	a := r.Array()
	start := sim.MergeHighlight{Left: sim.SpanOf(lo, mid), Right: sim.SpanOf(mid+1, hi)}
	if err := r.Step(ctx, sim.PhaseMergeStart, start); err != nil {
		return err
	}

	writing := sim.MergeHighlight{Merge: sim.SpanOf(lo, hi)}
	stage := func(k, from int) error {
		if err := a.Stage(k, a.At(from)); err != nil {
			return err
		}
		return r.Step(ctx, sim.PhaseMergeWrite, writing)
	}

	i, j, k := lo, mid+1, lo
	for i <= mid && j <= hi {
		from := j
		if a.LessEqual(i, j) {
			from = i
			i++
		} else {
			j++
		}
		if err := stage(k, from); err != nil {
			return err
		}
		k++
	}
	for ; i <= mid; i, k = i+1, k+1 {
		if err := stage(k, i); err != nil {
			return err
		}
	}
	for ; j <= hi; j, k = j+1, k+1 {
		if err := stage(k, j); err != nil {
			return err
		}
	}

	for k := lo; k <= hi; k++ {
		if err := a.Commit(k); err != nil {
			return err
		}
		if err := r.Delay(ctx, sim.PhaseCopyBack); err != nil {
			return err
		}
	}
	return nil
}
