package algorithms

import (
	"context"

	"github.com/san-kum/algosim/internal/sim"
)

type Bubble struct{}

func NewBubble() *Bubble { return &Bubble{} }

func (b *Bubble) Info() sim.Info {
	return sim.Info{Name: "bubble", Title: "Bubble Sort", Kind: sim.KindSort, WriteLabel: "swaps"}
}

func (b *Bubble) Validate(seq sim.Sequence, _ *float64) error { return validateSort(seq) }

func (b *Bubble) Run(ctx context.Context, r *sim.Run) (sim.SearchResult, error) {
	a := r.Array()
	n := a.Len()

	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1-i; j++ {
			h := sim.BubbleHighlight{Current: j, Next: j + 1}
			if err := r.Show(sim.PhaseCompare, h); err != nil {
				return unresolved(), err
			}
			outOfOrder := a.Greater(j, j+1)
			if err := r.Pause(ctx, sim.PhaseCompare); err != nil {
				return unresolved(), err
			}
			if !outOfOrder {
				continue
			}
			if err := a.Swap(j, j+1); err != nil {
				return unresolved(), err
			}
			if err := r.Pause(ctx, sim.PhaseSwap); err != nil {
				return unresolved(), err
			}
		}
	}
	return unresolved(), nil
}
