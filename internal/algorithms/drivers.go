// Package algorithms holds the step-annotated sort and search drivers.
// Drivers only touch the sequence through the sim.Run they are handed.
package algorithms

import (
	"github.com/san-kum/algosim/internal/sim"
)

func validateSort(seq sim.Sequence) error {
	if len(seq) == 0 {
		return sim.ErrEmptySequence
	}
	return nil
}

func validateSearch(seq sim.Sequence, target *float64) error {
	if len(seq) == 0 {
		return sim.ErrEmptySequence
	}
	if target == nil {
		return sim.ErrTargetUnset
	}
	return nil
}

func unresolved() sim.SearchResult {
	return sim.SearchResult{Status: sim.Unresolved, Index: sim.NoIndex}
}
