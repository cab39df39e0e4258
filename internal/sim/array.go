package sim

import "fmt"

// emitFunc receives a copy of the visible buffer after every observable
// mutation or highlight change.
type emitFunc func(values Sequence, h Highlight, c Counters)

// Array wraps the working sequence of one run. Every comparison is counted,
// every mutation is counted and published. It is owned by the driver
// goroutine and is not safe for concurrent use.
type Array struct {
	values    Sequence
	scratch   Sequence
	staged    bool
	counters  Counters
	highlight Highlight
	emit      emitFunc
}

func NewArray(values Sequence, emit emitFunc) *Array {
	if emit == nil {
		emit = func(Sequence, Highlight, Counters) {}
	}
	return &Array{
		values: values.Clone(),
		emit:   emit,
	}
}

func (a *Array) Len() int { return len(a.values) }

// At reads element i without counting a comparison.
func (a *Array) At(i int) float64 { return a.values[i] }

func (a *Array) Counters() Counters { return a.counters }

func (a *Array) Highlight() Highlight { return a.highlight }

// Values returns a copy of the working buffer.
func (a *Array) Values() Sequence { return a.values.Clone() }

// Snapshot returns a copy of the visible buffer: the scratch buffer while a
// merge is staging into it, the working buffer otherwise.
func (a *Array) Snapshot() Sequence {
	if a.staged {
		return a.scratch.Clone()
	}
	return a.values.Clone()
}

func (a *Array) Less(i, j int) bool {
	a.counters.Comparisons++
	return a.values[i] < a.values[j]
}

func (a *Array) LessEqual(i, j int) bool {
	a.counters.Comparisons++
	return a.values[i] <= a.values[j]
}

func (a *Array) Greater(i, j int) bool {
	a.counters.Comparisons++
	return a.values[i] > a.values[j]
}

// CompareTo compares element i against v and returns -1, 0 or +1.
func (a *Array) CompareTo(i int, v float64) int {
	a.counters.Comparisons++
	switch x := a.values[i]; {
	case x < v:
		return -1
	case x > v:
		return 1
	}
	return 0
}

func (a *Array) check(i int) error {
	if i < 0 || i >= len(a.values) {
		return fmt.Errorf("index %d (len %d): %w", i, len(a.values), ErrIndexOutOfRange)
	}
	return nil
}

func (a *Array) publish() {
	a.emit(a.Snapshot(), a.highlight, a.counters)
}

func (a *Array) Write(i int, v float64) error {
	if err := a.check(i); err != nil {
		return err
	}
	a.values[i] = v
	a.staged = false
	a.counters.Writes++
	a.publish()
	return nil
}

// Swap exchanges two elements, counted as a single write with a single
// snapshot.
func (a *Array) Swap(i, j int) error {
	if err := a.check(i); err != nil {
		return err
	}
	if err := a.check(j); err != nil {
		return err
	}
	a.values[i], a.values[j] = a.values[j], a.values[i]
	a.staged = false
	a.counters.Writes++
	a.publish()
	return nil
}

// Stage writes v into position k of the scratch buffer and makes the
// scratch buffer visible.
func (a *Array) Stage(k int, v float64) error {
	if err := a.check(k); err != nil {
		return err
	}
	if a.scratch == nil {
		a.scratch = a.values.Clone()
	}
	a.scratch[k] = v
	a.staged = true
	a.counters.Writes++
	a.publish()
	return nil
}

// Commit copies scratch position k back into the working buffer. Commits
// settle a merge and are not counted as writes.
func (a *Array) Commit(k int) error {
	if err := a.check(k); err != nil {
		return err
	}
	if a.scratch == nil {
		return nil
	}
	a.values[k] = a.scratch[k]
	a.staged = false
	a.publish()
	return nil
}

// Show replaces the live highlight and publishes it.
func (a *Array) Show(h Highlight) error {
	if err := ValidateHighlight(h, len(a.values)); err != nil {
		return err
	}
	a.highlight = h
	a.publish()
	return nil
}

// Clear drops the highlight without publishing.
func (a *Array) Clear() { a.highlight = nil }
