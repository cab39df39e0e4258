package sim

import "fmt"

// NoIndex marks an absent index in a highlight.
const NoIndex = -1

// Role is what a renderer should draw an element as.
type Role int

const (
	RoleNone Role = iota
	RoleCurrent
	RoleNext
	RolePivot
	RoleLeft
	RoleRight
	RoleMid
	RoleMerge
	RoleFound
)

var roleNames = [...]string{"none", "current", "next", "pivot", "left", "right", "mid", "merge", "found"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Span is an inclusive index range.
type Span struct {
	Lo, Hi int
	Set    bool
}

func SpanOf(lo, hi int) Span { return Span{Lo: lo, Hi: hi, Set: true} }

func (s Span) Contains(i int) bool { return s.Set && i >= s.Lo && i <= s.Hi }

// Highlight is the algorithm-specific set of indices of interest. A nil
// Highlight means nothing is highlighted.
type Highlight interface {
	// Role reports how index i should be drawn.
	Role(i int) Role
	// Indices lists every index referenced, for bounds validation.
	Indices() []int
}

func present(idx ...int) []int {
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if i != NoIndex {
			out = append(out, i)
		}
	}
	return out
}

// ValidateHighlight checks that every referenced index is inside [0,n).
func ValidateHighlight(h Highlight, n int) error {
	if h == nil {
		return nil
	}
	for _, i := range h.Indices() {
		if i < 0 || i >= n {
			return fmt.Errorf("highlight index %d (len %d): %w", i, n, ErrIndexOutOfRange)
		}
	}
	return nil
}

type BubbleHighlight struct {
	Current, Next int
}

func (h BubbleHighlight) Role(i int) Role {
	switch i {
	case h.Current:
		return RoleCurrent
	case h.Next:
		return RoleNext
	}
	return RoleNone
}

func (h BubbleHighlight) Indices() []int { return present(h.Current, h.Next) }

type QuickHighlight struct {
	Pivot, Left, Right int
}

// PivotOnly highlights only the pivot position.
func PivotOnly(pivot int) QuickHighlight {
	return QuickHighlight{Pivot: pivot, Left: NoIndex, Right: NoIndex}
}

func (h QuickHighlight) Role(i int) Role {
	switch i {
	case h.Pivot:
		return RolePivot
	case h.Left:
		return RoleLeft
	case h.Right:
		return RoleRight
	}
	return RoleNone
}

func (h QuickHighlight) Indices() []int { return present(h.Pivot, h.Left, h.Right) }

type MergeHighlight struct {
	Left, Right, Merge Span
}

func (h MergeHighlight) Role(i int) Role {
	switch {
	case h.Merge.Contains(i):
		return RoleMerge
	case h.Right.Contains(i):
		return RoleRight
	case h.Left.Contains(i):
		return RoleLeft
	}
	return RoleNone
}

func (h MergeHighlight) Indices() []int {
	var out []int
	for _, s := range []Span{h.Left, h.Right, h.Merge} {
		if s.Set {
			out = append(out, s.Lo, s.Hi)
		}
	}
	return out
}

type LinearHighlight struct {
	Current, Found int
}

func (h LinearHighlight) Role(i int) Role {
	switch i {
	case h.Found:
		return RoleFound
	case h.Current:
		return RoleCurrent
	}
	return RoleNone
}

func (h LinearHighlight) Indices() []int { return present(h.Current, h.Found) }

type BinaryHighlight struct {
	Left, Right, Mid int
	Found            bool
}

func (h BinaryHighlight) Role(i int) Role {
	switch i {
	case h.Mid:
		if h.Found {
			return RoleFound
		}
		return RoleMid
	case h.Left:
		return RoleLeft
	case h.Right:
		return RoleRight
	}
	return RoleNone
}

func (h BinaryHighlight) Indices() []int { return present(h.Left, h.Right, h.Mid) }
