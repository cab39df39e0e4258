package sim

import (
	"context"
	"fmt"
)

// Sequence is the working list of values a run sorts or searches.
type Sequence []float64

func (s Sequence) Clone() Sequence {
	c := make(Sequence, len(s))
	copy(c, s)
	return c
}

func (s Sequence) IsSorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}
	return true
}

type Counters struct {
	Comparisons int `json:"comparisons"`
	Writes      int `json:"writes"`
}

type RunState int

const (
	Idle RunState = iota
	Running
	AwaitingStep
	Completed
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case AwaitingStep:
		return "awaiting-step"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("RunState(%d)", int(s))
}

type ResultStatus int

const (
	Unresolved ResultStatus = iota
	Found
	NotFound
)

// SearchResult is set once per search run. Sort runs leave it Unresolved.
type SearchResult struct {
	Status ResultStatus `json:"status"`
	Index  int          `json:"index"`
}

func FoundAt(i int) SearchResult { return SearchResult{Status: Found, Index: i} }

func Missing() SearchResult { return SearchResult{Status: NotFound, Index: NoIndex} }

func (r SearchResult) String() string {
	switch r.Status {
	case Found:
		return fmt.Sprintf("found at index %d", r.Index)
	case NotFound:
		return "not found"
	}
	return "-"
}

type NoticeKind string

const (
	NoticeNone      NoticeKind = ""
	NoticeSorted    NoticeKind = "sorted"
	NoticeFound     NoticeKind = "found"
	NoticeNotFound  NoticeKind = "not-found"
	NoticeEmpty     NoticeKind = "empty"
	NoticeNoTarget  NoticeKind = "no-target"
	NoticeTruncated NoticeKind = "truncated"
	NoticeAborted   NoticeKind = "aborted"
)

// Notice is a one-shot user-visible message.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

func (n Notice) IsZero() bool { return n.Kind == NoticeNone }

// Frame is one observable event: the state a renderer needs to draw.
type Frame struct {
	Seq       uint64
	Algorithm string
	Values    Sequence
	Highlight Highlight
	Counters  Counters
	State     RunState
	Result    SearchResult
	Phase     Phase
	Notice    Notice
}

// Observer receives every frame synchronously on the publishing goroutine.
type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Kind int

const (
	KindSort Kind = iota
	KindSearch
)

func (k Kind) String() string {
	if k == KindSearch {
		return "search"
	}
	return "sort"
}

// Info describes a driver to the shell and renderers.
type Info struct {
	Name           string
	Title          string
	Kind           Kind
	RequiresSorted bool
	WriteLabel     string
}

// Driver is a step-annotated algorithm. Run must call into the Run context
// at every observable event and must not touch the sequence otherwise.
type Driver interface {
	Info() Info
	Validate(seq Sequence, target *float64) error
	Run(ctx context.Context, r *Run) (SearchResult, error)
}
