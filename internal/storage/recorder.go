package storage

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/san-kum/algosim/internal/sim"
)

// FrameRecord is the stored form of one published frame.
type FrameRecord struct {
	Seq         uint64    `json:"seq"`
	Phase       string    `json:"phase"`
	State       string    `json:"state"`
	Comparisons int       `json:"comparisons"`
	Writes      int       `json:"writes"`
	Highlight   string    `json:"highlight,omitempty"`
	Values      []float64 `json:"values"`
}

// Recorder is a sim.Observer that keeps every frame of a run.
type Recorder struct {
	mu     sync.Mutex
	frames []FrameRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnFrame(f sim.Frame) {
	rec := FrameRecord{
		Seq:         f.Seq,
		Phase:       f.Phase.String(),
		State:       f.State.String(),
		Comparisons: f.Counters.Comparisons,
		Writes:      f.Counters.Writes,
		Highlight:   encodeHighlight(f.Highlight, len(f.Values)),
		Values:      f.Values.Clone(),
	}
	r.mu.Lock()
	r.frames = append(r.frames, rec)
	r.mu.Unlock()
}

func (r *Recorder) Frames() []FrameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FrameRecord(nil), r.frames...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.frames = nil
	r.mu.Unlock()
}

// encodeHighlight renders the roles of a highlight as "index:role" pairs.
func encodeHighlight(h sim.Highlight, n int) string {
	if h == nil {
		return ""
	}
	var parts []string
	for i := 0; i < n; i++ {
		if role := h.Role(i); role != sim.RoleNone {
			parts = append(parts, fmt.Sprintf("%d:%s", i, role))
		}
	}
	return strings.Join(parts, " ")
}

// Roles decodes the highlight column back into index -> role name.
func (f FrameRecord) Roles() map[int]string {
	roles := make(map[int]string)
	for _, pair := range strings.Fields(f.Highlight) {
		idx, role, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			continue
		}
		roles[i] = role
	}
	return roles
}
