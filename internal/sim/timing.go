package sim

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	MinSpeed     = 1
	MaxSpeed     = 100
	DefaultSpeed = 5

	baseDelay = time.Second
	minDelay  = 10 * time.Millisecond
)

// Phase identifies the kind of step a delay is charged for.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCompare
	PhaseSwap
	PhasePivot
	PhaseScan
	PhasePartitionSwap
	PhasePivotPlace
	PhaseMergeStart
	PhaseMergeWrite
	PhaseCopyBack
	PhaseProbe
)

var phaseNames = map[Phase]string{
	PhaseNone:          "none",
	PhaseCompare:       "compare",
	PhaseSwap:          "swap",
	PhasePivot:         "pivot",
	PhaseScan:          "scan",
	PhasePartitionSwap: "partition-swap",
	PhasePivotPlace:    "pivot-place",
	PhaseMergeStart:    "merge-start",
	PhaseMergeWrite:    "merge-write",
	PhaseCopyBack:      "copy-back",
	PhaseProbe:         "probe",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

type phaseScale struct {
	div   int64
	floor time.Duration
}

var phaseScales = map[Phase]phaseScale{
	PhasePivot:         {div: 3, floor: 20 * time.Millisecond},
	PhasePartitionSwap: {div: 2, floor: 50 * time.Millisecond},
	PhasePivotPlace:    {div: 2, floor: 50 * time.Millisecond},
	PhaseMergeStart:    {div: 2, floor: 20 * time.Millisecond},
	PhaseCopyBack:      {div: 3, floor: minDelay},
}

// Timing maps the speed setting to per-step delays. Higher speed means a
// shorter delay. Safe to update from the UI while a run reads it. The zero
// value runs at MinSpeed.
type Timing struct {
	speed atomic.Int64
}

func NewTiming(speed int) *Timing {
	t := &Timing{}
	t.SetSpeed(speed)
	return t
}

func ClampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

func (t *Timing) SetSpeed(speed int) { t.speed.Store(int64(ClampSpeed(speed))) }

func (t *Timing) Speed() int { return ClampSpeed(int(t.speed.Load())) }

// DelayFor returns the pause charged after a step of the given phase.
func (t *Timing) DelayFor(phase Phase) time.Duration {
	base := baseDelay / time.Duration(t.Speed())
	scale, ok := phaseScales[phase]
	if !ok {
		scale = phaseScale{div: 1, floor: minDelay}
	}
	d := base / time.Duration(scale.div)
	if d < scale.floor {
		return scale.floor
	}
	return d
}

// Sleeper waits for a delay. Implementations must return early with the
// context error when ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type clockSleeper struct{}

// RealClock sleeps using timers.
func RealClock() Sleeper { return clockSleeper{} }

func (clockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type instantSleeper struct{}

// Instant never sleeps; used for headless runs and tests.
func Instant() Sleeper { return instantSleeper{} }

func (instantSleeper) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
