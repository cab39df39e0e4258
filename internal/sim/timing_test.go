package sim

import (
	"context"
	"testing"
	"time"
)

func TestDelayFor(t *testing.T) {
	tests := []struct {
		speed int
		phase Phase
		want  time.Duration
	}{
		{5, PhaseCompare, 200 * time.Millisecond},
		{5, PhaseSwap, 200 * time.Millisecond},
		{5, PhasePivot, time.Second / 5 / 3},
		{5, PhasePartitionSwap, 100 * time.Millisecond},
		{5, PhasePivotPlace, 100 * time.Millisecond},
		{5, PhaseMergeStart, 100 * time.Millisecond},
		{5, PhaseCopyBack, time.Second / 5 / 3},
		{1, PhaseProbe, time.Second},
		{100, PhaseCompare, 10 * time.Millisecond},
		{100, PhasePivot, 20 * time.Millisecond},
		{100, PhasePartitionSwap, 50 * time.Millisecond},
		{100, PhasePivotPlace, 50 * time.Millisecond},
		{100, PhaseMergeStart, 20 * time.Millisecond},
		{100, PhaseCopyBack, 10 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			timing := NewTiming(tt.speed)
			if got := timing.DelayFor(tt.phase); got != tt.want {
				t.Errorf("speed %d %s: expected %v, got %v", tt.speed, tt.phase, tt.want, got)
			}
		})
	}
}

func TestDelayMonotoneInSpeed(t *testing.T) {
	phases := []Phase{PhaseCompare, PhasePivot, PhasePartitionSwap, PhaseMergeStart, PhaseCopyBack, PhaseProbe}
	timing := NewTiming(MinSpeed)
	for _, p := range phases {
		prev := timing.DelayFor(p)
		for s := MinSpeed + 1; s <= MaxSpeed; s++ {
			timing.SetSpeed(s)
			d := timing.DelayFor(p)
			if d > prev {
				t.Fatalf("%s: delay grew from %v to %v at speed %d", p, prev, d, s)
			}
			if d < minDelay {
				t.Fatalf("%s: delay %v below floor at speed %d", p, d, s)
			}
			prev = d
		}
		timing.SetSpeed(MinSpeed)
	}
}

func TestClampSpeed(t *testing.T) {
	cases := map[int]int{-5: MinSpeed, 0: MinSpeed, 1: 1, 50: 50, 100: 100, 1000: MaxSpeed}
	for in, want := range cases {
		if got := ClampSpeed(in); got != want {
			t.Errorf("ClampSpeed(%d) = %d, want %d", in, got, want)
		}
	}
	if NewTiming(0).Speed() != MinSpeed {
		t.Error("zero speed should clamp to minimum")
	}
}

func TestZeroTiming(t *testing.T) {
	var tm Timing
	if tm.Speed() != MinSpeed {
		t.Errorf("zero Timing speed = %d, want %d", tm.Speed(), MinSpeed)
	}
	if got := tm.DelayFor(PhaseCompare); got != time.Second {
		t.Errorf("zero Timing delay = %v, want 1s", got)
	}
}

func TestSleepers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	if err := Instant().Sleep(ctx, time.Hour); err != nil {
		t.Fatalf("instant sleep: %v", err)
	}

	start := time.Now()
	if err := RealClock().Sleep(ctx, 5*time.Millisecond); err != nil {
		t.Fatalf("real sleep: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("real sleep returned early")
	}

	cancel()
	if err := RealClock().Sleep(ctx, time.Hour); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := Instant().Sleep(ctx, 0); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
