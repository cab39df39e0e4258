package sim

import (
	"context"
	"sync"
)

// Gate suspends a driver until Advance is called, but only while step mode
// is enabled. It holds at most one pending waiter.
type Gate struct {
	mu       sync.Mutex
	enabled  bool
	pending  chan struct{}
	released uint64
}

func NewGate(enabled bool) *Gate {
	return &Gate{enabled: enabled}
}

// Wait returns immediately when step mode is off. Otherwise it arms the gate
// and blocks until Advance or ctx cancellation.
func (g *Gate) Wait(ctx context.Context) error {
	return g.Await(ctx, g.Arm())
}

// Arm installs a fresh one-shot waiter, replacing any earlier one, and
// returns its release channel. It returns nil when step mode is off. An
// Advance made after Arm returns is never lost.
func (g *Gate) Arm() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.enabled {
		return nil
	}
	ch := make(chan struct{})
	g.pending = ch
	return ch
}

// Await blocks on a channel returned by Arm. A nil channel returns at once.
func (g *Gate) Await(ctx context.Context, ch <-chan struct{}) error {
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		if g.pending == ch {
			g.pending = nil
		}
		g.mu.Unlock()
		return ctx.Err()
	}
}

// Advance releases the pending waiter. With nothing pending it does nothing
// and reports false.
func (g *Gate) Advance() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return false
	}
	close(g.pending)
	g.pending = nil
	g.released++
	return true
}

// SetEnabled changes step mode for subsequent waits. A waiter that is
// already pending stays suspended until Advance.
func (g *Gate) SetEnabled(enabled bool) {
	g.mu.Lock()
	g.enabled = enabled
	g.mu.Unlock()
}

func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

func (g *Gate) Waiting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}

// Released counts waiters released by Advance.
func (g *Gate) Released() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.released
}
