// Package bus fans visualizer frames out to renderers.
//
// Channel subscribers use a drop-new policy: when a channel is full the
// frame is dropped for that subscriber and Publish never blocks. Latest
// receivers use a drop-old policy: they hold only the newest frame and a
// reader blocks in Next until something newer than what it last read
// arrives. Renderers that only care about the current picture, like the
// TUI, use a latest receiver.
package bus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/san-kum/algosim/internal/sim"
)

var (
	ErrSubscriberExists   = errors.New("bus: subscriber id already exists")
	ErrSubscriberNotFound = errors.New("bus: subscriber id not found")
	ErrBusClosed          = errors.New("bus: closed")
	ErrNilChannel         = errors.New("bus: subscriber channel cannot be nil")
	ErrReceiverClosed     = errors.New("bus: receiver closed")
)

type DropPolicy int

const (
	DropNew DropPolicy = iota
	DropOld
)

// SubscriberStats tracks delivery for one subscriber.
type SubscriberStats struct {
	Sent    uint64
	Dropped uint64
}

type Stats struct {
	TotalPublished uint64
	TotalSent      uint64
	TotalDropped   uint64
	Subscribers    map[string]SubscriberStats
}

type subscriber struct {
	policy  DropPolicy
	ch      chan<- sim.Frame
	latest  *Receiver
	sent    atomic.Uint64
	dropped atomic.Uint64
}

// Bus distributes frames to subscribers. It implements sim.Observer so it
// can be attached directly to a visualizer.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	published   atomic.Uint64
	closed      bool
}

func New() *Bus {
	return &Bus{subscribers: make(map[string]*subscriber)}
}

// Subscribe registers a channel with the drop-new policy.
func (b *Bus) Subscribe(id string, ch chan<- sim.Frame) error {
	if ch == nil {
		return ErrNilChannel
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	if _, exists := b.subscribers[id]; exists {
		return ErrSubscriberExists
	}
	b.subscribers[id] = &subscriber{policy: DropNew, ch: ch}
	return nil
}

// SubscribeLatest registers a drop-old receiver.
func (b *Bus) SubscribeLatest(id string) (*Receiver, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}
	if _, exists := b.subscribers[id]; exists {
		return nil, ErrSubscriberExists
	}
	r := newReceiver()
	b.subscribers[id] = &subscriber{policy: DropOld, latest: r}
	return r, nil
}

func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	s, exists := b.subscribers[id]
	if !exists {
		return ErrSubscriberNotFound
	}
	if s.latest != nil {
		s.latest.Close()
	}
	delete(b.subscribers, id)
	return nil
}

// Publish delivers f to every subscriber without blocking. Publishing on a
// closed bus is a no-op.
func (b *Bus) Publish(f sim.Frame) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	b.published.Add(1)

	for _, s := range b.subscribers {
		switch s.policy {
		case DropNew:
			select {
			case s.ch <- f:
				s.sent.Add(1)
			default:
				s.dropped.Add(1)
			}
		case DropOld:
			if s.latest.set(f) {
				s.dropped.Add(1)
			}
			s.sent.Add(1)
		}
	}
}

func (b *Bus) OnFrame(f sim.Frame) { b.Publish(f) }

func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st := Stats{
		TotalPublished: b.published.Load(),
		Subscribers:    make(map[string]SubscriberStats, len(b.subscribers)),
	}
	for id, s := range b.subscribers {
		ss := SubscriberStats{Sent: s.sent.Load(), Dropped: s.dropped.Load()}
		st.Subscribers[id] = ss
		st.TotalSent += ss.Sent
		st.TotalDropped += ss.Dropped
	}
	return st
}

// Close stops the bus and closes every latest receiver. Channels passed to
// Subscribe are owned by the caller and are left open.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, s := range b.subscribers {
		if s.latest != nil {
			s.latest.Close()
		}
	}
	b.subscribers = nil
}

// Receiver holds the newest published frame.
type Receiver struct {
	mu      sync.Mutex
	frame   sim.Frame
	version uint64
	read    uint64
	wake    chan struct{}
	closed  bool
}

func newReceiver() *Receiver {
	return &Receiver{wake: make(chan struct{})}
}

// set stores f and reports whether an unread frame was overwritten.
func (r *Receiver) set(f sim.Frame) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	overwrote := r.version > r.read
	r.frame = f
	r.version++
	close(r.wake)
	r.wake = make(chan struct{})
	return overwrote
}

// Next blocks until a frame newer than the last one returned is available.
func (r *Receiver) Next(ctx context.Context) (sim.Frame, error) {
	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return sim.Frame{}, ErrReceiverClosed
		}
		if r.version > r.read {
			r.read = r.version
			f := r.frame
			r.mu.Unlock()
			return f, nil
		}
		wake := r.wake
		r.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return sim.Frame{}, ctx.Err()
		}
	}
}

// Latest returns the newest frame without blocking.
func (r *Receiver) Latest() (sim.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame, r.version > 0
}

func (r *Receiver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.wake)
}
