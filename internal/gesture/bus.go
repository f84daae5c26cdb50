package gesture

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// DefaultBuffer is the channel capacity of a subscription.
const DefaultBuffer = 8

// ErrBusClosed is returned when subscribing to a closed bus.
var ErrBusClosed = errors.New("gesture bus is closed")

// BusStats is a snapshot of bus counters.
type BusStats struct {
	Published   uint64 `json:"published"`
	Delivered   uint64 `json:"delivered"`
	Dropped     uint64 `json:"dropped"`
	Subscribers int    `json:"subscribers"`
}

// Bus fans gesture events out to subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]chan Event
	closed bool

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// Subscription receives events from a Bus until closed.
type Subscription struct {
	ID uuid.UUID
	C  <-chan Event

	bus  *Bus
	once sync.Once
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[uuid.UUID]chan Event),
	}
}

// Subscribe registers a new subscriber with the given buffer size.
// Non-positive sizes use DefaultBuffer.
func (b *Bus) Subscribe(buffer int) (*Subscription, error) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	ch := make(chan Event, buffer)
	id := uuid.New()
	b.subs[id] = ch

	return &Subscription{ID: id, C: ch, bus: b}, nil
}

// Close unsubscribes and closes the subscription channel. It is idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.unsubscribe(s.ID)
	})
}

func (b *Bus) unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers e to every subscriber with room in its buffer.
// Publishing on a closed bus is a no-op.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	b.published.Add(1)

	for _, ch := range b.subs {
		select {
		case ch <- e:
			b.delivered.Add(1)
		default:
			b.dropped.Add(1)
		}
	}
}

// Stats returns current bus counters.
func (b *Bus) Stats() BusStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BusStats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Dropped:     b.dropped.Load(),
		Subscribers: len(b.subs),
	}
}

// Close closes every subscription channel and rejects new subscribers.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}

	return nil
}
