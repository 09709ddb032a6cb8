package services

import (
	"sync"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// Broadcaster fans progress snapshots out to any number of subscribers for
// one transfer. Delivery never blocks the publisher: each subscription has
// a bounded buffer and a lagging subscriber is coalesced down to the most
// recent snapshot.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan domain.ProgressSnapshot
	nextID int
	buffer int

	last    domain.ProgressSnapshot
	hasLast bool
	closed  bool
}

// NewBroadcaster creates a broadcaster with the given per-subscriber
// buffer size. The buffer is at least 1 so the attach-time snapshot always
// fits.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		subs:   make(map[int]chan domain.ProgressSnapshot),
		buffer: buffer,
	}
}

// Publish delivers snap to every current subscriber. When a subscriber's
// buffer is full the oldest buffered snapshot is dropped so the latest one
// always gets through.
func (b *Broadcaster) Publish(snap domain.ProgressSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.last = snap
	b.hasLast = true

	for _, ch := range b.subs {
		b.offer(ch, snap)
	}
}

// offer performs the non-blocking coalescing send (caller holds the lock).
func (b *Broadcaster) offer(ch chan domain.ProgressSnapshot, snap domain.ProgressSnapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		// Buffer full: evict the oldest entry and try again. The reader
		// may race us and drain the channel, hence the loop.
		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe attaches a new subscriber. The current snapshot, if any, is
// delivered immediately so a late subscriber never starts from a stale
// view. The returned stop function detaches the subscriber and closes its
// channel; calling it more than once is safe.
func (b *Broadcaster) Subscribe() (<-chan domain.ProgressSnapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.ProgressSnapshot, b.buffer)
	if b.hasLast {
		ch <- b.last
	}

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	stop := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, stop
}

// Last returns the most recently published snapshot.
func (b *Broadcaster) Last() (domain.ProgressSnapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.hasLast
}

// Close terminates all subscriptions. Subscribers see their channel close
// after draining any buffered snapshots. Further publishes are dropped.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
