// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-elect/election"
)

// Envelope wraps an election event for delivery outside the process.
type Envelope struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Event     election.Event `json:"event"`
}

// NewEnvelope stamps ev with a fresh ID and the current time.
func NewEnvelope(ev election.Event) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Event:     ev,
	}
}

// SubscriberID identifies one subscription. It is required to unsubscribe.
type SubscriberID uint64

// QueueSize is the number of events Publish can buffer ahead of the run loop.
// Publish blocks once the queue is full.
const QueueSize = 1024

type subscriber struct {
	ch      chan Envelope
	dropped atomic.Uint64
}

// Broker fans election events out to subscribers. Publish enqueues every event
// and a single run loop delivers in publish order. A subscriber whose buffer is
// full misses the event and its drop counter is incremented.
type Broker struct {
	// pubMu guards queue and closed. It is never held by the run loop, so a
	// publisher blocked on a full queue cannot stall delivery.
	pubMu  sync.RWMutex
	queue  chan Envelope
	closed bool

	mu     sync.RWMutex
	wg     sync.WaitGroup
	nextID SubscriberID
	subs   map[SubscriberID]*subscriber
	logger *slog.Logger
}

// NewBroker starts the broker's run loop. Call Shutdown to stop it.
func NewBroker(logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Broker{
		subs:   make(map[SubscriberID]*subscriber),
		queue:  make(chan Envelope, QueueSize),
		logger: logger,
	}
	b.wg.Add(1)
	go b.run()
	return b
}

func (b *Broker) run() {
	defer b.wg.Done()
	for env := range b.queue {
		b.deliver(env)
	}
}

func (b *Broker) deliver(env Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subs {
		select {
		case sub.ch <- env:
		default:
			n := sub.dropped.Add(1)
			b.logger.Warn("subscriber buffer full, event dropped",
				"subscriber", id,
				"seq", env.Event.Seq,
				"kind", env.Event.Kind,
				"dropped_total", n,
			)
		}
	}
}

// Subscribe registers a new subscriber with a channel buffer of size buf.
// The channel is closed on Unsubscribe or Shutdown.
func (b *Broker) Subscribe(buf int) (SubscriberID, <-chan Envelope) {
	b.pubMu.RLock()
	defer b.pubMu.RUnlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Envelope, buf)
	if b.closed {
		close(ch)
		return 0, ch
	}

	b.nextID++
	id := b.nextID
	b.subs[id] = &subscriber{ch: ch}
	return id, ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown IDs are ignored.
func (b *Broker) Unsubscribe(id SubscriberID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.ch)
}

// Publish queues ev for delivery, waiting while the queue is full. Events
// published after Shutdown are discarded. It satisfies election.Observer.
func (b *Broker) Publish(ev election.Event) {
	env := NewEnvelope(ev)

	b.pubMu.RLock()
	defer b.pubMu.RUnlock()
	if b.closed {
		return
	}
	b.queue <- env
}

// Dropped returns how many events the subscriber has missed.
func (b *Broker) Dropped(id SubscriberID) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if sub, ok := b.subs[id]; ok {
		return sub.dropped.Load()
	}
	return 0
}

// Subscribers returns the number of active subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Shutdown stops accepting events, delivers everything already queued, and
// then closes every subscriber channel.
func (b *Broker) Shutdown() {
	b.pubMu.Lock()
	if b.closed {
		b.pubMu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.pubMu.Unlock()

	b.wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}
