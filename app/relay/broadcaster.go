// Package relay decouples event production from event delivery. Producers
// enqueue onto a bounded intake queue and return immediately; a single relay
// goroutine drains the queue in FIFO order and fans each event out to every
// registered subscriber. A slow or dead subscriber can only ever hurt the
// relay path, never a producer.
package relay

import (
	"log"
	"sync"
	"time"

	"botops-svc/app/domains"
)

// Subscriber is one live observer connection. Push must not block: transport
// implementations buffer internally and shed load on overflow. The transport
// layer owns the connection lifecycle; the relay only decides what to send
// and when.
type Subscriber interface {
	ID() string
	Push(ev domains.Event) error
}

// Broadcaster fans events out to all registered subscribers.
type Broadcaster struct {
	intake      chan domains.Event
	enqueueWait time.Duration

	mu   sync.RWMutex
	subs map[string]Subscriber

	closeMu sync.RWMutex
	closed  bool
	done    chan struct{}
}

// NewBroadcaster creates a broadcaster with the given intake queue size and
// starts its relay goroutine.
func NewBroadcaster(queueSize int, enqueueWait time.Duration) *Broadcaster {
	b := &Broadcaster{
		intake:      make(chan domains.Event, queueSize),
		enqueueWait: enqueueWait,
		subs:        make(map[string]Subscriber),
		done:        make(chan struct{}),
	}
	go b.run()
	return b
}

// Publish enqueues an event for delivery to all current subscribers. The
// call waits at most enqueueWait on a saturated queue, then drops the event
// with a warning: event delivery is best-effort and must never back-pressure
// command-critical paths. Publishing after Close drops the event.
func (b *Broadcaster) Publish(kind string, payload interface{}) {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		log.Printf("broadcaster: dropping %s event published after close", kind)
		return
	}

	ev := domains.Event{
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	select {
	case b.intake <- ev:
		return
	default:
	}

	timer := time.NewTimer(b.enqueueWait)
	defer timer.Stop()
	select {
	case b.intake <- ev:
	case <-timer.C:
		log.Printf("broadcaster: intake queue full, dropping %s event", kind)
	}
}

// Subscribe registers a subscriber. It receives only events enqueued after
// registration; there is no replay.
func (b *Broadcaster) Subscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[sub.ID()] = sub
}

// Unsubscribe removes a subscriber. Safe to call while the relay is
// delivering.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// SubscriberCount reports the number of registered subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close stops the relay after draining events already enqueued. Safe to call
// more than once; later Publish calls become drops.
func (b *Broadcaster) Close() {
	b.closeMu.Lock()
	if !b.closed {
		b.closed = true
		close(b.intake)
	}
	b.closeMu.Unlock()
	<-b.done
}

func (b *Broadcaster) run() {
	defer close(b.done)
	for ev := range b.intake {
		b.deliver(ev)
	}
}

// deliver pushes one event to every subscriber. Each push is isolated: an
// error or panic from one subscriber is swallowed so the rest still receive
// the event.
func (b *Broadcaster) deliver(ev domains.Event) {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		b.pushOne(sub, ev)
	}
}

func (b *Broadcaster) pushOne(sub Subscriber, ev domains.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("broadcaster: subscriber %s panicked: %v", sub.ID(), r)
		}
	}()
	if err := sub.Push(ev); err != nil {
		log.Printf("broadcaster: push to subscriber %s failed: %v", sub.ID(), err)
	}
}
