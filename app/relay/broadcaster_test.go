package relay

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"botops-svc/app/domains"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSubscriber collects every event it is pushed.
type recordingSubscriber struct {
	id string

	mu     sync.Mutex
	events []domains.Event
}

func (s *recordingSubscriber) ID() string { return s.id }

func (s *recordingSubscriber) Push(ev domains.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSubscriber) received() []domains.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domains.Event, len(s.events))
	copy(out, s.events)
	return out
}

// failingSubscriber always errors on push.
type failingSubscriber struct{ id string }

func (s *failingSubscriber) ID() string                  { return s.id }
func (s *failingSubscriber) Push(ev domains.Event) error { return fmt.Errorf("connection gone") }

// panickySubscriber panics on push.
type panickySubscriber struct{ id string }

func (s *panickySubscriber) ID() string                  { return s.id }
func (s *panickySubscriber) Push(ev domains.Event) error { panic("subscriber bug") }

// stalledSubscriber blocks until released, to wedge the relay goroutine.
type stalledSubscriber struct {
	id      string
	release chan struct{}
}

func (s *stalledSubscriber) ID() string { return s.id }
func (s *stalledSubscriber) Push(ev domains.Event) error {
	<-s.release
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestBroadcasterDelivery(t *testing.T) {
	t.Run("delivers to all subscribers in enqueue order", func(t *testing.T) {
		b := NewBroadcaster(16, 10*time.Millisecond)
		defer b.Close()

		sub1 := &recordingSubscriber{id: "sub1"}
		sub2 := &recordingSubscriber{id: "sub2"}
		b.Subscribe(sub1)
		b.Subscribe(sub2)

		b.Publish(domains.EventNewLog, "first")
		b.Publish(domains.EventNewCommand, "second")

		waitFor(t, func() bool { return len(sub1.received()) == 2 && len(sub2.received()) == 2 })

		for _, sub := range []*recordingSubscriber{sub1, sub2} {
			events := sub.received()
			assert.Equal(t, domains.EventNewLog, events[0].Kind)
			assert.Equal(t, domains.EventNewCommand, events[1].Kind)
		}
	})

	t.Run("events carry kind, payload and timestamp", func(t *testing.T) {
		b := NewBroadcaster(16, 10*time.Millisecond)
		defer b.Close()

		sub := &recordingSubscriber{id: "sub"}
		b.Subscribe(sub)
		b.Publish(domains.EventBotUpdate, map[string]interface{}{"bot_id": "botA"})

		waitFor(t, func() bool { return len(sub.received()) == 1 })
		ev := sub.received()[0]
		assert.Equal(t, domains.EventBotUpdate, ev.Kind)
		assert.False(t, ev.Timestamp.IsZero())
	})
}

func TestBroadcasterIsolation(t *testing.T) {
	t.Run("failing subscriber does not starve the others", func(t *testing.T) {
		b := NewBroadcaster(16, 10*time.Millisecond)
		defer b.Close()

		b.Subscribe(&failingSubscriber{id: "broken"})
		healthy := &recordingSubscriber{id: "healthy"}
		b.Subscribe(healthy)

		for i := 0; i < 5; i++ {
			b.Publish(domains.EventNewLog, i)
		}

		waitFor(t, func() bool { return len(healthy.received()) == 5 })
	})

	t.Run("panicking subscriber does not kill the relay", func(t *testing.T) {
		b := NewBroadcaster(16, 10*time.Millisecond)
		defer b.Close()

		b.Subscribe(&panickySubscriber{id: "panicky"})
		healthy := &recordingSubscriber{id: "healthy"}
		b.Subscribe(healthy)

		b.Publish(domains.EventNewLog, "x")
		b.Publish(domains.EventNewLog, "y")

		waitFor(t, func() bool { return len(healthy.received()) == 2 })
	})
}

func TestBroadcasterSubscriptionLifecycle(t *testing.T) {
	t.Run("unsubscribed subscriber stops receiving", func(t *testing.T) {
		b := NewBroadcaster(16, 10*time.Millisecond)
		defer b.Close()

		sub := &recordingSubscriber{id: "sub"}
		b.Subscribe(sub)
		b.Publish(domains.EventNewLog, "before")
		waitFor(t, func() bool { return len(sub.received()) == 1 })

		b.Unsubscribe("sub")
		b.Publish(domains.EventNewLog, "after")

		// give the relay a moment to (not) deliver
		time.Sleep(50 * time.Millisecond)
		assert.Len(t, sub.received(), 1)
	})

	t.Run("late subscriber sees no replay", func(t *testing.T) {
		b := NewBroadcaster(16, 10*time.Millisecond)
		defer b.Close()

		early := &recordingSubscriber{id: "early"}
		b.Subscribe(early)
		b.Publish(domains.EventNewLog, "old")
		waitFor(t, func() bool { return len(early.received()) == 1 })

		late := &recordingSubscriber{id: "late"}
		b.Subscribe(late)
		b.Publish(domains.EventNewLog, "new")

		waitFor(t, func() bool { return len(late.received()) == 1 })
		assert.Equal(t, "new", late.received()[0].Payload)
	})

	t.Run("subscriber count tracks registrations", func(t *testing.T) {
		b := NewBroadcaster(16, 10*time.Millisecond)
		defer b.Close()

		assert.Equal(t, 0, b.SubscriberCount())
		b.Subscribe(&recordingSubscriber{id: "a"})
		b.Subscribe(&recordingSubscriber{id: "b"})
		assert.Equal(t, 2, b.SubscriberCount())
		b.Unsubscribe("a")
		assert.Equal(t, 1, b.SubscriberCount())
	})
}

func TestBroadcasterClose(t *testing.T) {
	t.Run("publish after close drops instead of panicking", func(t *testing.T) {
		b := NewBroadcaster(4, 5*time.Millisecond)
		sub := &recordingSubscriber{id: "sub"}
		b.Subscribe(sub)
		b.Close()

		assert.NotPanics(t, func() { b.Publish(domains.EventNewLog, "late") })
		assert.Empty(t, sub.received())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		b := NewBroadcaster(4, 5*time.Millisecond)
		assert.NotPanics(t, func() {
			b.Close()
			b.Close()
		})
	})
}

func TestBroadcasterBackpressure(t *testing.T) {
	t.Run("publish drops instead of blocking when the queue is saturated", func(t *testing.T) {
		stalled := &stalledSubscriber{id: "stalled", release: make(chan struct{})}
		b := NewBroadcaster(2, 5*time.Millisecond)
		b.Subscribe(stalled)

		// First event wedges the relay; the rest fill and then overflow
		// the intake queue.
		start := time.Now()
		for i := 0; i < 10; i++ {
			b.Publish(domains.EventNewLog, i)
		}
		elapsed := time.Since(start)

		// 10 publishes against a wedged queue must cost at most roughly
		// 10 bounded waits, not block indefinitely.
		require.Less(t, elapsed, time.Second)

		close(stalled.release)
		b.Close()
	})
}
