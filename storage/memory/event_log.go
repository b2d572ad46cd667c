package memory

import (
	"sync"

	"botops-svc/app/domains"
)

// ring is a fixed-capacity append-only buffer. Appending past capacity
// evicts from the head. Not safe for concurrent use; callers lock.
type ring[T any] struct {
	entries []T
	limit   int
}

func newRing[T any](limit int) ring[T] {
	return ring[T]{limit: limit}
}

func (r *ring[T]) append(entry T) {
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.limit {
		r.entries = r.entries[1:]
	}
}

// recent returns the newest entries matching keep, at most limit, in
// chronological order.
func (r *ring[T]) recent(limit int, keep func(T) bool) []T {
	matched := make([]T, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(matched) < limit; i-- {
		if keep(r.entries[i]) {
			matched = append(matched, r.entries[i])
		}
	}
	// reverse back into chronological order
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched
}

// EventLog keeps the most recent N log entries in memory for replay-on-query.
type EventLog struct {
	mu  sync.Mutex
	buf ring[domains.LogEntry]
}

// NewEventLog creates an event log holding at most limit entries.
func NewEventLog(limit int) *EventLog {
	return &EventLog{buf: newRing[domains.LogEntry](limit)}
}

// Append adds an entry, evicting the oldest one on overflow.
func (l *EventLog) Append(entry domains.LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.append(entry)
}

// Query returns up to limit most recent entries in chronological order,
// filtered by bot when botID is non-empty.
func (l *EventLog) Query(botID string, limit int) []domains.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.recent(limit, func(e domains.LogEntry) bool {
		return botID == "" || e.BotID == botID
	})
}

// Len reports the number of retained entries.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buf.entries)
}

// MessageLog keeps the most recent M bot messages, independent of the event
// log so chat traffic cannot evict operational logs.
type MessageLog struct {
	mu  sync.Mutex
	buf ring[domains.Message]
}

// NewMessageLog creates a message log holding at most limit messages.
func NewMessageLog(limit int) *MessageLog {
	return &MessageLog{buf: newRing[domains.Message](limit)}
}

// Append adds a message, evicting the oldest one on overflow.
func (l *MessageLog) Append(msg domains.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.append(msg)
}

// Query returns up to limit most recent messages in chronological order,
// filtered by bot when botID is non-empty.
func (l *MessageLog) Query(botID string, limit int) []domains.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.recent(limit, func(m domains.Message) bool {
		return botID == "" || m.BotID == botID
	})
}

// Len reports the number of retained messages.
func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buf.entries)
}
