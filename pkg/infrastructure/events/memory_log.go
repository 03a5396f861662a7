package events

import (
	"sync"
	"time"
)

// Log is an append-only in-memory record of production events. The engine
// itself is single-writer; the mutex only guards readers that inspect the
// log while an operation sequence runs elsewhere.
type Log struct {
	mu      sync.RWMutex
	all     []Event
	streams map[string][]Event
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{streams: make(map[string][]Event)}
}

// Append records an event, stamping it if the caller left OccurredAt zero.
func (l *Log) Append(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, event)
	l.streams[event.StreamID] = append(l.streams[event.StreamID], event)
}

// Stream returns the events recorded for one stream, oldest first.
func (l *Log) Stream(id string) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.streams[id]))
	copy(out, l.streams[id])
	return out
}

// All returns every recorded event, oldest first.
func (l *Log) All() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.all))
	copy(out, l.all)
	return out
}
