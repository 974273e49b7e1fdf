package events

import (
	"context"
	"sync"
	"time"
)

// Memory is an append-only in-process Publisher. Tests use it as a spy;
// single-node deployments use it as a bounded recent-activity feed.
type Memory struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

// NewMemory builds a memory publisher retaining at most limit events
// (oldest dropped first). limit <= 0 retains everything.
func NewMemory(limit int) *Memory {
	return &Memory{limit: limit}
}

func (m *Memory) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	if m.limit > 0 && len(m.events) > m.limit {
		m.events = m.events[len(m.events)-m.limit:]
	}
	return nil
}

// ListByUser returns the retained events for one user, oldest first.
func (m *Memory) ListByUser(_ context.Context, userID string) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Event, 0)
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// All returns every retained event, oldest first.
func (m *Memory) All() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
