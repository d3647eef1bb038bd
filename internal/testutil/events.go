package testutil

import (
	"context"
	"sync"
)

type RecordedEvent struct {
	Topic string
	Key   string
	Event any
}

// EventRecorder is an in-memory events.Publisher.
type EventRecorder struct {
	mu     sync.Mutex
	events []RecordedEvent
	Err    error
}

func (r *EventRecorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, RecordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *EventRecorder) Close() error { return nil }

func (r *EventRecorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedEvent(nil), r.events...)
}

// Types returns the "type" field of every recorded map event, in order.
func (r *EventRecorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		if m, ok := e.Event.(map[string]any); ok {
			if s, ok := m["type"].(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
