package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/richedit/internal/event/topic"
)

// Event is a typed notification.
type Event[T any] struct {
	// Type is the hierarchical topic, e.g. "editor.object.selected".
	Type topic.Topic

	// Payload carries the event data.
	Payload T

	Metadata Metadata
}

// Metadata is attached to every event.
type Metadata struct {
	ID        string
	Timestamp time.Time
	// Source names the publishing component.
	Source string
}

// NewEvent creates an event with fresh metadata.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// EventPayload returns the payload as any.
func (e Event[T]) EventPayload() any {
	return e.Payload
}

// TopicProvider is implemented by events the bus can route.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// PayloadProvider is implemented by events that expose a type-erased payload.
type PayloadProvider interface {
	EventPayload() any
}
