// Package watermill bridges sessionkit session events onto a Watermill
// message publisher, so embedding services can fan them out over whatever
// broker the publisher is backed by.
package watermill

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/fincue/sessionkit"
)

const defaultTopic = "sessionkit.events"

// Sink defines a public type used by sessionkit APIs.
//
// Sink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Sink struct {
	publisher message.Publisher
	topic     string
}

// Option defines a public type used by sessionkit APIs.
type Option func(*Sink)

// WithTopic overrides the topic events are published to.
//
// WithTopic does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func WithTopic(topic string) Option {
	return func(s *Sink) {
		s.topic = topic
	}
}

// New returns a sink publishing session events to the given publisher.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(publisher message.Publisher, opts ...Option) *Sink {
	s := &Sink{
		publisher: publisher,
		topic:     defaultTopic,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Emit publishes the event as a JSON payload keyed by the event ID. Publish
// failures are swallowed; events are advisory and must never fail a session
// operation.
//
// Emit does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Sink) Emit(_ context.Context, event sessionkit.SessionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	msg := message.NewMessage(event.ID, payload)

	_ = s.publisher.Publish(s.topic, msg)
}
