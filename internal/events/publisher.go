package events

import (
	"context"
)

// Message is one event to publish. Value is JSON encoded.
type Message struct {
	Key   string
	Value interface{}
}

// Publisher sends events to a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, msg Message) error
	Close() error
}

// NopPublisher drops every message. Used when Kafka is disabled.
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, string, Message) error { return nil }

// Close implements Publisher
func (NopPublisher) Close() error { return nil }
