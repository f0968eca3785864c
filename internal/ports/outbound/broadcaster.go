package outbound

import (
	"context"

	"github.com/google/uuid"
)

// EventType represents the type of event being broadcasted
type EventType string

const (
	EventTypeItemCreated EventType = "item.created"
	EventTypeItemDeleted EventType = "item.deleted"
)

// Topic names a broadcast stream
type Topic string

const (
	// TopicItems carries inserts and deletes on the items collection
	TopicItems Topic = "items"
)

// Event represents a broadcast event
type Event struct {
	Type      EventType              `json:"type"`
	ItemID    uuid.UUID              `json:"item_id"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// Broadcaster defines the interface for broadcasting events
type Broadcaster interface {
	// Subscribe subscribes a client to a topic
	// When a client subscribes to multiple topics, all events are delivered to the same channel
	Subscribe(ctx context.Context, topic Topic, clientID string, eventChan chan Event) error

	// Unsubscribe unsubscribes a client from a topic
	Unsubscribe(ctx context.Context, topic Topic, clientID string) error

	// Publish publishes an event to all subscribers of a topic
	Publish(ctx context.Context, topic Topic, event Event) error

	// IsSubscribed checks if a client is subscribed to a topic
	IsSubscribed(ctx context.Context, topic Topic, clientID string) bool
}
