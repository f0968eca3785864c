package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeSubscribeItems   MessageType = "subscribe_items"
	MessageTypeUnsubscribeItems MessageType = "unsubscribe_items"
	MessageTypeSearch           MessageType = "search"
	MessageTypeToggleSave       MessageType = "toggle_save"
	MessageTypePing             MessageType = "ping"

	// Server to Client message types
	MessageTypeItemCreated   MessageType = "item_created"
	MessageTypeItemDeleted   MessageType = "item_deleted"
	MessageTypeSearchResults MessageType = "search_results"
	MessageTypeSaveToggled   MessageType = "save_toggled"
	MessageTypeSubscribed    MessageType = "subscribed"
	MessageTypeUnsubscribed  MessageType = "unsubscribed"
	MessageTypeError         MessageType = "error"
	MessageTypePong          MessageType = "pong"
)

// ClientMessage represents a message sent from client to server.
// Spec is the search for "search" and the optional feed filter for "subscribe_items".
type ClientMessage struct {
	Type      MessageType  `json:"type"`
	RequestID string       `json:"request_id,omitempty"`
	ItemID    *uuid.UUID   `json:"item_id,omitempty"`
	Spec      *search.Spec `json:"spec,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType            `json:"type"`
	RequestID string                 `json:"request_id,omitempty"`
	ItemID    *uuid.UUID             `json:"item_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]interface{}),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string, requestID string) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		RequestID: requestID,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// NewSearchResultsMessage answers the search identified by requestID
func NewSearchResultsMessage(requestID string, items []*item.Item) *ServerMessage {
	msg := NewServerMessage(MessageTypeSearchResults)
	msg.RequestID = requestID
	msg.Data["items"] = items
	msg.Data["count"] = len(items)
	return msg
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeSubscribeItems:
		if m.Spec != nil {
			return m.Spec.Normalize().Validate()
		}
	case MessageTypeUnsubscribeItems, MessageTypePing:

	case MessageTypeSearch:
		if m.RequestID == "" {
			return shared.ErrRequestIDRequired
		}
	case MessageTypeToggleSave:
		if m.ItemID == nil || *m.ItemID == uuid.Nil {
			return shared.ErrItemIDRequired
		}
	default:
		return shared.ErrUnknownMessageType
	}

	return nil
}

// itemFromEvent rebuilds the item carried by a live feed event
func itemFromEvent(data map[string]interface{}) (*item.Item, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var it item.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, fmt.Errorf("failed to decode item event: %w", err)
	}
	return &it, nil
}
