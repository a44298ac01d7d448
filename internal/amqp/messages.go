package amqp

import (
	"encoding/json"
	"time"

	"legtrack/internal/events"
)

// EventMessage is the wire form of a tracker lifecycle event relayed to
// the exchange.
type EventMessage struct {
	Topic      string    `json:"topic"`
	Key        string    `json:"key"`
	CategoryID string    `json:"category_id,omitempty"`
	Count      int       `json:"count"`
	At         time.Time `json:"at"`
}

func NewEventMessage(e events.Event) *EventMessage {
	return &EventMessage{
		Topic:      string(e.Topic),
		Key:        e.Key(),
		CategoryID: e.CategoryID,
		Count:      e.Count,
		At:         e.At,
	}
}

func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
