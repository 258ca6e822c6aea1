package chatvolt

import (
	"encoding/json"
	"errors"
)

// EventType identifies a webhook event. Unknown types are acknowledged
// without processing, so this enumeration is closed only for dispatch.
type EventType string

const (
	EventMessageReceived     EventType = "message.received"
	EventConversationStarted EventType = "conversation.started"
	EventConversationEnded   EventType = "conversation.ended"
	EventContactCreated      EventType = "contact.created"
)

// Envelope is the outer structure of every webhook delivery.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseEnvelope decodes the raw webhook body.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Type == "" {
		return nil, errors.New("event type missing")
	}
	return &env, nil
}

// EventContact is the contact block embedded in conversation and contact events.
type EventContact struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`
	Tags  []string `json:"tags"`
}

// IsEmpty reports whether no identity field is present. An empty contact
// never reaches the store.
func (c *EventContact) IsEmpty() bool {
	return c == nil || (c.Name == "" && c.Email == "" && c.Phone == "")
}

// MessageReceivedData is the payload of a message.received event.
type MessageReceivedData struct {
	ConversationID string                 `json:"conversation_id"`
	MessageID      string                 `json:"message_id"`
	MessageText    string                 `json:"message_text"`
	MessageType    string                 `json:"message_type"`
	SenderType     string                 `json:"sender_type"`
	Metadata       map[string]interface{} `json:"metadata"`
	Contact        *EventContact          `json:"contact"`
}

// ConversationData is the payload of conversation.started and
// conversation.ended events.
type ConversationData struct {
	ConversationID string        `json:"conversation_id"`
	Contact        *EventContact `json:"contact"`
}
