package events

import (
	"encoding/json"
	"time"
)

const (
	TypeMessageSent      = "message.sent"
	TypeMessageDelivered = "message.delivered"
	TypeMessageRead      = "message.read"
	TypeMessageEdited    = "message.edited"
	TypeMessageDeleted   = "message.deleted"
	TypeReactionUpdated  = "reaction.updated"
	TypeTyping           = "typing"
	TypePresenceChanged  = "presence.changed"
)

// Envelope is the wire shape published to Kafka and forwarded verbatim to
// websocket clients. UserID keys the fan-out: only that user's live
// connections receive the event.
type Envelope struct {
	Type           string          `json:"type"`
	UserID         string          `json:"user_id"`
	ConversationID string          `json:"conversation_id,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	At             time.Time       `json:"at"`
}

func NewEnvelope(typ, userID, convID string, payload any) (*Envelope, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Envelope{
		Type:           typ,
		UserID:         userID,
		ConversationID: convID,
		Payload:        raw,
		At:             time.Now().UTC(),
	}, nil
}
