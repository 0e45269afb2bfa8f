package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/baekilha/baekilha/pkg/types"
)

// Message types carried over the notification channel.
const (
	TypeCalculatedData     = "calculated_data_distribution"
	TypeResetToOriginal    = "data_reset_to_original"
	TypeConnectionCheck    = "connection_check"
	TypeConnectionResponse = "connection_response"
)

// ErrMalformed marks a payload that failed defensive parsing. Malformed
// messages are counted and dropped, never surfaced to subscribers.
var ErrMalformed = errors.New("malformed message")

// Message is one notification. Timestamp is milliseconds since epoch and,
// together with Type, forms the dedup key across transports.
type Message struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	SenderID  string `json:"sender_id,omitempty"`

	// Kind scopes data messages to one entity kind.
	Kind types.EntityKind `json:"kind,omitempty"`

	// Entries and Weights ride on calculated_data_distribution.
	Entries []types.CalculatedEntry `json:"entries,omitempty"`
	Weights map[string]float64      `json:"weights,omitempty"`

	// Status and DataMode ride on connection_response.
	Status   string         `json:"status,omitempty"`
	DataMode types.DataMode `json:"data_mode,omitempty"`
}

// Key is the dedup identity of a message. The same logical message arriving
// over both transports maps to one key.
func (m *Message) Key() string {
	return fmt.Sprintf("%s/%d", m.Type, m.Timestamp)
}

// IsData reports whether the message changes ranking state (as opposed to
// the handshake types). Only data messages are persisted.
func (m *Message) IsData() bool {
	return m.Type == TypeCalculatedData || m.Type == TypeResetToOriginal
}

// NewMessage stamps a message of the given type with the current time.
func NewMessage(msgType, senderID string) *Message {
	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		SenderID:  senderID,
	}
}

// Parse defensively decodes a wire payload. Null payloads, non-objects, and
// messages with a missing or unknown type all return ErrMalformed.
func Parse(data []byte) (*Message, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, ErrMalformed
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch msg.Type {
	case TypeCalculatedData, TypeResetToOriginal, TypeConnectionCheck, TypeConnectionResponse:
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, msg.Type)
	}

	if msg.Timestamp <= 0 {
		return nil, fmt.Errorf("%w: missing timestamp", ErrMalformed)
	}
	return &msg, nil
}

// Encode serializes a message for the wire.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}
