package ws

import (
	"encoding/json"
	"fmt"
)

// Client-to-server event names.
const (
	EventUserConnected = "user-connected"
	EventUserOnline    = "user-online"
	EventUserOffline   = "user-offline"
	EventSendMessage   = "send-message"
	EventMarkRead      = "mark-read"
)

// Envelope frames every inbound event as a tagged variant. Payloads are
// validated here, at the boundary, before anything dispatches on them.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ProtocolError marks a malformed inbound event. It is answered to the
// originating connection only and never retried.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return e.Reason
}

func protocolErrorf(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// IdentityPayload carries the user id for session and presence events.
type IdentityPayload struct {
	UserID string `json:"user_id"`
}

// SendPayload is the body of a send-message event. TempID is the client-local
// correlation token echoed back in the ack or error.
type SendPayload struct {
	TempID   string `json:"temp_id"`
	ChatID   string `json:"chat_id"`
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
	FileURL  string `json:"file_url,omitempty"`
}

// ReadPayload is the body of a mark-read event.
type ReadPayload struct {
	ChatID string `json:"chat_id"`
	UserID string `json:"user_id"`
}

// ParseEnvelope decodes the outer event frame.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, protocolErrorf("malformed event: %v", err)
	}
	if env.Event == "" {
		return Envelope{}, protocolErrorf("missing event name")
	}
	return env, nil
}

func decodeIdentity(data json.RawMessage) (IdentityPayload, error) {
	var payload IdentityPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return IdentityPayload{}, protocolErrorf("malformed payload: %v", err)
	}
	if payload.UserID == "" {
		return IdentityPayload{}, protocolErrorf("missing user_id")
	}
	return payload, nil
}

// decodeSend returns whatever decoded even on validation failure so the
// caller can answer with the client's temp id.
func decodeSend(data json.RawMessage) (SendPayload, error) {
	var payload SendPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return SendPayload{}, protocolErrorf("malformed payload: %v", err)
	}
	if payload.ChatID == "" {
		return payload, protocolErrorf("missing chat_id")
	}
	if payload.SenderID == "" {
		return payload, protocolErrorf("missing sender_id")
	}
	if payload.Text == "" {
		return payload, protocolErrorf("missing text")
	}
	return payload, nil
}

func decodeRead(data json.RawMessage) (ReadPayload, error) {
	var payload ReadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ReadPayload{}, protocolErrorf("malformed payload: %v", err)
	}
	if payload.ChatID == "" {
		return payload, protocolErrorf("missing chat_id")
	}
	if payload.UserID == "" {
		return payload, protocolErrorf("missing user_id")
	}
	return payload, nil
}
