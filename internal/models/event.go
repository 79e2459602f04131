package models

import "time"

// Server-to-client event names.
const (
	EventMessageAck       = "message-ack"
	EventMessageDelivered = "message-delivered"
	EventMessageError     = "message-error"
	EventStatusUpdate     = "status-update"
	EventMarkReadSuccess  = "mark-read-success"
	EventMarkReadError    = "mark-read-error"
	EventError            = "error"
)

// ServerEvent is pushed through websocket connections.
type ServerEvent struct {
	Event    string     `json:"event"`
	Message  *Message   `json:"message,omitempty"`
	TempID   string     `json:"temp_id,omitempty"`
	Reason   string     `json:"reason,omitempty"`
	ChatID   string     `json:"chat_id,omitempty"`
	UserID   string     `json:"user_id,omitempty"`
	Online   *bool      `json:"online,omitempty"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// MessageAckEvent confirms a persisted send to its originating connection.
func MessageAckEvent(msg Message, tempID string) ServerEvent {
	return ServerEvent{Event: EventMessageAck, Message: &msg, TempID: tempID}
}

// MessageDeliveredEvent carries a confirmed message to a recipient.
func MessageDeliveredEvent(msg Message) ServerEvent {
	return ServerEvent{Event: EventMessageDelivered, Message: &msg}
}

// MessageErrorEvent reports a failed send, tagged with the client tempId.
func MessageErrorEvent(tempID, reason string) ServerEvent {
	return ServerEvent{Event: EventMessageError, TempID: tempID, Reason: reason}
}

// StatusUpdateEvent announces a presence change.
func StatusUpdateEvent(userID string, online bool, lastSeen *time.Time) ServerEvent {
	return ServerEvent{Event: EventStatusUpdate, UserID: userID, Online: &online, LastSeen: lastSeen}
}

// MarkReadSuccessEvent confirms a read receipt to its requester.
func MarkReadSuccessEvent(chatID, userID string) ServerEvent {
	return ServerEvent{Event: EventMarkReadSuccess, ChatID: chatID, UserID: userID}
}

// MarkReadErrorEvent reports a failed read receipt.
func MarkReadErrorEvent(reason string) ServerEvent {
	return ServerEvent{Event: EventMarkReadError, Reason: reason}
}

// ErrorEvent reports a rejected inbound event that has no dedicated error
// counterpart.
func ErrorEvent(reason string) ServerEvent {
	return ServerEvent{Event: EventError, Reason: reason}
}
