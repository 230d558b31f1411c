package websocket

import "time"

// Envelope wraps every payload pushed over a socket so the client can
// dispatch on the type field.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Envelope types used by the chat.
const (
	EventChatMessage = "chat.message"
	EventChatRead    = "chat.read"
)
