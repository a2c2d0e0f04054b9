package chat

import (
	"encoding/json"

	"github.com/palu-ai/palu-stream/backend/internal/analysis/emotion"
)

// Event types carried on the websocket, server to client.
const (
	EventConnection  = "connection"
	EventUserMessage = "user_message"
	EventMaxMessage  = "max_message"
	EventMaxEmotion  = "max_emotion"
	EventViewerCount = "viewer_count"
	EventError       = "error"
)

// Event is the envelope for every server-to-client frame.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound is a client-to-server frame. Fields other than Type are only
// meaningful for user_message.
type Inbound struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Username string `json:"username"`
}

// ConnectionEvent greets a client right after the upgrade.
func ConnectionEvent() Event {
	return Event{Type: EventConnection, Data: map[string]string{
		"message": "Connected to Palu AI Stream",
	}}
}

// UserMessageEvent wraps an accepted viewer message.
func UserMessageEvent(msg Message) Event {
	return Event{Type: EventUserMessage, Data: msg}
}

// MaxMessageEvent wraps a mascot reply.
func MaxMessageEvent(msg Message) Event {
	return Event{Type: EventMaxMessage, Data: msg}
}

// EmotionEvent announces a mood change for the mascot animation.
func EmotionEvent(label emotion.Label) Event {
	return Event{Type: EventMaxEmotion, Data: map[string]emotion.Label{
		"emotion": label,
	}}
}

// ViewerCountEvent carries the size of the live connection set.
func ViewerCountEvent(count int) Event {
	return Event{Type: EventViewerCount, Data: map[string]int{
		"count": count,
	}}
}

// ErrorEvent notifies a single sender, currently only for cooldown rejects.
func ErrorEvent(message string, retryAfter int) Event {
	return Event{Type: EventError, Data: map[string]any{
		"message":    message,
		"retryAfter": retryAfter,
	}}
}

// Encode marshals the event for the wire. Marshal failure is a programming
// error on our own payload types, so the frame is dropped by the caller.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
