package chat

import (
	"strconv"
	"time"

	"github.com/palu-ai/palu-stream/backend/internal/analysis/emotion"
)

// Sender values for Message.Sender.
const (
	SenderUser = "user"
	SenderMax  = "max"
)

// Message is a single chat entry as shown in the stream overlay. Once
// broadcast it is never mutated; the relay and buffer only append copies.
type Message struct {
	ID          string        `json:"id"`
	Message     string        `json:"message"`
	Sender      string        `json:"sender"`
	Username    string        `json:"username,omitempty"`
	Timestamp   string        `json:"timestamp"`
	Emotion     emotion.Label `json:"emotion,omitempty"`
	AudioBase64 string        `json:"audioBase64,omitempty"`
}

// NewUserMessage builds a viewer message stamped with the current time.
func NewUserMessage(content, username string, now time.Time) Message {
	return Message{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Message:   content,
		Sender:    SenderUser,
		Username:  username,
		Timestamp: DisplayTime(now),
	}
}

// NewMaxMessage builds a mascot reply. The ID is offset by one millisecond
// so a reply never collides with the user message it answers.
func NewMaxMessage(content string, label emotion.Label, audioBase64 string, now time.Time) Message {
	return Message{
		ID:          strconv.FormatInt(now.UnixMilli()+1, 10),
		Message:     content,
		Sender:      SenderMax,
		Timestamp:   DisplayTime(now),
		Emotion:     label,
		AudioBase64: audioBase64,
	}
}

// DisplayTime renders the wall-clock label shown next to each message.
func DisplayTime(t time.Time) string {
	return t.Format("15:04")
}
