package chat

import (
	"sync"
	"time"

	chatmodel "github.com/palu-ai/palu-stream/backend/internal/model/chat"
	"github.com/palu-ai/palu-stream/backend/internal/model/persona"
)

// Buffer retains the most recent chat messages for the polling fallback
// and for late joiners. Oldest entries are evicted past the limit.
type Buffer struct {
	mu       sync.RWMutex
	limit    int
	messages []chatmodel.Message
}

// NewBuffer bootstraps the in-memory history, seeded with the mascot's
// opening line so an empty stream still greets the first viewer.
func NewBuffer(limit int, p persona.Persona) *Buffer {
	b := &Buffer{
		limit:    limit,
		messages: make([]chatmodel.Message, 0, limit),
	}
	if p.OpeningLine != "" {
		b.Append(chatmodel.Message{
			ID:        "1",
			Message:   p.OpeningLine,
			Sender:    chatmodel.SenderMax,
			Timestamp: chatmodel.DisplayTime(time.Now()),
		})
	}
	return b
}

// Append stores a message, trimming to the retention limit.
func (b *Buffer) Append(msg chatmodel.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = append(b.messages, msg)
	if len(b.messages) > b.limit {
		b.messages = b.messages[len(b.messages)-b.limit:]
	}
}

// Snapshot returns a copy of the retained messages.
func (b *Buffer) Snapshot() []chatmodel.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	copied := make([]chatmodel.Message, len(b.messages))
	copy(copied, b.messages)
	return copied
}

// Len returns the number of retained messages.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages)
}
