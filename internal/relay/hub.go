package relay

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/palu-ai/palu-stream/backend/internal/analysis/emotion"
	chatmodel "github.com/palu-ai/palu-stream/backend/internal/model/chat"
	"github.com/palu-ai/palu-stream/backend/internal/service/ai"
	chatservice "github.com/palu-ai/palu-stream/backend/internal/service/chat"
	"github.com/palu-ai/palu-stream/backend/internal/service/ratelimit"
)

// Connection is one live viewer. The websocket adapter implements it; tests
// substitute fakes.
type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Responder produces the mascot reply for a viewer message.
type Responder interface {
	Respond(ctx context.Context, userText string) ai.Reply
}

// Options tunes the relay pipeline.
type Options struct {
	// ReplyDelay separates the emotion broadcast from the reply text so the
	// animation transition lands before the message appears.
	ReplyDelay time.Duration
	// IdleDelay is how long after the reply the mascot returns to idle.
	IdleDelay time.Duration
}

// Hub owns the connection set and fans every state transition out to all
// connected viewers.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]Connection

	responder Responder
	buffer    *chatservice.Buffer
	limiter   *ratelimit.Limiter
	opts      Options

	now func() time.Time
}

// New wires the hub to its collaborators.
func New(responder Responder, buffer *chatservice.Buffer, limiter *ratelimit.Limiter, opts Options) *Hub {
	return &Hub{
		conns:     make(map[string]Connection),
		responder: responder,
		buffer:    buffer,
		limiter:   limiter,
		opts:      opts,
		now:       time.Now,
	}
}

// Register adds a viewer, greets it and announces the new viewer count.
func (h *Hub) Register(conn Connection) {
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	count := len(h.conns)
	h.mu.Unlock()

	log.Printf("[relay] client connected id=%s viewers=%d", conn.ID(), count)

	h.sendTo(conn, chatmodel.ConnectionEvent())
	h.Broadcast(chatmodel.ViewerCountEvent(count))
}

// Unregister removes a viewer and announces the shrunken viewer count.
func (h *Hub) Unregister(conn Connection) {
	h.mu.Lock()
	if _, ok := h.conns[conn.ID()]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, conn.ID())
	count := len(h.conns)
	h.mu.Unlock()

	log.Printf("[relay] client disconnected id=%s viewers=%d", conn.ID(), count)

	h.Broadcast(chatmodel.ViewerCountEvent(count))
}

// ViewerCount returns the current size of the connection set. Viewers are
// counted per connection, not per distinct user.
func (h *Hub) ViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends one event to every open connection. A failed send is
// logged and never aborts delivery to the rest; the dead connection will be
// reaped by its own read loop.
func (h *Hub) Broadcast(event chatmodel.Event) {
	data, err := event.Encode()
	if err != nil {
		log.Printf("[relay] encode %s event failed: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	targets := make([]Connection, 0, len(h.conns))
	for _, conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.Send(data); err != nil {
			log.Printf("[relay] send to %s failed: %v", conn.ID(), err)
		}
	}
}

// sendTo delivers an event to a single connection.
func (h *Hub) sendTo(conn Connection, event chatmodel.Event) {
	data, err := event.Encode()
	if err != nil {
		log.Printf("[relay] encode %s event failed: %v", event.Type, err)
		return
	}
	if err := conn.Send(data); err != nil {
		log.Printf("[relay] send to %s failed: %v", conn.ID(), err)
	}
}

// broadcastEmotion is a shorthand for mood transitions.
func (h *Hub) broadcastEmotion(label emotion.Label) {
	h.Broadcast(chatmodel.EmotionEvent(label))
}
