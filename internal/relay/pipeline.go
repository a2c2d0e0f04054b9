package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/palu-ai/palu-stream/backend/internal/analysis/emotion"
	chatmodel "github.com/palu-ai/palu-stream/backend/internal/model/chat"
)

// HandleInbound parses one client frame and runs the message pipeline.
// Malformed frames and unknown types are logged and dropped; the connection
// stays open. A panic while handling one message never takes down the hub.
func (h *Hub) HandleInbound(ctx context.Context, sender Connection, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[relay] panic handling message from %s: %v", sender.ID(), r)
		}
	}()

	var msg chatmodel.Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[relay] dropping malformed frame from %s: %v", sender.ID(), err)
		return
	}

	switch msg.Type {
	case chatmodel.EventUserMessage:
		h.handleUserMessage(ctx, sender, msg.Content, msg.Username)
	default:
		log.Printf("[relay] dropping frame with unknown type %q from %s", msg.Type, sender.ID())
	}
}

// handleUserMessage runs the broadcast state machine for one accepted
// viewer message:
//
//	user_message -> max_emotion(thinking) -> max_emotion(derived) ->
//	max_message -> max_emotion(idle)
//
// Stages of one message are strictly ordered; messages from concurrent
// senders interleave arbitrarily.
func (h *Hub) handleUserMessage(ctx context.Context, sender Connection, content, username string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	allowed, retryAfter := h.limiter.Allow(username, h.now())
	if !allowed {
		h.sendTo(sender, chatmodel.ErrorEvent(
			fmt.Sprintf("Please wait %d seconds before sending another message", retryAfter),
			retryAfter,
		))
		return
	}

	userMsg := chatmodel.NewUserMessage(content, username, h.now())
	h.buffer.Append(userMsg)
	h.Broadcast(chatmodel.UserMessageEvent(userMsg))

	// Viewers see the mascot react before the slow provider call returns.
	h.broadcastEmotion(emotion.Thinking)

	reply := h.responder.Respond(ctx, content)

	h.broadcastEmotion(reply.Emotion)

	// Let the animation transition land before the text shows up.
	h.sleep(ctx, h.opts.ReplyDelay)

	maxMsg := chatmodel.NewMaxMessage(reply.Message, reply.Emotion, reply.AudioBase64, h.now())
	h.buffer.Append(maxMsg)
	h.Broadcast(chatmodel.MaxMessageEvent(maxMsg))

	if h.opts.IdleDelay > 0 {
		time.AfterFunc(h.opts.IdleDelay, func() {
			h.broadcastEmotion(emotion.Idle)
		})
	} else {
		h.broadcastEmotion(emotion.Idle)
	}
}

func (h *Hub) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
