package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/palu-ai/palu-stream/backend/internal/model/chat"
	"github.com/palu-ai/palu-stream/backend/internal/relay"
	chatservice "github.com/palu-ai/palu-stream/backend/internal/service/chat"
	"github.com/palu-ai/palu-stream/backend/internal/service/ratelimit"
	"github.com/palu-ai/palu-stream/backend/pkg/utils"
)

// Handler serves the polling fallback for clients without websocket
// support. GET returns a snapshot, POST appends a user message and a
// generated reply.
type Handler struct {
	buffer    *chatservice.Buffer
	limiter   *ratelimit.Limiter
	responder relay.Responder
	hub       *relay.Hub
	now       func() time.Time
}

// New creates the REST chat handler. hub may be nil in tests; the viewer
// count then reports zero.
func New(buffer *chatservice.Buffer, limiter *ratelimit.Limiter, responder relay.Responder, hub *relay.Hub) *Handler {
	return &Handler{
		buffer:    buffer,
		limiter:   limiter,
		responder: responder,
		hub:       hub,
		now:       time.Now,
	}
}

// RegisterRoutes mounts the fallback endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat", h.handleSnapshot)
	r.Post("/chat", h.handleSend)
}

// handleSnapshot returns the retained messages and the live viewer count.
func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	count := 0
	if h.hub != nil {
		count = h.hub.ViewerCount()
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"messages":    h.buffer.Snapshot(),
		"viewerCount": count,
	})
}

// handleSend accepts one user message and answers with the mascot reply.
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content  string `json:"content"`
		Username string `json:"username"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Content == "" || payload.Username == "" {
		utils.RespondError(w, http.StatusBadRequest, "Content and username are required")
		return
	}

	allowed, retryAfter := h.limiter.Allow(payload.Username, h.now())
	if !allowed {
		utils.RespondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":      fmt.Sprintf("Please wait %d seconds before sending another message", retryAfter),
			"retryAfter": retryAfter,
		})
		return
	}

	userMsg := chatmodel.NewUserMessage(payload.Content, payload.Username, h.now())
	h.buffer.Append(userMsg)

	reply := h.responder.Respond(r.Context(), payload.Content)
	maxMsg := chatmodel.NewMaxMessage(reply.Message, reply.Emotion, reply.AudioBase64, h.now())
	h.buffer.Append(maxMsg)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": maxMsg,
	})
}
