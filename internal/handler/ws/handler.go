package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palu-ai/palu-stream/backend/internal/relay"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Handler upgrades viewers onto the relay hub.
type Handler struct {
	hub      *relay.Hub
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(hub *relay.Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	client := newConn(uuid.NewString(), conn, h.hub)
	client.start(r.Context())
}

// conn adapts a gorilla websocket to relay.Connection. Writes go through a
// buffered channel because gorilla allows only one concurrent writer.
type conn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
	hub  *relay.Hub
}

func newConn(id string, ws *websocket.Conn, hub *relay.Hub) *conn {
	return &conn{
		id:   id,
		ws:   ws,
		send: make(chan []byte, 256),
		hub:  hub,
	}
}

func (c *conn) ID() string { return c.id }

// Send queues a frame for delivery. A full queue means the client stopped
// reading; the frame is dropped and the write pump will tear the
// connection down on the next deadline.
func (c *conn) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return websocket.ErrCloseSent
	}
}

func (c *conn) Close() error {
	return c.ws.Close()
}

func (c *conn) start(ctx context.Context) {
	c.hub.Register(c)
	go c.writePump()
	c.readPump(ctx)
}

func (c *conn) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ws] read error id=%s: %v", c.id, err)
			}
			return
		}

		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		c.hub.HandleInbound(ctx, c, data)
	}
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
