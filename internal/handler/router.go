package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	chathandler "github.com/palu-ai/palu-stream/backend/internal/handler/chat"
	wshandler "github.com/palu-ai/palu-stream/backend/internal/handler/ws"
	"github.com/palu-ai/palu-stream/backend/internal/relay"
	chatservice "github.com/palu-ai/palu-stream/backend/internal/service/chat"
	"github.com/palu-ai/palu-stream/backend/internal/service/ratelimit"
	"github.com/palu-ai/palu-stream/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(hub *relay.Hub, buffer *chatservice.Buffer, limiter *ratelimit.Limiter, responder relay.Responder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	wsHandler := wshandler.New(hub)
	wsHandler.RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		chatHandler := chathandler.New(buffer, limiter, responder, hub)
		chatHandler.RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
