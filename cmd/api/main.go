package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/palu-ai/palu-stream/backend/internal/config"
	"github.com/palu-ai/palu-stream/backend/internal/handler"
	"github.com/palu-ai/palu-stream/backend/internal/model/persona"
	"github.com/palu-ai/palu-stream/backend/internal/relay"
	"github.com/palu-ai/palu-stream/backend/internal/service/ai"
	chatservice "github.com/palu-ai/palu-stream/backend/internal/service/chat"
	"github.com/palu-ai/palu-stream/backend/internal/service/ratelimit"
	"github.com/palu-ai/palu-stream/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	mascot := persona.Default()

	// Provider chain: Ark first, OpenRouter as fallback. Missing credentials
	// just shorten the chain; the canned reply covers an empty one.
	var providers []ai.Provider
	if cfg.AI.PrimaryEnabled() {
		arkProvider, err := ai.NewArkProvider(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize ark provider: %v", err)
		} else {
			providers = append(providers, arkProvider)
			log.Println("ark provider initialized")
		}
	} else {
		log.Println("ark credentials not configured, skipping primary provider")
	}
	if cfg.AI.FallbackEnabled() {
		providers = append(providers, ai.NewOpenRouterProvider(cfg.AI))
		log.Println("openrouter fallback provider initialized")
	} else {
		log.Println("openrouter credentials not configured, skipping fallback provider")
	}

	var synthesizer ai.Synthesizer
	if speechSvc := speech.NewService(cfg.Speech); speechSvc != nil {
		synthesizer = speechSvc
		log.Println("speech service initialized")
	} else {
		log.Println("speech credentials not configured, replies will be text-only")
	}

	responder := ai.NewResponder(mascot, providers, synthesizer)
	buffer := chatservice.NewBuffer(cfg.Chat.HistoryLimit, mascot)

	limiter := ratelimit.New(cfg.Chat.Cooldown, cfg.Chat.LimiterExpiry)
	go limiter.Janitor(ctx)

	hub := relay.New(responder, buffer, limiter, relay.Options{
		ReplyDelay: cfg.Chat.ReplyDelay,
		IdleDelay:  cfg.Chat.IdleDelay,
	})

	router := handler.NewRouter(hub, buffer, limiter, responder)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Palu stream backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
