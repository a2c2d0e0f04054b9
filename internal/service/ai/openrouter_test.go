package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/palu-ai/palu-stream/backend/internal/config"
)

func fallbackConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		FallbackAPIKey:  "test-key",
		FallbackModel:   "mistralai/mistral-7b-instruct:free",
		FallbackBaseURL: baseURL,
		FallbackTimeout: 5 * time.Second,
	}
}

func TestOpenRouterGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" {
			t.Errorf("unexpected messages %+v", payload.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "hello from palu"}},
			},
		})
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(fallbackConfig(server.URL))
	text, err := provider.Generate(context.Background(), "system prompt", "gm")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if text != "hello from palu" {
		t.Fatalf("unexpected reply %q", text)
	}
}

func TestOpenRouterGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid api key"},
		})
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(fallbackConfig(server.URL))
	if _, err := provider.Generate(context.Background(), "system", "gm"); err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestOpenRouterGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(fallbackConfig(server.URL))
	if _, err := provider.Generate(context.Background(), "system", "gm"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
