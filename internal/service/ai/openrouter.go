package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/palu-ai/palu-stream/backend/internal/config"
)

// OpenRouterProvider talks to an OpenAI-compatible chat-completions
// endpoint. It serves as the independent fallback when Ark is down or
// unconfigured.
type OpenRouterProvider struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewOpenRouterProvider builds the fallback provider from configuration.
func NewOpenRouterProvider(cfg config.AIConfig) *OpenRouterProvider {
	temperature := 0.8
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	maxTokens := 200
	if cfg.MaxTokens != nil {
		maxTokens = *cfg.MaxTokens
	}

	return &OpenRouterProvider{
		apiKey:      cfg.FallbackAPIKey,
		model:       cfg.FallbackModel,
		baseURL:     strings.TrimRight(cfg.FallbackBaseURL, "/"),
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: cfg.FallbackTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Name identifies the provider in logs.
func (p *OpenRouterProvider) Name() string { return "openrouter" }

// Generate posts a chat completion and returns the first choice.
func (p *OpenRouterProvider) Generate(ctx context.Context, system, user string) (string, error) {
	payload := completionRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return "", fmt.Errorf("provider returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("completion response is empty")
	}
	return text, nil
}
