package speech

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

// Service synthesizes mascot replies into audio. Callers treat synthesis as
// best-effort: any failure degrades the reply to text-only.
type Service struct {
	cfg    config.SpeechConfig
	client *http.Client
}

// NewService creates the TTS client. Returns nil when no credentials are
// configured; all methods are nil-safe.
func NewService(cfg config.SpeechConfig) *Service {
	if !cfg.Enabled {
		return nil
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether synthesis is available.
func (s *Service) Enabled() bool {
	return s != nil && s.cfg.APIKey != ""
}

type ttsRequest struct {
	Model string  `json:"model"`
	Voice string  `json:"voice"`
	Input string  `json:"input"`
	Speed float32 `json:"speed"`
}

// Synthesize converts text to audio via the provider's speech endpoint and
// returns the raw audio bytes.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("speech synthesis not configured")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("tts text is empty")
	}

	payload := ttsRequest{
		Model: s.cfg.Model,
		Voice: s.cfg.Voice,
		Input: text,
		Speed: s.cfg.Speed,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts provider returned empty audio")
	}

	return audio, nil
}
