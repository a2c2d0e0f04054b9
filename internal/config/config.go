package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Speech SpeechConfig
	Chat   ChatConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Speech: speech, Chat: chat}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the text-generation providers. Ark is the primary;
// an OpenAI-compatible endpoint (OpenRouter by default) is the fallback.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int

	FallbackAPIKey  string
	FallbackModel   string
	FallbackBaseURL string
	FallbackTimeout time.Duration
}

// PrimaryEnabled reports whether the Ark credentials are present.
func (c AIConfig) PrimaryEnabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// FallbackEnabled reports whether the fallback provider is configured.
func (c AIConfig) FallbackEnabled() bool {
	return c.FallbackAPIKey != "" && c.FallbackModel != ""
}

// NewChatModel builds the Ark chat model from this configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.PrimaryEnabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY + ARK_MODEL or AK/SK")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		val := 0.8
		temperature = &val
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	if maxTokens == nil {
		val := 200
		maxTokens = &val
	}

	fallbackTimeout, err := parseOptionalIntEnv("OPENROUTER_TIMEOUT")
	if err != nil {
		return AIConfig{}, err
	}
	timeout := 30 * time.Second
	if fallbackTimeout != nil {
		timeout = time.Duration(*fallbackTimeout) * time.Second
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,

		FallbackAPIKey:  strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		FallbackModel:   getEnvOrDefault("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct:free"),
		FallbackBaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		FallbackTimeout: timeout,
	}, nil
}

// SpeechConfig describes the text-to-speech provider.
type SpeechConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
	Speed   float32
	Timeout time.Duration
	Enabled bool
}

func loadSpeechConfig() (SpeechConfig, error) {
	speed, err := parseOptionalFloat32Env("SPEECH_TTS_SPEED")
	if err != nil {
		return SpeechConfig{}, err
	}
	ttsSpeed := float32(1.0)
	if speed != nil {
		ttsSpeed = *speed
	}

	timeout, err := parseOptionalIntEnv("SPEECH_TIMEOUT")
	if err != nil {
		return SpeechConfig{}, err
	}
	timeoutSeconds := 30
	if timeout != nil {
		timeoutSeconds = *timeout
	}

	apiKey := strings.TrimSpace(os.Getenv("SPEECH_API_KEY"))
	if apiKey == "" {
		// The original deployment reused the OpenAI key for TTS.
		apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}

	return SpeechConfig{
		APIKey:  apiKey,
		BaseURL: getEnvOrDefault("SPEECH_BASE_URL", "https://api.openai.com/v1"),
		Model:   getEnvOrDefault("SPEECH_TTS_MODEL", "tts-1"),
		Voice:   getEnvOrDefault("SPEECH_TTS_VOICE", "echo"),
		Speed:   ttsSpeed,
		Timeout: time.Duration(timeoutSeconds) * time.Second,
		Enabled: apiKey != "",
	}, nil
}

// ChatConfig tunes the relay pipeline and the in-memory buffers.
type ChatConfig struct {
	Cooldown      time.Duration
	HistoryLimit  int
	ReplyDelay    time.Duration
	IdleDelay     time.Duration
	LimiterExpiry time.Duration
}

func loadChatConfig() (ChatConfig, error) {
	cooldownMs, err := parseOptionalIntEnv("CHAT_COOLDOWN_MS")
	if err != nil {
		return ChatConfig{}, err
	}
	cooldown := 5 * time.Second
	if cooldownMs != nil {
		cooldown = time.Duration(*cooldownMs) * time.Millisecond
	}

	historyLimit := 50
	if limit, err := parseOptionalIntEnv("CHAT_HISTORY_LIMIT"); err != nil {
		return ChatConfig{}, err
	} else if limit != nil && *limit > 0 {
		historyLimit = *limit
	}

	return ChatConfig{
		Cooldown:      cooldown,
		HistoryLimit:  historyLimit,
		ReplyDelay:    500 * time.Millisecond,
		IdleDelay:     3 * time.Second,
		LimiterExpiry: 10 * time.Minute,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloat32Env(key string) (*float32, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	result := float32(val)
	return &result, nil
}
