package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/palu-ai/palu-stream/backend/internal/config"
)

// ArkProvider generates replies with the Ark chat model behind an eino
// prompt chain.
type ArkProvider struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkProvider builds the chat model from configuration and compiles the
// prompt chain.
func NewArkProvider(ctx context.Context, cfg config.AIConfig) (*ArkProvider, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkProvider{chain: runnable}, nil
}

// Name identifies the provider in logs.
func (p *ArkProvider) Name() string { return "ark" }

// Generate runs the chain and returns the reply text.
func (p *ArkProvider) Generate(ctx context.Context, system, user string) (string, error) {
	response, err := p.chain.Invoke(ctx, map[string]any{
		"system": system,
		"query":  user,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	text := strings.TrimSpace(response.Content)
	if text == "" {
		return "", fmt.Errorf("ark returned an empty reply")
	}
	return text, nil
}
