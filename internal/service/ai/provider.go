package ai

import "context"

// Provider is one text-generation backend in the fallback chain. Generate
// returns the reply text for the given system prompt and user message.
type Provider interface {
	Name() string
	Generate(ctx context.Context, system, user string) (string, error)
}
