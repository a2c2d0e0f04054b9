package ai

import (
	"context"
	"encoding/base64"
	"log"

	"github.com/palu-ai/palu-stream/backend/internal/analysis/emotion"
	"github.com/palu-ai/palu-stream/backend/internal/model/persona"
)

// FallbackMessage is the canned reply used when every provider fails or
// none is configured. The stream must always answer something.
const FallbackMessage = "Oops! Looks like my response circuit is a bit busy. Could you try again?"

// Reply is the outcome of one generation round. AudioBase64 is empty when
// synthesis is unavailable or failed.
type Reply struct {
	Message     string
	Emotion     emotion.Label
	AudioBase64 string
}

// Synthesizer is the best-effort voice backend consumed by the responder.
type Synthesizer interface {
	Enabled() bool
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Responder coordinates the provider fallback chain, emotion classification
// and voice synthesis into a single Respond call that never errors.
type Responder struct {
	providers    []Provider
	synthesizer  Synthesizer
	systemPrompt string
}

// NewResponder wires the ordered provider chain for the given persona.
// synthesizer may be nil.
func NewResponder(p persona.Persona, providers []Provider, synthesizer Synthesizer) *Responder {
	return &Responder{
		providers:    providers,
		synthesizer:  synthesizer,
		systemPrompt: BuildSystemPrompt(p),
	}
}

// Respond generates the mascot reply for userText. Providers are tried in
// order; provider errors are logged and never surfaced to the caller. With
// no provider left the canned fallback is returned with emotion talking.
func (r *Responder) Respond(ctx context.Context, userText string) Reply {
	for _, provider := range r.providers {
		text, err := provider.Generate(ctx, r.systemPrompt, userText)
		if err != nil {
			log.Printf("[ai] provider %s failed, trying next: %v", provider.Name(), err)
			continue
		}

		return Reply{
			Message:     text,
			Emotion:     emotion.Classify(text),
			AudioBase64: r.synthesize(ctx, text),
		}
	}

	return Reply{Message: FallbackMessage, Emotion: emotion.Talking}
}

// synthesize is strictly best-effort: failures are swallowed and the reply
// ships text-only.
func (r *Responder) synthesize(ctx context.Context, text string) string {
	if r.synthesizer == nil || !r.synthesizer.Enabled() {
		return ""
	}

	audio, err := r.synthesizer.Synthesize(ctx, text)
	if err != nil {
		log.Printf("[tts] synthesis failed, replying text-only: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(audio)
}
