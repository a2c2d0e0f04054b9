package ai

import (
	"fmt"
	"strings"

	"github.com/palu-ai/palu-stream/backend/internal/model/persona"
)

// BuildSystemPrompt assembles the fixed persona instruction text that steers
// every provider in the chain.
func BuildSystemPrompt(p persona.Persona) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "You are %s, %s.\n\n", p.Name, p.Title)

	if len(p.Narrative) > 0 {
		builder.WriteString("YOUR STORY & NARRATIVE:\n")
		for _, line := range p.Narrative {
			builder.WriteString("- ")
			builder.WriteString(line)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	if len(p.Rules) > 0 {
		builder.WriteString("IMPORTANT RULES:\n")
		for _, rule := range p.Rules {
			builder.WriteString("- ")
			builder.WriteString(rule)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	fmt.Fprintf(&builder, "Your personality: %s. You love to engage with your community.", p.Tone)
	return builder.String()
}
