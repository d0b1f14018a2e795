package prompt

import (
	"fmt"
	"strings"

	"ai-chat-be/internal/constant"
)

// RequestHints carries geolocation metadata about the request origin.
// Empty fields render as "Unknown" so the prompt shape stays stable.
type RequestHints struct {
	Latitude  string
	Longitude string
	City      string
	Country   string
}

// SystemBuilder assembles the system prompt for one chat turn
type SystemBuilder struct {
	model string
	hints RequestHints
}

// NewSystemBuilder creates a builder for the selected model
func NewSystemBuilder(model string, hints RequestHints) *SystemBuilder {
	return &SystemBuilder{
		model: model,
		hints: hints,
	}
}

// Build produces the full system prompt. The reasoning model runs without
// the artifacts guide since it has no tools to act on it.
func (b *SystemBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString(constant.RegularPrompt)
	prompt.WriteString("\n\n")
	b.writeRequestHints(&prompt)

	if b.model != constant.ReasoningChatModel {
		prompt.WriteString("\n\n")
		prompt.WriteString(constant.ArtifactsPrompt)
	}

	return prompt.String()
}

func (b *SystemBuilder) writeRequestHints(prompt *strings.Builder) {
	fmt.Fprintf(prompt, constant.RequestHintsTemplate,
		orUnknown(b.hints.Latitude),
		orUnknown(b.hints.Longitude),
		orUnknown(b.hints.City),
		orUnknown(b.hints.Country),
	)
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
