package title

import (
	"context"
	"strings"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/llm"
)

const maxTitleLength = 80

// Generator produces chat titles from the opening user message
type Generator struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

// NewGenerator creates a new title generator
func NewGenerator(provider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		provider: provider,
		logger:   log,
	}
}

// Generate asks the model for a short title. The title is generated once,
// on the turn that creates the chat; failures fall back to a trimmed copy
// of the message so the chat never ends up untitled.
func (g *Generator) Generate(ctx context.Context, firstMessage string) string {
	history := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.TitlePrompt},
		{Role: constant.ChatMessageRoleUser, Content: firstMessage},
	}

	raw, err := g.provider.Chat(ctx, history, llm.WithTemperature(0.7))
	if err != nil {
		g.logger.Warn("Title", "Generation failed, falling back to message prefix", map[string]interface{}{
			"error": err.Error(),
		})
		return Fallback(firstMessage)
	}

	title := sanitize(raw)
	if title == "" {
		return Fallback(firstMessage)
	}
	return title
}

// Fallback derives a title directly from the message text.
func Fallback(message string) string {
	return truncate(strings.TrimSpace(message))
}

func sanitize(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'")
	title = strings.ReplaceAll(title, "\n", " ")
	return truncate(title)
}

func truncate(title string) string {
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}
	return title
}
