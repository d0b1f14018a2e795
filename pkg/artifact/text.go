package artifact

import (
	"context"
	"fmt"

	"ai-chat-be/internal/constant"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/stream"
)

type textHandler struct {
	provider llm.LLMProvider
}

func NewTextHandler(provider llm.LLMProvider) Handler {
	return &textHandler{provider: provider}
}

func (h *textHandler) Kind() string {
	return constant.ArtifactKindText
}

func (h *textHandler) Create(ctx context.Context, em *stream.Emitter, title string) (string, error) {
	return streamContent(ctx, em, h.provider, stream.EventDataTextDelta, constant.TextPrompt, title)
}

func (h *textHandler) Update(ctx context.Context, em *stream.Emitter, current, description string) (string, error) {
	system := fmt.Sprintf(constant.UpdateTextDocumentPrompt, current)
	return streamContent(ctx, em, h.provider, stream.EventDataTextDelta, system, description)
}
