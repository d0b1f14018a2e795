package artifact

import (
	"context"
	"fmt"

	"ai-chat-be/internal/constant"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/stream"
)

type codeHandler struct {
	provider llm.LLMProvider
}

func NewCodeHandler(provider llm.LLMProvider) Handler {
	return &codeHandler{provider: provider}
}

func (h *codeHandler) Kind() string {
	return constant.ArtifactKindCode
}

func (h *codeHandler) Create(ctx context.Context, em *stream.Emitter, title string) (string, error) {
	return streamContent(ctx, em, h.provider, stream.EventDataCodeDelta, constant.CodePrompt, title)
}

func (h *codeHandler) Update(ctx context.Context, em *stream.Emitter, current, description string) (string, error) {
	system := fmt.Sprintf(constant.UpdateCodeDocumentPrompt, current)
	return streamContent(ctx, em, h.provider, stream.EventDataCodeDelta, system, description)
}
