package artifact

import (
	"context"
	"fmt"

	"ai-chat-be/internal/constant"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/stream"
)

type sheetHandler struct {
	provider llm.LLMProvider
}

func NewSheetHandler(provider llm.LLMProvider) Handler {
	return &sheetHandler{provider: provider}
}

func (h *sheetHandler) Kind() string {
	return constant.ArtifactKindSheet
}

func (h *sheetHandler) Create(ctx context.Context, em *stream.Emitter, title string) (string, error) {
	return streamContent(ctx, em, h.provider, stream.EventDataSheetDelta, constant.SheetPrompt, title)
}

func (h *sheetHandler) Update(ctx context.Context, em *stream.Emitter, current, description string) (string, error) {
	system := fmt.Sprintf(constant.UpdateSheetDocumentPrompt, current)
	return streamContent(ctx, em, h.provider, stream.EventDataSheetDelta, system, description)
}
