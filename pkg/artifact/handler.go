package artifact

import (
	"context"
	"fmt"

	"ai-chat-be/internal/constant"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/stream"
)

// Handler streams the content of one artifact kind. Create drafts a new
// document from a title; Update rewrites existing content against a
// description of the change. Both push transient delta events so the
// panel renders while the model is still writing.
type Handler interface {
	Kind() string
	Create(ctx context.Context, em *stream.Emitter, title string) (string, error)
	Update(ctx context.Context, em *stream.Emitter, current, description string) (string, error)
}

// Registry resolves handlers by artifact kind
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(provider llm.LLMProvider) *Registry {
	r := &Registry{handlers: map[string]Handler{}}
	r.register(NewTextHandler(provider))
	r.register(NewCodeHandler(provider))
	r.register(NewSheetHandler(provider))
	return r
}

func (r *Registry) register(h Handler) {
	r.handlers[h.Kind()] = h
}

func (r *Registry) Resolve(kind string) (Handler, error) {
	h, ok := r.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("no handler for artifact kind %q", kind)
	}
	return h, nil
}

func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}

// streamContent runs one generation and mirrors every delta to the panel
// as a transient event of the given type.
func streamContent(ctx context.Context, em *stream.Emitter, provider llm.LLMProvider, deltaEvent, systemPrompt, userPrompt string) (string, error) {
	history := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: userPrompt},
	}

	ch, err := provider.ChatStream(ctx, history, llm.WithTemperature(0.7))
	if err != nil {
		return "", err
	}

	var content string
	for chunk := range ch {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		if chunk.Delta != "" {
			content += chunk.Delta
			em.EmitTransient(ctx, deltaEvent, map[string]interface{}{"delta": chunk.Delta})
		}
		if chunk.Done {
			break
		}
	}

	return content, nil
}
