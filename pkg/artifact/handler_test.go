package artifact

import (
	"context"
	"errors"
	"testing"

	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	deltas []string
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (p *stubProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.Chunk, error) {
	ch := make(chan llm.Chunk, len(p.deltas)+1)
	for _, d := range p.deltas {
		ch <- llm.Chunk{Delta: d}
	}
	ch <- llm.Chunk{Done: true}
	close(ch)
	return ch, nil
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func TestRegistryResolvesAllKinds(t *testing.T) {
	r := NewRegistry(&stubProvider{})

	for _, kind := range []string{"text", "code", "sheet"} {
		h, err := r.Resolve(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, h.Kind())
	}
	assert.ElementsMatch(t, []string{"text", "code", "sheet"}, r.Kinds())
}

func TestRegistryUnknownKind(t *testing.T) {
	r := NewRegistry(&stubProvider{})
	_, err := r.Resolve("image")
	assert.Error(t, err)
}

func TestTextHandlerStreamsTransientDeltas(t *testing.T) {
	h := NewTextHandler(&stubProvider{deltas: []string{"Once ", "upon ", "a time"}})
	em := stream.NewEmitter("doc-1", nil, 16)

	content, err := h.Create(context.Background(), em, "A short story")
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", content)

	em.Close()
	var deltas []stream.Event
	for e := range em.Events() {
		deltas = append(deltas, e)
	}

	require.Len(t, deltas, 3)
	for _, e := range deltas {
		assert.Equal(t, stream.EventDataTextDelta, e.Type)
		assert.True(t, e.Transient, "panel deltas must not be replayable")
	}
}

func TestCodeHandlerUsesCodeDeltaEvent(t *testing.T) {
	h := NewCodeHandler(&stubProvider{deltas: []string{"print(1)"}})
	em := stream.NewEmitter("doc-1", nil, 16)

	content, err := h.Create(context.Background(), em, "fizzbuzz")
	require.NoError(t, err)
	assert.Equal(t, "print(1)", content)

	em.Close()
	for e := range em.Events() {
		assert.Equal(t, stream.EventDataCodeDelta, e.Type)
	}
}
