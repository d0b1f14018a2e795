package title

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *stubProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.Chunk, error) {
	return nil, errors.New("not used")
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func TestGenerateSanitizesModelOutput(t *testing.T) {
	g := NewGenerator(&stubProvider{reply: "\"Trip to\nJapan\"  "}, nopLogger{})

	got := g.Generate(context.Background(), "planning a trip to japan")
	assert.Equal(t, "Trip to Japan", got)
}

func TestGenerateTruncatesLongTitles(t *testing.T) {
	g := NewGenerator(&stubProvider{reply: strings.Repeat("a", 200)}, nopLogger{})

	got := g.Generate(context.Background(), "hello")
	assert.Len(t, got, 80)
}

func TestGenerateFallsBackOnProviderError(t *testing.T) {
	g := NewGenerator(&stubProvider{err: errors.New("model offline")}, nopLogger{})

	got := g.Generate(context.Background(), "  what is the capital of France?  ")
	assert.Equal(t, "what is the capital of France?", got)
}

func TestGenerateFallsBackOnEmptyReply(t *testing.T) {
	g := NewGenerator(&stubProvider{reply: "  \"\" "}, nopLogger{})

	got := g.Generate(context.Background(), "short question")
	assert.Equal(t, "short question", got)
}

func TestFallbackTruncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := Fallback(long)
	assert.Len(t, got, 80)
}
