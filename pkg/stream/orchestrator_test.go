package stream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// scriptedProvider returns one pre-baked chunk sequence per ChatStream call.
type scriptedProvider struct {
	rounds [][]llm.Chunk
	call   int
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (p *scriptedProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.Chunk, error) {
	if p.call >= len(p.rounds) {
		return nil, errors.New("no more scripted rounds")
	}
	round := p.rounds[p.call]
	p.call++

	ch := make(chan llm.Chunk, len(round))
	for _, chunk := range round {
		ch <- chunk
	}
	close(ch)
	return ch, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func runTurn(t *testing.T, o *Orchestrator, em *Emitter, history []llm.Message, tools []Tool) (*Result, []Event, error) {
	t.Helper()

	collected := make(chan []Event, 1)
	go func() {
		var events []Event
		for e := range em.Events() {
			events = append(events, e)
		}
		collected <- events
	}()

	result, err := o.Run(context.Background(), em, history, tools)
	return result, <-collected, err
}

func eventTypes(events []Event) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestOrchestratorPlainTextTurn(t *testing.T) {
	provider := &scriptedProvider{rounds: [][]llm.Chunk{
		{
			{Delta: "Hello"},
			{Delta: " there"},
			{Done: true},
		},
	}}
	o := NewOrchestrator(provider, nopLogger{}, 4, time.Minute)
	em := NewEmitter("chat-1", nil, 16)

	result, events, err := runTurn(t, o, em, []llm.Message{{Role: "user", Content: "hi"}}, nil)
	require.NoError(t, err)

	require.Len(t, result.Parts, 1)
	assert.Equal(t, entity.MessagePartTypeText, result.Parts[0].Type)
	assert.Equal(t, "Hello there", result.Parts[0].Text)

	assert.Equal(t, []string{EventStart, EventTextDelta, EventTextDelta, EventFinish}, eventTypes(events))
}

func TestOrchestratorReasoningDeltas(t *testing.T) {
	provider := &scriptedProvider{rounds: [][]llm.Chunk{
		{
			{Reasoning: "thinking..."},
			{Delta: "42"},
			{Done: true},
		},
	}}
	o := NewOrchestrator(provider, nopLogger{}, 4, time.Minute)
	em := NewEmitter("chat-1", nil, 16)

	result, events, err := runTurn(t, o, em, nil, nil)
	require.NoError(t, err)

	assert.Contains(t, eventTypes(events), EventReasoningDelta)
	// Reasoning never lands in the persisted message.
	require.Len(t, result.Parts, 1)
	assert.Equal(t, "42", result.Parts[0].Text)
}

func TestOrchestratorToolRound(t *testing.T) {
	provider := &scriptedProvider{rounds: [][]llm.Chunk{
		{
			{ToolCalls: []llm.ToolCall{{Id: "call-1", Name: "createDocument", Arguments: `{"title":"Essay","kind":"text"}`}}},
			{Done: true},
		},
		{
			{Delta: "Created the document."},
			{Done: true},
		},
	}}

	var gotArgs string
	tools := []Tool{{
		Definition: llm.ToolDefinition{Name: "createDocument"},
		Execute: func(ctx context.Context, em *Emitter, callId string, args json.RawMessage) (map[string]interface{}, error) {
			gotArgs = string(args)
			return map[string]interface{}{"id": "doc-1"}, nil
		},
	}}

	o := NewOrchestrator(provider, nopLogger{}, 4, time.Minute)
	em := NewEmitter("chat-1", nil, 32)

	result, events, err := runTurn(t, o, em, nil, tools)
	require.NoError(t, err)

	assert.JSONEq(t, `{"title":"Essay","kind":"text"}`, gotArgs)

	types := eventTypes(events)
	assert.Contains(t, types, EventToolInputStart)
	assert.Contains(t, types, EventToolInputAvailable)
	assert.Contains(t, types, EventToolOutputAvailable)
	assert.Equal(t, EventFinish, types[len(types)-1])

	// Tool part first, then the follow-up text.
	require.Len(t, result.Parts, 2)
	assert.Equal(t, entity.MessagePartTypeTool, result.Parts[0].Type)
	assert.Equal(t, "createDocument", result.Parts[0].ToolName)
	assert.Equal(t, entity.ToolStateOutputAvailable, result.Parts[0].State)
	assert.Contains(t, result.Parts[0].Output, "doc-1")
	assert.Equal(t, "Created the document.", result.Parts[1].Text)
}

func TestOrchestratorUnknownToolFails(t *testing.T) {
	provider := &scriptedProvider{rounds: [][]llm.Chunk{
		{
			{ToolCalls: []llm.ToolCall{{Id: "call-1", Name: "dropTables", Arguments: `{}`}}},
			{Done: true},
		},
	}}
	o := NewOrchestrator(provider, nopLogger{}, 4, time.Minute)
	em := NewEmitter("chat-1", nil, 16)

	result, events, err := runTurn(t, o, em, nil, nil)
	require.Error(t, err)
	assert.Nil(t, result)

	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
	assert.Equal(t, "internal:stream", last.Data["code"])
}

func TestOrchestratorToolRoundLimit(t *testing.T) {
	// The model keeps asking for the same tool forever.
	toolRound := []llm.Chunk{
		{ToolCalls: []llm.ToolCall{{Id: "call", Name: "createDocument", Arguments: `{}`}}},
		{Done: true},
	}
	provider := &scriptedProvider{rounds: [][]llm.Chunk{
		toolRound, toolRound, toolRound, toolRound,
	}}

	tools := []Tool{{
		Definition: llm.ToolDefinition{Name: "createDocument"},
		Execute: func(ctx context.Context, em *Emitter, callId string, args json.RawMessage) (map[string]interface{}, error) {
			return map[string]interface{}{}, nil
		},
	}}

	o := NewOrchestrator(provider, nopLogger{}, 2, time.Minute)
	em := NewEmitter("chat-1", nil, 64)

	result, events, err := runTurn(t, o, em, nil, tools)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "tool round limit")

	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
}

func TestOrchestratorProviderError(t *testing.T) {
	provider := &scriptedProvider{rounds: [][]llm.Chunk{
		{
			{Delta: "partial"},
			{Err: errors.New("upstream hiccup")},
		},
	}}
	o := NewOrchestrator(provider, nopLogger{}, 4, time.Minute)
	em := NewEmitter("chat-1", nil, 16)

	result, events, err := runTurn(t, o, em, nil, nil)
	require.Error(t, err)
	assert.Nil(t, result)

	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
	assert.Equal(t, "internal:stream", last.Data["code"])
}

func TestOrchestratorErrorEventsAreBuffered(t *testing.T) {
	provider := &scriptedProvider{rounds: [][]llm.Chunk{
		{{Err: errors.New("boom")}},
	}}
	buf := NewMemoryBuffer(time.Minute)
	o := NewOrchestrator(provider, nopLogger{}, 4, time.Minute)
	em := NewEmitter("chat-1", buf, 16)

	_, _, err := runTurn(t, o, em, nil, nil)
	require.Error(t, err)

	// A client resuming after the failure must still see the error.
	events, loadErr := buf.Load(context.Background(), "chat-1")
	require.NoError(t, loadErr)
	require.NotEmpty(t, events)
	assert.Equal(t, EventError, events[len(events)-1].Type)
}
