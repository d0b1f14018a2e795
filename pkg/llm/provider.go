package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string // "user", "assistant", "system", "tool"
	Content    string
	ToolCallId string     // set on "tool" role messages answering a call
	ToolCalls  []ToolCall // set on assistant messages that requested tools
}

// ToolCall is a model-issued request to run a named tool.
type ToolCall struct {
	Id        string
	Name      string
	Arguments string // raw JSON object
}

// ToolDefinition describes a tool the model may call.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON Schema for the arguments object
}

// Chunk is one unit of a streamed model response. Exactly one of the
// content fields is typically set; Done marks the final chunk.
type Chunk struct {
	Delta     string     // incremental visible text
	Reasoning string     // incremental thinking text, if the model exposes it
	ToolCalls []ToolCall // complete tool calls, emitted once assembled
	Done      bool
	Err       error // terminal; stream is closed after an error chunk
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	Tools       []ToolDefinition
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithTools(tools []ToolDefinition) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the full response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream sends a chat history and streams the response as chunks.
	// The channel is closed after the Done (or error) chunk. Cancelling the
	// context aborts the underlying request.
	ChatStream(ctx context.Context, history []Message, options ...Option) (<-chan Chunk, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
