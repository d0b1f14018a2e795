package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// Turn states. A turn moves forward only; tool-call rounds bounce between
// Generating and ToolCall until the model stops asking for tools.
const (
	StateIdle       = "IDLE"
	StateGenerating = "GENERATING"
	StateToolCall   = "TOOL_CALL"
	StateFinalizing = "FINALIZING"
	StateDone       = "DONE"
	StateError      = "ERROR"
)

// Tool pairs a definition the model sees with the function that runs when
// the model calls it. Execute may emit transient events for live progress;
// its return value becomes the persisted tool output.
type Tool struct {
	Definition llm.ToolDefinition
	Execute    func(ctx context.Context, em *Emitter, callId string, args json.RawMessage) (map[string]interface{}, error)
}

// Result is the assembled assistant turn, ready for persistence.
type Result struct {
	MessageId uuid.UUID
	Parts     []entity.MessagePart
}

// Orchestrator drives one assistant turn: it streams model output, runs
// requested tools, feeds results back, and assembles the final message.
type Orchestrator struct {
	provider      llm.LLMProvider
	logger        logger.ILogger
	maxToolRounds int
	maxDuration   time.Duration
}

func NewOrchestrator(provider llm.LLMProvider, log logger.ILogger, maxToolRounds int, maxDuration time.Duration) *Orchestrator {
	return &Orchestrator{
		provider:      provider,
		logger:        log,
		maxToolRounds: maxToolRounds,
		maxDuration:   maxDuration,
	}
}

// Run executes the turn and closes the emitter when it returns. The caller
// consumes em.Events() concurrently.
func (o *Orchestrator) Run(ctx context.Context, em *Emitter, history []llm.Message, tools []Tool, opts ...llm.Option) (*Result, error) {
	defer em.Close()

	ctx, cancel := context.WithTimeout(ctx, o.maxDuration)
	defer cancel()

	messageId := uuid.New()
	state := StateIdle
	o.transition(&state, StateGenerating, em.StreamId())

	em.Emit(ctx, EventStart, map[string]interface{}{"messageId": messageId.String()})

	toolsByName := make(map[string]Tool, len(tools))
	defs := make([]llm.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		toolsByName[t.Definition.Name] = t
		defs = append(defs, t.Definition)
	}
	if len(defs) > 0 {
		opts = append(opts, llm.WithTools(defs))
	}

	var parts []entity.MessagePart
	msgs := append([]llm.Message(nil), history...)

	for round := 0; ; round++ {
		if round > o.maxToolRounds {
			err := fmt.Errorf("tool round limit reached (%d)", o.maxToolRounds)
			o.fail(ctx, em, &state, err)
			return nil, err
		}

		ch, err := o.provider.ChatStream(ctx, msgs, opts...)
		if err != nil {
			o.fail(ctx, em, &state, err)
			return nil, err
		}

		text, calls, err := o.consume(ctx, em, ch)
		if err != nil {
			o.fail(ctx, em, &state, err)
			return nil, err
		}

		if text != "" {
			parts = append(parts, entity.MessagePart{
				Type: entity.MessagePartTypeText,
				Text: text,
			})
		}

		if len(calls) == 0 {
			break
		}

		o.transition(&state, StateToolCall, em.StreamId())
		msgs = append(msgs, llm.Message{
			Role:      constant.ChatMessageRoleAssistant,
			Content:   text,
			ToolCalls: calls,
		})

		for _, call := range calls {
			toolParts, toolMsg, err := o.runTool(ctx, em, toolsByName, call)
			if err != nil {
				o.fail(ctx, em, &state, err)
				return nil, err
			}
			parts = append(parts, toolParts...)
			msgs = append(msgs, toolMsg)
		}

		o.transition(&state, StateGenerating, em.StreamId())
	}

	o.transition(&state, StateFinalizing, em.StreamId())

	em.Emit(ctx, EventFinish, nil)
	o.transition(&state, StateDone, em.StreamId())

	return &Result{MessageId: messageId, Parts: parts}, nil
}

// consume drains one model round. It returns the accumulated visible text
// and any complete tool calls the model issued.
func (o *Orchestrator) consume(ctx context.Context, em *Emitter, ch <-chan llm.Chunk) (string, []llm.ToolCall, error) {
	var text string
	var calls []llm.ToolCall

	for chunk := range ch {
		if chunk.Err != nil {
			return "", nil, chunk.Err
		}
		if chunk.Delta != "" {
			text += chunk.Delta
			em.Emit(ctx, EventTextDelta, map[string]interface{}{"delta": chunk.Delta})
		}
		if chunk.Reasoning != "" {
			em.Emit(ctx, EventReasoningDelta, map[string]interface{}{"delta": chunk.Reasoning})
		}
		if len(chunk.ToolCalls) > 0 {
			calls = append(calls, chunk.ToolCalls...)
		}
		if chunk.Done {
			break
		}
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
	}

	return text, calls, nil
}

func (o *Orchestrator) runTool(ctx context.Context, em *Emitter, tools map[string]Tool, call llm.ToolCall) ([]entity.MessagePart, llm.Message, error) {
	tool, ok := tools[call.Name]
	if !ok {
		return nil, llm.Message{}, fmt.Errorf("model requested unknown tool %q", call.Name)
	}

	em.Emit(ctx, EventToolInputStart, map[string]interface{}{
		"toolCallId": call.Id,
		"toolName":   call.Name,
	})
	em.Emit(ctx, EventToolInputAvailable, map[string]interface{}{
		"toolCallId": call.Id,
		"toolName":   call.Name,
		"input":      json.RawMessage(call.Arguments),
	})

	output, err := tool.Execute(ctx, em, call.Id, json.RawMessage(call.Arguments))
	if err != nil {
		return nil, llm.Message{}, fmt.Errorf("tool %s failed: %w", call.Name, err)
	}

	outputJSON, err := json.Marshal(output)
	if err != nil {
		return nil, llm.Message{}, fmt.Errorf("marshal tool output: %w", err)
	}

	em.Emit(ctx, EventToolOutputAvailable, map[string]interface{}{
		"toolCallId": call.Id,
		"output":     output,
	})

	part := entity.MessagePart{
		Type:       entity.MessagePartTypeTool,
		ToolName:   call.Name,
		ToolCallId: call.Id,
		State:      entity.ToolStateOutputAvailable,
		Input:      call.Arguments,
		Output:     string(outputJSON),
	}

	toolMsg := llm.Message{
		Role:       constant.ChatMessageRoleTool,
		Content:    string(outputJSON),
		ToolCallId: call.Id,
	}

	return []entity.MessagePart{part}, toolMsg, nil
}

func (o *Orchestrator) fail(ctx context.Context, em *Emitter, state *string, err error) {
	code := "internal:stream"
	if ctx.Err() == context.DeadlineExceeded {
		code = "timeout:stream"
	}
	// Emit against a fresh context so the error still reaches buffered
	// consumers when the turn context is already cancelled.
	em.Emit(context.Background(), EventError, map[string]interface{}{
		"code":    code,
		"message": "An error occurred while generating the response.",
	})
	o.logger.Error("Stream", "Turn failed", map[string]interface{}{
		"stream_id": em.StreamId(),
		"error":     err.Error(),
	})
	o.transition(state, StateError, em.StreamId())
}

func (o *Orchestrator) transition(state *string, next, streamId string) {
	*state = next
	o.logger.Debug("Stream", "State transition", map[string]interface{}{
		"stream_id": streamId,
		"state":     next,
	})
}
