package history

import (
	"context"
	"strings"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// Loader prepares the model-facing view of a chat's history
type Loader struct {
	window int
}

// NewLoader creates a new history loader. Window is the number of recent
// messages handed to the model as context.
func NewLoader(window int) *Loader {
	return &Loader{window: window}
}

// LoadConversationHistory loads the most recent messages of a chat and
// converts them into provider-agnostic messages, oldest first.
func (l *Loader) LoadConversationHistory(ctx context.Context, uow unitofwork.UnitOfWork, chatId uuid.UUID) ([]llm.Message, error) {
	rows, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: l.window},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]

		content := flattenParts(row.Parts)
		if content == "" {
			continue
		}

		role := constant.ChatMessageRoleUser
		if row.Role == constant.ChatMessageRoleAssistant {
			role = constant.ChatMessageRoleAssistant
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: content,
		})
	}

	return messages, nil
}

// CleanupStuckMessages removes assistant messages left with a tool call
// that never completed. A crash mid-stream leaves the tool part in
// "input-streaming"; replaying such a message confuses the model and the
// client, so the row is dropped before the next turn.
func (l *Loader) CleanupStuckMessages(ctx context.Context, uow unitofwork.UnitOfWork, chatId uuid.UUID) (int, error) {
	rows, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.ByRole{Role: constant.ChatMessageRoleAssistant},
	)
	if err != nil {
		return 0, err
	}

	var stuck []uuid.UUID
	for _, row := range rows {
		if hasIncompleteToolCall(row.Parts) {
			stuck = append(stuck, row.Id)
		}
	}
	if len(stuck) == 0 {
		return 0, nil
	}

	if err := uow.ChatMessageRepository().DeleteByIds(ctx, stuck); err != nil {
		return 0, err
	}
	return len(stuck), nil
}

func hasIncompleteToolCall(parts []entity.MessagePart) bool {
	for _, part := range parts {
		if part.Type == entity.MessagePartTypeTool && part.State == entity.ToolStateInputStreaming {
			return true
		}
	}
	return false
}

// flattenParts collapses a message's parts into plain text for the model.
// Completed tool invocations are summarized by name and result; file parts
// contribute their name.
func flattenParts(parts []entity.MessagePart) string {
	var b strings.Builder
	for _, part := range parts {
		switch part.Type {
		case entity.MessagePartTypeText:
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		case entity.MessagePartTypeFile:
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString("[attachment: " + part.Name + "]")
		case entity.MessagePartTypeTool:
			if part.State != entity.ToolStateOutputAvailable {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString("[tool " + part.ToolName + ": " + part.Output + "]")
		}
	}
	return b.String()
}
