package contract

import (
	"context"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	DeleteByChatId(ctx context.Context, chatId uuid.UUID) error
	DeleteByChatIdAfter(ctx context.Context, chatId uuid.UUID, timestamp time.Time) error
	DeleteByIds(ctx context.Context, ids []uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// CountRecentByUserId counts role=user messages across all of the user's
	// chats created after the given instant. Used for the rolling quota window.
	CountRecentByUserId(ctx context.Context, userId uuid.UUID, since time.Time) (int64, error)
}
