package contract

import (
	"context"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

type VoteRepository interface {
	// Upsert creates or updates the (chat_id, message_id) vote.
	Upsert(ctx context.Context, vote *entity.Vote) error
	FindAllByChatId(ctx context.Context, chatId uuid.UUID) ([]*entity.Vote, error)
	DeleteByChatId(ctx context.Context, chatId uuid.UUID) error
}
