package access

import (
	"context"
	"fmt"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Verifier handles chat access control and message quotas
type Verifier struct {
	guestLimit   int
	regularLimit int
	window       time.Duration
}

// NewVerifier creates a new access verifier
func NewVerifier(guestLimit, regularLimit int, window time.Duration) *Verifier {
	return &Verifier{
		guestLimit:   guestLimit,
		regularLimit: regularLimit,
		window:       window,
	}
}

// VerifyMessageQuota enforces the rolling message window: the user's own
// messages sent within the window count against their tier's allowance.
// Counting happens before the new message is persisted, so two racing
// requests at the boundary may both pass; the window absorbs the overshoot.
func (v *Verifier) VerifyMessageQuota(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	limit := v.regularLimit
	if user.Type == entity.UserTypeGuest {
		limit = v.guestLimit
	}

	since := time.Now().Add(-v.window)
	used, err := uow.ChatMessageRepository().CountRecentByUserId(ctx, userId, since)
	if err != nil {
		return err
	}

	// Limit < 0 means unlimited
	if limit >= 0 && used >= int64(limit) {
		return &dto.LimitExceededError{
			Limit:      limit,
			Used:       int(used),
			ResetAfter: time.Now().Add(v.window),
		}
	}

	return nil
}

// VerifyChatOwnership resolves a chat and requires the caller to own it.
func (v *Verifier) VerifyChatOwnership(ctx context.Context, uow unitofwork.UnitOfWork, userId, chatId uuid.UUID) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, dto.NewApiError(dto.ErrKindNotFound, "chat")
	}
	if chat.UserId != userId {
		return nil, dto.NewApiError(dto.ErrKindForbidden, "chat")
	}
	return chat, nil
}

// VerifyChatReadable resolves a chat for reading. Public chats are readable
// by anyone; private chats only by their owner.
func (v *Verifier) VerifyChatReadable(ctx context.Context, uow unitofwork.UnitOfWork, userId, chatId uuid.UUID) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, dto.NewApiError(dto.ErrKindNotFound, "chat")
	}
	if chat.Visibility != constant.ChatVisibilityPublic && chat.UserId != userId {
		return nil, dto.NewApiError(dto.ErrKindForbidden, "chat")
	}
	return chat, nil
}
