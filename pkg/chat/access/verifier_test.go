package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	contract.UserRepository
	user *entity.User
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.user, nil
}

type fakeMessageRepo struct {
	contract.ChatMessageRepository
	recent int64
	err    error
}

func (r *fakeMessageRepo) CountRecentByUserId(ctx context.Context, userId uuid.UUID, since time.Time) (int64, error) {
	return r.recent, r.err
}

type fakeChatRepo struct {
	contract.ChatRepository
	chat *entity.Chat
}

func (r *fakeChatRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	return r.chat, nil
}

type fakeUow struct {
	users    *fakeUserRepo
	messages *fakeMessageRepo
	chats    *fakeChatRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return u.users }
func (u *fakeUow) ChatRepository() contract.ChatRepository { return u.chats }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return u.messages
}
func (u *fakeUow) DocumentRepository() contract.DocumentRepository { return nil }
func (u *fakeUow) VoteRepository() contract.VoteRepository         { return nil }

func TestVerifyMessageQuotaGuestUnderLimit(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{
		users:    &fakeUserRepo{user: &entity.User{Id: userId, Type: entity.UserTypeGuest}},
		messages: &fakeMessageRepo{recent: 19},
	}
	v := NewVerifier(20, 100, 24*time.Hour)

	err := v.VerifyMessageQuota(context.Background(), uow, userId)
	assert.NoError(t, err)
}

func TestVerifyMessageQuotaGuestAtLimit(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{
		users:    &fakeUserRepo{user: &entity.User{Id: userId, Type: entity.UserTypeGuest}},
		messages: &fakeMessageRepo{recent: 20},
	}
	v := NewVerifier(20, 100, 24*time.Hour)

	err := v.VerifyMessageQuota(context.Background(), uow, userId)
	require.Error(t, err)

	var limitErr *dto.LimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 20, limitErr.Limit)
	assert.Equal(t, 20, limitErr.Used)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), limitErr.ResetAfter, time.Minute)
}

func TestVerifyMessageQuotaRegularTierGetsHigherLimit(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{
		users:    &fakeUserRepo{user: &entity.User{Id: userId, Type: entity.UserTypeRegular}},
		messages: &fakeMessageRepo{recent: 50},
	}
	v := NewVerifier(20, 100, 24*time.Hour)

	err := v.VerifyMessageQuota(context.Background(), uow, userId)
	assert.NoError(t, err)
}

func TestVerifyMessageQuotaNegativeLimitIsUnlimited(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{
		users:    &fakeUserRepo{user: &entity.User{Id: userId, Type: entity.UserTypeRegular}},
		messages: &fakeMessageRepo{recent: 1_000_000},
	}
	v := NewVerifier(20, -1, 24*time.Hour)

	err := v.VerifyMessageQuota(context.Background(), uow, userId)
	assert.NoError(t, err)
}

func TestVerifyChatOwnership(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	chatId := uuid.New()
	v := NewVerifier(20, 100, 24*time.Hour)

	t.Run("missing chat", func(t *testing.T) {
		uow := &fakeUow{chats: &fakeChatRepo{chat: nil}}
		_, err := v.VerifyChatOwnership(context.Background(), uow, owner, chatId)

		var apiErr *dto.ApiError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "not_found:chat", apiErr.Code())
	})

	t.Run("wrong owner", func(t *testing.T) {
		uow := &fakeUow{chats: &fakeChatRepo{chat: &entity.Chat{Id: chatId, UserId: owner}}}
		_, err := v.VerifyChatOwnership(context.Background(), uow, stranger, chatId)

		var apiErr *dto.ApiError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "forbidden:chat", apiErr.Code())
	})

	t.Run("owner passes", func(t *testing.T) {
		uow := &fakeUow{chats: &fakeChatRepo{chat: &entity.Chat{Id: chatId, UserId: owner}}}
		chat, err := v.VerifyChatOwnership(context.Background(), uow, owner, chatId)
		require.NoError(t, err)
		assert.Equal(t, chatId, chat.Id)
	})
}

func TestVerifyChatReadable(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	chatId := uuid.New()
	v := NewVerifier(20, 100, 24*time.Hour)

	t.Run("private chat hidden from strangers", func(t *testing.T) {
		uow := &fakeUow{chats: &fakeChatRepo{chat: &entity.Chat{
			Id: chatId, UserId: owner, Visibility: constant.ChatVisibilityPrivate,
		}}}
		_, err := v.VerifyChatReadable(context.Background(), uow, stranger, chatId)

		var apiErr *dto.ApiError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "forbidden:chat", apiErr.Code())
	})

	t.Run("public chat readable by anyone", func(t *testing.T) {
		uow := &fakeUow{chats: &fakeChatRepo{chat: &entity.Chat{
			Id: chatId, UserId: owner, Visibility: constant.ChatVisibilityPublic,
		}}}
		chat, err := v.VerifyChatReadable(context.Background(), uow, stranger, chatId)
		require.NoError(t, err)
		assert.Equal(t, chatId, chat.Id)
	})
}
