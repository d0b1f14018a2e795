package history

import (
	"context"
	"testing"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMessageRepo returns its rows as-is; the loader is responsible for
// reversing the descending fetch order.
type fakeMessageRepo struct {
	contract.ChatMessageRepository
	rows    []*entity.ChatMessage
	deleted []uuid.UUID
	specs   []specification.Specification
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.specs = specs
	return r.rows, nil
}

func (r *fakeMessageRepo) DeleteByIds(ctx context.Context, ids []uuid.UUID) error {
	r.deleted = append(r.deleted, ids...)
	return nil
}

type fakeUow struct {
	messages *fakeMessageRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return nil }
func (u *fakeUow) ChatRepository() contract.ChatRepository { return nil }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return u.messages
}
func (u *fakeUow) DocumentRepository() contract.DocumentRepository { return nil }
func (u *fakeUow) VoteRepository() contract.VoteRepository         { return nil }

func textMessage(role, text string) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:        uuid.New(),
		Role:      role,
		Parts:     []entity.MessagePart{{Type: entity.MessagePartTypeText, Text: text}},
		CreatedAt: time.Now(),
	}
}

func TestLoadConversationHistoryReversesToOldestFirst(t *testing.T) {
	// Repository returns newest first, as the query orders it.
	repo := &fakeMessageRepo{rows: []*entity.ChatMessage{
		textMessage(constant.ChatMessageRoleAssistant, "third"),
		textMessage(constant.ChatMessageRoleUser, "second"),
		textMessage(constant.ChatMessageRoleUser, "first"),
	}}
	loader := NewLoader(6)

	messages, err := loader.LoadConversationHistory(context.Background(), &fakeUow{messages: repo}, uuid.New())
	require.NoError(t, err)

	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "third", messages[2].Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, messages[2].Role)
}

func TestLoadConversationHistoryAppliesWindowLimit(t *testing.T) {
	repo := &fakeMessageRepo{}
	loader := NewLoader(6)

	_, err := loader.LoadConversationHistory(context.Background(), &fakeUow{messages: repo}, uuid.New())
	require.NoError(t, err)

	var limit *specification.Limit
	for i := range repo.specs {
		if l, ok := repo.specs[i].(specification.Limit); ok {
			limit = &l
		}
	}
	require.NotNil(t, limit, "history query must be bounded")
	assert.Equal(t, 6, limit.N)
}

func TestLoadConversationHistoryFlattensParts(t *testing.T) {
	msg := &entity.ChatMessage{
		Id:   uuid.New(),
		Role: constant.ChatMessageRoleUser,
		Parts: []entity.MessagePart{
			{Type: entity.MessagePartTypeText, Text: "look at this"},
			{Type: entity.MessagePartTypeFile, Name: "report.png"},
			{
				Type:     entity.MessagePartTypeTool,
				ToolName: "createDocument",
				State:    entity.ToolStateOutputAvailable,
				Output:   `{"title":"Essay"}`,
			},
		},
	}
	repo := &fakeMessageRepo{rows: []*entity.ChatMessage{msg}}
	loader := NewLoader(6)

	messages, err := loader.LoadConversationHistory(context.Background(), &fakeUow{messages: repo}, uuid.New())
	require.NoError(t, err)

	require.Len(t, messages, 1)
	assert.Equal(t, "look at this\n[attachment: report.png]\n[tool createDocument: {\"title\":\"Essay\"}]", messages[0].Content)
}

func TestLoadConversationHistorySkipsEmptyMessages(t *testing.T) {
	empty := &entity.ChatMessage{
		Id:    uuid.New(),
		Role:  constant.ChatMessageRoleAssistant,
		Parts: []entity.MessagePart{{Type: entity.MessagePartTypeTool, ToolName: "createDocument"}},
	}
	repo := &fakeMessageRepo{rows: []*entity.ChatMessage{empty}}
	loader := NewLoader(6)

	messages, err := loader.LoadConversationHistory(context.Background(), &fakeUow{messages: repo}, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestCleanupStuckMessages(t *testing.T) {
	stuck := &entity.ChatMessage{
		Id:   uuid.New(),
		Role: constant.ChatMessageRoleAssistant,
		Parts: []entity.MessagePart{{
			Type:     entity.MessagePartTypeTool,
			ToolName: "createDocument",
			State:    entity.ToolStateInputStreaming,
		}},
	}
	healthy := &entity.ChatMessage{
		Id:   uuid.New(),
		Role: constant.ChatMessageRoleAssistant,
		Parts: []entity.MessagePart{{
			Type:     entity.MessagePartTypeTool,
			ToolName: "createDocument",
			State:    entity.ToolStateOutputAvailable,
		}},
	}
	repo := &fakeMessageRepo{rows: []*entity.ChatMessage{stuck, healthy}}
	loader := NewLoader(6)

	removed, err := loader.CleanupStuckMessages(context.Background(), &fakeUow{messages: repo}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	require.Len(t, repo.deleted, 1)
	assert.Equal(t, stuck.Id, repo.deleted[0])
}

func TestCleanupStuckMessagesNoopWhenClean(t *testing.T) {
	repo := &fakeMessageRepo{rows: []*entity.ChatMessage{
		textMessage(constant.ChatMessageRoleAssistant, "all good"),
	}}
	loader := NewLoader(6)

	removed, err := loader.CleanupStuckMessages(context.Background(), &fakeUow{messages: repo}, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, repo.deleted)
}
