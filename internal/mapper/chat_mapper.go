package mapper

import (
	"encoding/json"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Chat Mappers

func (m *ChatMapper) ChatToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Chat{
		Id:         c.Id,
		UserId:     c.UserId,
		Title:      c.Title,
		Visibility: c.Visibility,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *ChatMapper) ChatToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Chat{
		Id:         c.Id,
		UserId:     c.UserId,
		Title:      c.Title,
		Visibility: c.Visibility,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var parts []entity.MessagePart
	if len(msg.Parts) > 0 {
		// Persisted rows always hold valid JSON; a decode failure leaves parts empty.
		_ = json.Unmarshal(msg.Parts, &parts)
	}

	var attachments []entity.Attachment
	if len(msg.Attachments) > 0 {
		_ = json.Unmarshal(msg.Attachments, &attachments)
	}

	return &entity.ChatMessage{
		Id:          msg.Id,
		ChatId:      msg.ChatId,
		Role:        msg.Role,
		Parts:       parts,
		Attachments: attachments,
		CreatedAt:   msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	parts, _ := json.Marshal(msg.Parts)
	attachments, _ := json.Marshal(msg.Attachments)

	return &model.ChatMessage{
		Id:          msg.Id,
		ChatId:      msg.ChatId,
		Role:        msg.Role,
		Parts:       datatypes.JSON(parts),
		Attachments: datatypes.JSON(attachments),
		CreatedAt:   msg.CreatedAt,
	}
}

// Vote Mappers

func (m *ChatMapper) VoteToEntity(v *model.Vote) *entity.Vote {
	if v == nil {
		return nil
	}
	return &entity.Vote{
		ChatId:    v.ChatId,
		MessageId: v.MessageId,
		IsUpvoted: v.IsUpvoted,
	}
}

func (m *ChatMapper) VoteToModel(v *entity.Vote) *model.Vote {
	if v == nil {
		return nil
	}
	return &model.Vote{
		ChatId:    v.ChatId,
		MessageId: v.MessageId,
		IsUpvoted: v.IsUpvoted,
	}
}
