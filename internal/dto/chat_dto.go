package dto

import (
	"time"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

type MessageDTO struct {
	Id          uuid.UUID            `json:"id" validate:"required"`
	Role        string               `json:"role" validate:"required,oneof=user assistant"`
	Parts       []entity.MessagePart `json:"parts" validate:"required,min=1"`
	Attachments []entity.Attachment  `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

type PostChatRequest struct {
	Id                     uuid.UUID  `json:"id" validate:"required"`
	Message                MessageDTO `json:"message" validate:"required"`
	SelectedChatModel      string     `json:"selectedChatModel"`
	SelectedVisibilityType string     `json:"selectedVisibilityType" validate:"omitempty,oneof=private public"`
}

type DeleteChatResponse struct {
	Id uuid.UUID `json:"id"`
}

type ChatSummaryResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Visibility string     `json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type GetHistoryResponse struct {
	Chats   []*ChatSummaryResponse `json:"chats"`
	HasMore bool                   `json:"has_more"`
}

type GetMessagesResponse struct {
	Id          uuid.UUID            `json:"id"`
	Role        string               `json:"role"`
	Parts       []entity.MessagePart `json:"parts"`
	Attachments []entity.Attachment  `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// GenerateTitleMessage is the queue payload for asynchronous title generation.
type GenerateTitleMessage struct {
	ChatId  uuid.UUID `json:"chat_id"`
	Message string    `json:"message"`
}

type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility" validate:"required,oneof=private public"`
}
