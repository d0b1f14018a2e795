package dto

import "github.com/google/uuid"

type VoteRequest struct {
	ChatId    uuid.UUID `json:"chatId" validate:"required"`
	MessageId uuid.UUID `json:"messageId" validate:"required"`
	Type      string    `json:"type" validate:"required,oneof=up down"`
}

type VoteResponse struct {
	ChatId    uuid.UUID `json:"chatId"`
	MessageId uuid.UUID `json:"messageId"`
	IsUpvoted bool      `json:"isUpvoted"`
}
