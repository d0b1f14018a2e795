package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Kind      string    `json:"kind"`
}

type SaveDocumentRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
	Kind    string `json:"kind" validate:"required,oneof=text code sheet image"`
}
