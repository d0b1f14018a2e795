package contract

import (
	"context"
	"time"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	// Create appends a new version row; (id, created_at) is the key.
	Create(ctx context.Context, document *entity.Document) error

	// FindCurrentById returns the version with max created_at, nil when absent.
	FindCurrentById(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	FindAllById(ctx context.Context, id uuid.UUID) ([]*entity.Document, error)
	FindByIdAndCreatedAt(ctx context.Context, id uuid.UUID, createdAt time.Time) (*entity.Document, error)

	// DeleteAfterTimestamp truncates version history: removes all rows for id
	// with created_at strictly greater than the timestamp.
	DeleteAfterTimestamp(ctx context.Context, id uuid.UUID, timestamp time.Time) error
}
