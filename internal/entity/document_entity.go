package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document versions share an id; each save is a new row keyed by
// (id, created_at). The current version is the one with max created_at.
type Document struct {
	Id        uuid.UUID
	CreatedAt time.Time
	Title     string
	Content   string
	Kind      string
	UserId    uuid.UUID
}
