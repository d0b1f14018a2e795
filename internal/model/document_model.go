package model

import (
	"time"

	"github.com/google/uuid"
)

// Composite primary key (id, created_at): every save appends a version row.
type Document struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"primaryKey"`
	Title     string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text"`
	Kind      string    `gorm:"type:varchar(20);not null;default:'text'"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (Document) TableName() string {
	return "documents"
}
