package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Chat ids are client-generated, so no database default here.
type Chat struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string    `gorm:"type:text;not null"`
	Visibility string    `gorm:"type:varchar(20);not null;default:'private'"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Chat) TableName() string {
	return "chats"
}

type ChatMessage struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ChatId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role        string         `gorm:"type:varchar(20);not null"`
	Parts       datatypes.JSON `gorm:"type:jsonb;not null"`
	Attachments datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

type Vote struct {
	ChatId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	MessageId uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsUpvoted bool      `gorm:"not null"`
}

func (Vote) TableName() string {
	return "votes"
}
