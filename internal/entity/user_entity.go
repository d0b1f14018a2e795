package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeGuest   UserType = "guest"
	UserTypeRegular UserType = "regular"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	Type         UserType
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	CreatedAt      time.Time
}
