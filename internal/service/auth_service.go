// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)

	// EnsureGuest materializes a user row for an IP-derived guest identity.
	// Idempotent: the same id always maps to the same row.
	EnsureGuest(ctx context.Context, guestId uuid.UUID, guestEmail string) (*entity.User, error)

	IssueToken(user *entity.User) (string, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	jwtSecret      string
	tokenTTL       time.Duration
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, eventPublisher *pktNats.Publisher, jwtSecret string, tokenTTL time.Duration) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Type != entity.UserTypeGuest {
		return nil, dto.NewApiError(dto.ErrKindBadRequest, "auth")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var user *entity.User
	if existing != nil {
		// A guest row with this email upgrades in place, keeping its chats.
		existing.PasswordHash = &hashStr
		existing.Type = entity.UserTypeRegular
		if err := uow.UserRepository().Update(ctx, existing); err != nil {
			return nil, err
		}
		user = existing
	} else {
		user = &entity.User{
			Id:           uuid.New(),
			Email:        req.Email,
			PasswordHash: &hashStr,
			Type:         entity.UserTypeRegular,
			CreatedAt:    time.Now(),
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendWelcome(user.Email); emailErr != nil {
			fmt.Printf("Error sending welcome email: %v\n", emailErr)
		}
	}()

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeUserRegistered,
			Data: map[string]interface{}{
				"user_id": user.Id,
				"email":   user.Email,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_REGISTERED event: %v\n", err)
		}
	}

	return s.authResponse(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, dto.NewApiError(dto.ErrKindUnauthorized, "auth")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, dto.NewApiError(dto.ErrKindUnauthorized, "auth")
	}

	return s.authResponse(user)
}

func (s *authService) EnsureGuest(ctx context.Context, guestId uuid.UUID, guestEmail string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: guestId})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &entity.User{
		Id:        guestId,
		Email:     guestEmail,
		Type:      entity.UserTypeGuest,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// A concurrent request may have created the row first.
		if again, findErr := uow.UserRepository().FindOne(ctx, specification.ByID{ID: guestId}); findErr == nil && again != nil {
			return again, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) IssueToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.Id.String(),
		"user_type": string(user.Type),
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) authResponse(user *entity.User) (*dto.AuthResponse, error) {
	signedToken, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: signedToken,
		User: dto.UserResponse{
			Id:        user.Id,
			Email:     user.Email,
			Type:      string(user.Type),
			CreatedAt: user.CreatedAt,
		},
	}, nil
}
