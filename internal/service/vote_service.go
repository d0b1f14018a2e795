// FILE: internal/service/vote_service.go
package service

import (
	"context"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/chat/access"

	"github.com/google/uuid"
)

type IVoteService interface {
	Vote(ctx context.Context, userId uuid.UUID, req *dto.VoteRequest) error
	GetVotes(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.VoteResponse, error)
}

type voteService struct {
	uowFactory unitofwork.RepositoryFactory
	verifier   *access.Verifier
}

func NewVoteService(uowFactory unitofwork.RepositoryFactory, verifier *access.Verifier) IVoteService {
	return &voteService{
		uowFactory: uowFactory,
		verifier:   verifier,
	}
}

// Vote records an up/down rating on a message. Re-voting the same message
// overwrites the previous rating.
func (s *voteService) Vote(ctx context.Context, userId uuid.UUID, req *dto.VoteRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.verifier.VerifyChatOwnership(ctx, uow, userId, req.ChatId); err != nil {
		return err
	}

	message, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: req.MessageId})
	if err != nil {
		return err
	}
	if message == nil || message.ChatId != req.ChatId {
		return dto.NewApiError(dto.ErrKindNotFound, "vote")
	}

	return uow.VoteRepository().Upsert(ctx, &entity.Vote{
		ChatId:    req.ChatId,
		MessageId: req.MessageId,
		IsUpvoted: req.Type == "up",
	})
}

func (s *voteService) GetVotes(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.VoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.verifier.VerifyChatReadable(ctx, uow, userId, chatId); err != nil {
		return nil, err
	}

	votes, err := uow.VoteRepository().FindAllByChatId(ctx, chatId)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.VoteResponse, len(votes))
	for i, vote := range votes {
		out[i] = &dto.VoteResponse{
			ChatId:    vote.ChatId,
			MessageId: vote.MessageId,
			IsUpvoted: vote.IsUpvoted,
		}
	}
	return out, nil
}
