// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/chat/access"
	"ai-chat-be/pkg/chat/history"
	"ai-chat-be/pkg/chat/prompt"
	"ai-chat-be/pkg/chat/title"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/llm"
	pktNats "ai-chat-be/pkg/nats"
	"ai-chat-be/pkg/stream"

	"github.com/google/uuid"
)

type IChatService interface {
	// PostMessage runs one chat turn. The returned emitter carries the live
	// event stream; generation continues in the background even if the
	// caller stops reading.
	PostMessage(ctx context.Context, userId uuid.UUID, anonymous bool, guestEmail string, hints prompt.RequestHints, req *dto.PostChatRequest) (*stream.Emitter, error)

	// ResumeStream replays the buffered events of the chat's most recent
	// stream. Empty when the buffer expired or nothing is in flight.
	ResumeStream(ctx context.Context, userId, chatId uuid.UUID) ([]stream.Event, error)

	GetChat(ctx context.Context, userId, chatId uuid.UUID) (*dto.ChatSummaryResponse, error)
	GetMessages(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.GetMessagesResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, limit int, startingAfter, endingBefore *uuid.UUID, search string) (*dto.GetHistoryResponse, error)
	DeleteChat(ctx context.Context, userId, chatId uuid.UUID) (*dto.DeleteChatResponse, error)
	UpdateVisibility(ctx context.Context, userId, chatId uuid.UUID, visibility string) error
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	authService      IAuthService
	documentService  IDocumentService
	orchestrator     *stream.Orchestrator
	verifier         *access.Verifier
	historyLoader    *history.Loader
	publisherService IPublisherService
	buffer           stream.Buffer
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	authService IAuthService,
	documentService IDocumentService,
	orchestrator *stream.Orchestrator,
	verifier *access.Verifier,
	historyLoader *history.Loader,
	publisherService IPublisherService,
	buffer stream.Buffer,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		authService:      authService,
		documentService:  documentService,
		orchestrator:     orchestrator,
		verifier:         verifier,
		historyLoader:    historyLoader,
		publisherService: publisherService,
		buffer:           buffer,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *chatService) PostMessage(ctx context.Context, userId uuid.UUID, anonymous bool, guestEmail string, hints prompt.RequestHints, req *dto.PostChatRequest) (*stream.Emitter, error) {
	model := req.SelectedChatModel
	if model == "" {
		model = constant.DefaultChatModel
	}
	if model != constant.DefaultChatModel && model != constant.ReasoningChatModel {
		return nil, dto.NewApiError(dto.ErrKindBadRequest, "api")
	}

	if anonymous {
		if _, err := s.authService.EnsureGuest(ctx, userId, guestEmail); err != nil {
			return nil, err
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.verifier.VerifyMessageQuota(ctx, uow, userId); err != nil {
		return nil, err
	}

	chat, err := s.resolveChat(ctx, uow, userId, req)
	if err != nil {
		return nil, err
	}

	if removed, err := s.historyLoader.CleanupStuckMessages(ctx, uow, chat.Id); err != nil {
		return nil, err
	} else if removed > 0 {
		s.logger.Warn("Chat", "Removed stuck assistant messages", map[string]interface{}{
			"chat_id": chat.Id,
			"count":   removed,
		})
	}

	userMessage := &entity.ChatMessage{
		Id:          req.Message.Id,
		ChatId:      chat.Id,
		Role:        constant.ChatMessageRoleUser,
		Parts:       req.Message.Parts,
		Attachments: req.Message.Attachments,
		CreatedAt:   time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	msgs, err := s.historyLoader.LoadConversationHistory(ctx, uow, chat.Id)
	if err != nil {
		return nil, err
	}

	system := prompt.NewSystemBuilder(model, hints).Build()
	llmHistory := append([]llm.Message{{Role: constant.ChatMessageRoleSystem, Content: system}}, msgs...)

	streamId := chat.Id.String()
	// A new turn invalidates the previous turn's replay buffer.
	_ = s.buffer.Clear(ctx, streamId)
	em := stream.NewEmitter(streamId, s.buffer, 64)

	var tools []stream.Tool
	if model != constant.ReasoningChatModel {
		tools = s.buildTools(userId)
	}

	// The turn owns its own context: a dropped SSE connection must not
	// abort generation, since the result is persisted and resumable.
	go s.runTurn(context.Background(), em, chat, llmHistory, tools)

	return em, nil
}

func (s *chatService) resolveChat(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req *dto.PostChatRequest) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if chat != nil {
		if chat.UserId != userId {
			return nil, dto.NewApiError(dto.ErrKindForbidden, "chat")
		}
		return chat, nil
	}

	visibility := req.SelectedVisibilityType
	if visibility == "" {
		visibility = constant.ChatVisibilityPrivate
	}

	// The chat gets a provisional title immediately; the real one is
	// generated off the request path and pushed once ready.
	firstText := firstTextPart(req.Message.Parts)
	chat = &entity.Chat{
		Id:         req.Id,
		UserId:     userId,
		Title:      title.Fallback(firstText),
		Visibility: visibility,
		CreatedAt:  time.Now(),
	}
	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.GenerateTitleMessage{ChatId: chat.Id, Message: firstText})
	if err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("Chat", "Failed to queue title generation", map[string]interface{}{
				"chat_id": chat.Id,
				"error":   err.Error(),
			})
		}
	}

	return chat, nil
}

func (s *chatService) runTurn(ctx context.Context, em *stream.Emitter, chat *entity.Chat, llmHistory []llm.Message, tools []stream.Tool) {
	result, err := s.orchestrator.Run(ctx, em, llmHistory, tools)
	if err != nil {
		s.publish(ctx, events.TypeChatFailed, map[string]interface{}{
			"chat_id": chat.Id,
			"user_id": chat.UserId,
		})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	assistantMessage := &entity.ChatMessage{
		Id:        result.MessageId,
		ChatId:    chat.Id,
		Role:      constant.ChatMessageRoleAssistant,
		Parts:     result.Parts,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		s.logger.Error("Chat", "Failed to persist assistant message", map[string]interface{}{
			"chat_id": chat.Id,
			"error":   err.Error(),
		})
		return
	}

	now := time.Now()
	chat.UpdatedAt = &now
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		s.logger.Warn("Chat", "Failed to bump chat timestamp", map[string]interface{}{
			"chat_id": chat.Id,
			"error":   err.Error(),
		})
	}

	s.publish(ctx, events.TypeChatCompleted, map[string]interface{}{
		"chat_id":    chat.Id,
		"user_id":    chat.UserId,
		"message_id": result.MessageId,
	})
}

// buildTools wires the artifact tools for one turn. Each closure carries
// the turn's user so documents land under the right owner.
func (s *chatService) buildTools(userId uuid.UUID) []stream.Tool {
	createParams := json.RawMessage(`{
		"type": "object",
		"properties": {
			"title": {"type": "string", "description": "Title of the document"},
			"kind": {"type": "string", "enum": ["text", "code", "sheet"], "description": "Kind of document"}
		},
		"required": ["title", "kind"]
	}`)

	updateParams := json.RawMessage(`{
		"type": "object",
		"properties": {
			"id": {"type": "string", "description": "ID of the document to update"},
			"description": {"type": "string", "description": "Description of the changes to make"}
		},
		"required": ["id", "description"]
	}`)

	createTool := stream.Tool{
		Definition: llm.ToolDefinition{
			Name:        constant.ToolCreateDocument,
			Description: "Create a document for writing or content creation activities. The content is generated based on the title and kind.",
			Parameters:  createParams,
		},
		Execute: func(ctx context.Context, em *stream.Emitter, callId string, args json.RawMessage) (map[string]interface{}, error) {
			var input struct {
				Title string `json:"title"`
				Kind  string `json:"kind"`
			}
			if err := json.Unmarshal(args, &input); err != nil {
				return nil, fmt.Errorf("invalid createDocument arguments: %w", err)
			}

			docId := uuid.New()
			doc, err := s.documentService.CreateStreaming(ctx, em, userId, docId, input.Title, input.Kind)
			if err != nil {
				return nil, err
			}

			return map[string]interface{}{
				"id":      doc.Id.String(),
				"title":   doc.Title,
				"kind":    doc.Kind,
				"content": "A document was created and is now visible to the user.",
			}, nil
		},
	}

	updateTool := stream.Tool{
		Definition: llm.ToolDefinition{
			Name:        constant.ToolUpdateDocument,
			Description: "Update a document with the given description of changes.",
			Parameters:  updateParams,
		},
		Execute: func(ctx context.Context, em *stream.Emitter, callId string, args json.RawMessage) (map[string]interface{}, error) {
			var input struct {
				Id          string `json:"id"`
				Description string `json:"description"`
			}
			if err := json.Unmarshal(args, &input); err != nil {
				return nil, fmt.Errorf("invalid updateDocument arguments: %w", err)
			}
			docId, err := uuid.Parse(input.Id)
			if err != nil {
				return nil, fmt.Errorf("invalid document id: %w", err)
			}

			doc, err := s.documentService.UpdateStreaming(ctx, em, userId, docId, input.Description)
			if err != nil {
				return nil, err
			}

			return map[string]interface{}{
				"id":      doc.Id.String(),
				"title":   doc.Title,
				"kind":    doc.Kind,
				"content": "The document has been updated successfully.",
			}, nil
		},
	}

	return []stream.Tool{createTool, updateTool}
}

func (s *chatService) ResumeStream(ctx context.Context, userId, chatId uuid.UUID) ([]stream.Event, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.verifier.VerifyChatReadable(ctx, uow, userId, chatId); err != nil {
		return nil, err
	}

	return s.buffer.Load(ctx, chatId.String())
}

func (s *chatService) GetChat(ctx context.Context, userId, chatId uuid.UUID) (*dto.ChatSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := s.verifier.VerifyChatReadable(ctx, uow, userId, chatId)
	if err != nil {
		return nil, err
	}
	return chatToSummary(chat), nil
}

func (s *chatService) GetMessages(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.GetMessagesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.verifier.VerifyChatReadable(ctx, uow, userId, chatId); err != nil {
		return nil, err
	}

	rows, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.GetMessagesResponse, len(rows))
	for i, row := range rows {
		out[i] = &dto.GetMessagesResponse{
			Id:          row.Id,
			Role:        row.Role,
			Parts:       row.Parts,
			Attachments: row.Attachments,
			CreatedAt:   row.CreatedAt,
		}
	}
	return out, nil
}

func (s *chatService) GetHistory(ctx context.Context, userId uuid.UUID, limit int, startingAfter, endingBefore *uuid.UUID, search string) (*dto.GetHistoryResponse, error) {
	if startingAfter != nil && endingBefore != nil {
		return nil, dto.NewApiError(dto.ErrKindBadRequest, "history")
	}
	if limit <= 0 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: limit + 1},
	}
	if search != "" {
		specs = append(specs, specification.TitleContains{Query: search})
	}

	if startingAfter != nil {
		cursor, err := s.cursorChat(ctx, uow, *startingAfter)
		if err != nil {
			return nil, err
		}
		specs = append(specs, specification.CreatedAfter{Timestamp: cursor.CreatedAt})
	} else if endingBefore != nil {
		cursor, err := s.cursorChat(ctx, uow, *endingBefore)
		if err != nil {
			return nil, err
		}
		specs = append(specs, specification.CreatedBefore{Timestamp: cursor.CreatedAt})
	}

	chats, err := uow.ChatRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	hasMore := len(chats) > limit
	if hasMore {
		chats = chats[:limit]
	}

	summaries := make([]*dto.ChatSummaryResponse, len(chats))
	for i, chat := range chats {
		summaries[i] = chatToSummary(chat)
	}

	return &dto.GetHistoryResponse{Chats: summaries, HasMore: hasMore}, nil
}

func (s *chatService) cursorChat(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Chat, error) {
	cursor, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if cursor == nil {
		return nil, dto.NewApiError(dto.ErrKindBadRequest, "history")
	}
	return cursor, nil
}

func (s *chatService) DeleteChat(ctx context.Context, userId, chatId uuid.UUID) (*dto.DeleteChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.verifier.VerifyChatOwnership(ctx, uow, userId, chatId); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.VoteRepository().DeleteByChatId(ctx, chatId); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().DeleteByChatId(ctx, chatId); err != nil {
		return nil, err
	}
	if err := uow.ChatRepository().Delete(ctx, chatId); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	_ = s.buffer.Clear(ctx, chatId.String())
	return &dto.DeleteChatResponse{Id: chatId}, nil
}

func (s *chatService) UpdateVisibility(ctx context.Context, userId, chatId uuid.UUID, visibility string) error {
	if visibility != constant.ChatVisibilityPrivate && visibility != constant.ChatVisibilityPublic {
		return dto.NewApiError(dto.ErrKindBadRequest, "chat")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.verifier.VerifyChatOwnership(ctx, uow, userId, chatId); err != nil {
		return err
	}

	return uow.ChatRepository().UpdateVisibility(ctx, chatId, visibility)
}

func (s *chatService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Chat", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func firstTextPart(parts []entity.MessagePart) string {
	for _, part := range parts {
		if part.Type == entity.MessagePartTypeText && part.Text != "" {
			return part.Text
		}
	}
	return ""
}

func chatToSummary(chat *entity.Chat) *dto.ChatSummaryResponse {
	return &dto.ChatSummaryResponse{
		Id:         chat.Id,
		Title:      chat.Title,
		Visibility: chat.Visibility,
		CreatedAt:  chat.CreatedAt,
		UpdatedAt:  chat.UpdatedAt,
	}
}
