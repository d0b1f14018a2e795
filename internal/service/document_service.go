// FILE: internal/service/document_service.go
package service

import (
	"context"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/artifact"
	"ai-chat-be/pkg/stream"

	"github.com/google/uuid"
)

type IDocumentService interface {
	// Save appends a new version; the document id stays stable across versions.
	Save(ctx context.Context, userId, id uuid.UUID, req *dto.SaveDocumentRequest) (*dto.DocumentResponse, error)
	GetVersions(ctx context.Context, userId, id uuid.UUID) ([]*dto.DocumentResponse, error)
	// TruncateAfter removes every version newer than the given timestamp,
	// rewinding the document for a fresh edit from that point.
	TruncateAfter(ctx context.Context, userId, id uuid.UUID, timestamp time.Time) error

	// CreateStreaming and UpdateStreaming are the tool-facing entry points:
	// they stream artifact content through the emitter and persist the
	// resulting version.
	CreateStreaming(ctx context.Context, em *stream.Emitter, userId, id uuid.UUID, title, kind string) (*entity.Document, error)
	UpdateStreaming(ctx context.Context, em *stream.Emitter, userId, id uuid.UUID, description string) (*entity.Document, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *artifact.Registry
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, registry *artifact.Registry) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		registry:   registry,
	}
}

func (s *documentService) Save(ctx context.Context, userId, id uuid.UUID, req *dto.SaveDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	current, err := uow.DocumentRepository().FindCurrentById(ctx, id)
	if err != nil {
		return nil, err
	}
	if current != nil && current.UserId != userId {
		return nil, dto.NewApiError(dto.ErrKindForbidden, "document")
	}

	doc := &entity.Document{
		Id:        id,
		CreatedAt: time.Now(),
		Title:     req.Title,
		Content:   req.Content,
		Kind:      req.Kind,
		UserId:    userId,
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	return documentToResponse(doc), nil
}

func (s *documentService) GetVersions(ctx context.Context, userId, id uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAllById(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, dto.NewApiError(dto.ErrKindNotFound, "document")
	}
	if docs[0].UserId != userId {
		return nil, dto.NewApiError(dto.ErrKindForbidden, "document")
	}

	out := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		out[i] = documentToResponse(doc)
	}
	return out, nil
}

func (s *documentService) TruncateAfter(ctx context.Context, userId, id uuid.UUID, timestamp time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	current, err := uow.DocumentRepository().FindCurrentById(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return dto.NewApiError(dto.ErrKindNotFound, "document")
	}
	if current.UserId != userId {
		return dto.NewApiError(dto.ErrKindForbidden, "document")
	}

	return uow.DocumentRepository().DeleteAfterTimestamp(ctx, id, timestamp)
}

func (s *documentService) CreateStreaming(ctx context.Context, em *stream.Emitter, userId, id uuid.UUID, title, kind string) (*entity.Document, error) {
	handler, err := s.registry.Resolve(kind)
	if err != nil {
		return nil, err
	}

	em.Emit(ctx, stream.EventDataKind, map[string]interface{}{"kind": kind})
	em.Emit(ctx, stream.EventDataId, map[string]interface{}{"id": id.String()})
	em.Emit(ctx, stream.EventDataTitle, map[string]interface{}{"title": title})
	em.Emit(ctx, stream.EventDataClear, nil)

	content, err := handler.Create(ctx, em, title)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		Id:        id,
		CreatedAt: time.Now(),
		Title:     title,
		Content:   content,
		Kind:      kind,
		UserId:    userId,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	em.Emit(ctx, stream.EventDataFinish, nil)
	return doc, nil
}

func (s *documentService) UpdateStreaming(ctx context.Context, em *stream.Emitter, userId, id uuid.UUID, description string) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	current, err := uow.DocumentRepository().FindCurrentById(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, dto.NewApiError(dto.ErrKindNotFound, "document")
	}
	if current.UserId != userId {
		return nil, dto.NewApiError(dto.ErrKindForbidden, "document")
	}

	handler, err := s.registry.Resolve(current.Kind)
	if err != nil {
		return nil, err
	}

	em.Emit(ctx, stream.EventDataKind, map[string]interface{}{"kind": current.Kind})
	em.Emit(ctx, stream.EventDataId, map[string]interface{}{"id": id.String()})
	em.Emit(ctx, stream.EventDataTitle, map[string]interface{}{"title": current.Title})
	em.Emit(ctx, stream.EventDataClear, nil)

	content, err := handler.Update(ctx, em, current.Content, description)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		Id:        id,
		CreatedAt: time.Now(),
		Title:     current.Title,
		Content:   content,
		Kind:      current.Kind,
		UserId:    userId,
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	em.Emit(ctx, stream.EventDataFinish, nil)
	return doc, nil
}

func documentToResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:        doc.Id,
		CreatedAt: doc.CreatedAt,
		Title:     doc.Title,
		Content:   doc.Content,
		Kind:      doc.Kind,
	}
}
