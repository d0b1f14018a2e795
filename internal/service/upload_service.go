// FILE: internal/service/upload_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"ai-chat-be/internal/dto"
	"ai-chat-be/pkg/storage"

	"github.com/google/uuid"
)

const maxUploadSize = 5 * 1024 * 1024 // 5 MB

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type IUploadService interface {
	Upload(ctx context.Context, userId uuid.UUID, filename, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error)
}

type uploadService struct {
	store storage.ObjectStorage
}

func NewUploadService(store storage.ObjectStorage) IUploadService {
	return &uploadService{store: store}
}

func (s *uploadService) Upload(ctx context.Context, userId uuid.UUID, filename, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error) {
	if size <= 0 || size > maxUploadSize {
		return nil, dto.NewApiError(dto.ErrKindBadRequest, "upload")
	}
	if !allowedContentTypes[contentType] {
		return nil, dto.NewApiError(dto.ErrKindBadRequest, "upload")
	}

	// Namespace objects per user and randomize the name; the original
	// filename only survives in the response metadata.
	key := fmt.Sprintf("%s/%s%s", userId, uuid.NewString(), filepath.Ext(filename))

	url, err := s.store.Put(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	return &dto.UploadResponse{
		URL:         url,
		Name:        filename,
		ContentType: contentType,
	}, nil
}
