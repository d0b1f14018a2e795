package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:        d.Id,
		CreatedAt: d.CreatedAt,
		Title:     d.Title,
		Content:   d.Content,
		Kind:      d.Kind,
		UserId:    d.UserId,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:        d.Id,
		CreatedAt: d.CreatedAt,
		Title:     d.Title,
		Content:   d.Content,
		Kind:      d.Kind,
		UserId:    d.UserId,
	}
}
