package implementation

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/mapper"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewVoteRepository(db *gorm.DB) contract.VoteRepository {
	return &VoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *VoteRepositoryImpl) Upsert(ctx context.Context, vote *entity.Vote) error {
	m := r.mapper.VoteToModel(vote)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "message_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_upvoted"}),
		}).
		Create(m).Error
}

func (r *VoteRepositoryImpl) FindAllByChatId(ctx context.Context, chatId uuid.UUID) ([]*entity.Vote, error) {
	var models []*model.Vote
	if err := r.db.WithContext(ctx).Where("chat_id = ?", chatId).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Vote, len(models))
	for i, m := range models {
		entities[i] = r.mapper.VoteToEntity(m)
	}
	return entities, nil
}

func (r *VoteRepositoryImpl) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chat_id = ?", chatId).Delete(&model.Vote{}).Error
}
