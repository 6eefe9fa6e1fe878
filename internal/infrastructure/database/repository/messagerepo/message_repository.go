package messagerepo

import (
	"context"

	"menloresearch/meteobot-server/internal/domain/conversation"
	"menloresearch/meteobot-server/internal/infrastructure/database/dbschema"
	"menloresearch/meteobot-server/internal/infrastructure/database/transaction"
	"menloresearch/meteobot-server/internal/utils/functional"
	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

type MessageGormRepository struct {
	db *transaction.Database
}

var _ conversation.MessageRepository = (*MessageGormRepository)(nil)

func NewMessageGormRepository(db *transaction.Database) conversation.MessageRepository {
	return &MessageGormRepository{db}
}

// Create implements conversation.MessageRepository.
func (repo *MessageGormRepository) Create(ctx context.Context, msg *conversation.Message) error {
	model := dbschema.NewSchemaMessage(msg)
	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(model).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create message", err, "f7b2d0a1-44cb-4a3e-b2b1-90dd5e7c44af")
	}
	msg.ID = model.ID
	msg.CreatedAt = model.CreatedAt
	return nil
}

// LatestByConversationID implements conversation.MessageRepository. Messages
// are fetched newest-first then reversed so callers receive them in
// chronological order.
func (repo *MessageGormRepository) LatestByConversationID(ctx context.Context, conversationID uint, limit int) ([]conversation.Message, error) {
	var models []dbschema.Message
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to load conversation history", err, "0b6a8f25-5cc0-4ad8-a9d3-7e1f5b6c0e92")
	}

	messages := functional.Map(models, func(model dbschema.Message) conversation.Message {
		return *model.EtoD()
	})
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CountByConversationID implements conversation.MessageRepository.
func (repo *MessageGormRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	var count int64
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to count messages", err, "4e8a2c1d-9f7b-4f6a-8f3f-1b2d9c4a7e60")
	}
	return count, nil
}
