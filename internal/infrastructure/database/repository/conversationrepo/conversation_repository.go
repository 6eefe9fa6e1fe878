package conversationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"menloresearch/meteobot-server/internal/domain/conversation"
	"menloresearch/meteobot-server/internal/infrastructure/database/dbschema"
	"menloresearch/meteobot-server/internal/infrastructure/database/transaction"
	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

type ConversationGormRepository struct {
	db *transaction.Database
}

var _ conversation.ConversationRepository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *transaction.Database) conversation.ConversationRepository {
	return &ConversationGormRepository{db}
}

// Create implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	model, err := dbschema.NewSchemaConversation(conv)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to map conversation", err, "40f1c9be-11dd-4cf8-8a6f-0a92b97e3c55")
	}
	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(model).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation", err, "2c1a64f0-e3c7-4896-bd0e-1c3b6f8d2a91")
	}
	// Update the domain object with generated ID and timestamps
	conv.ID = model.ID
	conv.CreatedAt = model.CreatedAt
	conv.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByPublicID implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	var model dbschema.Conversation
	err := repo.db.GetTx(ctx).WithContext(ctx).Where("public_id = ?", publicID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"conversation not found", err, "a7dffbe7-c330-4f3f-9f6d-b4f07a7518e2")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find conversation", err, "9de8ec0e-4463-4c2a-a2c4-fc2b13d6f3fa")
	}
	return model.EtoD()
}

// FindByPublicIDWithMessages implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) FindByPublicIDWithMessages(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	var model dbschema.Conversation
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("public_id = ?", publicID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"conversation not found", err, "5a4f36a0-7c2a-4b5d-8e4e-9b8a0b4e6df2")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find conversation with messages", err, "e6f0ac95-23a4-46eb-95b5-9a3fb12fb4d6")
	}
	return model.EtoD()
}

// List implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) List(ctx context.Context) ([]conversation.Conversation, error) {
	var models []dbschema.Conversation
	err := repo.db.GetTx(ctx).WithContext(ctx).Order("updated_at DESC").Find(&models).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations", err, "06d54b5e-8a43-4a6e-9199-4a2d2c1be0ad")
	}

	result := make([]conversation.Conversation, 0, len(models))
	for _, model := range models {
		conv, err := model.EtoD()
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
				"failed to map conversation", err, "37e9c7dd-92fe-4eb1-a0c7-0bbf5b2e8d30")
		}
		result = append(result, *conv)
	}
	return result, nil
}

// UpdateTitle implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Conversation{}).
		Where("id = ?", id).
		Update("title", title).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation title", err, "c5b9f1ea-0536-4a5f-9a0e-29b6b7f5d813")
	}
	return nil
}

// Delete implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Delete(ctx context.Context, id uint) error {
	tx := repo.db.GetTx(ctx).WithContext(ctx)
	if err := tx.Where("conversation_id = ?", id).Delete(&dbschema.Message{}).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation messages", err, "3b1fb7ce-91dd-49cf-a1a4-e3df3cb96f0b")
	}
	if err := tx.Delete(&dbschema.Conversation{}, id).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation", err, "8d4aa4b3-6f37-4b47-bd66-72b6a9c1f258")
	}
	return nil
}
