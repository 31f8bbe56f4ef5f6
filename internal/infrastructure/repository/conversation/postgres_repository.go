package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"alethiq-server/services/chat-api/internal/domain/chat"
	"alethiq-server/services/chat-api/internal/infrastructure/database/entities"
	"alethiq-server/services/chat-api/internal/infrastructure/metrics"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// Repository persists conversations and their messages.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ chat.Repository = (*Repository)(nil)

// Create inserts the conversation record together with its initial messages.
func (r *Repository) Create(ctx context.Context, conv *chat.Conversation) error {
	start := time.Now()
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"8c1f2aa4-5c1d-4e6f-9a3b-0d2e4f6a8c1b",
		)
	}
	metrics.RecordDBQuery("conversation_create", time.Since(start).Seconds())

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	for i := range entity.Messages {
		conv.Messages[i].ID = entity.Messages[i].ID
		conv.Messages[i].ConversationID = entity.ID
	}
	return nil
}

// FindByPublicID fetches a conversation with its messages in sequence order.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*chat.Conversation, error) {
	start := time.Now()
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"3d9b7e2c-1a4f-4b8d-9c6e-5f0a2b4d6e8c",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"6e4c2a0f-8b6d-4e2c-a0f8-b6d4e2c0a8f6",
		)
	}
	metrics.RecordDBQuery("conversation_find", time.Since(start).Seconds())

	return entity.EtoD(), nil
}

// FindByOwner lists the owner's conversations, most recently updated first.
// Messages are not loaded; listings only need the headline fields.
func (r *Repository) FindByOwner(ctx context.Context, ownerID string) ([]*chat.Conversation, error) {
	start := time.Now()
	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"1b3d5f7a-9c1e-4f3b-8d5a-7c9e1b3d5f7a",
		)
	}
	metrics.RecordDBQuery("conversation_list", time.Since(start).Seconds())

	result := make([]*chat.Conversation, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// AppendMessages inserts the messages and touches the parent conversation's
// updated_at, in one transaction.
func (r *Repository) AppendMessages(ctx context.Context, conversationID uint, messages []chat.Message) error {
	if len(messages) == 0 {
		return nil
	}

	start := time.Now()
	rows := make([]entities.ConversationMessage, len(messages))
	for i := range messages {
		messages[i].ConversationID = conversationID
		rows[i] = *entities.NewSchemaConversationMessage(&messages[i])
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append messages",
			err,
			"5a7c9e1b-3d5f-4a7c-9e1b-3d5f7a9c1e3b",
		)
	}
	metrics.RecordDBQuery("message_append", time.Since(start).Seconds())

	for i := range rows {
		messages[i].ID = rows[i].ID
	}
	return nil
}
