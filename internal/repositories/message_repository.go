package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tropicaldog17/lessondesk/internal/db"
	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
)

type messageRepository struct {
	db *db.DB
}

func NewMessageRepository(database *db.DB) MessageRepository {
	return &messageRepository{db: database}
}

func (r *messageRepository) Create(ctx context.Context, m *models.Message) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var m models.Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMessageNotFound, id)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &m, nil
}

func (r *messageRepository) LatestInbound(ctx context.Context, conversationID string) (*models.Message, error) {
	var list []*models.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND direction = ?", conversationID, models.MessageInbound).
		Order("created_at DESC").
		Limit(1).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to get latest inbound message: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
