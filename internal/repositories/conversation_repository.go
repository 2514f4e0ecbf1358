package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tropicaldog17/lessondesk/internal/db"
	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
)

type conversationRepository struct {
	db *db.DB
}

func NewConversationRepository(database *db.DB) ConversationRepository {
	return &conversationRepository{db: database}
}

func (r *conversationRepository) Create(ctx context.Context, c *models.Conversation) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	return getConversation(r.db.WithContext(ctx), id)
}

func getConversation(tx *gorm.DB, id string) (*models.Conversation, error) {
	var c models.Conversation
	if err := tx.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConversationNotFound, id)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &c, nil
}

func (r *conversationRepository) SetAutomationState(ctx context.Context, id string, next models.AutomationState, actor models.ActorType, actorID, reason *string) (models.AutomationState, error) {
	var previous models.AutomationState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getConversation(tx, id)
		if err != nil {
			return err
		}
		previous = c.EffectiveAutomationState()

		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"automation_state": next,
				"updated_at":       time.Now().UTC(),
			}).Error; err != nil {
			return fmt.Errorf("failed to update automation state: %w", err)
		}

		entry := models.NewAuditLogEntry(
			models.AuditEntityConversation, id, models.AuditActionAutomationStateChanged,
			actor, actorID, reason,
			map[string]string{"automation_state": string(previous)},
			map[string]string{"automation_state": string(next)},
		)
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to write automation audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}
