package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tropicaldog17/lessondesk/internal/db"
	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
)

// ReasonDraftSent is recorded on the booking audit when an approved draft goes out.
const ReasonDraftSent = "draft_approved_and_sent"

type draftRepository struct {
	db *db.DB
}

func NewDraftRepository(database *db.DB) DraftRepository {
	return &draftRepository{db: database}
}

func (r *draftRepository) InsertOnce(ctx context.Context, d *models.MessageDraft) (*models.MessageDraft, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(d)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to insert draft: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return d, true, nil
	}
	// Lost to an earlier or concurrent insert; the stored draft wins.
	existing, err := r.GetByMessageID(ctx, d.MessageID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *draftRepository) GetByMessageID(ctx context.Context, messageID string) (*models.MessageDraft, error) {
	var d models.MessageDraft
	if err := r.db.WithContext(ctx).First(&d, "message_id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: message %s", apperrors.ErrDraftNotFound, messageID)
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &d, nil
}

func (r *draftRepository) LatestForConversation(ctx context.Context, conversationID string) (*models.MessageDraft, error) {
	return latestDraft(r.db.WithContext(ctx), conversationID)
}

func latestDraft(tx *gorm.DB, conversationID string) (*models.MessageDraft, error) {
	var list []*models.MessageDraft
	if err := tx.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(1).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrDraftNotFound, conversationID)
	}
	return list[0], nil
}

// SendApproved turns the conversation's pending draft into a queued outbound message.
// Message insert, quota increment, booking audit and draft deletion commit together.
func (r *draftRepository) SendApproved(ctx context.Context, conversationID, approvedBy string, now time.Time) (*SendResult, error) {
	result := &SendResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err := latestDraft(tx, conversationID)
		if err != nil {
			return err
		}
		conv, err := getConversation(tx, conversationID)
		if err != nil {
			return err
		}

		msg := &models.Message{
			ConversationID: conversationID,
			Direction:      models.MessageOutbound,
			Channel:        conv.Channel,
			Body:           draft.Text,
			Author:         models.ActorAI,
			ApprovedBy:     &approvedBy,
			Status:         models.MessageStatusQueued,
			CreatedAt:      now,
		}
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("failed to create outbound message: %w", err)
		}

		day := models.QuotaDay(now)
		res := tx.Model(&models.ChannelQuota{}).
			Where("channel = ? AND day = ?", conv.Channel, day).
			Updates(map[string]interface{}{
				"used":       gorm.Expr("used + ?", 1),
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to increment quota: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &apperrors.QuotaMissingError{Channel: conv.Channel, Day: day}
		}

		var bookings []*models.Booking
		if err := tx.Where("conversation_id = ?", conversationID).
			Order("created_at DESC").
			Limit(1).
			Find(&bookings).Error; err != nil {
			return fmt.Errorf("failed to get conversation booking: %w", err)
		}
		if len(bookings) == 1 {
			b := bookings[0]
			state := b.State
			reason := ReasonDraftSent
			entry := &models.BookingAuditEntry{
				BookingID:     b.ID,
				PreviousState: &state,
				NewState:      state,
				Actor:         models.ActorHuman,
				ActorID:       &approvedBy,
				Reason:        &reason,
				CreatedAt:     now,
			}
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to write booking audit: %w", err)
			}
			result.BookingID = &b.ID
		}

		del := tx.Where("id = ?", draft.ID).Delete(&models.MessageDraft{})
		if del.Error != nil {
			return fmt.Errorf("failed to delete draft: %w", del.Error)
		}
		if del.RowsAffected == 0 {
			// Another approval sent this draft first.
			return fmt.Errorf("%w: conversation %s", apperrors.ErrDraftNotFound, conversationID)
		}

		result.Draft = draft
		result.Message = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
