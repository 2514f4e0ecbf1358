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

type bookingRepository struct {
	db *db.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(database *db.DB) BookingRepository {
	return &bookingRepository{db: database}
}

func (r *bookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) GetLatestByConversation(ctx context.Context, conversationID string) (*models.Booking, error) {
	var list []*models.Booking
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(1).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation booking: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *bookingRepository) TransitionState(ctx context.Context, id string, from, to models.BookingState, entry *models.BookingAuditEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND state = ?", id, from).
			Updates(map[string]interface{}{
				"state":      to,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update booking state: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s no longer in state %s", apperrors.ErrConcurrentUpdate, id, from)
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to write booking audit: %w", err)
		}
		return nil
	})
}

func (r *bookingRepository) AppendAudit(ctx context.Context, entry *models.BookingAuditEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write booking audit: %w", err)
	}
	return nil
}

func (r *bookingRepository) ListAudit(ctx context.Context, bookingID string) ([]*models.BookingAuditEntry, error) {
	var list []*models.BookingAuditEntry
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list booking audit: %w", err)
	}
	return list, nil
}
