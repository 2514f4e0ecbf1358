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

type confirmationRepository struct {
	db *db.DB
}

func NewConfirmationRepository(database *db.DB) ConfirmationRepository {
	return &confirmationRepository{db: database}
}

func (r *confirmationRepository) FindBookingID(ctx context.Context, instructorID, requestID string) (string, bool, error) {
	return findConfirmation(r.db.WithContext(ctx), instructorID, requestID)
}

func findConfirmation(tx *gorm.DB, instructorID, requestID string) (string, bool, error) {
	var c models.ConfirmationAudit
	err := tx.First(&c, "instructor_id = ? AND request_id = ?", instructorID, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read confirmation audit: %w", err)
	}
	return c.BookingID, true, nil
}

func (r *confirmationRepository) CreateOnce(ctx context.Context, instructorID, requestID string, b *models.Booking) (string, bool, error) {
	var bookingID string
	var replayed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, found, err := findConfirmation(tx, instructorID, requestID)
		if err != nil {
			return err
		}
		if found {
			bookingID, replayed = existing, true
			return nil
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		rec := &models.ConfirmationAudit{InstructorID: instructorID, RequestID: requestID, BookingID: b.ID}
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		bookingID = b.ID
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent request with the same key committed first; our booking insert was
		// rolled back with the transaction.
		existing, found, findErr := r.FindBookingID(ctx, instructorID, requestID)
		if findErr != nil || !found {
			return "", false, fmt.Errorf("%w: instructor %s request %s", apperrors.ErrConfirmationConflict, instructorID, requestID)
		}
		return existing, true, nil
	}
	if err != nil {
		return "", false, err
	}
	return bookingID, replayed, nil
}
