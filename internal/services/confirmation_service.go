package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

type confirmationService struct {
	repo   repositories.ConfirmationRepository
	audit  repositories.AuditLogRepository
	logger *zap.Logger
	now    Clock
}

// NewConfirmationService creates the booking confirmation idempotency guard
func NewConfirmationService(repo repositories.ConfirmationRepository, audit repositories.AuditLogRepository, logger *zap.Logger, now Clock) ConfirmationService {
	if now == nil {
		now = utcNow
	}
	return &confirmationService{repo: repo, audit: audit, logger: logger, now: now}
}

// Confirm returns the booking bound to (instructorID, requestID), creating it on first use.
// A replay returns the stored id and ignores fields.
func (s *confirmationService) Confirm(ctx context.Context, instructorID, requestID string, fields *models.BookingFields) (*Confirmation, error) {
	if strings.TrimSpace(instructorID) == "" {
		return nil, &apperrors.ErrValidation{Field: "instructor_id", Message: "is required"}
	}
	if strings.TrimSpace(requestID) == "" {
		return nil, &apperrors.ErrValidation{Field: "request_id", Message: "is required"}
	}

	existing, found, err := s.repo.FindBookingID(ctx, instructorID, requestID)
	if err != nil {
		return nil, err
	}
	if found {
		s.logger.Info("confirmation replayed",
			zap.String("instructor_id", instructorID),
			zap.String("request_id", requestID),
			zap.String("booking_id", existing))
		return &Confirmation{BookingID: existing, Replayed: true}, nil
	}

	if fields == nil {
		return nil, &apperrors.ErrValidation{Field: "booking", Message: "is required"}
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	b := fields.NewBooking(instructorID)
	b.CreatedAt = s.now()

	bookingID, replayed, err := s.repo.CreateOnce(ctx, instructorID, requestID, b)
	if err != nil {
		return nil, err
	}
	if !replayed {
		reason := "request_id=" + requestID
		entry := models.NewAuditLogEntry(models.AuditEntityBooking, bookingID, models.AuditActionBookingConfirmed, models.ActorHuman, &instructorID, &reason, nil, b)
		if err := s.audit.Append(ctx, entry); err != nil {
			s.logger.Error("failed to audit booking confirmation", zap.String("booking_id", bookingID), zap.Error(err))
		}
		s.logger.Info("booking confirmed",
			zap.String("instructor_id", instructorID),
			zap.String("request_id", requestID),
			zap.String("booking_id", bookingID))
	}
	return &Confirmation{BookingID: bookingID, Replayed: replayed}, nil
}
