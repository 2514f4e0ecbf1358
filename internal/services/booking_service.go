package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

// PendingTimeout is how long a booking may sit in pending before it is declined.
const PendingTimeout = 24 * time.Hour

// ReasonPendingExpired is recorded when a stale pending booking is declined on read.
const ReasonPendingExpired = "expired_pending_timeout"

type bookingService struct {
	repo   repositories.BookingRepository
	audit  repositories.AuditLogRepository
	logger *zap.Logger
	now    Clock
}

// NewBookingService creates a booking service using the wall clock
func NewBookingService(repo repositories.BookingRepository, audit repositories.AuditLogRepository, logger *zap.Logger) BookingService {
	return NewBookingServiceWithClock(repo, audit, logger, utcNow)
}

// NewBookingServiceWithClock creates a booking service with an explicit clock
func NewBookingServiceWithClock(repo repositories.BookingRepository, audit repositories.AuditLogRepository, logger *zap.Logger, now Clock) BookingService {
	return &bookingService{repo: repo, audit: audit, logger: logger, now: now}
}

func (s *bookingService) Create(ctx context.Context, instructorID string, fields *models.BookingFields, actor models.ActorType, actorID string) (*models.Booking, error) {
	if instructorID == "" {
		return nil, &apperrors.ErrValidation{Field: "instructor_id", Message: "is required"}
	}
	if fields == nil {
		return nil, &apperrors.ErrValidation{Field: "booking", Message: "is required"}
	}
	if !actor.IsValid() {
		return nil, &apperrors.ErrValidation{Field: "actor", Message: "unknown actor type"}
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	b := fields.NewBooking(instructorID)
	b.CreatedAt = s.now()
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	var who *string
	if actorID != "" {
		who = &actorID
	}
	entry := models.NewAuditLogEntry(models.AuditEntityBooking, b.ID, models.AuditActionBookingCreated, actor, who, nil, nil, b)
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("failed to audit booking creation", zap.String("booking_id", b.ID), zap.Error(err))
	}
	return b, nil
}

func (s *bookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expire(ctx, b)
}

func (s *bookingService) GetOwned(ctx context.Context, id, instructorID string) (*models.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.InstructorID != instructorID {
		return nil, fmt.Errorf("%w: booking %s", apperrors.ErrForbidden, id)
	}
	return b, nil
}

func (s *bookingService) GetForConversation(ctx context.Context, conversationID string) (*models.Booking, error) {
	b, err := s.repo.GetLatestByConversation(ctx, conversationID)
	if err != nil || b == nil {
		return nil, err
	}
	return s.expire(ctx, b)
}

// expire declines a pending booking older than PendingTimeout.
func (s *bookingService) expire(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if b.State != models.BookingStatePending || s.now().Sub(b.CreatedAt) <= PendingTimeout {
		return b, nil
	}
	next, err := models.NextBookingState(b.State, models.BookingStateDeclined)
	if err != nil {
		return nil, err
	}
	prev := b.State
	reason := ReasonPendingExpired
	entry := &models.BookingAuditEntry{
		BookingID:     b.ID,
		PreviousState: &prev,
		NewState:      next,
		Actor:         models.ActorSystem,
		Reason:        &reason,
		CreatedAt:     s.now(),
	}
	err = s.repo.TransitionState(ctx, b.ID, prev, next, entry)
	if errors.Is(err, apperrors.ErrConcurrentUpdate) {
		// Another reader expired it, or a human acted first; either way storage has the answer.
		return s.repo.GetByID(ctx, b.ID)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("pending booking expired",
		zap.String("booking_id", b.ID),
		zap.Time("created_at", b.CreatedAt))
	b.State = next
	return b, nil
}

func (s *bookingService) Transition(ctx context.Context, id string, requested models.BookingState, actor models.ActorType, actorID, reason *string) (*models.Booking, error) {
	if !actor.IsValid() {
		return nil, &apperrors.ErrValidation{Field: "actor", Message: "unknown actor type"}
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := models.NextBookingState(b.State, requested)
	if err != nil {
		return nil, err
	}
	prev := b.State
	entry := &models.BookingAuditEntry{
		BookingID:     b.ID,
		PreviousState: &prev,
		NewState:      next,
		Actor:         actor,
		ActorID:       actorID,
		Reason:        reason,
		CreatedAt:     s.now(),
	}
	if err := s.repo.TransitionState(ctx, b.ID, prev, next, entry); err != nil {
		return nil, err
	}
	s.logger.Info("booking transitioned",
		zap.String("booking_id", b.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
		zap.String("actor", string(actor)))
	b.State = next
	return b, nil
}

// Lifecycle projects the booking's creation fact and audit entries into a timeline.
func (s *bookingService) Lifecycle(ctx context.Context, id string) ([]*models.LifecycleEvent, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListAudit(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return projectLifecycle(b, entries), nil
}

// projectLifecycle does not trust the order of entries.
func projectLifecycle(b *models.Booking, entries []*models.BookingAuditEntry) []*models.LifecycleEvent {
	entries = append([]*models.BookingAuditEntry(nil), entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	initial := b.State
	if len(entries) > 0 && entries[0].PreviousState != nil {
		initial = *entries[0].PreviousState
	}
	events := make([]*models.LifecycleEvent, 0, len(entries)+1)
	events = append(events, &models.LifecycleEvent{
		Type:    models.LifecycleBookingCreated,
		At:      b.CreatedAt,
		ToState: initial,
	})
	for _, e := range entries {
		kind := models.LifecycleStatusTransition
		if e.Actor == models.ActorHuman && e.StateChanged() {
			kind = models.LifecycleManualOverride
		}
		events = append(events, &models.LifecycleEvent{
			Type:      kind,
			At:        e.CreatedAt,
			FromState: e.PreviousState,
			ToState:   e.NewState,
			Actor:     e.Actor,
			ActorID:   e.ActorID,
			Reason:    e.Reason,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events
}
