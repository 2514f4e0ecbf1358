package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
)

// BookingState represents where a lesson booking is in its lifecycle
type BookingState string

const (
	BookingStateDraft     BookingState = "draft"
	BookingStatePending   BookingState = "pending"
	BookingStateConfirmed BookingState = "confirmed"
	BookingStateModified  BookingState = "modified"
	BookingStateDeclined  BookingState = "declined"
	BookingStateCancelled BookingState = "cancelled"
	BookingStateExpired   BookingState = "expired"
	BookingStateCompleted BookingState = "completed"
)

// ActorType identifies who performed a state-affecting action
type ActorType string

const (
	ActorSystem ActorType = "system"
	ActorHuman  ActorType = "human"
	ActorAI     ActorType = "ai"
)

// IsValid reports whether the actor type is one of the known parties.
func (a ActorType) IsValid() bool {
	switch a {
	case ActorSystem, ActorHuman, ActorAI:
		return true
	}
	return false
}

var bookingTransitions = map[BookingState][]BookingState{
	BookingStateDraft:     {BookingStatePending, BookingStateCancelled},
	BookingStatePending:   {BookingStateConfirmed, BookingStateDeclined, BookingStateCancelled, BookingStateExpired},
	BookingStateConfirmed: {BookingStateModified, BookingStateCancelled, BookingStateCompleted},
	BookingStateModified:  {BookingStateConfirmed, BookingStateCancelled},
	BookingStateDeclined:  nil,
	BookingStateCancelled: nil,
	BookingStateExpired:   nil,
	BookingStateCompleted: nil,
}

// IsValid reports whether s is a known booking state.
func (s BookingState) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are allowed out of s.
func (s BookingState) IsTerminal() bool {
	next, ok := bookingTransitions[s]
	return ok && len(next) == 0
}

// NextBookingState validates a requested booking state change. It has no side effects and
// must succeed before anything is persisted.
func NextBookingState(current, requested BookingState) (BookingState, error) {
	for _, allowed := range bookingTransitions[current] {
		if allowed == requested {
			return requested, nil
		}
	}
	return current, &apperrors.InvalidTransitionError{From: string(current), To: string(requested)}
}

// IsInitialBookingState reports whether a booking may be created in state s.
func IsInitialBookingState(s BookingState) bool {
	return s == BookingStateDraft || s == BookingStatePending
}

// Booking represents a scheduled lesson between an instructor and a customer
type Booking struct {
	ID              string          `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	InstructorID    string          `json:"instructor_id" gorm:"column:instructor_id;type:varchar(64);not null;index"`
	CustomerRef     string          `json:"customer_ref" gorm:"column:customer_ref;type:varchar(255);not null"`
	StartAt         time.Time       `json:"start_at" gorm:"column:start_at;not null"`
	EndAt           time.Time       `json:"end_at" gorm:"column:end_at;not null"`
	State           BookingState    `json:"state" gorm:"column:state;type:varchar(20);not null"`
	Price           decimal.Decimal `json:"price" gorm:"column:price;type:decimal(12,2);not null;default:0"`
	Currency        string          `json:"currency" gorm:"column:currency;type:varchar(3);not null;default:'USD'"`
	CalendarEventID *string         `json:"calendar_event_id,omitempty" gorm:"column:calendar_event_id;type:varchar(255)"`
	PaymentRef      *string         `json:"payment_ref,omitempty" gorm:"column:payment_ref;type:varchar(255)"`
	ConversationID  *string         `json:"conversation_id,omitempty" gorm:"column:conversation_id;type:varchar(64);index"`
	CreatedAt       time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BookingFields are the caller-supplied attributes of a booking created from a confirmation.
type BookingFields struct {
	CustomerRef     string          `json:"customer_ref"`
	StartAt         time.Time       `json:"start_at"`
	EndAt           time.Time       `json:"end_at"`
	State           BookingState    `json:"state,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency,omitempty"`
	CalendarEventID *string         `json:"calendar_event_id,omitempty"`
	PaymentRef      *string         `json:"payment_ref,omitempty"`
	ConversationID  *string         `json:"conversation_id,omitempty"`
}

// Validate checks the fields and applies defaults for state and currency.
func (f *BookingFields) Validate() error {
	if strings.TrimSpace(f.CustomerRef) == "" {
		return &apperrors.ErrValidation{Field: "customer_ref", Message: "is required"}
	}
	if f.StartAt.IsZero() || f.EndAt.IsZero() {
		return &apperrors.ErrValidation{Field: "start_at", Message: "start_at and end_at are required"}
	}
	if !f.StartAt.Before(f.EndAt) {
		return &apperrors.ErrValidation{Field: "start_at", Message: "must be before end_at"}
	}
	if f.Price.IsNegative() {
		return &apperrors.ErrValidation{Field: "price", Message: "cannot be negative"}
	}
	if f.State == "" {
		f.State = BookingStatePending
	}
	if !IsInitialBookingState(f.State) {
		return &apperrors.ErrValidation{Field: "state", Message: "bookings are created in draft or pending"}
	}
	if f.Currency == "" {
		f.Currency = "USD"
	}
	return nil
}

// NewBooking builds an unsaved booking owned by instructorID. Fields must be validated.
func (f *BookingFields) NewBooking(instructorID string) *Booking {
	return &Booking{
		InstructorID:    instructorID,
		CustomerRef:     f.CustomerRef,
		StartAt:         f.StartAt.UTC(),
		EndAt:           f.EndAt.UTC(),
		State:           f.State,
		Price:           f.Price,
		Currency:        strings.ToUpper(f.Currency),
		CalendarEventID: f.CalendarEventID,
		PaymentRef:      f.PaymentRef,
		ConversationID:  f.ConversationID,
	}
}

// BookingAuditEntry is an immutable record of one booking state change
type BookingAuditEntry struct {
	ID            string        `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	BookingID     string        `json:"booking_id" gorm:"column:booking_id;type:varchar(64);not null;index"`
	PreviousState *BookingState `json:"previous_state" gorm:"column:previous_state;type:varchar(20)"`
	NewState      BookingState  `json:"new_state" gorm:"column:new_state;type:varchar(20);not null"`
	Actor         ActorType     `json:"actor" gorm:"column:actor;type:varchar(10);not null"`
	ActorID       *string       `json:"actor_id,omitempty" gorm:"column:actor_id;type:varchar(64)"`
	Reason        *string       `json:"reason,omitempty" gorm:"column:reason;type:text"`
	CreatedAt     time.Time     `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (BookingAuditEntry) TableName() string { return "booking_audit" }

func (e *BookingAuditEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// StateChanged reports whether the entry moved the booking to a different state.
func (e *BookingAuditEntry) StateChanged() bool {
	return e.PreviousState == nil || *e.PreviousState != e.NewState
}

// LifecycleEventType classifies entries of a booking's reconstructed history
type LifecycleEventType string

const (
	LifecycleBookingCreated   LifecycleEventType = "booking_created"
	LifecycleStatusTransition LifecycleEventType = "status_transition"
	LifecycleManualOverride   LifecycleEventType = "manual_override"
)

// LifecycleEvent is one entry in the causal timeline of a booking
type LifecycleEvent struct {
	Type      LifecycleEventType `json:"type"`
	At        time.Time          `json:"at"`
	FromState *BookingState      `json:"from_state,omitempty"`
	ToState   BookingState       `json:"to_state"`
	Actor     ActorType          `json:"actor,omitempty"`
	ActorID   *string            `json:"actor_id,omitempty"`
	Reason    *string            `json:"reason,omitempty"`
}
