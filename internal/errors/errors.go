package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

var (
	ErrInvalidTransition    = stderrors.New("invalid booking state transition")
	ErrBookingNotFound      = stderrors.New("booking not found")
	ErrConversationNotFound = stderrors.New("conversation not found")
	ErrMessageNotFound      = stderrors.New("message not found")
	ErrDraftNotFound        = stderrors.New("draft not found")
	// ErrConfirmationConflict means the unique (instructor_id, request_id) guard fired but the
	// winning row could not be read back.
	ErrConfirmationConflict = stderrors.New("confirmation request conflict")
	// ErrQuotaRowMissing is fatal misconfiguration: quotas must be provisioned per channel and day.
	ErrQuotaRowMissing  = stderrors.New("channel quota row missing")
	ErrConcurrentUpdate = stderrors.New("booking was modified concurrently")
	ErrAutomationPaused = stderrors.New("automation is paused for this conversation")
	ErrDraftNotAllowed  = stderrors.New("decision does not allow drafting")
	ErrForbidden        = stderrors.New("forbidden")
)

// InvalidTransitionError carries the rejected (from, to) pair.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking state transition from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// QuotaMissingError identifies the channel/day that had no provisioned quota row.
type QuotaMissingError struct {
	Channel string
	Day     string
}

func (e *QuotaMissingError) Error() string {
	return fmt.Sprintf("no quota row for channel %s on %s", e.Channel, e.Day)
}

func (e *QuotaMissingError) Is(target error) bool {
	return target == ErrQuotaRowMissing
}
