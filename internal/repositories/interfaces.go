package repositories

import (
	"context"
	"time"

	"github.com/tropicaldog17/lessondesk/internal/models"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetLatestByConversation returns nil when no booking is linked to the conversation.
	GetLatestByConversation(ctx context.Context, conversationID string) (*models.Booking, error)
	// TransitionState moves the booking from -> to only if it is still in from, and appends
	// entry in the same transaction.
	TransitionState(ctx context.Context, id string, from, to models.BookingState, entry *models.BookingAuditEntry) error
	AppendAudit(ctx context.Context, entry *models.BookingAuditEntry) error
	ListAudit(ctx context.Context, bookingID string) ([]*models.BookingAuditEntry, error)
}

// ConversationRepository defines the interface for conversation data operations
type ConversationRepository interface {
	Create(ctx context.Context, c *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	// SetAutomationState writes the new state and its audit log entry atomically and
	// returns the state it replaced.
	SetAutomationState(ctx context.Context, id string, next models.AutomationState, actor models.ActorType, actorID, reason *string) (models.AutomationState, error)
}

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	// LatestInbound returns nil when the conversation has no inbound message.
	LatestInbound(ctx context.Context, conversationID string) (*models.Message, error)
}

// AuditLogRepository defines the interface for the append-only audit log
type AuditLogRepository interface {
	Append(ctx context.Context, e *models.AuditLogEntry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*models.AuditLogEntry, error)
}

// SendResult is what SendApproved committed.
type SendResult struct {
	Draft     *models.MessageDraft
	Message   *models.Message
	BookingID *string
}

// DraftRepository defines the interface for automation drafts
type DraftRepository interface {
	// InsertOnce stores d unless a draft already exists for d.MessageID, in which case the
	// existing draft is returned. The bool reports whether d was inserted.
	InsertOnce(ctx context.Context, d *models.MessageDraft) (*models.MessageDraft, bool, error)
	GetByMessageID(ctx context.Context, messageID string) (*models.MessageDraft, error)
	LatestForConversation(ctx context.Context, conversationID string) (*models.MessageDraft, error)
	SendApproved(ctx context.Context, conversationID, approvedBy string, now time.Time) (*SendResult, error)
}

// QuotaRepository defines the interface for per-channel daily quotas
type QuotaRepository interface {
	Provision(ctx context.Context, channel, day string, limit int) (*models.ChannelQuota, error)
	Get(ctx context.Context, channel, day string) (*models.ChannelQuota, error)
}

// ConfirmationRepository defines the interface for idempotent booking confirmations
type ConfirmationRepository interface {
	FindBookingID(ctx context.Context, instructorID, requestID string) (string, bool, error)
	// CreateOnce inserts b and its confirmation record in one transaction unless the
	// (instructorID, requestID) pair was already used. It returns the booking id bound to
	// the pair and whether it was a replay.
	CreateOnce(ctx context.Context, instructorID, requestID string, b *models.Booking) (string, bool, error)
}
