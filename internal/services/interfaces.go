package services

import (
	"context"
	"time"

	"github.com/tropicaldog17/lessondesk/internal/decision"
	"github.com/tropicaldog17/lessondesk/internal/models"
)

// Clock returns the current time; services take one so tests can pin it.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// BookingService defines booking reads and state changes. Every read resolves expiry first.
type BookingService interface {
	Create(ctx context.Context, instructorID string, fields *models.BookingFields, actor models.ActorType, actorID string) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	GetOwned(ctx context.Context, id, instructorID string) (*models.Booking, error)
	// GetForConversation returns nil when no booking is linked to the conversation.
	GetForConversation(ctx context.Context, conversationID string) (*models.Booking, error)
	Transition(ctx context.Context, id string, requested models.BookingState, actor models.ActorType, actorID, reason *string) (*models.Booking, error)
	Lifecycle(ctx context.Context, id string) ([]*models.LifecycleEvent, error)
}

// AutomationPermissions are the derived predicates for a conversation's automation state
type AutomationPermissions struct {
	State      models.AutomationState `json:"automation_state"`
	CanSuggest bool                   `json:"can_suggest"`
	CanSend    bool                   `json:"can_send"`
}

// AutomationService defines the per-conversation automation state machine
type AutomationService interface {
	State(ctx context.Context, conversationID string) (models.AutomationState, error)
	SetState(ctx context.Context, conversationID string, next models.AutomationState, actor models.ActorType, actorID, reason *string) (models.AutomationState, error)
	Permissions(ctx context.Context, conversationID string) (*AutomationPermissions, error)
}

// Eligibility is the verdict on whether automation may respond in a conversation
type Eligibility struct {
	ConversationID string            `json:"conversation_id"`
	Eligible       bool              `json:"eligible"`
	Reason         EligibilityReason `json:"reason"`
}

// EligibilityService evaluates automation response eligibility
type EligibilityService interface {
	Evaluate(ctx context.Context, conversationID string) (*Eligibility, error)
}

// Escalation is the verdict on whether a human must take over a conversation
type Escalation struct {
	ConversationID string           `json:"conversation_id"`
	RequiresHuman  bool             `json:"requires_human"`
	Reason         EscalationReason `json:"reason"`
}

// EscalationService classifies whether a conversation needs a human
type EscalationService interface {
	Classify(ctx context.Context, conversationID string) (*Escalation, error)
}

// ConversationSnapshot combines every automation verdict for a conversation.
type ConversationSnapshot struct {
	ConversationID string                `json:"conversation_id"`
	Automation     AutomationPermissions `json:"automation"`
	Decision       *decision.Snapshot    `json:"decision,omitempty"`
	Gate           decision.Permissions  `json:"gate"`
	Explanation    decision.Explanation  `json:"explanation"`
	Eligibility    Eligibility           `json:"eligibility"`
	Escalation     Escalation            `json:"escalation"`
	Blockers       []string              `json:"blockers"`
}

// SnapshotService builds decision snapshots
type SnapshotService interface {
	// Build is read-only: the snapshot it returns is not written to the audit log.
	Build(ctx context.Context, conversationID string) (*ConversationSnapshot, error)
	// DecisionFor decides on one inbound message and records the snapshot in the audit log.
	DecisionFor(ctx context.Context, msg *models.Message) decision.Snapshot
}

// DraftProposal is the outcome of offering a draft for an inbound message
type DraftProposal struct {
	Draft       *models.MessageDraft `json:"draft"`
	Created     bool                 `json:"created"`
	Snapshot    decision.Snapshot    `json:"snapshot"`
	Permissions decision.Permissions `json:"permissions"`
}

// SentDraft describes the outbound message created from an approved draft
type SentDraft struct {
	MessageID string  `json:"message_id"`
	Text      string  `json:"text"`
	BookingID *string `json:"booking_id,omitempty"`
}

// DraftService manages automation-authored drafts
type DraftService interface {
	Propose(ctx context.Context, messageID, text, model string) (*DraftProposal, error)
	InsertOnce(ctx context.Context, messageID, snapshotID, text, model string) (*models.MessageDraft, bool, error)
	GetForConversation(ctx context.Context, conversationID string) (*models.MessageDraft, error)
	SendApproved(ctx context.Context, conversationID, approvedBy string) (*SentDraft, error)
}

// Confirmation is the result of an idempotent booking confirmation
type Confirmation struct {
	BookingID string `json:"booking_id"`
	Replayed  bool   `json:"replayed"`
}

// ConfirmationService creates bookings from human-confirmed suggestions exactly once per request id
type ConfirmationService interface {
	Confirm(ctx context.Context, instructorID, requestID string, fields *models.BookingFields) (*Confirmation, error)
}

// QuotaService provisions and reads per-channel daily quotas
type QuotaService interface {
	Provision(ctx context.Context, channel, day string, limit int, actorID string) (*models.ChannelQuota, error)
	Usage(ctx context.Context, channel, day string) (*models.ChannelQuota, error)
}

// InboundMessage is an inbound customer message with the classifier's outputs
type InboundMessage struct {
	Body                string   `json:"body"`
	RelevanceConfidence *float64 `json:"relevance_confidence"`
	IntentConfidence    *float64 `json:"intent_confidence"`
	IntentLabel         *string  `json:"intent_label"`
	Sentiment           *string  `json:"sentiment"`
	SentimentScore      *float64 `json:"sentiment_score"`
	EscalationRequired  *bool    `json:"escalation_required"`
}

// MessageService records conversations and inbound messages
type MessageService interface {
	StartConversation(ctx context.Context, c *models.Conversation) error
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	// GetOwnedConversation fails with ErrForbidden when the conversation belongs to another instructor.
	GetOwnedConversation(ctx context.Context, id, instructorID string) (*models.Conversation, error)
	RecordInbound(ctx context.Context, conversationID string, in *InboundMessage) (*models.Message, error)
}

// AuditService is the read-only view of the audit log
type AuditService interface {
	List(ctx context.Context, entityType, entityID string) ([]*models.AuditLogEntry, error)
}

// KillSwitchService reads and flips the per-channel automation kill-switch
type KillSwitchService interface {
	Enabled(ctx context.Context, channel string) (bool, error)
	SetEnabled(ctx context.Context, channel string, enabled bool, actorID string) error
}
