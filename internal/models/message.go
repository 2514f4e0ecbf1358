package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageDirection string

const (
	MessageInbound  MessageDirection = "inbound"
	MessageOutbound MessageDirection = "outbound"
)

const (
	MessageStatusReceived = "received"
	// MessageStatusQueued marks outbound rows awaiting the delivery worker.
	MessageStatusQueued = "queued"
)

// IntentHumanRequest is the classifier label for "customer asked for a person".
const IntentHumanRequest = "human_request"

// Message is an inbound or outbound fact in a conversation. Inbound rows carry the
// classifier outputs computed upstream; this service never produces them.
type Message struct {
	ID                  string           `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	ConversationID      string           `json:"conversation_id" gorm:"column:conversation_id;type:varchar(64);not null;index:idx_messages_conversation,priority:1"`
	Direction           MessageDirection `json:"direction" gorm:"column:direction;type:varchar(10);not null"`
	Channel             string           `json:"channel" gorm:"column:channel;type:varchar(32);not null"`
	Body                string           `json:"body" gorm:"column:body;type:text;not null"`
	Author              ActorType        `json:"author" gorm:"column:author;type:varchar(10);not null"`
	ApprovedBy          *string          `json:"approved_by,omitempty" gorm:"column:approved_by;type:varchar(64)"`
	Status              string           `json:"status" gorm:"column:status;type:varchar(20);not null"`
	RelevanceConfidence *float64         `json:"relevance_confidence,omitempty" gorm:"column:relevance_confidence"`
	IntentConfidence    *float64         `json:"intent_confidence,omitempty" gorm:"column:intent_confidence"`
	IntentLabel         *string          `json:"intent_label,omitempty" gorm:"column:intent_label;type:varchar(64)"`
	Sentiment           *string          `json:"sentiment,omitempty" gorm:"column:sentiment;type:varchar(32)"`
	SentimentScore      *float64         `json:"sentiment_score,omitempty" gorm:"column:sentiment_score"`
	EscalationRequired  *bool            `json:"escalation_required,omitempty" gorm:"column:escalation_required"`
	CreatedAt           time.Time        `json:"created_at" gorm:"column:created_at;autoCreateTime;index:idx_messages_conversation,priority:2"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ClassifierConfidence is the confidence of the classifier's intent label.
func (m *Message) ClassifierConfidence() *float64 {
	return m.IntentConfidence
}

// RequestsHuman reports an explicit escalation flag or a human-request intent.
func (m *Message) RequestsHuman() bool {
	if m.EscalationRequired != nil && *m.EscalationRequired {
		return true
	}
	return m.IntentLabel != nil && strings.EqualFold(*m.IntentLabel, IntentHumanRequest)
}

// EscalationFlagged reports only the classifier's explicit escalation flag.
func (m *Message) EscalationFlagged() bool {
	return m.EscalationRequired != nil && *m.EscalationRequired
}

// NegativeSentiment reports a negative label or a score at or below -0.5.
func (m *Message) NegativeSentiment() bool {
	if m.Sentiment != nil && strings.EqualFold(*m.Sentiment, "negative") {
		return true
	}
	return m.SentimentScore != nil && *m.SentimentScore <= -0.5
}

// MessageDraft is an automation-authored reply awaiting human approval. There is at most
// one draft per inbound message.
type MessageDraft struct {
	ID             string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	MessageID      string    `json:"message_id" gorm:"column:message_id;type:varchar(64);not null;uniqueIndex:ux_message_drafts_message"`
	ConversationID string    `json:"conversation_id" gorm:"column:conversation_id;type:varchar(64);not null;index"`
	SnapshotID     string    `json:"snapshot_id" gorm:"column:snapshot_id;type:varchar(64);not null"`
	Text           string    `json:"text" gorm:"column:text;type:text;not null"`
	Model          string    `json:"model" gorm:"column:model;type:varchar(128);not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (MessageDraft) TableName() string { return "message_drafts" }

func (d *MessageDraft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
