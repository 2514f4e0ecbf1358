package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit log entity types
const (
	AuditEntityConversation     = "conversation"
	AuditEntityBooking          = "booking"
	AuditEntityDraft            = "draft"
	AuditEntityDecisionSnapshot = "decision_snapshot"
	AuditEntityQuota            = "channel_quota"
	AuditEntityKillSwitch       = "kill_switch"
)

// Audit log actions
const (
	AuditActionAutomationStateChanged = "automation_state_changed"
	AuditActionBookingCreated         = "booking_created"
	AuditActionBookingConfirmed       = "booking_confirmation_created"
	AuditActionSnapshotRecorded       = "decision_snapshot_recorded"
	AuditActionDraftCreated           = "draft_created"
	AuditActionDraftApproved          = "draft_approved_and_sent"
	AuditActionEscalationRequested    = "escalation_requested"
	AuditActionQuotaProvisioned       = "quota_provisioned"
	AuditActionKillSwitchChanged      = "kill_switch_changed"
)

// AuditLogEntry is a generic append-only record of a state-affecting action
type AuditLogEntry struct {
	ID         string         `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	EntityType string         `json:"entity_type" gorm:"column:entity_type;type:varchar(64);not null;index:idx_audit_entity,priority:1"`
	EntityID   string         `json:"entity_id" gorm:"column:entity_id;type:varchar(64);not null;index:idx_audit_entity,priority:2"`
	Action     string         `json:"action" gorm:"column:action;type:varchar(64);not null"`
	ActorType  ActorType      `json:"actor_type" gorm:"column:actor_type;type:varchar(10);not null"`
	ActorID    *string        `json:"actor_id,omitempty" gorm:"column:actor_id;type:varchar(64)"`
	Before     datatypes.JSON `json:"before,omitempty" gorm:"column:before"`
	After      datatypes.JSON `json:"after,omitempty" gorm:"column:after"`
	Reason     *string        `json:"reason,omitempty" gorm:"column:reason;type:text"`
	CreatedAt  time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (AuditLogEntry) TableName() string { return "audit_log" }

func (a *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// NewAuditLogEntry builds an entry, encoding before/after as JSON. Values that fail to
// encode are dropped rather than failing the audit write.
func NewAuditLogEntry(entityType, entityID, action string, actor ActorType, actorID, reason *string, before, after any) *AuditLogEntry {
	return &AuditLogEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorType:  actor,
		ActorID:    actorID,
		Before:     toJSON(before),
		After:      toJSON(after),
		Reason:     reason,
	}
}

func toJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// ChannelQuota counts automation-authored sends per channel per UTC day
type ChannelQuota struct {
	ID         string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	Channel    string    `json:"channel" gorm:"column:channel;type:varchar(32);not null;uniqueIndex:ux_channel_quotas_channel_day,priority:1"`
	Day        string    `json:"day" gorm:"column:day;type:varchar(10);not null;uniqueIndex:ux_channel_quotas_channel_day,priority:2"`
	DailyLimit int       `json:"daily_limit" gorm:"column:daily_limit;not null"`
	Used       int       `json:"used" gorm:"column:used;not null;default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ChannelQuota) TableName() string { return "channel_quotas" }

func (q *ChannelQuota) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// QuotaDay formats t as the UTC day key used by channel quotas.
func QuotaDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ConfirmationAudit binds an instructor's confirmation request id to the booking it created
type ConfirmationAudit struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	InstructorID string    `json:"instructor_id" gorm:"column:instructor_id;type:varchar(64);not null;uniqueIndex:ux_confirmation_audit_request,priority:1"`
	RequestID    string    `json:"request_id" gorm:"column:request_id;type:varchar(128);not null;uniqueIndex:ux_confirmation_audit_request,priority:2"`
	BookingID    string    `json:"booking_id" gorm:"column:booking_id;type:varchar(64);not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ConfirmationAudit) TableName() string { return "confirmation_audit" }

func (c *ConfirmationAudit) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
