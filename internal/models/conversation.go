package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AutomationState controls whether the drafting assistant may act in a conversation
type AutomationState string

const (
	AutomationOn             AutomationState = "ai_on"
	AutomationPausedByHuman  AutomationState = "ai_paused_by_human"
	AutomationSuggestionOnly AutomationState = "ai_suggestion_only"
)

func (s AutomationState) IsValid() bool {
	switch s {
	case AutomationOn, AutomationPausedByHuman, AutomationSuggestionOnly:
		return true
	}
	return false
}

// CanSuggest reports whether automation may produce drafts.
func CanSuggest(s AutomationState) bool {
	return s != AutomationPausedByHuman
}

// CanSend reports whether automation may send without a human.
func CanSend(s AutomationState) bool {
	return s == AutomationOn
}

// Conversation is a customer thread on one channel, owned by an instructor
type Conversation struct {
	ID              string          `json:"id" gorm:"primaryKey;column:id;type:varchar(64)"`
	InstructorID    string          `json:"instructor_id" gorm:"column:instructor_id;type:varchar(64);not null;index"`
	CustomerRef     string          `json:"customer_ref" gorm:"column:customer_ref;type:varchar(255);not null"`
	Channel         string          `json:"channel" gorm:"column:channel;type:varchar(32);not null"`
	AutomationState AutomationState `json:"automation_state" gorm:"column:automation_state;type:varchar(32)"`
	CreatedAt       time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Conversation) TableName() string { return "conversations" }

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// EffectiveAutomationState returns the stored state, defaulting to ai_on when unset.
func (c *Conversation) EffectiveAutomationState() AutomationState {
	if c.AutomationState == "" {
		return AutomationOn
	}
	return c.AutomationState
}
