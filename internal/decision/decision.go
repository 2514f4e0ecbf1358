// Package decision maps classifier confidence scores to drafting and escalation
// permissions. Every function here is pure and total: unknown inputs fail closed.
package decision

import "time"

// Decision is the confidence engine's verdict for one inbound message
type Decision string

const (
	Ignore           Decision = "IGNORE"
	EscalateOnly     Decision = "ESCALATE_ONLY"
	DraftAndEscalate Decision = "DRAFT_AND_ESCALATE"
	DraftOnly        Decision = "DRAFT_ONLY"
)

// Reason explains which threshold produced a Decision
type Reason string

const (
	LowRelevance     Reason = "LOW_RELEVANCE"
	LowIntent        Reason = "LOW_INTENT"
	MediumConfidence Reason = "MEDIUM_CONFIDENCE"
	HighConfidence   Reason = "HIGH_CONFIDENCE"
)

const (
	RelevanceMin          = 0.70
	IntentMinDraft        = 0.75
	IntentMinNoEscalation = 0.85
)

// Decide evaluates the threshold matrix top to bottom. NaN never satisfies a
// ">= threshold" check, so NaN scores land in the most conservative bucket reached.
func Decide(relevance, intent float64) (Decision, Reason) {
	switch {
	case !(relevance >= RelevanceMin):
		return Ignore, LowRelevance
	case !(intent >= IntentMinDraft):
		return EscalateOnly, LowIntent
	case !(intent >= IntentMinNoEscalation):
		return DraftAndEscalate, MediumConfidence
	default:
		return DraftOnly, HighConfidence
	}
}

// Permissions are the operational consequences of a Decision
type Permissions struct {
	AllowDraft        bool `json:"allow_draft"`
	RequireEscalation bool `json:"require_escalation"`
}

// Gate maps a decision to permissions. Unrecognized decisions get IGNORE's permissions.
func Gate(d Decision) Permissions {
	switch d {
	case EscalateOnly:
		return Permissions{AllowDraft: false, RequireEscalation: true}
	case DraftAndEscalate:
		return Permissions{AllowDraft: true, RequireEscalation: true}
	case DraftOnly:
		return Permissions{AllowDraft: true, RequireEscalation: false}
	default:
		return Permissions{}
	}
}

// Snapshot is the decision taken for one inbound message.
type Snapshot struct {
	ID                  string    `json:"id"`
	MessageID           string    `json:"message_id"`
	RelevanceConfidence float64   `json:"relevance_confidence"`
	IntentConfidence    float64   `json:"intent_confidence"`
	Decision            Decision  `json:"decision"`
	Reason              Reason    `json:"reason"`
	TakenAt             time.Time `json:"taken_at"`
}

// NewSnapshot runs Decide and captures its inputs. Missing scores count as zero.
func NewSnapshot(id, messageID string, relevance, intent *float64, at time.Time) Snapshot {
	r, i := valueOrZero(relevance), valueOrZero(intent)
	d, reason := Decide(r, i)
	return Snapshot{
		ID:                  id,
		MessageID:           messageID,
		RelevanceConfidence: r,
		IntentConfidence:    i,
		Decision:            d,
		Reason:              reason,
		TakenAt:             at,
	}
}

func valueOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
