package decision

// ExplanationKey is the stable vocabulary shown to UI and API consumers
type ExplanationKey string

const (
	ExplanationDecisionMissing    ExplanationKey = "DECISION_MISSING"
	ExplanationDecisionUnknown    ExplanationKey = "DECISION_UNKNOWN"
	ExplanationIgnoredLowRelevant ExplanationKey = "IGNORED_LOW_RELEVANCE"
	ExplanationEscalatedLowIntent ExplanationKey = "ESCALATED_LOW_INTENT"
	ExplanationDraftNeedsReview   ExplanationKey = "DRAFT_AVAILABLE_NEEDS_REVIEW"
	ExplanationDraftAvailable     ExplanationKey = "DRAFT_AVAILABLE"
)

// Explanation tells a caller what to display for a decision.
type Explanation struct {
	ShowDraftSection     bool           `json:"show_draft_section"`
	ShowEscalationBanner bool           `json:"show_escalation_banner"`
	Key                  ExplanationKey `json:"explanation_key"`
}

var explanationKeys = map[Decision]ExplanationKey{
	Ignore:           ExplanationIgnoredLowRelevant,
	EscalateOnly:     ExplanationEscalatedLowIntent,
	DraftAndEscalate: ExplanationDraftNeedsReview,
	DraftOnly:        ExplanationDraftAvailable,
}

// Resolve translates a (decision, reason) pair into display flags. It makes no decision
// of its own: the flags are exactly Gate's output.
func Resolve(d *Decision, r *Reason) Explanation {
	if d == nil || r == nil || *d == "" || *r == "" {
		return Explanation{Key: ExplanationDecisionMissing}
	}
	key, ok := explanationKeys[*d]
	if !ok {
		return Explanation{Key: ExplanationDecisionUnknown}
	}
	p := Gate(*d)
	return Explanation{
		ShowDraftSection:     p.AllowDraft,
		ShowEscalationBanner: p.RequireEscalation,
		Key:                  key,
	}
}
