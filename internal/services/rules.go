package services

import (
	"github.com/tropicaldog17/lessondesk/internal/models"
)

// MinClassifierConfidence is the confidence below which automation stays out of a conversation.
const MinClassifierConfidence = 0.6

// EligibilityReason explains an eligibility verdict
type EligibilityReason string

const (
	EligibilityAIDisabled    EligibilityReason = "ai_disabled"
	EligibilityLowConfidence EligibilityReason = "low_confidence"
	EligibilityRequiresHuman EligibilityReason = "requires_human"
	EligibilityBookingRisk   EligibilityReason = "booking_risk"
	EligibilityPolicyBlock   EligibilityReason = "policy_block"
	EligibilityOK            EligibilityReason = "ok"
)

// EscalationReason explains an escalation verdict
type EscalationReason string

const (
	EscalationExplicitRequest   EscalationReason = "explicit_request"
	EscalationLowConfidence     EscalationReason = "low_confidence"
	EscalationNegativeSentiment EscalationReason = "negative_sentiment"
	EscalationBookingRisk       EscalationReason = "booking_risk"
	EscalationNone              EscalationReason = "none"
)

// Blocker tags shown to operators
const (
	BlockerLowConfidence     = "low_confidence"
	BlockerExplicitRequest   = "explicit_request"
	BlockerNegativeSentiment = "negative_sentiment"
	BlockerBookingRisk       = "booking_risk"
	BlockerPolicyBlock       = "policy_block"
	BlockerAIDisabled        = "ai_disabled"
)

// Signals is everything the evaluators know about a conversation at evaluation time.
type Signals struct {
	Channel           string
	AutomationEnabled bool
	ChannelAllowed    bool
	// Inbound is the latest inbound message, nil if there is none.
	Inbound *models.Message
	// Booking is the conversation's linked booking, nil if there is none.
	Booking *models.Booking
}

// Rule pairs a predicate with the reason reported when it holds.
type Rule[R ~string] struct {
	Reason  R
	Applies func(s *Signals) bool
}

// FirstMatch returns the reason of the first applicable rule, or fallback.
func FirstMatch[R ~string](rules []Rule[R], s *Signals, fallback R) (R, bool) {
	for _, r := range rules {
		if r.Applies(s) {
			return r.Reason, true
		}
	}
	return fallback, false
}

// AllMatches returns the reasons of every applicable rule in priority order.
func AllMatches[R ~string](rules []Rule[R], s *Signals) []R {
	var out []R
	for _, r := range rules {
		if r.Applies(s) {
			out = append(out, r.Reason)
		}
	}
	return out
}

// A missing message or missing confidence counts as low.
func lowConfidence(s *Signals) bool {
	if s.Inbound == nil {
		return true
	}
	c := s.Inbound.ClassifierConfidence()
	return c == nil || !(*c >= MinClassifierConfidence)
}

func bookingAtRisk(s *Signals) bool {
	return s.Booking != nil && s.Booking.State != models.BookingStateDraft
}

// EligibilityRules are checked in order; the first match makes the conversation ineligible.
var EligibilityRules = []Rule[EligibilityReason]{
	{Reason: EligibilityAIDisabled, Applies: func(s *Signals) bool { return !s.AutomationEnabled }},
	{Reason: EligibilityLowConfidence, Applies: lowConfidence},
	{Reason: EligibilityRequiresHuman, Applies: func(s *Signals) bool {
		return s.Inbound != nil && s.Inbound.EscalationFlagged()
	}},
	{Reason: EligibilityBookingRisk, Applies: bookingAtRisk},
	{Reason: EligibilityPolicyBlock, Applies: func(s *Signals) bool { return !s.ChannelAllowed }},
}

// EscalationRules are checked in order; the first match requires a human.
var EscalationRules = []Rule[EscalationReason]{
	{Reason: EscalationExplicitRequest, Applies: func(s *Signals) bool {
		return s.Inbound != nil && s.Inbound.RequestsHuman()
	}},
	{Reason: EscalationLowConfidence, Applies: lowConfidence},
	{Reason: EscalationNegativeSentiment, Applies: func(s *Signals) bool {
		return s.Inbound != nil && s.Inbound.NegativeSentiment()
	}},
	{Reason: EscalationBookingRisk, Applies: bookingAtRisk},
}

var eligibilityBlockers = map[EligibilityReason]string{
	EligibilityAIDisabled:    BlockerAIDisabled,
	EligibilityLowConfidence: BlockerLowConfidence,
	EligibilityRequiresHuman: BlockerExplicitRequest,
	EligibilityBookingRisk:   BlockerBookingRisk,
	EligibilityPolicyBlock:   BlockerPolicyBlock,
}

var blockerOrder = []string{
	BlockerAIDisabled,
	BlockerExplicitRequest,
	BlockerLowConfidence,
	BlockerNegativeSentiment,
	BlockerBookingRisk,
	BlockerPolicyBlock,
}

// Blockers collects the tags of every eligibility and escalation rule that holds for s,
// de-duplicated and in a fixed order.
func Blockers(s *Signals) []string {
	seen := make(map[string]bool)
	for _, r := range AllMatches(EligibilityRules, s) {
		seen[eligibilityBlockers[r]] = true
	}
	for _, r := range AllMatches(EscalationRules, s) {
		seen[string(r)] = true
	}
	out := make([]string, 0, len(seen))
	for _, tag := range blockerOrder {
		if seen[tag] {
			out = append(out, tag)
		}
	}
	return out
}
