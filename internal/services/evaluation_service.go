package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tropicaldog17/lessondesk/internal/flags"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

// signalLoader reads the conversation context both evaluators run against.
type signalLoader struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	bookings      BookingService
	killSwitch    flags.Store
	allowed       map[string]bool
}

func newSignalLoader(conversations repositories.ConversationRepository, messages repositories.MessageRepository, bookings BookingService, killSwitch flags.Store, allowedChannels []string) *signalLoader {
	allowed := make(map[string]bool, len(allowedChannels))
	for _, c := range allowedChannels {
		allowed[strings.ToLower(strings.TrimSpace(c))] = true
	}
	return &signalLoader{
		conversations: conversations,
		messages:      messages,
		bookings:      bookings,
		killSwitch:    killSwitch,
		allowed:       allowed,
	}
}

// load gathers the signals for a conversation. The kill-switch is only consulted when
// withKillSwitch is set; a store error is returned rather than read as enabled.
func (l *signalLoader) load(ctx context.Context, conversationID string, withKillSwitch bool) (*Signals, error) {
	conv, err := l.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	channel := strings.ToLower(conv.Channel)
	s := &Signals{Channel: channel, ChannelAllowed: l.allowed[channel]}

	if withKillSwitch {
		enabled, err := l.killSwitch.Enabled(ctx, channel)
		if err != nil {
			return nil, fmt.Errorf("failed to read kill-switch for %s: %w", channel, err)
		}
		s.AutomationEnabled = enabled
	}

	if s.Inbound, err = l.messages.LatestInbound(ctx, conv.ID); err != nil {
		return nil, err
	}
	if s.Booking, err = l.bookings.GetForConversation(ctx, conv.ID); err != nil {
		return nil, err
	}
	return s, nil
}

type eligibilityService struct {
	loader *signalLoader
	logger *zap.Logger
}

// NewEligibilityService creates the automation response eligibility evaluator
func NewEligibilityService(conversations repositories.ConversationRepository, messages repositories.MessageRepository, bookings BookingService, killSwitch flags.Store, allowedChannels []string, logger *zap.Logger) EligibilityService {
	return &eligibilityService{
		loader: newSignalLoader(conversations, messages, bookings, killSwitch, allowedChannels),
		logger: logger,
	}
}

func (s *eligibilityService) Evaluate(ctx context.Context, conversationID string) (*Eligibility, error) {
	signals, err := s.loader.load(ctx, conversationID, true)
	if err != nil {
		return nil, err
	}
	verdict := evaluateEligibility(conversationID, signals)
	s.logger.Debug("eligibility evaluated",
		zap.String("conversation_id", conversationID),
		zap.Bool("eligible", verdict.Eligible),
		zap.String("reason", string(verdict.Reason)))
	return verdict, nil
}

func evaluateEligibility(conversationID string, s *Signals) *Eligibility {
	reason, blocked := FirstMatch(EligibilityRules, s, EligibilityOK)
	return &Eligibility{ConversationID: conversationID, Eligible: !blocked, Reason: reason}
}

type escalationService struct {
	loader *signalLoader
	logger *zap.Logger
}

// NewEscalationService creates the escalation classifier
func NewEscalationService(conversations repositories.ConversationRepository, messages repositories.MessageRepository, bookings BookingService, logger *zap.Logger) EscalationService {
	return &escalationService{
		loader: newSignalLoader(conversations, messages, bookings, nil, nil),
		logger: logger,
	}
}

func (s *escalationService) Classify(ctx context.Context, conversationID string) (*Escalation, error) {
	signals, err := s.loader.load(ctx, conversationID, false)
	if err != nil {
		return nil, err
	}
	verdict := classifyEscalation(conversationID, signals)
	s.logger.Debug("escalation classified",
		zap.String("conversation_id", conversationID),
		zap.Bool("requires_human", verdict.RequiresHuman),
		zap.String("reason", string(verdict.Reason)))
	return verdict, nil
}

func classifyEscalation(conversationID string, s *Signals) *Escalation {
	reason, required := FirstMatch(EscalationRules, s, EscalationNone)
	return &Escalation{ConversationID: conversationID, RequiresHuman: required, Reason: reason}
}
