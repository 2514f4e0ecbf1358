package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

type messageService struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	logger        *zap.Logger
	now           Clock
}

// NewMessageService creates the conversation and inbound message service
func NewMessageService(conversations repositories.ConversationRepository, messages repositories.MessageRepository, logger *zap.Logger, now Clock) MessageService {
	if now == nil {
		now = utcNow
	}
	return &messageService{conversations: conversations, messages: messages, logger: logger, now: now}
}

func (s *messageService) StartConversation(ctx context.Context, c *models.Conversation) error {
	if strings.TrimSpace(c.InstructorID) == "" {
		return &apperrors.ErrValidation{Field: "instructor_id", Message: "is required"}
	}
	if strings.TrimSpace(c.CustomerRef) == "" {
		return &apperrors.ErrValidation{Field: "customer_ref", Message: "is required"}
	}
	c.Channel = strings.ToLower(strings.TrimSpace(c.Channel))
	if c.Channel == "" {
		return &apperrors.ErrValidation{Field: "channel", Message: "is required"}
	}
	if c.AutomationState != "" && !c.AutomationState.IsValid() {
		return &apperrors.ErrValidation{Field: "automation_state", Message: "unknown automation state"}
	}
	return s.conversations.Create(ctx, c)
}

func (s *messageService) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	return s.conversations.GetByID(ctx, id)
}

func (s *messageService) GetOwnedConversation(ctx context.Context, id, instructorID string) (*models.Conversation, error) {
	c, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.InstructorID != instructorID {
		return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrForbidden, id)
	}
	return c, nil
}

// RecordInbound stores a customer message with the classifier outputs supplied by the caller.
func (s *messageService) RecordInbound(ctx context.Context, conversationID string, in *InboundMessage) (*models.Message, error) {
	if in == nil || strings.TrimSpace(in.Body) == "" {
		return nil, &apperrors.ErrValidation{Field: "body", Message: "is required"}
	}
	if err := checkUnit("relevance_confidence", in.RelevanceConfidence); err != nil {
		return nil, err
	}
	if err := checkUnit("intent_confidence", in.IntentConfidence); err != nil {
		return nil, err
	}
	if in.SentimentScore != nil && (*in.SentimentScore < -1 || *in.SentimentScore > 1) {
		return nil, &apperrors.ErrValidation{Field: "sentiment_score", Message: "must be within [-1, 1]"}
	}
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	m := &models.Message{
		ConversationID:      conv.ID,
		Direction:           models.MessageInbound,
		Channel:             conv.Channel,
		Body:                in.Body,
		Author:              models.ActorHuman,
		Status:              models.MessageStatusReceived,
		RelevanceConfidence: in.RelevanceConfidence,
		IntentConfidence:    in.IntentConfidence,
		IntentLabel:         in.IntentLabel,
		Sentiment:           in.Sentiment,
		SentimentScore:      in.SentimentScore,
		EscalationRequired:  in.EscalationRequired,
		CreatedAt:           s.now(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Debug("inbound message recorded", zap.String("conversation_id", conv.ID), zap.String("message_id", m.ID))
	return m, nil
}

func checkUnit(field string, v *float64) error {
	if v != nil && !(*v >= 0 && *v <= 1) {
		return &apperrors.ErrValidation{Field: field, Message: "must be within [0, 1]"}
	}
	return nil
}
