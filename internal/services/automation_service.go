package services

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

type automationService struct {
	repo   repositories.ConversationRepository
	logger *zap.Logger
}

// NewAutomationService creates the conversation automation state machine
func NewAutomationService(repo repositories.ConversationRepository, logger *zap.Logger) AutomationService {
	return &automationService{repo: repo, logger: logger}
}

func (s *automationService) State(ctx context.Context, conversationID string) (models.AutomationState, error) {
	c, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return "", err
	}
	return c.EffectiveAutomationState(), nil
}

// SetState accepts any valid state from any other; callers gate on the derived predicates.
func (s *automationService) SetState(ctx context.Context, conversationID string, next models.AutomationState, actor models.ActorType, actorID, reason *string) (models.AutomationState, error) {
	if !next.IsValid() {
		return "", &apperrors.ErrValidation{Field: "automation_state", Message: "must be ai_on, ai_paused_by_human or ai_suggestion_only"}
	}
	if !actor.IsValid() {
		return "", &apperrors.ErrValidation{Field: "actor", Message: "unknown actor type"}
	}
	prev, err := s.repo.SetAutomationState(ctx, conversationID, next, actor, actorID, reason)
	if err != nil {
		return "", err
	}
	s.logger.Info("automation state changed",
		zap.String("conversation_id", conversationID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
		zap.String("actor", string(actor)))
	return prev, nil
}

func (s *automationService) Permissions(ctx context.Context, conversationID string) (*AutomationPermissions, error) {
	state, err := s.State(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &AutomationPermissions{
		State:      state,
		CanSuggest: models.CanSuggest(state),
		CanSend:    models.CanSend(state),
	}, nil
}
