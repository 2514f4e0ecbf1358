package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tropicaldog17/lessondesk/internal/decision"
	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

type draftService struct {
	repo       repositories.DraftRepository
	messages   repositories.MessageRepository
	automation AutomationService
	bookings   BookingService
	snapshots  SnapshotService
	audit      repositories.AuditLogRepository
	logger     *zap.Logger
	now        Clock
}

// NewDraftService creates the draft lifecycle manager
func NewDraftService(
	repo repositories.DraftRepository,
	messages repositories.MessageRepository,
	automation AutomationService,
	bookings BookingService,
	snapshots SnapshotService,
	audit repositories.AuditLogRepository,
	logger *zap.Logger,
	now Clock,
) DraftService {
	if now == nil {
		now = utcNow
	}
	return &draftService{
		repo:       repo,
		messages:   messages,
		automation: automation,
		bookings:   bookings,
		snapshots:  snapshots,
		audit:      audit,
		logger:     logger,
		now:        now,
	}
}

// Propose decides on the inbound message and stores text as its draft when the gate allows.
// An escalation is recorded whenever the gate requires one, even if drafting is refused.
func (s *draftService) Propose(ctx context.Context, messageID, text, model string) (*DraftProposal, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &apperrors.ErrValidation{Field: "text", Message: "is required"}
	}
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Direction != models.MessageInbound {
		return nil, &apperrors.ErrValidation{Field: "message_id", Message: "drafts answer inbound messages only"}
	}
	state, err := s.automation.State(ctx, msg.ConversationID)
	if err != nil {
		return nil, err
	}
	if !models.CanSuggest(state) {
		return nil, fmt.Errorf("%w: conversation %s is %s", apperrors.ErrAutomationPaused, msg.ConversationID, state)
	}

	snap := s.snapshots.DecisionFor(ctx, msg)
	proposal := &DraftProposal{Snapshot: snap}
	proposal.Permissions = decision.Gate(snap.Decision)

	if proposal.Permissions.RequireEscalation {
		reason := string(snap.Reason)
		entry := models.NewAuditLogEntry(models.AuditEntityConversation, msg.ConversationID, models.AuditActionEscalationRequested, models.ActorSystem, nil, &reason, nil, snap)
		if err := s.audit.Append(ctx, entry); err != nil {
			s.logger.Error("failed to audit escalation", zap.String("conversation_id", msg.ConversationID), zap.Error(err))
		}
	}
	if !proposal.Permissions.AllowDraft {
		return proposal, fmt.Errorf("%w: decision %s", apperrors.ErrDraftNotAllowed, snap.Decision)
	}

	draft, created, err := s.insertOnce(ctx, msg, snap.ID, text, model)
	if err != nil {
		return nil, err
	}
	proposal.Draft = draft
	proposal.Created = created
	return proposal, nil
}

func (s *draftService) InsertOnce(ctx context.Context, messageID, snapshotID, text, model string) (*models.MessageDraft, bool, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, false, err
	}
	return s.insertOnce(ctx, msg, snapshotID, text, model)
}

func (s *draftService) insertOnce(ctx context.Context, msg *models.Message, snapshotID, text, model string) (*models.MessageDraft, bool, error) {
	d := &models.MessageDraft{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		SnapshotID:     snapshotID,
		Text:           text,
		Model:          model,
		CreatedAt:      s.now(),
	}
	draft, created, err := s.repo.InsertOnce(ctx, d)
	if err != nil {
		return nil, false, err
	}
	if !created {
		s.logger.Debug("draft already exists", zap.String("message_id", msg.ID), zap.String("draft_id", draft.ID))
		return draft, false, nil
	}
	entry := models.NewAuditLogEntry(models.AuditEntityDraft, draft.ID, models.AuditActionDraftCreated, models.ActorAI, nil, nil, nil, draft)
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("failed to audit draft creation", zap.String("draft_id", draft.ID), zap.Error(err))
	}
	return draft, true, nil
}

func (s *draftService) GetForConversation(ctx context.Context, conversationID string) (*models.MessageDraft, error) {
	return s.repo.LatestForConversation(ctx, conversationID)
}

// SendApproved commits the send as one unit. The follow-up audit entry is best effort.
func (s *draftService) SendApproved(ctx context.Context, conversationID, approvedBy string) (*SentDraft, error) {
	if strings.TrimSpace(approvedBy) == "" {
		return nil, &apperrors.ErrValidation{Field: "approved_by", Message: "is required"}
	}
	// Settle expiry first so the send is audited against the booking's effective state.
	if _, err := s.bookings.GetForConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	res, err := s.repo.SendApproved(ctx, conversationID, approvedBy, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Info("approved draft sent",
		zap.String("conversation_id", conversationID),
		zap.String("message_id", res.Message.ID),
		zap.String("approved_by", approvedBy))

	after := map[string]any{"message_id": res.Message.ID, "text": res.Message.Body}
	entry := models.NewAuditLogEntry(models.AuditEntityDraft, res.Draft.ID, models.AuditActionDraftApproved, models.ActorHuman, &approvedBy, nil, res.Draft, after)
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("failed to audit approved send",
			zap.String("draft_id", res.Draft.ID),
			zap.String("message_id", res.Message.ID),
			zap.Error(err))
	}
	return &SentDraft{MessageID: res.Message.ID, Text: res.Message.Body, BookingID: res.BookingID}, nil
}
