package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tropicaldog17/lessondesk/internal/decision"
	"github.com/tropicaldog17/lessondesk/internal/flags"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

type snapshotService struct {
	automation AutomationService
	loader     *signalLoader
	audit      repositories.AuditLogRepository
	logger     *zap.Logger
	now        Clock
}

// NewSnapshotService creates the snapshot builder
func NewSnapshotService(
	automation AutomationService,
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	bookings BookingService,
	killSwitch flags.Store,
	allowedChannels []string,
	audit repositories.AuditLogRepository,
	logger *zap.Logger,
	now Clock,
) SnapshotService {
	if now == nil {
		now = utcNow
	}
	return &snapshotService{
		automation: automation,
		loader:     newSignalLoader(conversations, messages, bookings, killSwitch, allowedChannels),
		audit:      audit,
		logger:     logger,
		now:        now,
	}
}

func (s *snapshotService) Build(ctx context.Context, conversationID string) (*ConversationSnapshot, error) {
	perms, err := s.automation.Permissions(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	signals, err := s.loader.load(ctx, conversationID, true)
	if err != nil {
		return nil, err
	}

	out := &ConversationSnapshot{
		ConversationID: conversationID,
		Automation:     *perms,
		Eligibility:    *evaluateEligibility(conversationID, signals),
		Escalation:     *classifyEscalation(conversationID, signals),
		Blockers:       Blockers(signals),
	}
	if signals.Inbound == nil {
		out.Explanation = decision.Resolve(nil, nil)
		return out, nil
	}
	// Reads are not audited; only DecisionFor records.
	snap := s.decide(signals.Inbound)
	out.Decision = &snap
	out.Gate = decision.Gate(snap.Decision)
	out.Explanation = decision.Resolve(&snap.Decision, &snap.Reason)
	return out, nil
}

func (s *snapshotService) decide(msg *models.Message) decision.Snapshot {
	return decision.NewSnapshot(uuid.NewString(), msg.ID, msg.RelevanceConfidence, msg.IntentConfidence, s.now())
}

func (s *snapshotService) DecisionFor(ctx context.Context, msg *models.Message) decision.Snapshot {
	snap := s.decide(msg)
	entry := models.NewAuditLogEntry(models.AuditEntityDecisionSnapshot, snap.ID, models.AuditActionSnapshotRecorded, models.ActorSystem, nil, nil, nil, snap)
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("failed to record decision snapshot",
			zap.String("snapshot_id", snap.ID),
			zap.String("message_id", msg.ID),
			zap.Error(err))
	}
	return snap
}
