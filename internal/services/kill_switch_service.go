package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/flags"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

type killSwitchService struct {
	store  flags.Store
	audit  repositories.AuditLogRepository
	logger *zap.Logger
}

// NewKillSwitchService wraps a flag store with audited writes
func NewKillSwitchService(store flags.Store, audit repositories.AuditLogRepository, logger *zap.Logger) KillSwitchService {
	return &killSwitchService{store: store, audit: audit, logger: logger}
}

func (s *killSwitchService) Enabled(ctx context.Context, channel string) (bool, error) {
	return s.store.Enabled(ctx, strings.ToLower(strings.TrimSpace(channel)))
}

func (s *killSwitchService) SetEnabled(ctx context.Context, channel string, enabled bool, actorID string) error {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		return &apperrors.ErrValidation{Field: "channel", Message: "is required"}
	}
	setter, ok := s.store.(flags.Setter)
	if !ok {
		return fmt.Errorf("kill-switch store %T is read-only", s.store)
	}
	before, err := s.store.Enabled(ctx, channel)
	if err != nil {
		return err
	}
	if err := setter.SetEnabled(ctx, channel, enabled); err != nil {
		return err
	}
	s.logger.Warn("automation kill-switch changed",
		zap.String("channel", channel),
		zap.Bool("enabled", enabled),
		zap.String("actor_id", actorID))

	var who *string
	if actorID != "" {
		who = &actorID
	}
	entry := models.NewAuditLogEntry(models.AuditEntityKillSwitch, channel, models.AuditActionKillSwitchChanged, models.ActorHuman, who, nil,
		map[string]bool{"enabled": before}, map[string]bool{"enabled": enabled})
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("failed to audit kill-switch change", zap.String("channel", channel), zap.Error(err))
	}
	return nil
}
