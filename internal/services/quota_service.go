package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

type quotaService struct {
	repo   repositories.QuotaRepository
	audit  repositories.AuditLogRepository
	logger *zap.Logger
}

// NewQuotaService creates the channel quota service
func NewQuotaService(repo repositories.QuotaRepository, audit repositories.AuditLogRepository, logger *zap.Logger) QuotaService {
	return &quotaService{repo: repo, audit: audit, logger: logger}
}

func (s *quotaService) Provision(ctx context.Context, channel, day string, limit int, actorID string) (*models.ChannelQuota, error) {
	channel, day, err := normalizeQuotaKey(channel, day)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, &apperrors.ErrValidation{Field: "daily_limit", Message: "cannot be negative"}
	}
	q, err := s.repo.Provision(ctx, channel, day, limit)
	if err != nil {
		return nil, err
	}
	var who *string
	if actorID != "" {
		who = &actorID
	}
	entry := models.NewAuditLogEntry(models.AuditEntityQuota, channel+":"+day, models.AuditActionQuotaProvisioned, models.ActorHuman, who, nil, nil, q)
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("failed to audit quota provisioning", zap.String("channel", channel), zap.String("day", day), zap.Error(err))
	}
	return q, nil
}

func (s *quotaService) Usage(ctx context.Context, channel, day string) (*models.ChannelQuota, error) {
	channel, day, err := normalizeQuotaKey(channel, day)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, channel, day)
}

func normalizeQuotaKey(channel, day string) (string, string, error) {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		return "", "", &apperrors.ErrValidation{Field: "channel", Message: "is required"}
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return "", "", &apperrors.ErrValidation{Field: "day", Message: "must be YYYY-MM-DD"}
	}
	return channel, day, nil
}
