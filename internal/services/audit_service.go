package services

import (
	"context"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

type auditService struct {
	repo repositories.AuditLogRepository
}

func NewAuditService(repo repositories.AuditLogRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context, entityType, entityID string) ([]*models.AuditLogEntry, error) {
	if entityType == "" || entityID == "" {
		return nil, &apperrors.ErrValidation{Field: "entity", Message: "entity_type and entity_id are required"}
	}
	return s.repo.ListByEntity(ctx, entityType, entityID)
}
