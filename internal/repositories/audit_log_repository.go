package repositories

import (
	"context"
	"fmt"

	"github.com/tropicaldog17/lessondesk/internal/db"
	"github.com/tropicaldog17/lessondesk/internal/models"
)

// auditLogRepository only ever inserts and reads; entries are never updated or deleted.
type auditLogRepository struct {
	db *db.DB
}

func NewAuditLogRepository(database *db.DB) AuditLogRepository {
	return &auditLogRepository{db: database}
}

func (r *auditLogRepository) Append(ctx context.Context, e *models.AuditLogEntry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*models.AuditLogEntry, error) {
	var list []*models.AuditLogEntry
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	return list, nil
}
