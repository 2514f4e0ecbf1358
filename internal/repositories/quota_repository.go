package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tropicaldog17/lessondesk/internal/db"
	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
)

type quotaRepository struct {
	db *db.DB
}

func NewQuotaRepository(database *db.DB) QuotaRepository {
	return &quotaRepository{db: database}
}

// Provision creates the (channel, day) row or updates its limit, keeping the used count.
func (r *quotaRepository) Provision(ctx context.Context, channel, day string, limit int) (*models.ChannelQuota, error) {
	q := &models.ChannelQuota{Channel: channel, Day: day, DailyLimit: limit}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "channel"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"daily_limit": limit,
				"updated_at":  time.Now().UTC(),
			}),
		}).
		Create(q).Error
	if err != nil {
		return nil, fmt.Errorf("failed to provision quota: %w", err)
	}
	return r.Get(ctx, channel, day)
}

func (r *quotaRepository) Get(ctx context.Context, channel, day string) (*models.ChannelQuota, error) {
	var q models.ChannelQuota
	if err := r.db.WithContext(ctx).First(&q, "channel = ? AND day = ?", channel, day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.QuotaMissingError{Channel: channel, Day: day}
		}
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}
	return &q, nil
}
