package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/model"
)

// ActivityRepository appends suggestion lifecycle events. The log is
// write-only from this system.
type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity log repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
