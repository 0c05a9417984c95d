package repository

import (
	"context"

	"gorm.io/gorm"

	"swarmfeedback/internal/model"
)

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity log repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return wrapError(r.db.WithContext(ctx).Create(entry).Error)
}

// FindByUser returns a user's entries newest first.
func (r *activityRepository) FindByUser(ctx context.Context, userID string) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order(newestFirst).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
