package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"researchhub/internal/model"
)

// ActivityRepository defines persistence for user activity logs.
type ActivityRepository interface {
	CreateSearchLog(ctx context.Context, log *model.SearchLog) error
	CreatePaperInteraction(ctx context.Context, interaction *model.PaperInteraction) error
	AddTimeSpent(ctx context.Context, interactionID uint, seconds int) error
	CreateTeamActivity(ctx context.Context, activity *model.TeamActivity) error

	SearchLogsSince(ctx context.Context, userID uint, since time.Time) ([]model.SearchLog, error)
	PaperInteractionsSince(ctx context.Context, userID uint, since time.Time) ([]model.PaperInteraction, error)
	TeamActivitiesSince(ctx context.Context, userID uint, since time.Time, limit int) ([]model.TeamActivity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) CreateSearchLog(ctx context.Context, log *model.SearchLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *activityRepository) CreatePaperInteraction(ctx context.Context, interaction *model.PaperInteraction) error {
	return r.db.WithContext(ctx).Create(interaction).Error
}

func (r *activityRepository) AddTimeSpent(ctx context.Context, interactionID uint, seconds int) error {
	return r.db.WithContext(ctx).Model(&model.PaperInteraction{}).
		Where("id = ?", interactionID).
		Update("time_spent", gorm.Expr("time_spent + ?", seconds)).Error
}

func (r *activityRepository) CreateTeamActivity(ctx context.Context, activity *model.TeamActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) SearchLogsSince(ctx context.Context, userID uint, since time.Time) ([]model.SearchLog, error) {
	var logs []model.SearchLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *activityRepository) PaperInteractionsSince(ctx context.Context, userID uint, since time.Time) ([]model.PaperInteraction, error) {
	var interactions []model.PaperInteraction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

func (r *activityRepository) TeamActivitiesSince(ctx context.Context, userID uint, since time.Time, limit int) ([]model.TeamActivity, error) {
	var activities []model.TeamActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
