package repository

import (
	"context"
	"time"

	"cerfidoc-gamification/internal/models"
)

// AppendActivity inserts one ledger row. Rows are immutable once written.
func (r *PostgresRepository) AppendActivity(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// GetUserActivities returns the user's most recent ledger rows.
func (r *PostgresRepository) GetUserActivities(ctx context.Context, userID uint, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// SumPointsInWindow sums the user's earned points between start and end
// inclusive. Leaderboard period scores are computed from this.
func (r *PostgresRepository) SumPointsInWindow(ctx context.Context, userID uint, start, end time.Time) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("COALESCE(SUM(points_earned), 0)").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Scan(&total).Error
	return total, err
}
