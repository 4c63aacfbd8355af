package repository

import (
	"context"

	"cerfidoc-gamification/internal/models"
)

// GetAllBadges returns the full badge catalog in iteration order.
func (r *PostgresRepository) GetAllBadges(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.WithContext(ctx).Find(&badges).Error
	return badges, err
}

// GetUserBadges returns the user's grants, newest first, with badge
// definitions preloaded.
func (r *PostgresRepository) GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var grants []models.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&grants).Error
	return grants, err
}

// GrantBadge inserts a grant record. The (user, badge) unique index makes
// a duplicate grant fail rather than silently double-award.
func (r *PostgresRepository) GrantBadge(ctx context.Context, userID, badgeID uint) error {
	grant := models.UserBadge{
		UserID:  userID,
		BadgeID: badgeID,
	}
	return r.db.WithContext(ctx).Create(&grant).Error
}

// CountBadges returns the size of the badge catalog.
func (r *PostgresRepository) CountBadges(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Badge{}).Count(&count).Error
	return count, err
}

// CreateBadges bulk-inserts catalog entries (seeding).
func (r *PostgresRepository) CreateBadges(ctx context.Context, badges []models.Badge) error {
	return r.db.WithContext(ctx).Create(&badges).Error
}
