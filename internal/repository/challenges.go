package repository

import (
	"context"

	"cerfidoc-gamification/internal/models"
)

// GetActiveChallenges returns the active challenge catalog.
func (r *PostgresRepository) GetActiveChallenges(ctx context.Context) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&challenges).Error
	return challenges, err
}

// GetChallengeProgress returns the user's progress row for one challenge,
// or gorm.ErrRecordNotFound if none exists yet.
func (r *PostgresRepository) GetChallengeProgress(ctx context.Context, userID, challengeID uint) (*models.ChallengeProgress, error) {
	var progress models.ChallengeProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// CreateChallengeProgress inserts a fresh progress row.
func (r *PostgresRepository) CreateChallengeProgress(ctx context.Context, progress *models.ChallengeProgress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

// SaveChallengeProgress persists the mutable fields of a progress row.
func (r *PostgresRepository) SaveChallengeProgress(ctx context.Context, progress *models.ChallengeProgress) error {
	return r.db.WithContext(ctx).
		Model(&models.ChallengeProgress{}).
		Where("id = ?", progress.ID).
		Updates(map[string]interface{}{
			"current":        progress.Current,
			"is_completed":   progress.IsCompleted,
			"completed_at":   progress.CompletedAt,
			"awarded_points": progress.AwardedPoints,
		}).Error
}

// GetUserChallengeProgress returns every progress row for the user with
// the challenge definitions preloaded.
func (r *PostgresRepository) GetUserChallengeProgress(ctx context.Context, userID uint) ([]models.ChallengeProgress, error) {
	var rows []models.ChallengeProgress
	err := r.db.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ?", userID).
		Find(&rows).Error
	return rows, err
}

// CountChallenges returns the size of the challenge catalog.
func (r *PostgresRepository) CountChallenges(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Challenge{}).Count(&count).Error
	return count, err
}

// CreateChallenges bulk-inserts catalog entries (seeding).
func (r *PostgresRepository) CreateChallenges(ctx context.Context, challenges []models.Challenge) error {
	return r.db.WithContext(ctx).Create(&challenges).Error
}
