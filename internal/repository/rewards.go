package repository

import (
	"context"
	"time"

	"cerfidoc-gamification/internal/models"
)

// GetActiveRewards returns active catalog rewards, cheapest first.
func (r *PostgresRepository) GetActiveRewards(ctx context.Context) ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("required_points ASC").
		Find(&rewards).Error
	return rewards, err
}

// GetActiveReward returns one active reward by ID, or
// gorm.ErrRecordNotFound when the reward is missing or inactive.
func (r *PostgresRepository) GetActiveReward(ctx context.Context, rewardID uint) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", rewardID, true).
		First(&reward).Error
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// GetClaim returns the user's claim for a reward, or
// gorm.ErrRecordNotFound when the pair has not been claimed.
func (r *PostgresRepository) GetClaim(ctx context.Context, userID, rewardID uint) (*models.ClaimedReward, error) {
	var claim models.ClaimedReward
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND reward_id = ?", userID, rewardID).
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// CreateClaim inserts a claim record.
func (r *PostgresRepository) CreateClaim(ctx context.Context, claim *models.ClaimedReward) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

// GetUserClaims returns the user's claims, newest first, with rewards
// preloaded.
func (r *PostgresRepository) GetUserClaims(ctx context.Context, userID uint) ([]models.ClaimedReward, error) {
	var claims []models.ClaimedReward
	err := r.db.WithContext(ctx).
		Preload("Reward").
		Where("user_id = ?", userID).
		Order("claimed_at DESC").
		Find(&claims).Error
	return claims, err
}

// ExpireOverdueClaims flips pending claims whose grace period has lapsed
// to expired, returning how many rows changed.
func (r *PostgresRepository) ExpireOverdueClaims(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ClaimedReward{}).
		Where("status = ? AND expires_at < ?", models.ClaimStatusPending, now).
		Update("status", models.ClaimStatusExpired)
	return res.RowsAffected, res.Error
}

// CountRewards returns the size of the reward catalog.
func (r *PostgresRepository) CountRewards(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reward{}).Count(&count).Error
	return count, err
}

// CreateRewards bulk-inserts catalog entries (seeding).
func (r *PostgresRepository) CreateRewards(ctx context.Context, rewards []models.Reward) error {
	return r.db.WithContext(ctx).Create(&rewards).Error
}
