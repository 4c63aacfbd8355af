package repository

import (
	"context"
	"time"

	"cerfidoc-gamification/internal/models"
)

// GetOrCreateProfile returns the user's game profile, creating a zeroed
// level-1 profile on first access. Idempotent.
func (r *PostgresRepository) GetOrCreateProfile(ctx context.Context, userID uint) (*models.GameProfile, error) {
	var profile models.GameProfile
	err := r.db.WithContext(ctx).
		Where(models.GameProfile{UserID: userID}).
		Attrs(models.GameProfile{Level: 1, Rank: models.RankNovice}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfilePoints rewrites the derived point fields of a profile.
func (r *PostgresRepository) UpdateProfilePoints(ctx context.Context, userID uint, totalPoints, level int, rank string) error {
	return r.db.WithContext(ctx).
		Model(&models.GameProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_points": totalPoints,
			"level":        level,
			"rank":         rank,
		}).Error
}

// GetAllProfileScores returns username -> total points for every profile,
// used to prime the Redis mirror in bulk.
func (r *PostgresRepository) GetAllProfileScores(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Username    string
		TotalPoints int
	}
	err := r.db.WithContext(ctx).
		Model(&models.GameProfile{}).
		Select("users.username, game_profiles.total_points").
		Joins("JOIN users ON users.id = game_profiles.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scores := make(map[string]int, len(rows))
	for _, row := range rows {
		scores[row.Username] = row.TotalPoints
	}
	return scores, nil
}

// UpdateProfileStats rewrites the streak counters after a verification.
func (r *PostgresRepository) UpdateProfileStats(ctx context.Context, userID uint, totalVerifications, consecutiveDays, verificationStreak int, lastActive time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.GameProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_verifications": totalVerifications,
			"consecutive_days":    consecutiveDays,
			"verification_streak": verificationStreak,
			"last_active":         lastActive,
		}).Error
}
