package repository

import (
	"context"
	"time"

	"cerfidoc-gamification/internal/models"
)

// GetLeaderboardEntry returns the user's entry for a period bucket, or
// gorm.ErrRecordNotFound if the user has no entry there yet.
func (r *PostgresRepository) GetLeaderboardEntry(ctx context.Context, userID uint, period string, start, end time.Time) (*models.LeaderboardEntry, error) {
	var entry models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND period = ? AND period_start BETWEEN ? AND ?", userID, period, start, end).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateLeaderboardEntry inserts a new bucket entry.
func (r *PostgresRepository) CreateLeaderboardEntry(ctx context.Context, entry *models.LeaderboardEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// UpdateLeaderboardScore rewrites one entry's score.
func (r *PostgresRepository) UpdateLeaderboardScore(ctx context.Context, entryID uint, score int) error {
	return r.db.WithContext(ctx).
		Model(&models.LeaderboardEntry{}).
		Where("id = ?", entryID).
		Update("score", score).Error
}

// GetPeriodEntries returns every entry in a period bucket ordered by
// descending score. Tie order between equal scores is whatever the
// database returns; it is only stable within a single recompute.
func (r *PostgresRepository) GetPeriodEntries(ctx context.Context, period string, start, end time.Time) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Where("period = ? AND period_start BETWEEN ? AND ?", period, start, end).
		Order("score DESC").
		Find(&entries).Error
	return entries, err
}

// UpdateEntryRank rewrites one entry's rank.
func (r *PostgresRepository) UpdateEntryRank(ctx context.Context, entryID uint, rank int) error {
	return r.db.WithContext(ctx).
		Model(&models.LeaderboardEntry{}).
		Where("id = ?", entryID).
		Update("rank", rank).Error
}

// GetLeaderboardRows returns the top entries of a period bucket joined
// with user display fields.
func (r *PostgresRepository) GetLeaderboardRows(ctx context.Context, period string, start, end time.Time, limit int) ([]models.LeaderboardRow, error) {
	var rows []models.LeaderboardRow
	err := r.db.WithContext(ctx).
		Model(&models.LeaderboardEntry{}).
		Select("leaderboard_entries.id, leaderboard_entries.user_id, leaderboard_entries.period, leaderboard_entries.score, leaderboard_entries.rank, users.username, users.full_name").
		Joins("INNER JOIN users ON users.id = leaderboard_entries.user_id").
		Where("leaderboard_entries.period = ? AND leaderboard_entries.period_start BETWEEN ? AND ?", period, start, end).
		Order("leaderboard_entries.score DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CountPeriodEntries returns the number of players in a period bucket.
func (r *PostgresRepository) CountPeriodEntries(ctx context.Context, period string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LeaderboardEntry{}).
		Where("period = ? AND period_start BETWEEN ? AND ?", period, start, end).
		Count(&count).Error
	return count, err
}
