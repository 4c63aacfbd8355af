package repository

import (
	"context"

	"cerfidoc-gamification/internal/models"

	"gorm.io/gorm"
)

// PostgresRepository handles all relational persistence for the
// gamification tables. Per-aggregate methods live in the sibling files
// (profiles.go, activities.go, challenges.go, badges.go, leaderboard.go,
// rewards.go, documents.go).
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a new Postgres repository
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// AutoMigrate runs database migrations for every gamification table.
func (r *PostgresRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.GameProfile{},
		&models.Activity{},
		&models.Challenge{},
		&models.ChallengeProgress{},
		&models.Badge{},
		&models.UserBadge{},
		&models.LeaderboardEntry{},
		&models.Reward{},
		&models.ClaimedReward{},
		&models.Document{},
		&models.DocumentVerification{},
	)
}

// Ping checks if database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
