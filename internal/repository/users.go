package repository

import (
	"context"

	"cerfidoc-gamification/internal/models"
)

// GetUserByID returns one user row, or gorm.ErrRecordNotFound.
func (r *PostgresRepository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUsers bulk-inserts users (seeding).
func (r *PostgresRepository) CreateUsers(ctx context.Context, users []models.User) error {
	return r.db.WithContext(ctx).Create(&users).Error
}

// CountUsers returns the number of known users.
func (r *PostgresRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
