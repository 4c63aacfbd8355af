package repository

import (
	"context"
	"time"

	"cerfidoc-gamification/internal/models"
)

// GetDocumentByCode resolves a verification code to its document, or
// gorm.ErrRecordNotFound for an unknown code.
func (r *PostgresRepository) GetDocumentByCode(ctx context.Context, code string) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Where("verification_code = ?", code).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// IsDocumentVerified reports whether the document already has a verified
// verification record.
func (r *PostgresRepository) IsDocumentVerified(ctx context.Context, documentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DocumentVerification{}).
		Where("document_id = ? AND verified = ?", documentID, true).
		Count(&count).Error
	return count > 0, err
}

// CreateVerification inserts a verification record.
func (r *PostgresRepository) CreateVerification(ctx context.Context, verification *models.DocumentVerification) error {
	return r.db.WithContext(ctx).Create(verification).Error
}

// CountVerifications returns the number of verifications, optionally
// filtered to one user.
func (r *PostgresRepository) CountVerifications(ctx context.Context, userID *uint) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.DocumentVerification{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// GetVerificationTimesSince returns the verification timestamps newer
// than the cutoff, optionally filtered to one user. The service groups
// them by calendar day.
func (r *PostgresRepository) GetVerificationTimesSince(ctx context.Context, userID *uint, since time.Time) ([]time.Time, error) {
	q := r.db.WithContext(ctx).
		Model(&models.DocumentVerification{}).
		Where("verified_at > ?", since).
		Order("verified_at ASC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var times []time.Time
	err := q.Pluck("verified_at", &times).Error
	return times, err
}

// GetMostVerifiedDocuments returns per-document verification counts,
// most verified first, optionally filtered to one user.
func (r *PostgresRepository) GetMostVerifiedDocuments(ctx context.Context, userID *uint, limit int) ([]models.DocumentCount, error) {
	q := r.db.WithContext(ctx).
		Model(&models.DocumentVerification{}).
		Select("document_verifications.document_id, documents.title, COUNT(*) as count").
		Joins("LEFT JOIN documents ON documents.id = document_verifications.document_id").
		Group("document_verifications.document_id, documents.title").
		Order("count DESC").
		Limit(limit)
	if userID != nil {
		q = q.Where("document_verifications.user_id = ?", *userID)
	}
	var counts []models.DocumentCount
	err := q.Scan(&counts).Error
	return counts, err
}

// CountDocuments returns the number of known documents.
func (r *PostgresRepository) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).Count(&count).Error
	return count, err
}

// CreateDocuments bulk-inserts documents (seeding).
func (r *PostgresRepository) CreateDocuments(ctx context.Context, docs []models.Document) error {
	return r.db.WithContext(ctx).Create(&docs).Error
}
