package models

import (
	"time"
)

// Document is the certified document being verified. Creation and content
// are owned by the main platform; this service only resolves verification
// codes and records verifications.
type Document struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Title            string    `gorm:"not null" json:"title"`
	VerificationCode string    `gorm:"uniqueIndex;not null" json:"verification_code"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// DocumentVerification records a successful verification of a document by
// a user. A document is verifiable at most once.
type DocumentVerification struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	DocumentID uint      `gorm:"not null;index" json:"document_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Verified   bool      `gorm:"not null;default:true" json:"verified"`
	VerifiedAt time.Time `gorm:"not null" json:"verified_at"`
}

// TableName specifies the table name for GORM
func (DocumentVerification) TableName() string {
	return "document_verifications"
}

// VerificationResult is returned to the client after a successful
// verification.
type VerificationResult struct {
	ID            uint      `json:"id"`
	Code          string    `json:"code"`
	DocumentID    uint      `json:"document_id"`
	DocumentTitle string    `json:"document_title"`
	Verified      bool      `json:"verified"`
	VerifiedAt    time.Time `json:"verified_at"`
	PointsEarned  int       `json:"points_earned"`
}

// DayCount is one day's verification count for the stats endpoint.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DocumentCount is a per-document verification count for the stats endpoint.
type DocumentCount struct {
	DocumentID uint   `json:"document_id"`
	Title      string `json:"title"`
	Count      int64  `json:"count"`
}

// VerificationStats aggregates verification activity for dashboards.
type VerificationStats struct {
	TotalVerifications    int64           `json:"total_verifications"`
	VerificationsByDay    []DayCount      `json:"verifications_by_day"`
	MostVerifiedDocuments []DocumentCount `json:"most_verified_documents"`
}
