package models

import (
	"time"

	"gorm.io/datatypes"
)

// Challenge is a catalog entry describing a repeatable goal. The
// RequiredActions tag set decides which action types advance progress.
type Challenge struct {
	ID               uint                         `gorm:"primarykey" json:"id"`
	Title            string                       `gorm:"not null" json:"title"`
	Description      string                       `json:"description"`
	Points           int                          `gorm:"not null" json:"points"`
	RequiredActions  datatypes.JSONSlice[string]  `json:"required_actions"`
	CompletionTarget int                          `gorm:"not null;default:1" json:"completion_target"`
	DifficultyLevel  int                          `gorm:"not null;default:1" json:"difficulty_level"`
	ImageURL         string                       `json:"image_url"`
	IsActive         bool                         `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt        time.Time                    `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Challenge) TableName() string {
	return "verification_challenges"
}

// RequiresAction reports whether the given action type advances this challenge.
func (c Challenge) RequiresAction(actionType string) bool {
	for _, a := range c.RequiredActions {
		if a == actionType {
			return true
		}
	}
	return false
}

// ChallengeProgress tracks one user's progress on one challenge. Once
// completed the row is frozen: further increments are no-ops.
type ChallengeProgress struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_progress_user_challenge" json:"user_id"`
	ChallengeID   uint       `gorm:"not null;uniqueIndex:idx_progress_user_challenge" json:"challenge_id"`
	Current       int        `gorm:"not null;default:0" json:"current"`
	IsCompleted   bool       `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at"`
	AwardedPoints *int       `json:"awarded_points"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Challenge Challenge `gorm:"foreignKey:ChallengeID" json:"challenge"`
}

// TableName specifies the table name for GORM
func (ChallengeProgress) TableName() string {
	return "user_challenge_progress"
}
