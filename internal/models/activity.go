package models

import (
	"time"
)

// Activity types recorded in the ledger.
const (
	ActivityVerification       = "verification"
	ActivityChallengeCompleted = "challenge_completed"
	ActivityBadgeEarned        = "badge_earned"
	ActivityRewardClaimed      = "reward_claimed"
)

// Activity is one row of the append-only point ledger. Rows are never
// updated or deleted; leaderboard scores are aggregated from this table.
type Activity struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	ActivityType string    `gorm:"index;not null" json:"activity_type"`
	Description  string    `gorm:"not null" json:"description"`
	PointsEarned int       `gorm:"not null" json:"points_earned"`
	DocumentID   *uint     `gorm:"index" json:"document_id,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Activity) TableName() string {
	return "gamification_activities"
}
