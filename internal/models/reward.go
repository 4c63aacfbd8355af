package models

import (
	"time"
)

// Claim statuses.
const (
	ClaimStatusPending   = "pending"
	ClaimStatusProcessed = "processed"
	ClaimStatusDelivered = "delivered"
	ClaimStatusExpired   = "expired"
)

// Reward is a catalog entry redeemable against a point balance. A reward
// with a fixed Code hands that code out on every claim; otherwise a code
// is generated per claim.
type Reward struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	RewardType     string    `gorm:"not null" json:"reward_type"`
	Value          int       `json:"value"`
	RequiredPoints int       `gorm:"not null" json:"required_points"`
	Code           string    `json:"code,omitempty"`
	IsActive       bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Reward) TableName() string {
	return "gamification_rewards"
}

// RewardAvailability is a reward annotated with whether the requesting
// user can claim it right now.
type RewardAvailability struct {
	Reward
	CanClaim     bool `json:"can_claim"`
	PointsNeeded int  `json:"points_needed"`
}

// ClaimedReward records a user's redemption of a reward. At most one claim
// per (user, reward) pair; point sufficiency is checked at claim time only.
type ClaimedReward struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ReferenceID    string    `gorm:"uniqueIndex;not null" json:"reference_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_user_reward" json:"user_id"`
	RewardID       uint      `gorm:"not null;uniqueIndex:idx_user_reward" json:"reward_id"`
	Status         string    `gorm:"not null;default:'pending'" json:"status"`
	RedemptionCode string    `gorm:"not null" json:"redemption_code"`
	ExpiresAt      time.Time `gorm:"not null" json:"expires_at"`
	ClaimedAt      time.Time `gorm:"autoCreateTime" json:"claimed_at"`

	Reward Reward `gorm:"foreignKey:RewardID" json:"reward"`
}

// TableName specifies the table name for GORM
func (ClaimedReward) TableName() string {
	return "user_claimed_rewards"
}
