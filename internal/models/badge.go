package models

import (
	"time"
)

// Badge tiers, lowest to highest.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
	TierDiamond  = "diamond"
)

// Badge is a catalog entry granted once a profile reaches RequiredPoints.
type Badge struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"uniqueIndex;not null" json:"name"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url"`
	RequiredPoints int       `gorm:"not null" json:"required_points"`
	Tier           string    `gorm:"not null;default:'bronze'" json:"tier"`
	IsRare         bool      `gorm:"not null;default:false" json:"is_rare"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Badge) TableName() string {
	return "verification_badges"
}

// UserBadge records a badge grant. Grants are irreversible and unique per
// (user, badge) pair.
type UserBadge struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID  uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
}

// TableName specifies the table name for GORM
func (UserBadge) TableName() string {
	return "user_badges"
}
