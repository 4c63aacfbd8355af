package models

import (
	"time"
)

// Rank labels, derived from level. The step table lives in the service
// layer (progression.go); these are the canonical label strings.
const (
	RankNovice           = "Novice"
	RankBeginnerVerifier = "Beginner Verifier"
	RankAdvancedVerifier = "Advanced Verifier"
	RankSeniorVerifier   = "Senior Verifier"
	RankExpertVerifier   = "Expert Verifier"
	RankMasterVerifier   = "Master Verifier"
	RankSupremeMaster    = "Supreme Master"
	RankLegendaryMaster  = "Legendary Master"
)

// GameProfile is the per-user aggregate of points, level, rank and streak
// counters. Level and rank are derived from TotalPoints and rewritten on
// every point award; the profile is created lazily on first access and
// never deleted.
type GameProfile struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	UserID             uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPoints        int        `gorm:"not null;default:0" json:"total_points"`
	Level              int        `gorm:"not null;default:1" json:"level"`
	Rank               string     `gorm:"not null;default:'Novice'" json:"rank"`
	ConsecutiveDays    int        `gorm:"not null;default:0" json:"consecutive_days"`
	VerificationStreak int        `gorm:"not null;default:0" json:"verification_streak"`
	TotalVerifications int        `gorm:"not null;default:0" json:"total_verifications"`
	LastActive         *time.Time `json:"last_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (GameProfile) TableName() string {
	return "game_profiles"
}
