package models

import (
	"time"
)

// Leaderboard periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodTotal   = "total"
)

// ValidPeriod reports whether the given string names a leaderboard period.
func ValidPeriod(period string) bool {
	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodTotal:
		return true
	}
	return false
}

// LeaderboardEntry is one user's score within a period bucket. Rank is a
// 1-based position by descending score, rewritten for the whole bucket
// whenever any member's score changes.
type LeaderboardEntry struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Period      string    `gorm:"not null;index" json:"period"`
	PeriodStart time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null" json:"period_end"`
	Score       int       `gorm:"not null;default:0" json:"score"`
	Rank        int       `gorm:"not null;default:0" json:"rank"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

// LeaderboardRow is a leaderboard entry joined with user display fields.
type LeaderboardRow struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"user_id"`
	Period   string `json:"period"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// UserPosition is a user's own leaderboard entry plus percentile context.
type UserPosition struct {
	UserID       uint   `json:"user_id"`
	Period       string `json:"period"`
	Score        int    `json:"score"`
	Rank         int    `json:"rank"`
	TotalPlayers int64  `json:"total_players"`
	Percentile   int    `json:"percentile"`
}
