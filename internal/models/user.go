package models

import (
	"time"
)

// User represents a platform user referenced by the gamification tables.
// Account lifecycle (registration, auth) is owned by the main platform;
// this service only reads display fields for leaderboard rows.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
