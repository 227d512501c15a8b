package models

import "time"

// RefreshToken is session state: each user holds at most one active refresh
// token, replaced on re-login and removed on logout.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Token     string    `gorm:"size:512;not null;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
