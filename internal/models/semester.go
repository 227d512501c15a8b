package models

import "time"

// Semester is a named academic term. Names are unique; the storage-level
// constraint backs the conflict check performed at creation.
type Semester struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
