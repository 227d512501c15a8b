package models

import "time"

// Announcement is a message authored by a professor or manager for one
// semester. Students only ever see announcements of their own semester.
type Announcement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	SemesterID uint      `gorm:"not null" json:"semester_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
