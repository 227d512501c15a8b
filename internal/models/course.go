package models

import "time"

// Course belongs to one semester and is taught by one or more professors.
type Course struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	SemesterID uint      `gorm:"not null" json:"semester_id"`
	Professors []User    `gorm:"many2many:course_professors" json:"professors,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasProfessor reports whether the given user id appears in the professor set.
func (c Course) HasProfessor(userID uint) bool {
	for _, p := range c.Professors {
		if p.ID == userID {
			return true
		}
	}
	return false
}
