package models

import "time"

// Role enumerates the access levels a user account can hold.
type Role string

const (
	// RoleStudent can enroll in a semester and submit quizzes.
	RoleStudent Role = "student"
	// RoleProfessor can author quizzes and announcements for assigned courses.
	RoleProfessor Role = "professor"
	// RoleManager administers users, courses and semesters.
	RoleManager Role = "manager"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleManager:
		return true
	}
	return false
}

// User represents an authenticated account. Students optionally carry a
// reference to their current semester; professors and managers never do.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:255;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:32;not null" json:"role"`
	SemesterID   *uint     `json:"semester_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsEnrolled reports whether the user currently belongs to a semester.
func (u User) IsEnrolled() bool {
	return u.SemesterID != nil && *u.SemesterID != 0
}
