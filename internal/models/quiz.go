package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question is a single multiple-choice question on a quiz. The correct answer
// must always be one of the options; that invariant is enforced on create and
// update, never assumed here.
type Question struct {
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Quiz is an assessment tied to one course and one semester, authored by the
// professor (or manager) recorded as creator. Questions are stored as a JSON
// column; the quiz has no lifecycle states beyond existing.
type Quiz struct {
	ID         uint                              `gorm:"primaryKey" json:"id"`
	Title      string                            `gorm:"size:255;not null" json:"title"`
	DueDate    time.Time                         `gorm:"not null" json:"due_date"`
	Questions  datatypes.JSONType[[]Question]    `gorm:"type:json" json:"questions"`
	CourseID   uint                              `gorm:"not null" json:"course_id"`
	SemesterID uint                              `gorm:"not null" json:"semester_id"`
	CreatorID  uint                              `gorm:"not null" json:"creator_id"`
	CreatedAt  time.Time                         `json:"created_at"`
	UpdatedAt  time.Time                         `json:"updated_at"`
}

// IsPastDue reports whether the submission deadline has already passed.
func (q Quiz) IsPastDue(reference time.Time) bool {
	return reference.After(q.DueDate)
}

// QuestionList returns the decoded question sequence.
func (q Quiz) QuestionList() []Question {
	return q.Questions.Data()
}
