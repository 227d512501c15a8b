package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmittedAnswer records one answer as it was submitted, together with the
// correctness verdict computed at grading time.
type SubmittedAnswer struct {
	QuestionText   string `json:"question_text"`
	SelectedOption string `json:"selected_option"`
	IsCorrect      bool   `json:"is_correct"`
}

// Grade is the immutable result of one quiz submission. The composite unique
// index on (student_id, quiz_id) is the authority for the one-submission-per-
// student rule; the application-level existence check is only a fast path.
// TotalQuestions snapshots the quiz's question count at submission time and
// never changes when the quiz is later edited.
type Grade struct {
	ID               uint                                  `gorm:"primaryKey" json:"id"`
	StudentID        uint                                  `gorm:"not null;uniqueIndex:idx_grades_student_quiz" json:"student_id"`
	QuizID           uint                                  `gorm:"not null;uniqueIndex:idx_grades_student_quiz" json:"quiz_id"`
	Score            int                                   `gorm:"not null" json:"score"`
	TotalQuestions   int                                   `gorm:"not null" json:"total_questions"`
	SubmittedAnswers datatypes.JSONType[[]SubmittedAnswer] `gorm:"type:json" json:"submitted_answers"`
	SubmittedAt      time.Time                             `gorm:"not null" json:"submitted_at"`
	CreatedAt        time.Time                             `json:"created_at"`
	UpdatedAt        time.Time                             `json:"updated_at"`
}

// AnswerList returns the decoded submitted-answer sequence in submission order.
func (g Grade) AnswerList() []SubmittedAnswer {
	return g.SubmittedAnswers.Data()
}
