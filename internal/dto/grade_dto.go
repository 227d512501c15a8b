package dto

import (
	"time"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// AnswerPayload is one submitted answer keyed by question text.
type AnswerPayload struct {
	QuestionText   string `json:"question_text" validate:"required"`
	SelectedOption string `json:"selected_option" validate:"required"`
}

// QuizSubmissionRequest describes a student's quiz submission. An empty
// answer list is rejected here at the transport boundary.
type QuizSubmissionRequest struct {
	QuizID  uint            `json:"quiz_id" validate:"required"`
	Answers []AnswerPayload `json:"answers" validate:"required,min=1,dive"`
}

// SubmittedAnswerResponse is one graded answer in submission order.
type SubmittedAnswerResponse struct {
	QuestionText   string `json:"question_text"`
	SelectedOption string `json:"selected_option"`
	IsCorrect      bool   `json:"is_correct"`
}

// GradeResponse is the serialized grade representation.
type GradeResponse struct {
	ID               uint                      `json:"id"`
	StudentID        uint                      `json:"student_id"`
	QuizID           uint                      `json:"quiz_id"`
	Score            int                       `json:"score"`
	TotalQuestions   int                       `json:"total_questions"`
	SubmittedAnswers []SubmittedAnswerResponse `json:"submitted_answers"`
	SubmittedAt      time.Time                 `json:"submitted_at"`
}

// NewGradeResponse converts a model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	answers := model.AnswerList()
	responses := make([]SubmittedAnswerResponse, 0, len(answers))
	for _, answer := range answers {
		responses = append(responses, SubmittedAnswerResponse{
			QuestionText:   answer.QuestionText,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      answer.IsCorrect,
		})
	}

	return GradeResponse{
		ID:               model.ID,
		StudentID:        model.StudentID,
		QuizID:           model.QuizID,
		Score:            model.Score,
		TotalQuestions:   model.TotalQuestions,
		SubmittedAnswers: responses,
		SubmittedAt:      model.SubmittedAt,
	}
}

// NewGradeResponseSlice converts a slice of models into DTOs.
func NewGradeResponseSlice(grades []models.Grade) []GradeResponse {
	responses := make([]GradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, NewGradeResponse(grade))
	}

	return responses
}
