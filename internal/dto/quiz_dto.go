package dto

import (
	"time"

	"github.com/noah-isme/academix-go-api/internal/models"
)

const isoLayout = "2006-01-02T15:04:05Z07:00"

// QuestionPayload is one multiple-choice question as sent by quiz authors.
type QuestionPayload struct {
	Text          string   `json:"question_text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

// QuizCreateRequest describes the payload for creating a quiz.
type QuizCreateRequest struct {
	Title      string            `json:"title" validate:"required,min=3"`
	DueDate    string            `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Questions  []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
	CourseID   uint              `json:"course_id" validate:"required"`
	SemesterID uint              `json:"semester_id" validate:"required"`
}

// QuizUpdateRequest describes the payload for partially updating a quiz.
type QuizUpdateRequest struct {
	Title      *string           `json:"title" validate:"omitempty,min=3"`
	DueDate    *string           `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Questions  []QuestionPayload `json:"questions" validate:"omitempty,min=1,dive"`
	CourseID   *uint             `json:"course_id" validate:"omitempty"`
	SemesterID *uint             `json:"semester_id" validate:"omitempty"`
}

// QuizListParams are the optional narrowing filters for quiz listings.
type QuizListParams struct {
	SemesterID uint `query:"semester_id"`
	CourseID   uint `query:"course_id"`
}

// QuizResponse is the serialized quiz representation returned to API clients.
type QuizResponse struct {
	ID         uint              `json:"id"`
	Title      string            `json:"title"`
	DueDate    time.Time         `json:"due_date"`
	Questions  []QuestionPayload `json:"questions"`
	CourseID   uint              `json:"course_id"`
	SemesterID uint              `json:"semester_id"`
	CreatorID  uint              `json:"creator_id"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewQuizResponse converts a model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	questions := model.QuestionList()
	payloads := make([]QuestionPayload, 0, len(questions))
	for _, question := range questions {
		payloads = append(payloads, QuestionPayload{
			Text:          question.Text,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
		})
	}

	return QuizResponse{
		ID:         model.ID,
		Title:      model.Title,
		DueDate:    model.DueDate,
		Questions:  payloads,
		CourseID:   model.CourseID,
		SemesterID: model.SemesterID,
		CreatorID:  model.CreatorID,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewQuizResponseSlice converts a slice of models into DTOs.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, NewQuizResponse(quiz))
	}

	return responses
}

// ParseDueDate parses the transport representation into UTC.
func ParseDueDate(value string) (time.Time, error) {
	parsed, err := time.Parse(isoLayout, value)
	if err != nil {
		return time.Time{}, err
	}

	return parsed.UTC(), nil
}
