package dto

import (
	"time"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// SemesterCreateRequest describes the payload for creating a semester.
type SemesterCreateRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// SemesterUpdateRequest describes the payload for renaming a semester.
type SemesterUpdateRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// SemesterResponse is the serialized semester representation.
type SemesterResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSemesterResponse converts a model into a DTO.
func NewSemesterResponse(model models.Semester) SemesterResponse {
	return SemesterResponse{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewSemesterResponseSlice converts a slice of models into DTOs.
func NewSemesterResponseSlice(semesters []models.Semester) []SemesterResponse {
	responses := make([]SemesterResponse, 0, len(semesters))
	for _, semester := range semesters {
		responses = append(responses, NewSemesterResponse(semester))
	}

	return responses
}
