package dto

import (
	"time"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	ProfessorIDs []uint `json:"professor_ids" validate:"required,min=1,dive,required"`
	SemesterID   uint   `json:"semester_id" validate:"required"`
}

// CourseUpdateRequest describes the payload for partially updating a course.
type CourseUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2"`
	ProfessorIDs []uint  `json:"professor_ids" validate:"omitempty,min=1,dive,required"`
	SemesterID   *uint   `json:"semester_id" validate:"omitempty"`
}

// CourseListParams are the optional narrowing filters for course listings.
type CourseListParams struct {
	SemesterID uint `query:"semester_id"`
}

// CourseResponse is the serialized course representation.
type CourseResponse struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	SemesterID uint           `json:"semester_id"`
	Professors []UserResponse `json:"professors"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	professors := make([]UserResponse, 0, len(model.Professors))
	for _, professor := range model.Professors {
		professors = append(professors, NewUserResponse(professor))
	}

	return CourseResponse{
		ID:         model.ID,
		Name:       model.Name,
		SemesterID: model.SemesterID,
		Professors: professors,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
