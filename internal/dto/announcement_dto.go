package dto

import (
	"time"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// AnnouncementCreateRequest describes the payload for creating an announcement.
type AnnouncementCreateRequest struct {
	Title      string `json:"title" validate:"required,min=2"`
	Content    string `json:"content" validate:"required"`
	SemesterID uint   `json:"semester_id" validate:"required"`
}

// AnnouncementUpdateRequest describes the payload for partially updating an
// announcement.
type AnnouncementUpdateRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=2"`
	Content    *string `json:"content" validate:"omitempty"`
	SemesterID *uint   `json:"semester_id" validate:"omitempty"`
}

// AnnouncementListParams are the optional narrowing filters for announcement
// listings. Mine takes precedence over SemesterID, which takes precedence
// over AuthorID for professors; managers may combine semester and author.
type AnnouncementListParams struct {
	Mine       bool `query:"mine"`
	SemesterID uint `query:"semester_id"`
	AuthorID   uint `query:"author_id"`
}

// AnnouncementResponse is the serialized announcement representation.
type AnnouncementResponse struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   uint      `json:"author_id"`
	SemesterID uint      `json:"semester_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewAnnouncementResponse converts a model into a DTO.
func NewAnnouncementResponse(model models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:         model.ID,
		Title:      model.Title,
		Content:    model.Content,
		AuthorID:   model.AuthorID,
		SemesterID: model.SemesterID,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewAnnouncementResponseSlice converts a slice of models into DTOs.
func NewAnnouncementResponseSlice(announcements []models.Announcement) []AnnouncementResponse {
	responses := make([]AnnouncementResponse, 0, len(announcements))
	for _, announcement := range announcements {
		responses = append(responses, NewAnnouncementResponse(announcement))
	}

	return responses
}
