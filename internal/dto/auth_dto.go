package dto

import (
	"time"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// RegisterRequest describes the payload for creating an account. Role and
// CourseIDs are honored only when a manager performs the registration;
// anonymous self-registration always yields a student.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"omitempty,oneof=student professor manager"`
	SemesterID uint   `json:"semester_id" validate:"omitempty"`
	CourseIDs  []uint `json:"course_ids" validate:"omitempty,dive,required"`
}

// LoginRequest describes the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token being exchanged or revoked.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// EnrollRequest assigns the calling student to a semester.
type EnrollRequest struct {
	SemesterID uint `json:"semester_id" validate:"required"`
}

// UserResponse is the serialized account representation.
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	SemesterID *uint     `json:"semester_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoginResponse bundles the issued tokens with the account summary.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// RefreshResponse carries a freshly minted access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:         model.ID,
		Username:   model.Username,
		Email:      model.Email,
		Role:       string(model.Role),
		SemesterID: model.SemesterID,
		CreatedAt:  model.CreatedAt,
	}
}
