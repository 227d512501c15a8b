package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/repository"
)

// ErrEnrollmentForbidden indicates only students may enroll themselves.
var ErrEnrollmentForbidden = errors.New("only students can enroll in a semester")

// EnrollmentService assigns students to semesters. Re-enrolling simply moves
// the student to the new semester.
type EnrollmentService interface {
	Enroll(ctx context.Context, identity Identity, payload dto.EnrollRequest) (dto.UserResponse, error)
}

type enrollmentService struct {
	users     repository.UserRepository
	semesters repository.SemesterRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEnrollmentService builds a new enrollment service.
func NewEnrollmentService(users repository.UserRepository, semesters repository.SemesterRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		users:     users,
		semesters: semesters,
		validator: validate,
		logger:    logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, identity Identity, payload dto.EnrollRequest) (dto.UserResponse, error) {
	if identity.Role != models.RoleStudent {
		return dto.UserResponse{}, ErrEnrollmentForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.semesters.GetByID(ctx, payload.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrSemesterNotFound
		}
		return dto.UserResponse{}, err
	}

	if err := s.users.UpdateSemester(ctx, identity.UserID, payload.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", identity.UserID).Uint("semester_id", payload.SemesterID).Msg("student enrolled")
	return dto.NewUserResponse(user), nil
}
