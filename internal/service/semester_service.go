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

// ErrSemesterNotFound indicates the requested semester does not exist.
var ErrSemesterNotFound = errors.New("semester not found")

// ErrSemesterNameTaken indicates a semester with the same name already exists.
var ErrSemesterNameTaken = errors.New("semester name already exists")

// ErrSemesterInUse indicates the semester is referenced by courses, quizzes,
// announcements or enrolled students and cannot be deleted.
var ErrSemesterInUse = errors.New("semester is still referenced")

// SemesterService exposes semester administration use cases.
type SemesterService interface {
	List(ctx context.Context) ([]dto.SemesterResponse, error)
	Create(ctx context.Context, payload dto.SemesterCreateRequest) (dto.SemesterResponse, error)
	Update(ctx context.Context, id uint, payload dto.SemesterUpdateRequest) (dto.SemesterResponse, error)
	Delete(ctx context.Context, id uint) error
}

type semesterService struct {
	semesters     repository.SemesterRepository
	courses       repository.CourseRepository
	quizzes       repository.QuizRepository
	announcements repository.AnnouncementRepository
	users         repository.UserRepository
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewSemesterService builds a new semester service.
func NewSemesterService(semesters repository.SemesterRepository, courses repository.CourseRepository, quizzes repository.QuizRepository, announcements repository.AnnouncementRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) SemesterService {
	return &semesterService{
		semesters:     semesters,
		courses:       courses,
		quizzes:       quizzes,
		announcements: announcements,
		users:         users,
		validator:     validate,
		logger:        logger.With().Str("component", "semester_service").Logger(),
	}
}

func (s *semesterService) List(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.semesters.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewSemesterResponseSlice(semesters), nil
}

func (s *semesterService) Create(ctx context.Context, payload dto.SemesterCreateRequest) (dto.SemesterResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SemesterResponse{}, err
	}

	semester := models.Semester{Name: payload.Name}
	if err := s.semesters.Create(ctx, &semester); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SemesterResponse{}, ErrSemesterNameTaken
		}
		return dto.SemesterResponse{}, err
	}

	s.logger.Info().Uint("semester_id", semester.ID).Str("name", semester.Name).Msg("semester created")

	return dto.NewSemesterResponse(semester), nil
}

func (s *semesterService) Update(ctx context.Context, id uint, payload dto.SemesterUpdateRequest) (dto.SemesterResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SemesterResponse{}, err
	}

	semester, err := s.semesters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SemesterResponse{}, ErrSemesterNotFound
		}
		return dto.SemesterResponse{}, err
	}

	semester.Name = payload.Name
	if err := s.semesters.Update(ctx, &semester); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SemesterResponse{}, ErrSemesterNameTaken
		}
		return dto.SemesterResponse{}, err
	}

	s.logger.Info().Uint("semester_id", semester.ID).Msg("semester updated")

	return dto.NewSemesterResponse(semester), nil
}

// Delete refuses to remove a semester that anything still references, so no
// dangling course, quiz, announcement or enrollment is ever left behind.
func (s *semesterService) Delete(ctx context.Context, id uint) error {
	if _, err := s.semesters.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		return err
	}

	referenced, err := s.referenceCount(ctx, id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return ErrSemesterInUse
	}

	if err := s.semesters.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		return err
	}

	s.logger.Info().Uint("semester_id", id).Msg("semester deleted")
	return nil
}

func (s *semesterService) referenceCount(ctx context.Context, id uint) (int64, error) {
	counters := []func(context.Context, uint) (int64, error){
		s.courses.CountBySemester,
		s.quizzes.CountBySemester,
		s.announcements.CountBySemester,
		s.users.CountStudentsBySemester,
	}

	var total int64
	for _, count := range counters {
		n, err := count(ctx, id)
		if err != nil {
			return 0, err
		}
		total += n
	}

	return total, nil
}
