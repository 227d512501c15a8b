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
	"github.com/noah-isme/academix-go-api/internal/scope"
)

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrInvalidProfessors indicates one or more professor ids are unknown or not
// professor accounts.
var ErrInvalidProfessors = errors.New("one or more professor ids are invalid")

// ErrCourseInUse indicates the course still has quizzes and cannot be deleted.
var ErrCourseInUse = errors.New("course is still referenced by quizzes")

// CourseService exposes course administration and listing use cases.
type CourseService interface {
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	List(ctx context.Context, identity Identity, params dto.CourseListParams) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id uint) error
}

type courseService struct {
	courses   repository.CourseRepository
	semesters repository.SemesterRepository
	quizzes   repository.QuizRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService builds a new course service.
func NewCourseService(courses repository.CourseRepository, semesters repository.SemesterRepository, quizzes repository.QuizRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		semesters: semesters,
		quizzes:   quizzes,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if _, err := s.semesters.GetByID(ctx, payload.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrSemesterNotFound
		}
		return dto.CourseResponse{}, err
	}

	if err := s.verifyProfessors(ctx, payload.ProfessorIDs); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Name:       payload.Name,
		SemesterID: payload.SemesterID,
		Professors: professorRefs(payload.ProfessorIDs),
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	created, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("name", course.Name).Msg("course created")

	return dto.NewCourseResponse(created), nil
}

func (s *courseService) List(ctx context.Context, identity Identity, params dto.CourseListParams) ([]dto.CourseResponse, error) {
	scopeParams := scope.CourseParams{SemesterID: params.SemesterID}

	var query scope.CourseQuery
	var err error
	switch identity.Role {
	case models.RoleStudent:
		student, lookupErr := s.studentScope(ctx, identity.UserID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		query, err = student.Courses(scopeParams)
	case models.RoleProfessor:
		query, err = scope.Professor{UserID: identity.UserID}.Courses(scopeParams)
	case models.RoleManager:
		query, err = scope.Manager{}.Courses(scopeParams)
	default:
		return nil, scope.ErrInvalidRole
	}
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.List(ctx, query)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Name != nil {
		course.Name = *payload.Name
	}

	if payload.SemesterID != nil {
		if _, err := s.semesters.GetByID(ctx, *payload.SemesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CourseResponse{}, ErrSemesterNotFound
			}
			return dto.CourseResponse{}, err
		}
		course.SemesterID = *payload.SemesterID
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	if payload.ProfessorIDs != nil {
		if err := s.verifyProfessors(ctx, payload.ProfessorIDs); err != nil {
			return dto.CourseResponse{}, err
		}
		if err := s.courses.ReplaceProfessors(ctx, &course, professorRefs(payload.ProfessorIDs)); err != nil {
			return dto.CourseResponse{}, err
		}
	}

	updated, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course updated")

	return dto.NewCourseResponse(updated), nil
}

// Delete refuses to remove a course that still has quizzes.
func (s *courseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.courses.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	quizCount, err := s.quizzes.CountByCourse(ctx, id)
	if err != nil {
		return err
	}
	if quizCount > 0 {
		return ErrCourseInUse
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.logger.Info().Uint("course_id", id).Msg("course deleted")
	return nil
}

func (s *courseService) verifyProfessors(ctx context.Context, ids []uint) error {
	count, err := s.users.CountByIDsWithRole(ctx, ids, models.RoleProfessor)
	if err != nil {
		return err
	}
	if count != int64(len(uniqueIDs(ids))) {
		return ErrInvalidProfessors
	}
	return nil
}

func (s *courseService) studentScope(ctx context.Context, userID uint) (scope.Student, error) {
	student, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return scope.Student{}, nil
		}
		return scope.Student{}, err
	}
	if !student.IsEnrolled() {
		return scope.Student{}, nil
	}
	return scope.Student{SemesterID: *student.SemesterID}, nil
}

func professorRefs(ids []uint) []models.User {
	refs := make([]models.User, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		refs = append(refs, models.User{ID: id})
	}
	return refs
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
